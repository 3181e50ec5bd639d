// Package xmltree parses XML into a normalized in-memory tree and locates
// bibliographic records inside documents whose root schema is not fixed.
package xmltree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Node is one element in the normalized tree. Element and attribute names
// are lowercased at parse time so lookups are case-insensitive; EndNote-era
// exporters disagree about tag casing.
type Node struct {
	Name     string
	Attrs    map[string]string
	Text     string // direct character data, whitespace-trimmed
	Children []*Node

	// segs keeps text runs and child elements interleaved in document
	// order, so FullText preserves mixed content like "A <b>x</b> of y".
	segs []seg
}

type seg struct {
	text  string
	child *Node
}

// Parse decodes an XML document into a Node tree rooted at the document
// element. Decoding is charset-tolerant (a declared non-UTF-8 encoding is
// honored), but malformed XML is a hard failure.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: strings.ToLower(t.Name.Local)}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[strings.ToLower(a.Name.Local)] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("parsing XML: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
				parent.segs = append(parent.segs, seg{child: n})
			}
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parsing XML: unbalanced end tag </%s>", t.Name.Local)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				text := strings.TrimSpace(string(t))
				if text != "" {
					top := stack[len(stack)-1]
					if top.Text != "" {
						top.Text += " "
					}
					top.Text += text
					top.segs = append(top.segs, seg{text: text})
				}
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("parsing XML: no root element")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("parsing XML: unclosed element <%s>", stack[len(stack)-1].Name)
	}
	return root, nil
}

// Attr returns the value of a named attribute, or "".
func (n *Node) Attr(name string) string {
	return n.Attrs[strings.ToLower(name)]
}

// Child returns the first direct child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	name = strings.ToLower(name)
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children with the given name.
func (n *Node) ChildrenNamed(name string) []*Node {
	name = strings.ToLower(name)
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first descendant (depth-first, the node itself included)
// with the given name, or nil.
func (n *Node) Find(name string) *Node {
	name = strings.ToLower(name)
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant (the node itself included) with the
// given name, in document order.
func (n *Node) FindAll(name string) []*Node {
	name = strings.ToLower(name)
	var out []*Node
	n.walk(func(m *Node) {
		if m.Name == name {
			out = append(out, m)
		}
	})
	return out
}

// FullText returns the concatenated character data of the whole subtree,
// in document order, joined with single spaces. Mixed content keeps its
// original interleaving: text before, between, and after child elements
// stays in place.
func (n *Node) FullText() string {
	var parts []string
	n.appendText(&parts)
	return strings.Join(parts, " ")
}

func (n *Node) appendText(parts *[]string) {
	for _, s := range n.segs {
		if s.child != nil {
			s.child.appendText(parts)
		} else {
			*parts = append(*parts, s.text)
		}
	}
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}
