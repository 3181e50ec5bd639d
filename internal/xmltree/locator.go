package xmltree

import (
	"fmt"
	"sort"
	"strings"
)

// recordPattern is one candidate interpretation of where the repeated
// record elements live. Patterns are tried in order; the first one that
// yields at least one node wins outright, with no merging across patterns.
type recordPattern struct {
	name string
	find func(root *Node) []*Node
}

var recordPatterns = []recordPattern{
	{
		// EndNote export shape: <xml><records><record>...</record></records></xml>
		name: "records/record",
		find: func(root *Node) []*Node {
			container := root.Find("records")
			if container == nil {
				return nil
			}
			return container.ChildrenNamed("record")
		},
	},
	{
		name: "record descendants",
		find: func(root *Node) []*Node { return root.FindAll("record") },
	},
	{
		name: "reference descendants",
		find: func(root *Node) []*Node { return root.FindAll("reference") },
	},
	{
		// Loose fallback: the largest group of same-named repeated siblings
		// that each carry element children. May produce false positives on
		// documents that merely repeat structured elements.
		name: "repeated structured siblings",
		find: findRepeatedStructured,
	},
}

// LocateRecords finds the record elements of a parsed document. The returned
// pattern name identifies which interpretation matched; a nil slice means no
// pattern matched and the caller should report DescribeStructure output.
func LocateRecords(root *Node) (records []*Node, pattern string) {
	for _, p := range recordPatterns {
		if found := p.find(root); len(found) > 0 {
			return found, p.name
		}
	}
	return nil, ""
}

func findRepeatedStructured(root *Node) []*Node {
	var best []*Node
	var visit func(n *Node)
	visit = func(n *Node) {
		groups := make(map[string][]*Node)
		for _, c := range n.Children {
			if len(c.Children) >= 2 {
				groups[c.Name] = append(groups[c.Name], c)
			}
		}
		// Deterministic iteration: prefer the largest group, tie-break by name.
		names := make([]string, 0, len(groups))
		for name := range groups {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			g := groups[name]
			if len(g) >= 2 && len(g) > len(best) {
				best = g
			}
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(root)
	return best
}

const (
	summaryMaxDepth   = 3
	summaryMaxBreadth = 8
)

// DescribeStructure renders a depth- and breadth-limited outline of the
// document's tag structure, for diagnostics when no record pattern matches.
func DescribeStructure(root *Node) string {
	var b strings.Builder
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString("<" + n.Name + ">")
		if len(n.Children) > 0 {
			b.WriteString(fmt.Sprintf(" (%d children)", len(n.Children)))
		}
		b.WriteString("\n")
		if depth+1 >= summaryMaxDepth {
			return
		}
		for i, c := range n.Children {
			if i >= summaryMaxBreadth {
				b.WriteString(strings.Repeat("  ", depth+1))
				b.WriteString(fmt.Sprintf("... %d more\n", len(n.Children)-summaryMaxBreadth))
				break
			}
			visit(c, depth+1)
		}
	}
	visit(root, 0)
	return strings.TrimRight(b.String(), "\n")
}
