package hierarchy

import (
	"sort"
	"strings"

	"github.com/blktree/blktree/internal/device"
)

// Order selects the sibling ordering convention.
type Order int

const (
	// OrderKindName sorts siblings by kind precedence, then name. Default.
	OrderKindName Order = iota
	// OrderName sorts siblings purely by name.
	OrderName
)

// Build reconstructs the device forest from a flat, unordered record set
// using the default sibling ordering. The returned warnings describe
// structural anomalies (duplicates, orphans, cycles, kind mismatches); they
// never abort the build.
func Build(records []device.Record) (*Forest, []Warning) {
	return BuildOrdered(records, OrderKindName)
}

// BuildOrdered is Build with an explicit sibling ordering convention.
//
// The resulting forest shape depends only on the set of records, not on
// their arrival order. The one exception is duplicate names, where the
// first-seen record survives.
func BuildOrdered(records []device.Record, order Order) (*Forest, []Warning) {
	var warnings []Warning

	index := make(map[string]*Node, len(records))
	names := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := index[r.Name]; ok {
			warnings = append(warnings, Warning{Kind: WarnDuplicate, Device: r.Name})
			continue
		}
		index[r.Name] = &Node{Record: r}
		names = append(names, r.Name)
	}
	sort.Strings(names)

	// Attach children. Records may arrive in any order, so resolution goes
	// through the index rather than assuming parents were seen first.
	var roots []*Node
	for _, name := range names {
		n := index[name]
		p := n.Record.Parent
		if p == "" {
			roots = append(roots, n)
			continue
		}
		parent, ok := index[p]
		if !ok {
			warnings = append(warnings, Warning{Kind: WarnOrphan, Device: name, Detail: p})
			roots = append(roots, n)
			continue
		}
		if !n.Record.Kind.ValidParent(parent.Record.Kind) {
			warnings = append(warnings, Warning{
				Kind:   WarnKindMismatch,
				Device: name,
				Detail: n.Record.Kind.String() + " under " + parent.Record.Kind.String(),
			})
		}
		parent.Children = append(parent.Children, n)
	}

	// Anything not reachable from a root sits on a parent cycle (or hangs
	// off one). Break each cycle at its lexically smallest member and adopt
	// that node as a root, then re-mark.
	visited := make(map[string]bool, len(names))
	var mark func(n *Node)
	mark = func(n *Node) {
		visited[n.Record.Name] = true
		for _, c := range n.Children {
			mark(c)
		}
	}
	for _, r := range roots {
		mark(r)
	}

	for {
		start := ""
		for _, name := range names {
			if !visited[name] {
				start = name
				break
			}
		}
		if start == "" {
			break
		}

		// Follow the parent chain until it revisits itself; every node on
		// this walk has a resolvable parent, or it would already be a root.
		seen := make(map[string]bool)
		cur := start
		for !seen[cur] {
			seen[cur] = true
			cur = index[cur].Record.Parent
		}
		members := []string{cur}
		for m := index[cur].Record.Parent; m != cur; m = index[m].Record.Parent {
			members = append(members, m)
		}

		breakAt := members[0]
		for _, m := range members[1:] {
			if m < breakAt {
				breakAt = m
			}
		}
		node := index[breakAt]
		detach(index[node.Record.Parent], node)
		roots = append(roots, node)
		warnings = append(warnings, Warning{
			Kind:   WarnCycle,
			Device: breakAt,
			Detail: cycleChain(members, breakAt),
		})
		mark(node)
	}

	sortForest(roots, order)
	return &Forest{Roots: roots}, warnings
}

func detach(parent, child *Node) {
	for i, c := range parent.Children {
		if c == child {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			return
		}
	}
}

// cycleChain renders the cycle as "a -> b -> a" starting from the break
// point, for the warning text.
func cycleChain(members []string, start string) string {
	idx := 0
	for i, m := range members {
		if m == start {
			idx = i
			break
		}
	}
	// members lists the cycle in parent order; rotate so the chain reads
	// from the broken node.
	chain := make([]string, 0, len(members)+1)
	for i := range members {
		chain = append(chain, members[(idx+len(members)-i)%len(members)])
	}
	chain = append(chain, start)
	return strings.Join(chain, " -> ")
}

func sortForest(roots []*Node, order Order) {
	sort.Slice(roots, func(i, j int) bool {
		return roots[i].Record.Name < roots[j].Record.Name
	})
	for _, r := range roots {
		sortChildren(r, order)
	}
}

func sortChildren(n *Node, order Order) {
	sort.Slice(n.Children, func(i, j int) bool {
		a, b := &n.Children[i].Record, &n.Children[j].Record
		if order == OrderKindName {
			if pa, pb := a.Kind.Precedence(), b.Kind.Precedence(); pa != pb {
				return pa < pb
			}
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		sortChildren(c, order)
	}
}
