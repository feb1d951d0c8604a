package glycan

import (
	"errors"
	"fmt"
	"strings"
)

// MaxTopologies bounds how many concrete structures one ambiguous notation
// may expand to.
const MaxTopologies = 4096

// ErrTooManyTopologies is returned when expansion would exceed MaxTopologies.
var ErrTooManyTopologies = errors.New("glycan: too many possible topologies")

// Topologies attaches every floating fragment of s to every residue of its
// core whose linkage position is still free, and returns the distinct
// resulting trees in first-seen order. A notation without floating fragments
// yields its own tree; one whose fragments fit nowhere yields none.
func Topologies(s string) ([]*Node, error) {
	fragments, core, err := ParseAmbiguous(s)
	if err != nil {
		return nil, err
	}
	if len(fragments) == 0 {
		return []*Node{core}, nil
	}

	sites := 0
	core.Walk(func(_, _ *Node) { sites++ })
	total := 1
	for range fragments {
		total *= sites
		if total > MaxTopologies {
			return nil, fmt.Errorf("%w: %d fragments over %d residues", ErrTooManyTopologies, len(fragments), sites)
		}
	}

	seen := make(map[string]struct{}, total)
	out := make([]*Node, 0, total)
	choice := make([]int, len(fragments))
	for n := 0; n < total; n++ {
		rem := n
		for i := len(choice) - 1; i >= 0; i-- {
			choice[i] = rem % sites
			rem /= sites
		}
		tree := core.clone()
		targets := make([]*Node, 0, sites)
		tree.Walk(func(node, _ *Node) { targets = append(targets, node) })
		placed := true
		for i, frag := range fragments {
			t := targets[choice[i]]
			if occupied(t, frag.Link) {
				placed = false
				break
			}
			t.Children = append(t.Children, frag.clone())
		}
		if !placed {
			continue
		}
		key := tree.Canonical()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tree)
	}
	return out, nil
}

// occupied reports whether parent already carries a child on the position
// named by link. Unknown positions ("?") never collide.
func occupied(parent *Node, link string) bool {
	pos := linkPosition(link)
	if pos == "" {
		return false
	}
	for _, c := range parent.Children {
		if linkPosition(c.Link) == pos {
			return true
		}
	}
	return false
}

// linkPosition returns the parent carbon of a linkage such as "a1-6", or ""
// when it is unknown.
func linkPosition(link string) string {
	i := strings.LastIndexByte(link, '-')
	if i < 0 {
		return ""
	}
	pos := link[i+1:]
	if pos == "" || strings.Contains(pos, "?") {
		return ""
	}
	return pos
}
