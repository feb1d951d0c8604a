// Package glycan compares glycan structures written in IUPAC-condensed
// notation, such as "Man(a1-3)[Man(a1-6)]Man(b1-4)GlcNAc(b1-4)GlcNAc".
//
// A structure is read right to left: the last residue is the reducing end
// (root), a residue followed by "(linkage)" is a child of the next residue at
// the same bracket depth, and bracketed sections are side branches of the
// residue that follows them. Leading "{Fragment(linkage)}" blocks mark
// substituents whose attachment point is unknown.
package glycan

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ErrSyntax is returned for notation that cannot be parsed.
var ErrSyntax = errors.New("glycan: invalid notation")

// AmbiguityMarker opens a floating-substituent block.
const AmbiguityMarker = "{"

// Node is one residue. Link is the linkage to the parent and is empty for the
// reducing end unless the notation spelled one out.
type Node struct {
	Name     string
	Link     string
	Children []*Node
}

// IsAmbiguous reports whether s carries floating substituents.
func IsAmbiguous(s string) bool {
	return strings.Contains(s, AmbiguityMarker)
}

// Normalize applies NFKC and strips whitespace.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Parse reads an unambiguous structure.
func Parse(s string) (*Node, error) {
	s = Normalize(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty structure", ErrSyntax)
	}
	if IsAmbiguous(s) {
		return nil, fmt.Errorf("%w: %q has floating substituents, expand it first", ErrSyntax, s)
	}
	p := &parser{s: s}
	pending, root, err := p.sequence(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
	}
	if root == nil {
		if len(pending) != 1 {
			return nil, fmt.Errorf("%w: %q has no reducing end", ErrSyntax, s)
		}
		root = pending[0]
	}
	return root, nil
}

// ParseAmbiguous splits s into its floating fragments and its core.
func ParseAmbiguous(s string) ([]*Node, *Node, error) {
	s = Normalize(s)
	var fragments []*Node
	for strings.HasPrefix(s, AmbiguityMarker) {
		end := strings.Index(s, "}")
		if end < 0 {
			return nil, nil, fmt.Errorf("%w: %q: unclosed floating block", ErrSyntax, s)
		}
		frag, err := parseFragment(s[1:end])
		if err != nil {
			return nil, nil, err
		}
		fragments = append(fragments, frag)
		s = s[end+1:]
	}
	core, err := Parse(s)
	if err != nil {
		return nil, nil, err
	}
	return fragments, core, nil
}

func parseFragment(s string) (*Node, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty floating block", ErrSyntax)
	}
	p := &parser{s: s}
	pending, root, err := p.sequence(0)
	if err != nil {
		return nil, fmt.Errorf("%w: floating block %q: %v", ErrSyntax, s, err)
	}
	if root != nil || len(pending) != 1 {
		return nil, fmt.Errorf("%w: floating block %q must end with a linkage", ErrSyntax, s)
	}
	return pending[0], nil
}

type parser struct {
	s   string
	pos int
}

// sequence consumes residues until the end of input or, inside a branch, the
// closing bracket. It returns residues still waiting for a parent and, at the
// top level, the reducing-end residue once one without a linkage is read.
func (p *parser) sequence(depth int) ([]*Node, *Node, error) {
	var pending []*Node
	for p.pos < len(p.s) {
		switch c := p.s[p.pos]; c {
		case '[':
			p.pos++
			inner, root, err := p.sequence(depth + 1)
			if err != nil {
				return nil, nil, err
			}
			if root != nil || len(inner) == 0 {
				return nil, nil, fmt.Errorf("branch at offset %d must end with a linkage", p.pos)
			}
			if p.pos >= len(p.s) || p.s[p.pos] != ']' {
				return nil, nil, fmt.Errorf("unclosed branch")
			}
			p.pos++
			pending = append(pending, inner...)
		case ']':
			if depth == 0 {
				return nil, nil, fmt.Errorf("unexpected ']' at offset %d", p.pos)
			}
			return pending, nil, nil
		case '(', ')', '{', '}':
			return nil, nil, fmt.Errorf("unexpected %q at offset %d", c, p.pos)
		default:
			node := &Node{Name: p.residue(), Children: pending}
			pending = nil
			if p.pos < len(p.s) && p.s[p.pos] == '(' {
				link, err := p.linkage()
				if err != nil {
					return nil, nil, err
				}
				node.Link = link
				pending = []*Node{node}
				continue
			}
			if depth > 0 {
				return nil, nil, fmt.Errorf("residue %q inside a branch has no linkage", node.Name)
			}
			if p.pos < len(p.s) {
				return nil, nil, fmt.Errorf("trailing content after reducing end at offset %d", p.pos)
			}
			return nil, node, nil
		}
	}
	if depth > 0 {
		return nil, nil, fmt.Errorf("unclosed branch")
	}
	return pending, nil, nil
}

func (p *parser) residue() string {
	start := p.pos
	for p.pos < len(p.s) && !strings.ContainsRune("()[]{}", rune(p.s[p.pos])) {
		p.pos++
	}
	return p.s[start:p.pos]
}

func (p *parser) linkage() (string, error) {
	end := strings.IndexByte(p.s[p.pos:], ')')
	if end < 0 {
		return "", fmt.Errorf("unclosed linkage at offset %d", p.pos)
	}
	link := p.s[p.pos+1 : p.pos+end]
	p.pos += end + 1
	return link, nil
}

// Canonical returns a form that is equal for two trees iff they are
// isomorphic as rooted trees with labelled residues and linkages.
func (n *Node) Canonical() string {
	if len(n.Children) == 0 {
		return n.Name
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.Link + ">" + c.Canonical()
	}
	sort.Strings(parts)
	return n.Name + "<" + strings.Join(parts, ",") + ">"
}

// String renders the tree back to IUPAC-condensed notation with branches in
// canonical order.
func (n *Node) String() string {
	var b strings.Builder
	writeIUPAC(&b, n)
	if n.Link != "" {
		b.WriteString("(" + n.Link + ")")
	}
	return b.String()
}

func writeIUPAC(b *strings.Builder, n *Node) {
	for i, c := range sortedChildren(n) {
		if i > 0 {
			b.WriteByte('[')
		}
		writeIUPAC(b, c)
		b.WriteString("(" + c.Link + ")")
		if i > 0 {
			b.WriteByte(']')
		}
	}
	b.WriteString(n.Name)
}

func sortedChildren(n *Node) []*Node {
	kids := append([]*Node(nil), n.Children...)
	sort.SliceStable(kids, func(i, j int) bool {
		return kids[i].Link+">"+kids[i].Canonical() < kids[j].Link+">"+kids[j].Canonical()
	})
	return kids
}

// Walk visits n and its descendants depth first, parents before children.
func (n *Node) Walk(fn func(node, parent *Node)) {
	walk(n, nil, fn)
}

func walk(n, parent *Node, fn func(node, parent *Node)) {
	fn(n, parent)
	for _, c := range n.Children {
		walk(c, n, fn)
	}
}

func (n *Node) clone() *Node {
	out := &Node{Name: n.Name, Link: n.Link}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.clone()
		}
	}
	return out
}
