package glycan

import (
	"math"
	"strconv"
	"strings"
)

// Fingerprint is a motif-presence vector keyed by feature name.
type Fingerprint map[string]float64

type knownMotif struct {
	name  string
	match func(root *Node) bool
}

var knownMotifs = []knownMotif{
	{"chitobiose", func(root *Node) bool {
		return isGlcNAc(root.Name) && hasChild(root, "GlcNAc", "b1-4")
	}},
	{"core_fucose", func(root *Node) bool {
		return isGlcNAc(root.Name) && hasChild(root, "Fuc", "a1-6")
	}},
	{"trimannosyl_core", func(root *Node) bool {
		return anyNode(root, func(n *Node) bool {
			return n.Name == "Man" && hasChild(n, "Man", "a1-3") && hasChild(n, "Man", "a1-6")
		})
	}},
	{"bisecting_glcnac", func(root *Node) bool {
		return anyNode(root, func(n *Node) bool {
			return n.Name == "Man" && n.Link == "b1-4" && hasChild(n, "GlcNAc", "b1-4")
		})
	}},
	{"lacnac", func(root *Node) bool {
		return anyNode(root, func(n *Node) bool {
			return isGlcNAc(n.Name) && hasChild(n, "Gal", "b1-4")
		})
	}},
	{"lacdinac", func(root *Node) bool {
		return anyNode(root, func(n *Node) bool {
			return isGlcNAc(n.Name) && hasChild(n, "GalNAc", "b1-4")
		})
	}},
	{"lewis_x", func(root *Node) bool {
		return anyNode(root, func(n *Node) bool {
			return isGlcNAc(n.Name) && hasChild(n, "Gal", "b1-4") && hasChild(n, "Fuc", "a1-3")
		})
	}},
	{"lewis_a", func(root *Node) bool {
		return anyNode(root, func(n *Node) bool {
			return isGlcNAc(n.Name) && hasChild(n, "Gal", "b1-3") && hasChild(n, "Fuc", "a1-4")
		})
	}},
	{"h_antigen", func(root *Node) bool {
		return anyNode(root, func(n *Node) bool {
			return n.Name == "Gal" && hasChild(n, "Fuc", "a1-2")
		})
	}},
	{"alpha23_sialyl", func(root *Node) bool {
		return anyNode(root, func(n *Node) bool {
			return n.Name == "Gal" && (hasChild(n, "Neu5Ac", "a2-3") || hasChild(n, "Neu5Gc", "a2-3"))
		})
	}},
	{"alpha26_sialyl", func(root *Node) bool {
		return anyNode(root, func(n *Node) bool {
			return (n.Name == "Gal" || n.Name == "GalNAc") && (hasChild(n, "Neu5Ac", "a2-6") || hasChild(n, "Neu5Gc", "a2-6"))
		})
	}},
	{"polysialic", func(root *Node) bool {
		return anyNode(root, func(n *Node) bool {
			return n.Name == "Neu5Ac" && hasChild(n, "Neu5Ac", "")
		})
	}},
	{"core1_oglycan", func(root *Node) bool {
		return root.Name == "GalNAc" && hasChild(root, "Gal", "b1-3")
	}},
	{"core2_oglycan", func(root *Node) bool {
		return root.Name == "GalNAc" && hasChild(root, "Gal", "b1-3") && hasChild(root, "GlcNAc", "b1-6")
	}},
	{"high_mannose", func(root *Node) bool {
		mannose := 0
		root.Walk(func(n, _ *Node) {
			if n.Name == "Man" {
				mannose++
			}
		})
		return mannose >= 5
	}},
}

func isGlcNAc(name string) bool {
	return name == "GlcNAc" || strings.HasPrefix(name, "GlcNAc")
}

// hasChild reports whether n has a child named name; an empty link matches
// any linkage.
func hasChild(n *Node, name, link string) bool {
	for _, c := range n.Children {
		if c.Name == name && (link == "" || c.Link == link) {
			return true
		}
	}
	return false
}

func anyNode(root *Node, pred func(*Node) bool) bool {
	found := false
	root.Walk(func(n, _ *Node) {
		if !found && pred(n) {
			found = true
		}
	})
	return found
}

// FingerprintOf extracts monosaccharide, disaccharide, terminal, branching and
// known-motif presence features.
func FingerprintOf(root *Node) Fingerprint {
	fp := make(Fingerprint)
	root.Walk(func(n, parent *Node) {
		fp["mono:"+n.Name] = 1
		if parent != nil {
			fp["pair:"+n.Name+"-"+parent.Name] = 1
			fp["link:"+n.Name+"("+n.Link+")"+parent.Name] = 1
		}
		if len(n.Children) == 0 {
			fp["terminal:"+n.Name] = 1
			if n.Link != "" {
				fp["terminal:"+n.Name+"("+n.Link+")"] = 1
			}
		}
		if len(n.Children) > 1 {
			fp["branch:"+n.Name+"x"+strconv.Itoa(len(n.Children))] = 1
		}
	})
	for _, m := range knownMotifs {
		if m.match(root) {
			fp["motif:"+m.name] = 1
		}
	}
	return fp
}

// Cosine returns the cosine similarity of two fingerprints, 0 when either is
// empty.
func Cosine(a, b Fingerprint) float64 {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}

	var dot, normA, normB float64
	for k := range keys {
		va, vb := a[k], b[k]
		dot += va * vb
		normA += va * va
		normB += vb * vb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim > 1 {
		return 1
	}
	return sim
}
