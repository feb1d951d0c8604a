package score

import (
	"strings"

	"github.com/BojarLab/GlycoGauntlet/internal/glycan"
)

// Oracle is the structural comparison capability the scorer depends on.
type Oracle interface {
	// StructurallyEqual reports exact structural equivalence of two notations.
	StructurallyEqual(a, b string) (bool, error)
	// FuzzySimilarity returns a similarity in [0,1]; it is only consulted when
	// StructurallyEqual is false.
	FuzzySimilarity(a, b string) (float64, error)
	// ExpandAmbiguous returns every concrete topology consistent with a.
	ExpandAmbiguous(a string) ([]string, error)
}

var _ Oracle = (*glycan.Oracle)(nil)

func isAmbiguous(s string) bool {
	return strings.Contains(s, glycan.AmbiguityMarker)
}
