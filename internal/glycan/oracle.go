package glycan

// DefaultCacheSize is the number of distinct structures the oracle memoises.
const DefaultCacheSize = 8192

// OracleOption configures an Oracle.
type OracleOption func(*Oracle)

// WithCacheSize sets how many parsed structures are kept; 0 disables caching.
func WithCacheSize(n int) OracleOption {
	return func(o *Oracle) {
		o.cache = newStructureCache(n)
	}
}

// Oracle answers structural questions about glycan notation. It is safe for
// concurrent use.
type Oracle struct {
	cache *structureCache
}

// NewOracle returns an Oracle with a default-size structure cache.
func NewOracle(opts ...OracleOption) *Oracle {
	o := &Oracle{cache: newStructureCache(DefaultCacheSize)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Oracle) lookup(s string) (parsed, error) {
	key := Normalize(s)
	if p, ok := o.cache.get(key); ok {
		return p, p.err
	}
	var p parsed
	root, err := Parse(key)
	if err != nil {
		p.err = err
	} else {
		p.canonical = root.Canonical()
		p.fingerprint = FingerprintOf(root)
	}
	o.cache.put(key, p)
	return p, p.err
}

// StructurallyEqual reports whether a and b describe the same structure,
// regardless of the order branches were written in.
func (o *Oracle) StructurallyEqual(a, b string) (bool, error) {
	pa, err := o.lookup(a)
	if err != nil {
		return false, err
	}
	pb, err := o.lookup(b)
	if err != nil {
		return false, err
	}
	return pa.canonical == pb.canonical, nil
}

// FuzzySimilarity is the cosine similarity of the motif fingerprints of a and b.
func (o *Oracle) FuzzySimilarity(a, b string) (float64, error) {
	pa, err := o.lookup(a)
	if err != nil {
		return 0, err
	}
	pb, err := o.lookup(b)
	if err != nil {
		return 0, err
	}
	return Cosine(pa.fingerprint, pb.fingerprint), nil
}

// ExpandAmbiguous returns every concrete topology consistent with a, in
// IUPAC-condensed notation.
func (o *Oracle) ExpandAmbiguous(a string) ([]string, error) {
	trees, err := Topologies(a)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(trees))
	for i, t := range trees {
		out[i] = t.String()
	}
	return out, nil
}
