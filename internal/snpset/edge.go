package snpset

// Edge is an unordered pair of distinct SNP ids, canonicalized with the
// smaller id in the low 32 bits and the larger in the high 32 bits so
// that equality and hashing both reduce to the underlying uint64 value
// (spec §3: "SNP edge").
type Edge uint64

// NewEdge canonicalizes (a, b) into an Edge. ok is false for a self-loop
// (a == b), which callers must silently drop per spec §3's invariant
// "self-loops are silently dropped".
func NewEdge(a, b SNP) (e Edge, ok bool) {
	if a == b {
		return 0, false
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return Edge(uint64(lo) | uint64(hi)<<32), true
}

// Low returns the smaller endpoint of the edge.
func (e Edge) Low() SNP { return SNP(uint64(e) & 0xffffffff) }

// High returns the larger endpoint of the edge.
func (e Edge) High() SNP { return SNP(uint64(e) >> 32) }

// Endpoints returns both endpoints in canonical (low, high) order.
func (e Edge) Endpoints() (SNP, SNP) { return e.Low(), e.High() }

// Other returns the endpoint of e that is not snp. It panics if snp is
// not an endpoint of e; callers are expected to only call this on edges
// known to be incident to snp.
func (e Edge) Other(snp SNP) SNP {
	lo, hi := e.Endpoints()
	switch snp {
	case lo:
		return hi
	case hi:
		return lo
	default:
		panic("snpset: Other called with a non-endpoint SNP")
	}
}
