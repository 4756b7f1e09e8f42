package cache

// LayoutKeyOpts are the layout parameters that change the result for the
// same input graph.
type LayoutKeyOpts struct {
	Algorithm string `json:"algorithm"`
	Direction string `json:"direction,omitempty"`
	Engine    string `json:"engine,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the graph whose DOT text
	// hashes to graphHash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer produces keys of the form "layout:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}
