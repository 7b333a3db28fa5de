package codes

//go:generate go run github.com/dmarkham/enumer -type Kind -trimprefix Kind -transform lower -output kind.gen.go

// Kind distinguishes the two validation codes issued per customer.
type Kind int

const (
	// KindSimple codes authorize plain forwarding.
	KindSimple Kind = iota
	// KindSignature codes authorize signature-required forwarding.
	KindSignature
)

// Prefix returns the literal prefix a code of this kind starts with.
func (i Kind) Prefix() string {
	if i == KindSignature {
		return "shipsecsig"
	}
	return "shipsec"
}
