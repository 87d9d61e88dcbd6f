package idl

// Extraction holds the top-level definitions of one file that the
// collector cares about, in source order.
type Extraction struct {
	Bases      []*Interface
	Partials   []*PartialInterface
	Inclusions []*MixinInclusion
}

// Extract sorts the definitions of f into base interfaces, partial
// interfaces and mixin inclusions. Every other definition is dropped.
func Extract(f *File) *Extraction {
	ex := &Extraction{}
	for _, def := range f.Definitions {
		switch d := def.(type) {
		case *Interface:
			ex.Bases = append(ex.Bases, d)
		case *PartialInterface:
			ex.Partials = append(ex.Partials, d)
		case *MixinInclusion:
			ex.Inclusions = append(ex.Inclusions, d)
		}
	}
	return ex
}
