package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_SortsDefinitions(t *testing.T) {
	base := &Interface{InterfaceBody: InterfaceBody{Name: "A"}}
	mixin := &Interface{InterfaceBody: InterfaceBody{Name: "M"}, Mixin: true}
	partial := &PartialInterface{InterfaceBody: InterfaceBody{Name: "A"}}
	inc := &MixinInclusion{Target: "A", Source: "M", Keyword: "includes"}

	ex := Extract(&File{
		Path:        "A.idl",
		Definitions: []Definition{&Other{What: "enum", Name: "E"}, base, partial, inc, mixin},
	})
	assert.Equal(t, []*Interface{base, mixin}, ex.Bases)
	assert.Equal(t, []*PartialInterface{partial}, ex.Partials)
	assert.Equal(t, []*MixinInclusion{inc}, ex.Inclusions)
}

func TestExtract_OnlyIgnoredDefinitions(t *testing.T) {
	ex := Extract(&File{Definitions: []Definition{
		&Other{What: "dictionary", Name: "D"},
		&Other{What: "typedef", Name: "T"},
	}})
	assert.Empty(t, ex.Bases)
	assert.Empty(t, ex.Partials)
	assert.Empty(t, ex.Inclusions)
}
