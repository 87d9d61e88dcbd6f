package webidl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b11005/blink-idl-diff/internal/domain/idl"
)

func TestParserLowersInterface(t *testing.T) {
	src := `
[Exposed=Window]
interface Node : EventTarget {
    const unsigned short ELEMENT_NODE = 1;
    [Reflect] readonly attribute DOMString nodeName;
    static Node create(optional DOMString name, long... extra);
    getter Node (unsigned long index);
};`
	f, err := NewParser().Parse("core/dom/Node.idl", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "core/dom/Node.idl", f.Path)
	require.Len(t, f.Definitions, 1)

	iface, ok := f.Definitions[0].(*idl.Interface)
	require.True(t, ok)
	assert.Equal(t, "Node", iface.Name)
	assert.Equal(t, []*idl.Inherit{{Name: "EventTarget"}}, iface.Inherits)
	assert.Equal(t, []*idl.ExtAttribute{{Name: "Exposed"}}, iface.ExtAttributes)

	require.Len(t, iface.Consts, 1)
	require.NotNil(t, iface.Consts[0].Value)
	assert.Equal(t, "1", *iface.Consts[0].Value)
	assert.Equal(t, "unsigned short", iface.Consts[0].Type.Name)

	require.Len(t, iface.Attributes, 1)
	attr := iface.Attributes[0]
	assert.Equal(t, "nodeName", attr.Name)
	assert.True(t, attr.Readonly)
	assert.Equal(t, []*idl.ExtAttribute{{Name: "Reflect"}}, attr.ExtAttributes)

	require.Len(t, iface.Operations, 2)
	create := iface.Operations[0]
	assert.True(t, create.Static)
	require.NotNil(t, create.Arguments)
	assert.Equal(t, []*idl.Argument{
		{Name: "name", Type: &idl.Type{Name: "DOMString"}, Optional: true},
		{Name: "extra", Type: &idl.Type{Name: "long"}, Variadic: true},
	}, create.Arguments.List)

	getter := iface.Operations[1]
	assert.True(t, getter.Getter)
	assert.Equal(t, "", getter.Name)
}

func TestParserLowersDefinitionKinds(t *testing.T) {
	src := `
partial interface Window { attribute long x; };
interface mixin Body {};
callback interface Listener { void handle(); };
dictionary D {};
enum E { "a" };
typedef long T;
callback C = void ();
namespace N {};
Window implements Timers;
Document includes Body;
`
	f, err := NewParser().Parse("a.idl", []byte(src))
	require.NoError(t, err)

	var kinds []idl.Kind
	for _, d := range f.Definitions {
		kinds = append(kinds, d.Kind())
	}
	assert.Equal(t, []idl.Kind{
		idl.KindPartialInterface, idl.KindInterface, idl.KindInterface,
		idl.KindOther, idl.KindOther, idl.KindOther, idl.KindOther, idl.KindOther,
		idl.KindMixinInclusion, idl.KindMixinInclusion,
	}, kinds)

	assert.True(t, f.Definitions[1].(*idl.Interface).Mixin)
	assert.True(t, f.Definitions[2].(*idl.Interface).Callback)
	assert.Equal(t, &idl.Other{What: "namespace", Name: "N"}, f.Definitions[7])
	assert.Equal(t, &idl.MixinInclusion{Target: "Window", Source: "Timers", Keyword: "implements"}, f.Definitions[8])
	assert.Equal(t, &idl.MixinInclusion{Target: "Document", Source: "Body", Keyword: "includes"}, f.Definitions[9])
}

func TestParserSyntaxErrorPosition(t *testing.T) {
	src := "interface A {\n  attribute long;\n};\n"
	_, err := NewParser().Parse("x/A.idl", []byte(src))
	require.Error(t, err)

	var syn *idl.SyntaxError
	require.True(t, errors.As(err, &syn))
	assert.Equal(t, "x/A.idl", syn.Path)
	assert.Equal(t, 2, syn.Line)
	assert.Equal(t, 17, syn.Column)
	assert.Equal(t, `x/A.idl:2:17: syntax error: expected member name, found ";"`, err.Error())
}

func TestParserEmptyFile(t *testing.T) {
	f, err := NewParser().Parse("empty.idl", nil)
	require.NoError(t, err)
	assert.Empty(t, f.Definitions)
}

func TestPosition(t *testing.T) {
	tests := []struct {
		input     string
		offset    int
		line, col int
	}{
		{"abc", 0, 1, 1},
		{"abc", 2, 1, 3},
		{"ab\ncd", 3, 2, 1},
		{"ab\ncd", 4, 2, 2},
		{"é\nx", 2, 1, 2},
		{"ab", 10, 1, 3},
	}
	for _, tt := range tests {
		line, col := Position(tt.input, tt.offset)
		assert.Equal(t, tt.line, line, "line for %q@%d", tt.input, tt.offset)
		assert.Equal(t, tt.col, col, "col for %q@%d", tt.input, tt.offset)
	}
}
