// Package webidl implements ports.Parser with a hand-written WebIDL grammar.
// It accepts the dialect found in Blink sources: legacy `implements`
// statements, extended attributes with `|` separated values, multiple
// special keywords on one operation, and serializers, alongside current
// WebIDL (mixins, includes, namespaces, record<K, V>).
//
// The grammar produces an ast.File; Parser lowers it into the idl tree the
// collector consumes.
package webidl

import (
	"strings"

	"github.com/b11005/blink-idl-diff/internal/adapters/webidl/ast"
	"github.com/b11005/blink-idl-diff/internal/domain/idl"
	"github.com/b11005/blink-idl-diff/internal/ports"
)

var _ ports.Parser = (*Parser)(nil)

// Parser is stateless and safe for concurrent use.
type Parser struct{}

// NewParser returns a WebIDL parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses one definition file. The first grammar error is returned as
// *idl.SyntaxError with a 1-based line and column.
func (p *Parser) Parse(path string, source []byte) (*idl.File, error) {
	input := string(source)
	tree, errs := ParseFile(input)
	if len(errs) > 0 {
		line, col := Position(input, errs[0].Start)
		return nil, &idl.SyntaxError{Path: path, Line: line, Column: col, Msg: errs[0].Message}
	}
	return Lower(path, tree), nil
}

// Position converts a byte offset into a 1-based line and column. Columns
// count runes.
func Position(input string, offset int) (line, col int) {
	if offset > len(input) {
		offset = len(input)
	}
	if offset < 0 {
		offset = 0
	}
	prefix := input[:offset]
	line = strings.Count(prefix, "\n") + 1
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	col = len([]rune(prefix[lineStart:])) + 1
	return line, col
}

// Lower converts a syntax tree into the idl definition tree.
func Lower(path string, tree *ast.File) *idl.File {
	f := &idl.File{Path: path}
	for _, decl := range tree.Declarations {
		if def := lowerDecl(decl); def != nil {
			f.Definitions = append(f.Definitions, def)
		}
	}
	return f
}

func lowerDecl(decl ast.Decl) idl.Definition {
	switch d := decl.(type) {
	case *ast.Interface:
		body := lowerBody(d.Name, d.Annotations, d.Members)
		for _, parent := range d.Inherits {
			body.Inherits = append(body.Inherits, &idl.Inherit{Name: parent})
		}
		if d.Partial {
			return &idl.PartialInterface{InterfaceBody: body}
		}
		return &idl.Interface{InterfaceBody: body, Callback: d.Callback}
	case *ast.Mixin:
		body := lowerBody(d.Name, d.Annotations, d.Members)
		if d.Partial {
			return &idl.PartialInterface{InterfaceBody: body, Mixin: true}
		}
		return &idl.Interface{InterfaceBody: body, Mixin: true}
	case *ast.Implementation:
		return &idl.MixinInclusion{Target: d.Name, Source: d.Source, Keyword: "implements"}
	case *ast.Includes:
		return &idl.MixinInclusion{Target: d.Name, Source: d.Source, Keyword: "includes"}
	case *ast.Dictionary:
		return &idl.Other{What: "dictionary", Name: d.Name}
	case *ast.Enum:
		return &idl.Other{What: "enum", Name: d.Name}
	case *ast.Callback:
		return &idl.Other{What: "callback", Name: d.Name}
	case *ast.Typedef:
		return &idl.Other{What: "typedef", Name: d.Name}
	case *ast.Namespace:
		return &idl.Other{What: "namespace", Name: d.Name}
	}
	return nil
}

func lowerBody(name string, ann []*ast.Annotation, members []*ast.Member) idl.InterfaceBody {
	body := idl.InterfaceBody{
		Name:          name,
		ExtAttributes: lowerAnnotations(ann),
	}
	for _, m := range members {
		switch {
		case m.Const:
			c := &idl.Const{
				Name:          m.Name,
				Type:          lowerType(m.Type),
				ExtAttributes: lowerAnnotations(m.Annotations),
			}
			if m.Init != nil {
				v := m.Init.Value
				c.Value = &v
			}
			body.Consts = append(body.Consts, c)
		case m.Attribute:
			body.Attributes = append(body.Attributes, &idl.Attribute{
				Name:          m.Name,
				Type:          lowerType(m.Type),
				Readonly:      m.Readonly,
				Static:        m.Static,
				ExtAttributes: lowerAnnotations(m.Annotations),
			})
		default:
			op := &idl.Operation{
				Name:          m.Name,
				Type:          lowerType(m.Type),
				Static:        m.Static,
				Getter:        m.HasSpecial("getter"),
				Setter:        m.HasSpecial("setter"),
				Deleter:       m.HasSpecial("deleter"),
				ExtAttributes: lowerAnnotations(m.Annotations),
			}
			if m.Parameters != nil {
				op.Arguments = &idl.Arguments{List: lowerParameters(m.Parameters)}
			}
			body.Operations = append(body.Operations, op)
		}
	}
	return body
}

func lowerParameters(params []*ast.Parameter) []*idl.Argument {
	out := make([]*idl.Argument, 0, len(params))
	for _, prm := range params {
		out = append(out, &idl.Argument{
			Name:     prm.Name,
			Type:     lowerType(prm.Type),
			Optional: prm.Optional,
			Variadic: prm.Variadic,
		})
	}
	return out
}

func lowerAnnotations(ann []*ast.Annotation) []*idl.ExtAttribute {
	out := make([]*idl.ExtAttribute, 0, len(ann))
	for _, a := range ann {
		out = append(out, &idl.ExtAttribute{Name: a.Name})
	}
	return out
}

func lowerType(t ast.Type) *idl.Type {
	if t == nil {
		return nil
	}
	return &idl.Type{Name: TypeString(t)}
}

// TypeString spells a type the way WebIDL writes it: "unsigned long",
// "sequence<DOMString>", "(Node or DOMString)", "Element?".
func TypeString(t ast.Type) string {
	switch t := t.(type) {
	case *ast.TypeName:
		return t.Name
	case *ast.AnyType:
		return "any"
	case *ast.NullableType:
		return TypeString(t.Type) + "?"
	case *ast.ParametrizedType:
		elems := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = TypeString(e)
		}
		return t.Name + "<" + strings.Join(elems, ", ") + ">"
	case *ast.UnionType:
		parts := make([]string, len(t.Types))
		for i, e := range t.Types {
			parts[i] = TypeString(e)
		}
		return "(" + strings.Join(parts, " or ") + ")"
	}
	return ""
}
