package idl

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes f as an indented tree, one node per line.
func Fprint(w io.Writer, f *File) error {
	p := &printer{w: w}
	p.line(0, "File(%s)", f.Path)
	for _, def := range f.Definitions {
		p.definition(1, def)
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(depth int, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (p *printer) definition(depth int, def Definition) {
	switch d := def.(type) {
	case *Interface:
		flags := ""
		if d.Callback {
			flags += " callback"
		}
		if d.Mixin {
			flags += " mixin"
		}
		p.line(depth, "Interface(%s)%s", d.Name, flags)
		p.body(depth+1, &d.InterfaceBody)
	case *PartialInterface:
		p.line(depth, "PartialInterface(%s)", d.Name)
		p.body(depth+1, &d.InterfaceBody)
	case *MixinInclusion:
		p.line(depth, "MixinInclusion(%s %s %s)", d.Target, d.Keyword, d.Source)
	case *Other:
		p.line(depth, "Other(%s %s)", d.What, d.Name)
	}
}

func (p *printer) body(depth int, b *InterfaceBody) {
	for _, in := range b.Inherits {
		p.line(depth, "Inherit(%s)", in.Name)
	}
	p.extAttrs(depth, b.ExtAttributes)
	for _, c := range b.Consts {
		value := "<missing>"
		if c.Value != nil {
			value = *c.Value
		}
		p.line(depth, "Const(%s) = %s", c.Name, value)
		p.typ(depth+1, c.Type)
		p.extAttrs(depth+1, c.ExtAttributes)
	}
	for _, a := range b.Attributes {
		p.line(depth, "Attribute(%s)%s%s", a.Name, flag(a.Readonly, " readonly"), flag(a.Static, " static"))
		p.typ(depth+1, a.Type)
		p.extAttrs(depth+1, a.ExtAttributes)
	}
	for _, op := range b.Operations {
		p.line(depth, "Operation(%s)%s%s%s%s", op.Name,
			flag(op.Static, " static"), flag(op.Getter, " getter"),
			flag(op.Setter, " setter"), flag(op.Deleter, " deleter"))
		p.typ(depth+1, op.Type)
		if op.Arguments != nil {
			p.line(depth+1, "Arguments")
			for _, arg := range op.Arguments.List {
				p.line(depth+2, "Argument(%s)%s%s", arg.Name, flag(arg.Optional, " optional"), flag(arg.Variadic, " variadic"))
				p.typ(depth+3, arg.Type)
			}
		}
		p.extAttrs(depth+1, op.ExtAttributes)
	}
}

func (p *printer) typ(depth int, t *Type) {
	if t != nil {
		p.line(depth, "Type(%s)", t.Name)
	}
}

func (p *printer) extAttrs(depth int, list []*ExtAttribute) {
	for _, ea := range list {
		p.line(depth, "ExtAttribute(%s)", ea.Name)
	}
}

func flag(set bool, s string) string {
	if set {
		return s
	}
	return ""
}
