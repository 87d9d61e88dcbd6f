package record

import (
	"fmt"

	"github.com/b11005/blink-idl-diff/internal/domain/idl"
)

// Normalize converts one interface body into a record. path is stored as
// the record's FilePath and attributed on every error.
func Normalize(path string, body *idl.InterfaceBody) (*InterfaceRecord, error) {
	n := normalizer{path: path, iface: body.Name}
	if body.Name == "" {
		return nil, n.errorf("interface without a name")
	}

	rec := &InterfaceRecord{
		Name:          body.Name,
		FilePath:      path,
		Attributes:    make([]AttributeRecord, 0, len(body.Attributes)),
		Operations:    make([]OperationRecord, 0, len(body.Operations)),
		Consts:        make([]ConstRecord, 0, len(body.Consts)),
		ExtAttributes: extAttributes(body.ExtAttributes),
	}

	switch len(body.Inherits) {
	case 0:
	case 1:
		parent := body.Inherits[0].Name
		rec.Inherit = &parent
	default:
		parents := make([]string, len(body.Inherits))
		for i, in := range body.Inherits {
			parents[i] = in.Name
		}
		return nil, &InheritanceError{Path: path, Interface: body.Name, Parents: parents}
	}

	for _, a := range body.Attributes {
		ar, err := n.attribute(a)
		if err != nil {
			return nil, err
		}
		rec.Attributes = append(rec.Attributes, ar)
	}
	for _, op := range body.Operations {
		opRec, err := n.operation(op)
		if err != nil {
			return nil, err
		}
		rec.Operations = append(rec.Operations, opRec)
	}
	for _, c := range body.Consts {
		cr, err := n.constant(c)
		if err != nil {
			return nil, err
		}
		rec.Consts = append(rec.Consts, cr)
	}
	return rec, nil
}

// NormalizeFile extracts and normalizes every interface-like definition of f.
// FilePath of each record is path, which may differ from f.Path (the
// collector stores paths relative to a base directory).
func NormalizeFile(path string, f *idl.File) (*FileRecords, error) {
	ex := idl.Extract(f)
	out := &FileRecords{
		Path:       path,
		Bases:      make([]*InterfaceRecord, 0, len(ex.Bases)),
		Partials:   make([]*InterfaceRecord, 0, len(ex.Partials)),
		Inclusions: make([]Inclusion, 0, len(ex.Inclusions)),
	}
	for _, b := range ex.Bases {
		rec, err := Normalize(path, &b.InterfaceBody)
		if err != nil {
			return nil, err
		}
		out.Bases = append(out.Bases, rec)
	}
	for _, p := range ex.Partials {
		rec, err := Normalize(path, &p.InterfaceBody)
		if err != nil {
			return nil, err
		}
		out.Partials = append(out.Partials, rec)
	}
	for _, inc := range ex.Inclusions {
		if inc.Target == "" || inc.Source == "" {
			return nil, &idl.StructuralError{Path: path, Msg: fmt.Sprintf("incomplete %s directive", inc.Keyword)}
		}
		out.Inclusions = append(out.Inclusions, Inclusion{
			Target:  inc.Target,
			Source:  inc.Source,
			Keyword: inc.Keyword,
			Path:    path,
		})
	}
	return out, nil
}

// OperationName returns the record name of op: the accessor sentinel if one
// of the special flags is set (getter, then setter, then deleter), else its
// own name.
func OperationName(op *idl.Operation) string {
	switch {
	case op.Getter:
		return GetterName
	case op.Setter:
		return SetterName
	case op.Deleter:
		return DeleterName
	default:
		return op.Name
	}
}

type normalizer struct {
	path  string
	iface string
}

func (n normalizer) errorf(format string, args ...interface{}) error {
	return &idl.StructuralError{Path: n.path, Interface: n.iface, Msg: fmt.Sprintf(format, args...)}
}

func (n normalizer) attribute(a *idl.Attribute) (AttributeRecord, error) {
	if a.Type == nil {
		return AttributeRecord{}, n.errorf("attribute %s has no type", a.Name)
	}
	return AttributeRecord{
		Name:          a.Name,
		Type:          a.Type.Name,
		Readonly:      a.Readonly,
		Static:        a.Static,
		ExtAttributes: extAttributes(a.ExtAttributes),
	}, nil
}

func (n normalizer) operation(op *idl.Operation) (OperationRecord, error) {
	name := OperationName(op)
	if op.Type == nil {
		return OperationRecord{}, n.errorf("operation %s has no return type", name)
	}
	if op.Arguments == nil {
		return OperationRecord{}, n.errorf("operation %s has no argument list", name)
	}
	args := make([]ArgumentRecord, 0, len(op.Arguments.List))
	for i, arg := range op.Arguments.List {
		if arg.Type == nil {
			return OperationRecord{}, n.errorf("operation %s: argument %d (%s) has no type", name, i, arg.Name)
		}
		args = append(args, ArgumentRecord{Name: arg.Name, Type: arg.Type.Name})
	}
	return OperationRecord{
		Name:          name,
		Arguments:     args,
		Type:          op.Type.Name,
		Static:        op.Static,
		ExtAttributes: extAttributes(op.ExtAttributes),
	}, nil
}

func (n normalizer) constant(c *idl.Const) (ConstRecord, error) {
	if c.Type == nil {
		return ConstRecord{}, n.errorf("const %s has no type", c.Name)
	}
	if c.Value == nil {
		return ConstRecord{}, n.errorf("const %s has no value", c.Name)
	}
	return ConstRecord{
		Name:          c.Name,
		Type:          c.Type.Name,
		Value:         *c.Value,
		ExtAttributes: extAttributes(c.ExtAttributes),
	}, nil
}

func extAttributes(list []*idl.ExtAttribute) []ExtAttributeRecord {
	out := make([]ExtAttributeRecord, 0, len(list))
	for _, ea := range list {
		out = append(out, ExtAttributeRecord{Name: ea.Name})
	}
	return out
}
