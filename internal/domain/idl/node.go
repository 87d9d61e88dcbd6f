// Package idl defines the definition tree produced by a WebIDL parser.
// Every node is a concrete variant carrying only the fields it actually has;
// consumers switch on the variant type instead of looking up named properties.
package idl

// Kind names a node variant.
type Kind string

const (
	KindInterface        Kind = "Interface"
	KindPartialInterface Kind = "PartialInterface"
	KindMixinInclusion   Kind = "MixinInclusion"
	KindOther            Kind = "Other"
	KindAttribute        Kind = "Attribute"
	KindOperation        Kind = "Operation"
	KindArgument         Kind = "Argument"
	KindConst            Kind = "Const"
	KindExtAttribute     Kind = "ExtAttribute"
	KindInherit          Kind = "Inherit"
	KindType             Kind = "Type"
)

// Node is implemented by every variant of the tree.
type Node interface {
	Kind() Kind
}

// Definition is a top-level node of a file.
type Definition interface {
	Node
	DefinitionName() string
	isDefinition()
}

// File is the parse result of one definition file.
type File struct {
	Path        string
	Definitions []Definition
}

// InterfaceBody is the part shared by base and partial interfaces.
type InterfaceBody struct {
	Name          string
	Inherits      []*Inherit
	Attributes    []*Attribute
	Operations    []*Operation
	Consts        []*Const
	ExtAttributes []*ExtAttribute
}

// Interface is a named interface definition without the partial marker.
// Callback interfaces and interface mixins are base interfaces too.
type Interface struct {
	InterfaceBody
	Callback bool
	Mixin    bool
}

func (*Interface) Kind() Kind { return KindInterface }
func (n *Interface) DefinitionName() string { return n.Name }
func (*Interface) isDefinition() {}

// PartialInterface extends a base interface declared elsewhere.
type PartialInterface struct {
	InterfaceBody
	Mixin bool
}

func (*PartialInterface) Kind() Kind { return KindPartialInterface }
func (n *PartialInterface) DefinitionName() string { return n.Name }
func (*PartialInterface) isDefinition() {}

// MixinInclusion is `Target implements Source;` or `Target includes Source;`:
// the members of Source are copied into Target.
type MixinInclusion struct {
	Target  string
	Source  string
	Keyword string // "implements" or "includes"
}

func (*MixinInclusion) Kind() Kind { return KindMixinInclusion }
func (n *MixinInclusion) DefinitionName() string { return n.Target }
func (*MixinInclusion) isDefinition() {}

// Other is any top-level definition this pipeline ignores
// (dictionary, enum, callback function, typedef, namespace).
type Other struct {
	What string
	Name string
}

func (*Other) Kind() Kind { return KindOther }
func (n *Other) DefinitionName() string { return n.Name }
func (*Other) isDefinition() {}

// Attribute is `[ext] readonly static attribute Type name;`.
type Attribute struct {
	Name          string
	Type          *Type
	Readonly      bool
	Static        bool
	ExtAttributes []*ExtAttribute
}

func (*Attribute) Kind() Kind { return KindAttribute }

// Operation is a regular or special operation. Getter, Setter and Deleter
// mark index/named property accessors; such operations may have no name.
type Operation struct {
	Name          string
	Type          *Type
	Arguments     *Arguments
	Static        bool
	Getter        bool
	Setter        bool
	Deleter       bool
	ExtAttributes []*ExtAttribute
}

func (*Operation) Kind() Kind { return KindOperation }

// Arguments is the argument list of an operation. A nil *Arguments on an
// Operation means the parser produced no list at all.
type Arguments struct {
	List []*Argument
}

// Argument is one operation argument.
type Argument struct {
	Name     string
	Type     *Type
	Optional bool
	Variadic bool
}

func (*Argument) Kind() Kind { return KindArgument }

// Const is `const Type NAME = value;`. Value is the literal's source text.
type Const struct {
	Name          string
	Type          *Type
	Value         *string
	ExtAttributes []*ExtAttribute
}

func (*Const) Kind() Kind { return KindConst }

// ExtAttribute is an extended attribute. Only the name is kept.
type ExtAttribute struct {
	Name string
}

func (*ExtAttribute) Kind() Kind { return KindExtAttribute }

// Inherit names a parent interface.
type Inherit struct {
	Name string
}

func (*Inherit) Kind() Kind { return KindInherit }

// Type is a declared type spelled in WebIDL syntax, e.g. "unsigned long",
// "sequence<DOMString>" or "Node?".
type Type struct {
	Name string
}

func (*Type) Kind() Kind { return KindType }
