// Package ast holds the syntax tree produced by the WebIDL parser. It mirrors
// the source closely (annotations, qualifiers, literal text); the adapter in
// the parent package lowers it into the idl definition tree.
package ast

type Node interface {
	NodeBase() *Base
}

// Base carries source positions (byte offsets) and anything attached while parsing.
type Base struct {
	Start    int          `json:"start"`
	End      int          `json:"end"`
	Comments []string     `json:"comments,omitempty"`
	Errors   []*ErrorNode `json:"errors,omitempty"`
}

func (b *Base) NodeBase() *Base {
	return b
}

// error occurred; value is text of error
type ErrorNode struct {
	Base
	Message string `json:"message"`
}

// Decl is a top-level declaration.
type Decl interface {
	Node
	isDecl()
}

// The file root node
type File struct {
	Base
	Declarations []Decl `json:"declarations,omitempty"`
}

// interface Foo : Bar { ... }
type Interface struct {
	Base
	Name        string        `json:"name"`
	Partial     bool          `json:"partial,omitempty"`
	Callback    bool          `json:"callback,omitempty"`
	Inherits    []string      `json:"inherits,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Members     []*Member     `json:"members,omitempty"`
	CustomOps   []*CustomOp   `json:"custom_ops,omitempty"`
	Iterables   []*Iterable   `json:"iterables,omitempty"`
}

func (*Interface) isDecl() {}

// interface mixin Foo { ... }
type Mixin struct {
	Base
	Name        string        `json:"name"`
	Partial     bool          `json:"partial,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Members     []*Member     `json:"members,omitempty"`
	CustomOps   []*CustomOp   `json:"custom_ops,omitempty"`
}

func (*Mixin) isDecl() {}

type Dictionary struct {
	Base
	Name        string        `json:"name"`
	Partial     bool          `json:"partial,omitempty"`
	Inherits    string        `json:"inherits,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Members     []*Member     `json:"members,omitempty"`
}

func (*Dictionary) isDecl() {}

type Namespace struct {
	Base
	Name        string        `json:"name"`
	Partial     bool          `json:"partial,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Members     []*Member     `json:"members,omitempty"`
}

func (*Namespace) isDecl() {}

type Enum struct {
	Base
	Name        string        `json:"name"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Values      []*Literal    `json:"values,omitempty"`
}

func (*Enum) isDecl() {}

// callback Foo = void (Bar bar);
type Callback struct {
	Base
	Name        string        `json:"name"`
	Return      Type          `json:"return,omitempty"`
	Parameters  []*Parameter  `json:"parameters,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

func (*Callback) isDecl() {}

// typedef (A or B) Foo;
type Typedef struct {
	Base
	Name        string        `json:"name"`
	Type        Type          `json:"type"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

func (*Typedef) isDecl() {}

// Window implements ECMA262Globals
type Implementation struct {
	Base
	Name   string `json:"name"`
	Source string `json:"source"`
}

func (*Implementation) isDecl() {}

// Document includes DocumentOrShadowRoot
type Includes struct {
	Base
	Name   string `json:"name"`
	Source string `json:"source"`
}

func (*Includes) isDecl() {}

// [Constructor], []
type Annotation struct {
	Base
	Name       string       `json:"name"`
	Value      string       `json:"value,omitempty"`      // [A=B]
	Parameters []*Parameter `json:"parameters,omitempty"` // [A(X x, Y y)]
	Values     []string     `json:"values,omitempty"`     // [A=(a,b,c)]
}

// optional any SomeArg
type Parameter struct {
	Base
	Annotations []*Annotation `json:"annotations,omitempty"`
	Type        Type          `json:"type"`
	Optional    bool          `json:"optional,omitempty"`
	Variadic    bool          `json:"variadic,omitempty"`
	Name        string        `json:"name"`
	Init        *Literal      `json:"init,omitempty"`
}

// readonly attribute something
type Member struct {
	Base
	Name        string        `json:"name,omitempty"`
	Type        Type          `json:"type,omitempty"`
	Init        *Literal      `json:"init,omitempty"`
	Attribute   bool          `json:"attribute,omitempty"`
	Static      bool          `json:"static,omitempty"`
	Const       bool          `json:"const,omitempty"`
	Readonly    bool          `json:"readonly,omitempty"`
	Required    bool          `json:"required,omitempty"`
	Inherit     bool          `json:"inherit,omitempty"`
	Specials    []string      `json:"specials,omitempty"` // getter, setter, deleter, stringifier, legacycaller
	Parameters  []*Parameter  `json:"parameters,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

// HasSpecial reports whether the member carries the given special keyword.
func (m *Member) HasSpecial(name string) bool {
	for _, s := range m.Specials {
		if s == name {
			return true
		}
	}
	return false
}

// stringifier; serializer = {...}; constructor(...);
type CustomOp struct {
	Base
	Name string `json:"name"`
}

// iterable<V>, iterable<K, V>, maplike<K, V>, setlike<V>
type Iterable struct {
	Base
	Kind     string `json:"kind"`
	Readonly bool   `json:"readonly,omitempty"`
	Key      Type   `json:"key,omitempty"`
	Value    Type   `json:"value"`
}

// Literal keeps the source text of a constant or default value.
type Literal struct {
	Base
	Value string `json:"value"`
}

type Type interface {
	Node
	isType()
}

type TypeName struct {
	Base
	Name string `json:"name"`
}

func (*TypeName) isType() {}

type AnyType struct {
	Base
}

func (*AnyType) isType() {}

// sequence<T>, FrozenArray<T>, Promise<T>, record<K, V>
type ParametrizedType struct {
	Base
	Name  string `json:"name"`
	Elems []Type `json:"elems"`
}

func (*ParametrizedType) isType() {}

type UnionType struct {
	Base
	Types []Type `json:"types"`
}

func (*UnionType) isType() {}

type NullableType struct {
	Base
	Type Type `json:"type"`
}

func (*NullableType) isType() {}
