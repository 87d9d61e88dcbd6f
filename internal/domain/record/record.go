// Package record turns parsed interface definitions into flat records,
// merges partial interfaces and mixin inclusions into their base records,
// and serializes the result as JSON.
//
// Struct fields are declared in JSON key order so that encoding/json emits
// every object with sorted keys.
package record

// InterfaceRecord is one base interface with everything merged into it.
type InterfaceRecord struct {
	Attributes       []AttributeRecord    `json:"Attributes"`
	Consts           []ConstRecord        `json:"Consts"`
	ExtAttributes    []ExtAttributeRecord `json:"ExtAttributes"`
	FilePath         string               `json:"FilePath"`
	Inherit          *string              `json:"Inherit"`
	Name             string               `json:"Name"`
	Operations       []OperationRecord    `json:"Operations"`
	PartialFilePaths []string             `json:"PartialFilePaths,omitempty"`
}

// AttributeRecord describes one attribute.
type AttributeRecord struct {
	ExtAttributes []ExtAttributeRecord `json:"ExtAttributes"`
	Name          string               `json:"Name"`
	Readonly      bool                 `json:"Readonly"`
	Static        bool                 `json:"Static"`
	Type          string               `json:"Type"`
}

// OperationRecord describes one operation. Special accessors are named
// GetterName, SetterName or DeleterName.
type OperationRecord struct {
	Arguments     []ArgumentRecord     `json:"Arguments"`
	ExtAttributes []ExtAttributeRecord `json:"ExtAttributes"`
	Name          string               `json:"Name"`
	Static        bool                 `json:"Static"`
	Type          string               `json:"Type"`
}

// ArgumentRecord is one operation argument.
type ArgumentRecord struct {
	Name string `json:"Name"`
	Type string `json:"Type"`
}

// ConstRecord is one constant. Value is the literal as written.
type ConstRecord struct {
	ExtAttributes []ExtAttributeRecord `json:"ExtAttributes"`
	Name          string               `json:"Name"`
	Type          string               `json:"Type"`
	Value         string               `json:"Value"`
}

// ExtAttributeRecord keeps only the name of an extended attribute.
type ExtAttributeRecord struct {
	Name string `json:"Name"`
}

// Sentinel operation names for special accessors.
const (
	GetterName  = "__getter__"
	SetterName  = "__setter__"
	DeleterName = "__deleter__"
)

// Inclusion is a normalized `Target implements Source` directive.
type Inclusion struct {
	Target  string `json:"target"`
	Source  string `json:"source"`
	Keyword string `json:"keyword"`
	Path    string `json:"path"`
}

// FileRecords is everything one file contributes to a collection run:
// base records, partial fragments and inclusion directives, in source order.
type FileRecords struct {
	Path       string             `json:"path"`
	Bases      []*InterfaceRecord `json:"bases"`
	Partials   []*InterfaceRecord `json:"partials"`
	Inclusions []Inclusion        `json:"inclusions"`
}

// Set maps interface names to merged records.
type Set map[string]*InterfaceRecord
