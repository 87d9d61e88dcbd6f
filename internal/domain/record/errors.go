package record

import (
	"fmt"
	"strings"
)

// MergeOp identifies the merge step that failed.
type MergeOp string

const (
	MergeDuplicate MergeOp = "duplicate"
	MergePartial   MergeOp = "partial"
	MergeInclusion MergeOp = "inclusion"
)

// MergeError is returned when a partial interface or inclusion directive
// references an interface that is not among the base records, or when two
// base interfaces share a name.
type MergeError struct {
	Op      MergeOp
	Path    string // file holding the offending fragment or directive
	Target  string
	Source  string
	Keyword string
	Missing string // name that could not be resolved
	Other   string // for duplicates: file of the first definition
}

func (e *MergeError) Error() string {
	switch e.Op {
	case MergeDuplicate:
		return fmt.Sprintf("%s: interface %s already defined in %s", e.Path, e.Target, e.Other)
	case MergePartial:
		return fmt.Sprintf("%s: partial interface %s has no base interface %s", e.Path, e.Target, e.Missing)
	default:
		if e.Missing == "" {
			return fmt.Sprintf("%s: %s %s %s: interface includes itself", e.Path, e.Target, e.Keyword, e.Source)
		}
		return fmt.Sprintf("%s: %s %s %s: unknown interface %s", e.Path, e.Target, e.Keyword, e.Source, e.Missing)
	}
}

// InheritanceError is returned for an interface declaring more than one parent.
type InheritanceError struct {
	Path      string
	Interface string
	Parents   []string
}

func (e *InheritanceError) Error() string {
	return fmt.Sprintf("%s: interface %s declares %d parents (%s); at most one is allowed",
		e.Path, e.Interface, len(e.Parents), strings.Join(e.Parents, ", "))
}
