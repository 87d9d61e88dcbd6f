package record

// Merge builds the final record set from per-file contributions given in
// discovery order. Bases are registered first, then every partial fragment
// is appended to its base, then every inclusion copies the source's members
// into the target. Member order in the result follows the order of files.
//
// Records in files are not modified; the returned set holds copies.
func Merge(files []*FileRecords) (Set, error) {
	set := make(Set)

	for _, f := range files {
		for _, b := range f.Bases {
			if prev, ok := set[b.Name]; ok {
				return nil, &MergeError{Op: MergeDuplicate, Path: b.FilePath, Target: b.Name, Other: prev.FilePath}
			}
			set[b.Name] = b.clone()
		}
	}

	for _, f := range files {
		for _, p := range f.Partials {
			base, ok := set[p.Name]
			if !ok {
				return nil, &MergeError{Op: MergePartial, Path: p.FilePath, Target: p.Name, Missing: p.Name}
			}
			base.Attributes = append(base.Attributes, cloneAttributes(p.Attributes)...)
			base.Operations = append(base.Operations, cloneOperations(p.Operations)...)
			base.Consts = append(base.Consts, cloneConsts(p.Consts)...)
			base.ExtAttributes = append(base.ExtAttributes, p.ExtAttributes...)
			base.PartialFilePaths = append(base.PartialFilePaths, p.FilePath)
		}
	}

	for _, f := range files {
		for _, inc := range f.Inclusions {
			if err := include(set, inc); err != nil {
				return nil, err
			}
		}
	}

	return set, nil
}

func include(set Set, inc Inclusion) error {
	fail := func(missing string) error {
		return &MergeError{
			Op:      MergeInclusion,
			Path:    inc.Path,
			Target:  inc.Target,
			Source:  inc.Source,
			Keyword: inc.Keyword,
			Missing: missing,
		}
	}
	target, ok := set[inc.Target]
	if !ok {
		return fail(inc.Target)
	}
	source, ok := set[inc.Source]
	if !ok {
		return fail(inc.Source)
	}
	if target == source {
		return fail("")
	}
	target.Attributes = append(target.Attributes, cloneAttributes(source.Attributes)...)
	target.Operations = append(target.Operations, cloneOperations(source.Operations)...)
	target.Consts = append(target.Consts, cloneConsts(source.Consts)...)
	return nil
}

func (r *InterfaceRecord) clone() *InterfaceRecord {
	c := *r
	c.Attributes = cloneAttributes(r.Attributes)
	c.Operations = cloneOperations(r.Operations)
	c.Consts = cloneConsts(r.Consts)
	c.ExtAttributes = append(make([]ExtAttributeRecord, 0, len(r.ExtAttributes)), r.ExtAttributes...)
	if r.PartialFilePaths != nil {
		c.PartialFilePaths = append([]string(nil), r.PartialFilePaths...)
	}
	if r.Inherit != nil {
		parent := *r.Inherit
		c.Inherit = &parent
	}
	return &c
}

func cloneAttributes(in []AttributeRecord) []AttributeRecord {
	out := make([]AttributeRecord, len(in))
	for i, a := range in {
		a.ExtAttributes = append(make([]ExtAttributeRecord, 0, len(a.ExtAttributes)), a.ExtAttributes...)
		out[i] = a
	}
	return out
}

func cloneOperations(in []OperationRecord) []OperationRecord {
	out := make([]OperationRecord, len(in))
	for i, op := range in {
		op.Arguments = append(make([]ArgumentRecord, 0, len(op.Arguments)), op.Arguments...)
		op.ExtAttributes = append(make([]ExtAttributeRecord, 0, len(op.ExtAttributes)), op.ExtAttributes...)
		out[i] = op
	}
	return out
}

func cloneConsts(in []ConstRecord) []ConstRecord {
	out := make([]ConstRecord, len(in))
	for i, c := range in {
		c.ExtAttributes = append(make([]ExtAttributeRecord, 0, len(c.ExtAttributes)), c.ExtAttributes...)
		out[i] = c
	}
	return out
}
