package schema

// Annotation is attached to field descriptors and carries metadata for the
// packages that consume them. Name must be unique per annotation kind.
type Annotation interface {
	Name() string
}

// Merger is implemented by annotations that can fold a second annotation of
// the same kind into themselves when both are attached to one descriptor.
type Merger interface {
	Merge(Annotation) Annotation
}

// Merge folds annotations by name. Annotations implementing Merger are merged
// in order; for the others the last one wins. The result keeps the order in
// which each name was first seen.
func Merge(annotations ...Annotation) []Annotation {
	var (
		out   []Annotation
		index = make(map[string]int)
	)
	for _, a := range annotations {
		if a == nil {
			continue
		}
		i, ok := index[a.Name()]
		if !ok {
			index[a.Name()] = len(out)
			out = append(out, a)
			continue
		}
		if m, ok := out[i].(Merger); ok {
			out[i] = m.Merge(a)
		} else {
			out[i] = a
		}
	}
	return out
}
