package effect

import "github.com/gogpu/effectfx/lang/ast"

// Annotation is one `name = literal` pair attached to a texture, sampler,
// uniform, or technique declaration (spec.md §3). Value carries whichever
// of its fields applies for Type.Base; callers that already know the
// annotation's expected type read the matching field directly.
type Annotation struct {
	Name  string
	Value ast.LiteralValue
	Type  ast.Type
}

// lookupAnnotation implements get_annotation(name) (spec.md §6) for any
// object carrying a []ast.Annotation: a plain linear scan, matching
// original_source's own small, rarely-more-than-a-handful-of-entries
// annotation lists.
func lookupAnnotation(annotations []ast.Annotation, name string) (Annotation, bool) {
	for _, a := range annotations {
		if a.Name == name {
			return Annotation{Name: a.Name, Value: a.Value, Type: a.Type}, true
		}
	}
	return Annotation{}, false
}
