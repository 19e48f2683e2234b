package effect

import (
	"fmt"

	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/runtime"
)

// Technique is the public handle for one effect technique (spec.md §6's
// get_technique result): describe/begin/end/render_pass plus annotation
// lookup. The underlying runtime.Technique — and therefore every GPU
// pipeline its passes need — is compiled lazily on first Begin, since
// spec.md §5 only requires GPU object creation "at the tail end of
// compilation", not before a technique is ever actually driven.
type Technique struct {
	effect      *Effect
	name        string
	annotations []ast.Annotation
	compile     runtime.ShaderCompiler
	binder      ResourceBinder

	impl *runtime.Technique
}

// TechniqueDescriptor is what Describe returns.
type TechniqueDescriptor struct {
	Name      string
	PassCount int
}

// Describe returns the technique's name and, once compiled, its pass
// count; PassCount is 0 before the first Begin.
func (t *Technique) Describe() TechniqueDescriptor {
	count := 0
	if t.impl != nil {
		count = t.impl.PassCount()
	}
	return TechniqueDescriptor{Name: t.name, PassCount: count}
}

// GetAnnotation looks up one annotation attached to the technique's
// declaration.
func (t *Technique) GetAnnotation(name string) (Annotation, bool) {
	return lookupAnnotation(t.annotations, name)
}

// Begin compiles the technique on first use, then starts one invocation,
// returning the pass count (spec.md §6's begin(out passes) -> bool; a false
// return or non-nil error both mean "skip this technique for the frame").
func (t *Technique) Begin() (passes int, err error) {
	if t.impl == nil {
		e := t.effect
		impl, err := runtime.NewTechnique(e.device, e.queue, t.binder, e.rt, e.res, e.ir, e.mgr, t.compile, t.name)
		if err != nil {
			return 0, fmt.Errorf("effect: compile technique %q: %w", t.name, err)
		}
		t.impl = impl
	}
	if err := t.impl.Begin(); err != nil {
		return 0, fmt.Errorf("effect: begin technique %q: %w", t.name, err)
	}
	return t.impl.PassCount(), nil
}

// RenderPass executes one pass of the currently-begun technique invocation.
func (t *Technique) RenderPass(index int) error {
	if t.impl == nil {
		return fmt.Errorf("effect: technique %q: render_pass called before begin", t.name)
	}
	if err := t.impl.RenderPass(index); err != nil {
		return fmt.Errorf("effect: technique %q: %w", t.name, err)
	}
	return nil
}

// End finishes the current invocation, restoring host state (spec.md §6's
// end()).
func (t *Technique) End() error {
	if t.impl == nil {
		return nil
	}
	if err := t.impl.End(); err != nil {
		return fmt.Errorf("effect: technique %q: %w", t.name, err)
	}
	return nil
}

func (t *Technique) destroy() {
	if t.impl != nil {
		t.impl.Destroy()
		t.impl = nil
	}
}
