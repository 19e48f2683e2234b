package effect

import (
	"fmt"

	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/resource"
)

// Constant is the public handle for one uniform (spec.md §6's get_constant
// result): describe/get_value/set_value plus annotation lookup. The actual
// storage lives in resource.Manager's constant-buffer arenas; Constant only
// knows the field's name, type, and byte layout for Describe.
type Constant struct {
	mgr         *resource.Manager
	field       codegen.UniformField
	annotations []ast.Annotation
}

// ConstantDescriptor is the layout information Describe returns: the
// backend-spelled type name and the uniform's byte offset/size within its
// constant buffer (spec.md §3's per-uniform `{buffer index, byte offset,
// byte size, element count}`, minus buffer index which callers never need
// since set_value/get_value address a constant purely by name).
type ConstantDescriptor struct {
	Name     string
	TypeName string
	Offset   int
	Size     int
}

// Describe returns the uniform's declared type and byte layout.
func (c *Constant) Describe() ConstantDescriptor {
	return ConstantDescriptor{Name: c.field.Name, TypeName: c.field.TypeName, Offset: c.field.Offset, Size: c.field.Size}
}

// GetAnnotation looks up one annotation attached to the uniform's
// declaration.
func (c *Constant) GetAnnotation(name string) (Annotation, bool) {
	return lookupAnnotation(c.annotations, name)
}

// GetValue reads the constant's current host-side bytes into buf, which
// must be exactly Describe().Size long (spec.md §6's get_value(buf)).
func (c *Constant) GetValue(buf []byte) error {
	data, err := c.mgr.GetConstant(c.field.Name)
	if err != nil {
		return fmt.Errorf("effect: %w", err)
	}
	if len(buf) != len(data) {
		return fmt.Errorf("effect: constant %q is %d bytes, buf is %d", c.field.Name, len(data), len(buf))
	}
	copy(buf, data)
	return nil
}

// SetValue writes data into the constant's host-side storage, marking its
// buffer dirty for upload on the next draw (spec.md §6's set_value(buf),
// §4.4's dirty-flag cycle). A subsequent GetValue returns exactly what was
// written here, satisfying spec.md §8's round-trip property — the upload
// lag to the GPU is invisible to get_value, which always reads host bytes.
func (c *Constant) SetValue(data []byte) error {
	if err := c.mgr.SetConstant(c.field.Name, data); err != nil {
		return fmt.Errorf("effect: %w", err)
	}
	return nil
}
