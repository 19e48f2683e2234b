// Package effect implements C8 (spec.md §4/§6): the public, name-indexed
// effect handle the host overlay drives — get_texture/get_constant/
// get_technique, list_*_names, and per-object annotation lookup. Everything
// below it (C1-C7) is already built; Effect is the thin façade gluing a
// compiled parser.Result/codegen.EffectIR, a resource.Manager, and a
// runtime.Runtime into the ABI spec.md §6 describes.
//
// Grounded on resource.Manager's own name-indexed lookup tables
// (resource/manager.go's texturesByName/samplersByName) generalized one
// level up: Effect additionally knows each name's ast.Variable so it can
// answer get_annotation, which resource.Manager has no reason to track.
package effect

import (
	"fmt"

	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/parser"
	"github.com/gogpu/effectfx/resource"
	"github.com/gogpu/effectfx/runtime"
)

// ResourceBinder mirrors runtime's own (unexported) resourceBinder method
// set. Interface-to-interface assignment in Go is structural, so a value
// held as ResourceBinder here is still accepted wherever runtime expects
// its own binder type — no export was needed on runtime's side for this to
// work; see DESIGN.md's runtime entry for the discovery.
type ResourceBinder interface {
	BindBuffer(hal.Buffer) any
	BindTextureView(hal.TextureView) any
	BindSampler(hal.Sampler) any
}

// Effect is one compiled effect's public handle (spec.md §6's "public
// effect handle"). It owns the resource.Manager and every Texture/Constant/
// Technique wrapper built from it; Destroy releases all of it in reverse
// creation order.
type Effect struct {
	device hal.Device
	queue  hal.Queue
	rt     *runtime.Runtime
	mgr    *resource.Manager
	res    *parser.Result
	ir     *codegen.EffectIR

	textures   map[string]*Texture
	constants  map[string]*Constant
	techniques map[string]*Technique

	textureNames   []string
	constantNames  []string
	techniqueNames []string
}

// New builds the GPU resource manager from ir.Resources and every public
// handle (spec.md §3's "all descriptors are created during C4 traversal,
// GPU objects during C5 finalisation"), but does not compile any technique's
// pipelines yet — that happens lazily on a technique's first Begin,
// since a host typically uses only one or two of an effect's many
// techniques per frame (spec.md §4.6 scopes compilation to "for each
// pass", not to the whole effect up front).
func New(device hal.Device, queue hal.Queue, binder ResourceBinder, rt *runtime.Runtime, res *parser.Result, ir *codegen.EffectIR, compile runtime.ShaderCompiler) (*Effect, error) {
	mgr, err := resource.NewManager(device, ir.Resources)
	if err != nil {
		return nil, fmt.Errorf("effect: %w", err)
	}

	e := &Effect{
		device:     device,
		queue:      queue,
		rt:         rt,
		mgr:        mgr,
		res:        res,
		ir:         ir,
		textures:   make(map[string]*Texture),
		constants:  make(map[string]*Constant),
		techniques: make(map[string]*Technique),
	}

	for _, idx := range res.Textures {
		v, ok := res.Arena.At(idx).(*ast.Variable)
		if !ok {
			continue
		}
		tex, ok := mgr.Texture(v.Name)
		if !ok {
			continue
		}
		e.textures[v.Name] = &Texture{device: device, queue: queue, tex: tex, annotations: v.Annotations}
		e.textureNames = append(e.textureNames, v.Name)
	}

	for _, block := range ir.Resources.UniformBlocks {
		for _, f := range block.Fields {
			var annotations []ast.Annotation
			if v := findUniform(res, f.Name); v != nil {
				annotations = v.Annotations
			}
			e.constants[f.Name] = &Constant{mgr: mgr, field: f, annotations: annotations}
			e.constantNames = append(e.constantNames, f.Name)
		}
	}

	for _, idx := range res.Techniques {
		t, ok := res.Arena.At(idx).(*ast.Technique)
		if !ok {
			continue
		}
		e.techniques[t.Name] = &Technique{
			effect:      e,
			name:        t.Name,
			annotations: t.Annotations,
			compile:     compile,
			binder:      binder,
		}
		e.techniqueNames = append(e.techniqueNames, t.Name)
	}

	return e, nil
}

func findUniform(res *parser.Result, name string) *ast.Variable {
	for _, idx := range res.Uniforms {
		if v, ok := res.Arena.At(idx).(*ast.Variable); ok && v.Name == name {
			return v
		}
	}
	return nil
}

// GetTexture returns the named effect-declared texture, or false if none.
func (e *Effect) GetTexture(name string) (*Texture, bool) { t, ok := e.textures[name]; return t, ok }

// GetConstant returns the named uniform, or false if none.
func (e *Effect) GetConstant(name string) (*Constant, bool) { c, ok := e.constants[name]; return c, ok }

// GetTechnique returns the named technique, or false if no such technique
// exists. Its passes are compiled on the technique's first Begin.
func (e *Effect) GetTechnique(name string) (*Technique, bool) {
	t, ok := e.techniques[name]
	return t, ok
}

// ListTextureNames returns every effect-declared texture's name.
func (e *Effect) ListTextureNames() []string { return e.textureNames }

// ListConstantNames returns every uniform's name.
func (e *Effect) ListConstantNames() []string { return e.constantNames }

// ListTechniqueNames returns every technique's name.
func (e *Effect) ListTechniqueNames() []string { return e.techniqueNames }

// Destroy releases every GPU handle the effect owns: compiled technique
// pipelines first, then the resource manager (spec.md §3: "destruction
// releases every GPU handle in reverse creation order").
func (e *Effect) Destroy() {
	for _, t := range e.techniques {
		t.destroy()
	}
	e.mgr.Destroy()
}
