// Package compiler is the top-level orchestration spec.md's component
// table calls "top-level orchestration": source text in, a ready-to-drive
// *effect.Effect out. It wires every component built below it —
// lang/lexer and lang/parser (C1-C3), codegen plus its hlsl/glsl sinks
// (C4), resource (C5, via effect.New), runtime (C6/C7), and effect (C8) —
// exactly the way codegen/hlsl's and codegen/glsl's own tests drive
// parser.Parse followed by codegen.Compile, extended one level further to
// the GPU-object-owning layers.
package compiler

import (
	"fmt"

	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/effectfx/codegen/glsl"
	"github.com/gogpu/effectfx/codegen/hlsl"
	"github.com/gogpu/effectfx/diag"
	"github.com/gogpu/effectfx/effect"
	"github.com/gogpu/effectfx/fxtypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/effectfx/lang/parser"
	"github.com/gogpu/effectfx/runtime"
)

// Options configures one Compile call. Device/Queue/Binder/Runtime/Compile
// are the same GPU-facing collaborators effect.New already takes;
// compiler only adds the front-end inputs (source, file name, backend).
type Options struct {
	Device  hal.Device
	Queue   hal.Queue
	Binder  effect.ResourceBinder
	Runtime *runtime.Runtime
	Compile runtime.ShaderCompiler
	Backend fxtypes.Backend

	// ShaderModel3 and UseExplicitBindings forward to the HLSL/GLSL sinks
	// respectively; see codegen/hlsl.Sink and codegen/glsl.Sink.
	ShaderModel3        bool
	UseExplicitBindings bool
}

// Compile runs one effect source through the full front end and back end,
// returning a ready-to-use *effect.Effect plus the accumulated
// diagnostics (spec.md §7: diagnostics never abort compilation by
// themselves — the caller decides viability via diags.Fatal()). err is
// non-nil only for failures compiler.diag can't represent (a nil backend
// collaborator, or a GPU resource-manager allocation failure); source-level
// problems always come back as fatal diagnostics in the returned bag with
// a nil *effect.Effect.
func Compile(source []byte, filename string, opts Options) (*effect.Effect, *diag.Bag, error) {
	if opts.Device == nil || opts.Queue == nil || opts.Runtime == nil || opts.Compile == nil {
		return nil, nil, fmt.Errorf("compiler: Device, Queue, Runtime, and Compile are required")
	}

	res, diags := parser.Parse(source, filename)
	if diags.Fatal() {
		return nil, diags, nil
	}

	sink, err := sinkFor(opts.Backend, opts)
	if err != nil {
		return nil, nil, err
	}

	var codegenDiags diag.Bag
	ir := codegen.Compile(res, opts.Backend, sink, &codegenDiags)
	if codegenDiags.Fatal() {
		return nil, &codegenDiags, nil
	}

	hal.Logger().Info("effectfx: compiled effect", "file", filename, "backend", opts.Backend, "techniques", len(res.Techniques))

	e, err := effect.New(opts.Device, opts.Queue, opts.Binder, opts.Runtime, res, ir, opts.Compile)
	if err != nil {
		return nil, &codegenDiags, fmt.Errorf("compiler: %w", err)
	}
	return e, &codegenDiags, nil
}

func sinkFor(backend fxtypes.Backend, opts Options) (codegen.Sink, error) {
	switch {
	case backend.IsD3D():
		return &hlsl.Sink{ShaderModel3: backend == fxtypes.BackendD3D9 && opts.ShaderModel3}, nil
	case backend.UsesGLSL():
		return &glsl.Sink{UseExplicitBindings: opts.UseExplicitBindings}, nil
	default:
		return nil, fmt.Errorf("compiler: unknown backend %v", backend)
	}
}
