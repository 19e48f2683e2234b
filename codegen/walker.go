package codegen

import (
	"strings"

	"github.com/gogpu/effectfx/diag"
	"github.com/gogpu/effectfx/fxtypes"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/parser"
	"github.com/gogpu/effectfx/lang/token"
)

// Compile runs the full C4 pass over a completed parse: it builds the
// effect-wide resource table and lowers every pass-referenced function to
// Sink's target language. It is the one entry point lang/compiler calls.
func Compile(res *parser.Result, backend fxtypes.Backend, sink Sink, diags *diag.Bag) *EffectIR {
	w := New(res, sink, diags)
	return &EffectIR{
		Backend:   backend,
		Resources: w.BuildResourceTable(),
		Shaders:   w.CompileEntryPoints(),
	}
}

// Walker drives the shared AST traversal of spec.md §4.3 over one parsed
// effect, asking a Sink for every backend-specific string. One Walker
// compiles one effect for one backend.
type Walker struct {
	res      *parser.Result
	sink     Sink
	diags    *diag.Bag
	curStage Stage
	// curIsEntry guards the vertex-epilogue Return rewrite (stmt.go) so it
	// only fires for an entry point's own body, never for a helper
	// subroutine's ordinary `return <expr>;` — helper text is shared
	// verbatim across every shader stage that calls it.
	curIsEntry bool
}

// New builds a Walker over a completed parse result.
func New(res *parser.Result, sink Sink, diags *diag.Bag) *Walker {
	return &Walker{res: res, sink: sink, diags: diags}
}

func (w *Walker) variable(idx ast.NodeIndex) *ast.Variable {
	v, _ := w.res.Arena.At(idx).(*ast.Variable)
	return v
}

func (w *Walker) isGPUUniform(v *ast.Variable) bool {
	return !v.Type.Qualifiers.Has(ast.QStatic) && !v.Type.Qualifiers.Has(ast.QConst)
}

// BuildResourceTable assigns cbuffer/block slots to uniforms and binding
// slots to samplers/textures, in declaration order, per spec.md §3/§4.4.
func (w *Walker) BuildResourceTable() ResourceTable {
	var table ResourceTable

	var globals []ast.Variable
	nextSlot := 0
	for _, idx := range w.res.Uniforms {
		v := w.variable(idx)
		if v == nil || !w.isGPUUniform(v) {
			continue
		}
		if v.Type.Base == ast.Struct {
			decl, _ := w.res.Arena.At(v.Type.Definition).(*ast.StructDecl)
			if decl == nil {
				continue
			}
			var members []ast.Variable
			for _, f := range decl.Fields {
				members = append(members, ast.Variable{Name: f.Name, Type: f.Type})
			}
			fields, size := layoutFields(members, w.sink.TypeName)
			nextSlot++
			table.UniformBlocks = append(table.UniformBlocks, UniformBlock{
				Name: v.Name, Slot: nextSlot, Fields: fields, Size: size,
			})
			continue
		}
		globals = append(globals, *v)
	}
	if len(globals) > 0 {
		fields, size := layoutFields(globals, w.sink.TypeName)
		table.UniformBlocks = append([]UniformBlock{{Name: "", Slot: 0, Fields: fields, Size: size}}, table.UniformBlocks...)
	}

	for i, idx := range w.res.Textures {
		v := w.variable(idx)
		if v == nil {
			continue
		}
		table.Textures = append(table.Textures, TextureBinding{Slot: i, Desc: buildTextureDescriptor(v)})
	}
	for i, idx := range w.res.Samplers {
		v := w.variable(idx)
		if v == nil {
			continue
		}
		table.Samplers = append(table.Samplers, SamplerBinding{Slot: i, Desc: buildSamplerDescriptor(v)})
	}
	return table
}

// functionByName finds a declared (non-forward) function by name, used to
// resolve a pass's VertexShader/PixelShader property value.
func (w *Walker) functionByName(name string) *ast.Function {
	for _, idx := range w.res.Functions {
		fn, _ := w.res.Arena.At(idx).(*ast.Function)
		if fn != nil && fn.Name == name {
			return fn
		}
	}
	return nil
}

// CompileEntryPoints lowers every function referenced by a technique's
// VertexShader/PixelShader pass properties into target-language source.
// Non-entry helper functions are textually included ahead of every entry
// point so cross-calls resolve without a separate link step.
func (w *Walker) CompileEntryPoints() map[string]Shader {
	out := make(map[string]Shader)
	decls := w.emitDeclarations(w.BuildResourceTable()) + w.emitHelperFunctions()

	for _, tIdx := range w.res.Techniques {
		tech, _ := w.res.Arena.At(tIdx).(*ast.Technique)
		if tech == nil {
			continue
		}
		for _, pIdx := range tech.Passes {
			pass, _ := w.res.Arena.At(pIdx).(*ast.Pass)
			if pass == nil {
				continue
			}
			type ref struct {
				name  string
				stage Stage
			}
			for _, r := range []ref{{pass.State.VS, StageVertex}, {pass.State.PS, StagePixel}} {
				if r.name == "" {
					continue
				}
				if _, done := out[r.name]; done {
					continue
				}
				out[r.name] = w.compileEntryPoint(r.name, r.stage, decls, pass.Location())
			}
		}
	}
	return out
}

// emitDeclarations renders struct types, uniform blocks, and sampler
// resource bindings shared by every shader stage of this effect.
func (w *Walker) emitDeclarations(table ResourceTable) string {
	var sb strings.Builder
	for _, idx := range w.res.Structs {
		decl, _ := w.res.Arena.At(idx).(*ast.StructDecl)
		if decl == nil {
			continue
		}
		sb.WriteString(w.sink.DeclareStruct(decl))
		sb.WriteString("\n")
	}
	for _, b := range table.UniformBlocks {
		sb.WriteString(w.sink.DeclareUniformBlock(b))
		sb.WriteString("\n")
	}
	for _, s := range table.Samplers {
		sb.WriteString(w.sink.DeclareSampler(s))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (w *Walker) emitHelperFunctions() string {
	w.curIsEntry = false
	var out string
	for _, idx := range w.res.Functions {
		fn, _ := w.res.Arena.At(idx).(*ast.Function)
		if fn == nil || fn.IsEntryPoint || fn.Body == ast.InvalidNode {
			continue
		}
		out += w.emitFunctionDef(fn) + "\n"
	}
	return out
}

func (w *Walker) compileEntryPoint(name string, stage Stage, decls string, refLoc token.Location) Shader {
	fn := w.functionByName(name)
	if fn == nil {
		w.diags.Error(refLoc, diag.CodeUndeclaredIdentifier, "pass references undeclared function %q", name)
		return Shader{EntryPoint: name, Stage: stage}
	}
	w.curStage = stage
	w.curIsEntry = true
	body := w.emitFunctionDef(fn)
	w.curIsEntry = false
	src := w.sink.Preamble() + "\n" + decls + body
	return Shader{EntryPoint: name, Stage: stage, Source: src}
}
