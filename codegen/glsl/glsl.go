// Package glsl implements codegen.Sink for the GLSL targets shared by
// OpenGL4 and Vulkan (spec.md §4.3: "The Vulkan backend reuses the GLSL
// emitter"). Unlike HLSL, most of effectfx's intrinsic vocabulary has no
// native GLSL spelling, so Intrinsic carries the bulk of the rewrite
// table spec.md §4.3 calls out (lerp, saturate, frac, atan2, mul, ddx,
// ddy, asfloat/asint/asuint, f16tof32/f32tof16).
package glsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/effectfx/lang/ast"
)

// Sink is the GLSL implementation of codegen.Sink. Vulkan selects
// UseExplicitBindings to emit `layout(binding=N)` qualifiers; plain
// OpenGL4 leaves binding assignment to link-time uniform queries.
type Sink struct {
	UseExplicitBindings bool
}

var _ codegen.Sink = (*Sink)(nil)

func (s *Sink) TypeName(t ast.Type) string {
	if t.IsTexture() || t.IsSampler() {
		return samplerTypeName(t.Base)
	}
	base := baseName(t.Base)
	name := base
	switch {
	case t.IsMatrix():
		if t.Rows == t.Cols {
			name = fmt.Sprintf("mat%d", t.Rows)
		} else {
			name = fmt.Sprintf("mat%dx%d", t.Cols, t.Rows)
		}
	case t.Rows > 1:
		name = vecName(t.Base, t.Rows)
	}
	if t.ArrayLength > 0 {
		name = fmt.Sprintf("%s[%d]", name, t.ArrayLength)
	}
	return name
}

func samplerTypeName(b ast.BaseClass) string {
	switch b {
	case ast.Texture1D, ast.Sampler1D:
		return "sampler1D"
	case ast.Texture3D, ast.Sampler3D:
		return "sampler3D"
	default:
		return "sampler2D"
	}
}

func baseName(b ast.BaseClass) string {
	switch b {
	case ast.Bool:
		return "bool"
	case ast.Int:
		return "int"
	case ast.Uint:
		return "uint"
	case ast.Half, ast.Float:
		return "float"
	case ast.Double:
		return "double"
	case ast.Void:
		return "void"
	default:
		return "float"
	}
}

func vecName(b ast.BaseClass, n int) string {
	prefix := ""
	switch b {
	case ast.Bool:
		prefix = "b"
	case ast.Int:
		prefix = "i"
	case ast.Uint:
		prefix = "u"
	case ast.Double:
		prefix = "d"
	}
	return fmt.Sprintf("%svec%d", prefix, n)
}

func (s *Sink) Literal(lit *ast.Literal) string {
	switch lit.Type.Base {
	case ast.Bool:
		if lit.Value.Bool {
			return "true"
		}
		return "false"
	case ast.Int:
		return fmt.Sprintf("%d", lit.Value.Int)
	case ast.Uint:
		return fmt.Sprintf("%du", lit.Value.Uint)
	case ast.Float, ast.Half:
		return fmt.Sprintf("%g", lit.Value.Float)
	case ast.Double:
		return fmt.Sprintf("%glf", lit.Value.Double)
	case ast.String:
		return fmt.Sprintf("%q", lit.Value.Str)
	default:
		return fmt.Sprintf("%v", lit.Value)
	}
}

func (s *Sink) SwizzleMask(sw *ast.Swizzle) string {
	if sw.IsMatrix {
		// GLSL indexes matrices by column/row subscript, not a dotted
		// mask; callers compose m[col][row] themselves at the call site
		// via Subscript nodes, so a bare swizzle on a matrix never
		// reaches codegen for GLSL targets. Kept total over panicking.
		return ""
	}
	const set = "xyzw"
	var sb strings.Builder
	sb.WriteByte('.')
	for i := 0; i < sw.Length; i++ {
		sb.WriteByte(set[sw.Offsets[i]])
	}
	return sb.String()
}

// Intrinsic applies spec.md §4.3's GLSL rewrite table.
func (s *Sink) Intrinsic(op string, argTypes []ast.Type, args []string) string {
	switch op {
	case "lerp":
		return fmt.Sprintf("mix(%s)", strings.Join(args, ", "))
	case "saturate":
		return fmt.Sprintf("clamp(%s, 0.0, 1.0)", args[0])
	case "frac":
		return fmt.Sprintf("fract(%s)", args[0])
	case "atan2":
		return fmt.Sprintf("atan(%s)", strings.Join(args, ", "))
	case "mul":
		return s.rewriteMul(argTypes, args)
	case "ddx":
		return fmt.Sprintf("dFdx(%s)", args[0])
	case "ddy":
		return fmt.Sprintf("dFdy(-(%s))", args[0])
	case "asfloat":
		return fmt.Sprintf("intBitsToFloat(%s)", args[0])
	case "asint":
		return fmt.Sprintf("floatBitsToInt(%s)", args[0])
	case "asuint":
		return fmt.Sprintf("floatBitsToUint(%s)", args[0])
	case "f16tof32":
		return fmt.Sprintf("unpackHalf2x16(%s).x", args[0])
	case "f32tof16":
		return fmt.Sprintf("packHalf2x16(vec2(%s, 0.0))", args[0])
	default:
		return fmt.Sprintf("%s(%s)", op, strings.Join(args, ", "))
	}
}

// rewriteMul lowers mul(a,b) to GLSL's `*` operator with the operands
// swapped, `(b * a)`, whatever the operand shapes; it never emits
// matrixCompMult.
func (s *Sink) rewriteMul(argTypes []ast.Type, args []string) string {
	if len(args) != 2 {
		return fmt.Sprintf("(%s)", strings.Join(args, " * "))
	}
	return fmt.Sprintf("(%s * %s)", args[1], args[0])
}

// TextureSample lowers effectfx's sampler pseudo-API to GLSL's combined
// sampler-object `texture(...)` family.
func (s *Sink) TextureSample(op, samplerName string, args []string) string {
	switch op {
	case "tex1D", "tex2D", "tex3D":
		return fmt.Sprintf("texture(%s, %s)", samplerName, strings.Join(args, ", "))
	case "tex1Doffset", "tex2Doffset", "tex3Doffset":
		return fmt.Sprintf("textureOffset(%s, %s, %s)", samplerName, args[0], args[1])
	case "tex1Dlod", "tex2Dlod", "tex3Dlod":
		return fmt.Sprintf("textureLod(%s, %s)", samplerName, strings.Join(args, ", "))
	case "tex1Dlodoffset", "tex2Dlodoffset", "tex3Dlodoffset":
		return fmt.Sprintf("textureLodOffset(%s, %s, 0.0, %s)", samplerName, args[0], args[1])
	case "tex1Dfetch", "tex2Dfetch", "tex3Dfetch":
		return fmt.Sprintf("texelFetch(%s, %s)", samplerName, strings.Join(args, ", "))
	case "tex1Dbias", "tex2Dbias", "tex3Dbias":
		return fmt.Sprintf("texture(%s, %s)", samplerName, strings.Join(args, ", "))
	case "tex1Dsize", "tex2Dsize", "tex3Dsize":
		return fmt.Sprintf("textureSize(%s, 0)", samplerName)
	case "tex1Dgather", "tex2Dgather", "tex3Dgather":
		return fmt.Sprintf("textureGather(%s, %s)", samplerName, strings.Join(args, ", "))
	case "tex1Dgatheroffset", "tex2Dgatheroffset", "tex3Dgatheroffset":
		return fmt.Sprintf("textureGatherOffset(%s, %s, %s)", samplerName, args[0], args[1])
	default:
		return fmt.Sprintf("texture(%s, %s)", samplerName, strings.Join(args, ", "))
	}
}

func (s *Sink) DeclareUniformBlock(b codegen.UniformBlock) string {
	name := b.Name
	if name == "" {
		name = "EffectFXGlobals"
	}
	var sb strings.Builder
	binding := ""
	if s.UseExplicitBindings {
		binding = fmt.Sprintf(", binding = %d", b.Slot)
	}
	fmt.Fprintf(&sb, "layout(std140%s) uniform %sBlock {\n", binding, name)
	for _, f := range b.Fields {
		fmt.Fprintf(&sb, "    %s %s; // offset %d size %d\n", f.TypeName, f.Name, f.Offset, f.Size)
	}
	fmt.Fprintf(&sb, "} %s;\n", name)
	return sb.String()
}

func (s *Sink) DeclareSampler(b codegen.SamplerBinding) string {
	typeName := "sampler2D"
	binding := ""
	if s.UseExplicitBindings {
		binding = fmt.Sprintf("layout(binding = %d) ", b.Slot)
	}
	return fmt.Sprintf("%suniform %s %s;\n", binding, typeName, b.Desc.Name)
}

func (s *Sink) DeclareStruct(decl *ast.StructDecl) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "struct %s {\n", decl.Name)
	for _, f := range decl.Fields {
		fmt.Fprintf(&sb, "    %s %s;\n", s.TypeName(f.Type), f.Name)
	}
	sb.WriteString("};\n")
	return sb.String()
}

func (s *Sink) FunctionSignature(fn *ast.Function) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s(", s.TypeName(fn.ReturnType), fn.Name)
	parts := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		parts[i] = fmt.Sprintf("%s %s", s.TypeName(p.Type), p.Name)
	}
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteString(")")
	return sb.String()
}

// VertexEpilogue flips the clip-space Y axis and remaps [0,1] depth to
// [-1,1], per spec.md §4.3's GLSL clip-space fixup.
func (s *Sink) VertexEpilogue() string {
	return "gl_Position = gl_Position * vec4(1.0, -1.0, 2.0, 1.0) - vec4(0.0, 0.0, gl_Position.w, 0.0);"
}

func (s *Sink) Preamble() string {
	return "#version 450 core\n"
}
