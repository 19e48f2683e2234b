package codegen

import "github.com/gogpu/effectfx/lang/ast"

// Sink is the backend-specific "code sink" capability of spec.md §9:
// "emit type, emit identifier, emit literal, emit swizzle mask, emit
// call, emit resource binding, declare uniform block". Walker drives the
// AST traversal and shape rules; Sink only ever answers "what string
// represents this" for one backend.
type Sink interface {
	// TypeName spells t the way the target language declares it
	// ("float4", "mat4", "Texture2D", ...).
	TypeName(t ast.Type) string

	// Literal renders a folded or unfolded literal value.
	Literal(lit *ast.Literal) string

	// SwizzleMask renders the ".xyz" (vector) or "._m00_m01" (matrix)
	// suffix for sw.
	SwizzleMask(sw *ast.Swizzle) string

	// Intrinsic renders a call to a built-in function, applying any
	// backend-specific name/shape rewrite (spec.md §4.3's lerp->mix table
	// for GLSL; HLSL intrinsics pass through unchanged).
	Intrinsic(op string, argTypes []ast.Type, args []string) string

	// TextureSample renders one tex{1,2,3}D-family call. samplerName is
	// the declared sampler variable; the backend expands it into whatever
	// resource reference(s) the target language needs (a SamplerState +
	// Texture pair for HLSL, a single combined sampler for GLSL).
	TextureSample(op string, samplerName string, args []string) string

	// DeclareUniformBlock renders one cbuffer/uniform-block declaration.
	DeclareUniformBlock(b UniformBlock) string

	// DeclareSampler renders the resource declaration(s) for one sampler
	// (a SamplerState+TextureND pair for HLSL, one samplerND for GLSL).
	DeclareSampler(b SamplerBinding) string

	// DeclareStruct renders one struct type declaration.
	DeclareStruct(decl *ast.StructDecl) string

	// FunctionSignature renders a function's return type, name, and
	// parameter list (without the body).
	FunctionSignature(fn *ast.Function) string

	// VertexEpilogue renders any fixup statements appended to the end of
	// a vertex-stage entry point's body (spec.md §4.3's GLSL clip-space
	// correction; empty for HLSL).
	VertexEpilogue() string

	// Preamble renders any backend-wide helper text placed above every
	// declaration (sm3 legacy constants, include-like boilerplate).
	Preamble() string
}
