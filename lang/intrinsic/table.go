// Package intrinsic is the fixed catalogue of built-in functions keyed by
// name and parameter type signature (spec.md §4.1 C3). Overload
// resolution treats an intrinsic candidate exactly like a user function
// candidate — same rank function, same tie-break rule — so the table only
// needs to expose (name, op, return type, param types).
package intrinsic

import "github.com/gogpu/effectfx/lang/ast"

// Signature is one intrinsic overload.
type Signature struct {
	Name   string
	Op     string // lowering hint consumed by codegen (e.g. "sin", "tex2d")
	Return ast.Type
	Params []ast.Type
	// Foldable marks signatures constant-folding may evaluate at compile
	// time (spec.md §4.2's folding subset).
	Foldable bool
}

var byName = map[string][]Signature{}

func register(s Signature) {
	byName[s.Name] = append(byName[s.Name], s)
}

// Lookup returns every overload registered under name.
func Lookup(name string) []Signature {
	return byName[name]
}

func vecOrScalar(base ast.BaseClass, n int) ast.Type {
	if n == 1 {
		return ast.NewScalar(base)
	}
	return ast.NewVector(base, n)
}

// addElementwiseUnary registers one overload per vector width 1..4 for a
// unary float-domain function foldable at compile time.
func addElementwiseUnary(name, op string, foldable bool) {
	for n := 1; n <= 4; n++ {
		t := vecOrScalar(ast.Float, n)
		register(Signature{Name: name, Op: op, Return: t, Params: []ast.Type{t}, Foldable: foldable})
	}
}

func addElementwiseBinary(name, op string, foldable bool) {
	for n := 1; n <= 4; n++ {
		t := vecOrScalar(ast.Float, n)
		register(Signature{Name: name, Op: op, Return: t, Params: []ast.Type{t, t}, Foldable: foldable})
	}
}

func addElementwiseTernary(name, op string, foldable bool) {
	for n := 1; n <= 4; n++ {
		t := vecOrScalar(ast.Float, n)
		register(Signature{Name: name, Op: op, Return: t, Params: []ast.Type{t, t, t}, Foldable: foldable})
	}
}

func init() {
	// Transcendental/elementwise unary, foldable per spec.md §4.2.
	for _, name := range []string{
		"abs", "sin", "cos", "tan", "asin", "acos", "atan",
		"sinh", "cosh", "tanh", "exp", "exp2", "log", "log2", "log10",
		"sqrt", "rsqrt", "ceil", "floor", "round", "trunc", "frac", "saturate",
		"sign", "normalize", "length", "ddx", "ddy",
	} {
		addElementwiseUnary(name, name, isUnaryFoldable(name))
	}

	// abs also applies to integers.
	for n := 1; n <= 4; n++ {
		t := vecOrScalar(ast.Int, n)
		register(Signature{Name: "abs", Op: "abs", Return: t, Params: []ast.Type{t}, Foldable: true})
	}

	addElementwiseBinary("atan2", "atan2", true)
	addElementwiseBinary("pow", "pow", true)
	addElementwiseBinary("min", "min", true)
	addElementwiseBinary("max", "max", true)
	addElementwiseBinary("step", "step", false)
	addElementwiseBinary("fmod", "fmod", true)
	addElementwiseBinary("reflect", "reflect", false)
	addElementwiseTernary("lerp", "lerp", false)
	addElementwiseTernary("clamp", "clamp", true)
	addElementwiseTernary("smoothstep", "smoothstep", false)
	addElementwiseTernary("mad", "mad", true)
	addElementwiseTernary("refract", "refract", false)

	// min/max/clamp also over int, uint for parity with HLSL.
	for _, base := range []ast.BaseClass{ast.Int, ast.Uint} {
		for n := 1; n <= 4; n++ {
			t := vecOrScalar(base, n)
			register(Signature{Name: "min", Op: "min", Return: t, Params: []ast.Type{t, t}, Foldable: true})
			register(Signature{Name: "max", Op: "max", Return: t, Params: []ast.Type{t, t}, Foldable: true})
			register(Signature{Name: "clamp", Op: "clamp", Return: t, Params: []ast.Type{t, t, t}, Foldable: true})
		}
	}

	// dot: (vecN, vecN) -> float
	for n := 2; n <= 4; n++ {
		v := ast.NewVector(ast.Float, n)
		register(Signature{Name: "dot", Op: "dot", Return: ast.NewScalar(ast.Float), Params: []ast.Type{v, v}})
	}
	// cross: (float3, float3) -> float3
	v3 := ast.NewVector(ast.Float, 3)
	register(Signature{Name: "cross", Op: "cross", Return: v3, Params: []ast.Type{v3, v3}})

	// mul: matrix/vector/scalar combinations lowered per-backend (the HLSL
	// sink emits `mul(a,b)` unchanged; the GLSL sink emits `(b * a)`).
	for n := 2; n <= 4; n++ {
		v := ast.NewVector(ast.Float, n)
		m := ast.NewMatrix(ast.Float, n, n)
		register(Signature{Name: "mul", Op: "mul", Return: v, Params: []ast.Type{v, m}})
		register(Signature{Name: "mul", Op: "mul", Return: v, Params: []ast.Type{m, v}})
		register(Signature{Name: "mul", Op: "mul", Return: m, Params: []ast.Type{m, m}})
	}

	// transpose/determinant over square matrices.
	for n := 2; n <= 4; n++ {
		m := ast.NewMatrix(ast.Float, n, n)
		register(Signature{Name: "transpose", Op: "transpose", Return: m, Params: []ast.Type{m}})
		register(Signature{Name: "determinant", Op: "determinant", Return: ast.NewScalar(ast.Float), Params: []ast.Type{m}})
	}

	// Bit-reinterpretation: asfloat/asint/asuint (spec.md §4.3 rewrite
	// targets *BitsTo*), foldable per spec.md §4.2 example ("asfloat(0x...)").
	for n := 1; n <= 4; n++ {
		fv := vecOrScalar(ast.Float, n)
		iv := vecOrScalar(ast.Int, n)
		uv := vecOrScalar(ast.Uint, n)
		register(Signature{Name: "asfloat", Op: "asfloat", Return: fv, Params: []ast.Type{iv}, Foldable: true})
		register(Signature{Name: "asfloat", Op: "asfloat", Return: fv, Params: []ast.Type{uv}, Foldable: true})
		register(Signature{Name: "asint", Op: "asint", Return: iv, Params: []ast.Type{fv}, Foldable: true})
		register(Signature{Name: "asuint", Op: "asuint", Return: uv, Params: []ast.Type{fv}, Foldable: true})
	}
	register(Signature{Name: "f16tof32", Op: "f16tof32", Return: ast.NewScalar(ast.Float), Params: []ast.Type{ast.NewScalar(ast.Uint)}})
	register(Signature{Name: "f32tof16", Op: "f32tof16", Return: ast.NewScalar(ast.Uint), Params: []ast.Type{ast.NewScalar(ast.Float)}})

	registerSamplerIntrinsics()
}

func isUnaryFoldable(name string) bool {
	switch name {
	case "abs", "sin", "cos", "tan", "asin", "acos", "atan",
		"sinh", "cosh", "tanh", "exp", "log", "log10", "sqrt", "ceil", "floor":
		return true
	}
	return false
}

// registerSamplerIntrinsics adds the tex2D/tex1D/tex3D family of spec.md
// §4.3: each takes a sampler of matching dimension plus coordinates, and
// the variants (offset/lod/bias/fetch/gather/size) add their extra
// parameter. None are foldable.
func registerSamplerIntrinsics() {
	dims := []struct {
		suffix string
		base   ast.BaseClass
		coord  int
	}{
		{"1D", ast.Sampler1D, 1},
		{"2D", ast.Sampler2D, 2},
		{"3D", ast.Sampler3D, 3},
	}
	for _, d := range dims {
		sampler := ast.Type{Base: d.base}
		coord := vecOrScalar(ast.Float, d.coord)
		rgba := ast.NewVector(ast.Float, 4)
		name := "tex" + d.suffix

		register(Signature{Name: name, Op: "texsample", Return: rgba, Params: []ast.Type{sampler, coord}})
		register(Signature{Name: name + "offset", Op: "texsampleoffset", Return: rgba, Params: []ast.Type{sampler, coord, ast.NewVector(ast.Int, d.coord)}})
		register(Signature{Name: name + "lod", Op: "texsamplelod", Return: rgba, Params: []ast.Type{sampler, ast.NewVector(ast.Float, d.coord+1)}})
		register(Signature{Name: name + "lodoffset", Op: "texsamplelodoffset", Return: rgba, Params: []ast.Type{sampler, ast.NewVector(ast.Float, d.coord+1), ast.NewVector(ast.Int, d.coord)}})
		register(Signature{Name: name + "fetch", Op: "texfetch", Return: rgba, Params: []ast.Type{sampler, ast.NewVector(ast.Int, d.coord+1)}})
		register(Signature{Name: name + "bias", Op: "texbias", Return: rgba, Params: []ast.Type{sampler, ast.NewVector(ast.Float, d.coord+1)}})
		register(Signature{Name: name + "size", Op: "texsize", Return: ast.NewVector(ast.Int, d.coord), Params: []ast.Type{sampler}})
		register(Signature{Name: name + "gather", Op: "texgather", Return: rgba, Params: []ast.Type{sampler, coord}})
		register(Signature{Name: name + "gatheroffset", Op: "texgatheroffset", Return: rgba, Params: []ast.Type{sampler, coord, ast.NewVector(ast.Int, d.coord)}})
	}
}
