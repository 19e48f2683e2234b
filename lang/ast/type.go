// Package ast defines the typed AST produced by lang/parser: node arena,
// the value-type system every expression carries, and the scoped symbol
// table used for name resolution.
package ast

// BaseClass is the scalar/aggregate kind underlying a Type.
type BaseClass int

const (
	Void BaseClass = iota
	Bool
	Int
	Uint
	Half
	Float
	Double
	String
	Struct
	Texture1D
	Texture2D
	Texture3D
	Sampler1D
	Sampler2D
	Sampler3D
)

func (b BaseClass) IsNumeric() bool {
	switch b {
	case Bool, Int, Uint, Half, Float, Double:
		return true
	}
	return false
}

func (b BaseClass) IsTexture() bool {
	return b == Texture1D || b == Texture2D || b == Texture3D
}

func (b BaseClass) IsSampler() bool {
	return b == Sampler1D || b == Sampler2D || b == Sampler3D
}

// promotionRank orders the promotion lattice of spec.md §4.2:
// bool < int < uint < half < float < double.
var promotionRank = map[BaseClass]int{
	Bool: 0, Int: 1, Uint: 2, Half: 3, Float: 4, Double: 5,
}

// PromotionRank returns the lattice position of a numeric base class, or
// -1 for non-numeric classes.
func PromotionRank(b BaseClass) int {
	if r, ok := promotionRank[b]; ok {
		return r
	}
	return -1
}

// Qualifier is a bit in Type.Qualifiers.
type Qualifier uint32

const (
	QExtern Qualifier = 1 << iota
	QStatic
	QUniform
	QConst
	QVolatile
	QPrecise
	QIn
	QOut
	QInout
	QLinear
	QNoperspective
	QCentroid
	QNointerpolation
	QRowMajor
	QColumnMajor
	QUnorm
	QSnorm
	QGroupshared
)

func (q Qualifier) Has(bit Qualifier) bool { return q&bit != 0 }

// Type is the value type carried by every AST expression and declaration
// (spec.md §3). Definition points at the owning StructDecl node index and
// is meaningful only when Base == Struct.
type Type struct {
	Base        BaseClass
	Rows        int
	Cols        int
	ArrayLength int // 0 = not array, -1 = unsized, >0 = fixed
	Qualifiers  Qualifier
	Definition  NodeIndex
}

// NewScalar builds a 1x1 numeric/bool type.
func NewScalar(b BaseClass) Type { return Type{Base: b, Rows: 1, Cols: 1} }

// NewVector builds an Nx1 type.
func NewVector(b BaseClass, n int) Type { return Type{Base: b, Rows: n, Cols: 1} }

// NewMatrix builds an RxC type; spec.md requires cols >= 2 for matrices.
func NewMatrix(b BaseClass, rows, cols int) Type { return Type{Base: b, Rows: rows, Cols: cols} }

func (t Type) IsScalar() bool { return t.Rows == 1 && t.Cols == 1 && t.Base.IsNumeric() }
func (t Type) IsVector() bool { return t.Cols == 1 && t.Rows > 1 }
func (t Type) IsMatrix() bool { return t.Cols >= 2 }
func (t Type) IsArray() bool  { return t.ArrayLength != 0 }
func (t Type) IsStruct() bool { return t.Base == Struct }
func (t Type) IsSampler() bool {
	return t.Base.IsSampler()
}
func (t Type) IsTexture() bool { return t.Base.IsTexture() }

// Components returns the numeric component count (rows*cols), used for
// swizzle/shape comparisons.
func (t Type) Components() int { return t.Rows * t.Cols }

// SameShape reports whether two types have identical rows/cols/array
// length, ignoring base class and qualifiers.
func (t Type) SameShape(o Type) bool {
	return t.Rows == o.Rows && t.Cols == o.Cols && t.ArrayLength == o.ArrayLength
}

// Valid enforces the invariants of spec.md §3: samplers carry no
// rows/cols, numeric types are 1..4 rows, matrices have cols >= 2.
func (t Type) Valid() bool {
	if t.IsSampler() {
		return t.Rows == 0 && t.Cols == 0
	}
	if t.Base.IsNumeric() {
		if t.Rows < 1 || t.Rows > 4 || t.Cols < 0 || t.Cols > 4 {
			return false
		}
	}
	return true
}
