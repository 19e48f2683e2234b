// Package token defines the lexical tokens produced by lang/lexer.
package token

import "fmt"

// Location identifies a byte position in the effect source, tracked through
// #line directives so diagnostics report the file the author wrote rather
// than the post-preprocessing offset.
type Location struct {
	File string
	Line int
	Col  int
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Col)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// Kind enumerates token categories.
type Kind int

const (
	Invalid Kind = iota
	EOF

	Identifier
	IntLiteral
	UintLiteral
	FloatLiteral
	DoubleLiteral
	StringLiteral
	BoolLiteral

	// Keywords
	KwVoid
	KwBool
	KwInt
	KwUint
	KwHalf
	KwFloat
	KwDouble
	KwString
	KwStruct
	KwTexture1D
	KwTexture2D
	KwTexture3D
	KwSampler1D
	KwSampler2D
	KwSampler3D
	KwVector
	KwMatrix
	KwTechnique
	KwPass
	KwIf
	KwElse
	KwFor
	KwWhile
	KwDo
	KwSwitch
	KwCase
	KwDefault
	KwBreak
	KwContinue
	KwReturn
	KwDiscard
	KwTrue
	KwFalse
	KwExtern
	KwStatic
	KwUniform
	KwConst
	KwVolatile
	KwPrecise
	KwIn
	KwOut
	KwInout
	KwLinear
	KwNoperspective
	KwCentroid
	KwNointerpolation
	KwRowMajor
	KwColumnMajor
	KwUnorm
	KwSnorm
	KwGroupshared

	// Punctuation / operators
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Semicolon
	Comma
	Colon
	Dot
	Question

	Plus
	Minus
	Star
	Slash
	Percent
	Tilde
	Bang
	Amp
	Pipe
	Caret
	Shl
	Shr
	AmpAmp
	PipePipe
	Lt
	Gt
	Le
	Ge
	EqEq
	NotEq
	Assign
	PlusEq
	MinusEq
	StarEq
	SlashEq
	PercentEq
	AmpEq
	PipeEq
	CaretEq
	ShlEq
	ShrEq
	PlusPlus
	MinusMinus
)

var keywords = map[string]Kind{
	"void": KwVoid, "bool": KwBool, "int": KwInt, "uint": KwUint,
	"half": KwHalf, "float": KwFloat, "double": KwDouble, "string": KwString,
	"struct": KwStruct,
	"texture1D": KwTexture1D, "texture2D": KwTexture2D, "texture3D": KwTexture3D,
	"sampler1D": KwSampler1D, "sampler2D": KwSampler2D, "sampler3D": KwSampler3D,
	"vector": KwVector, "matrix": KwMatrix,
	"technique": KwTechnique, "pass": KwPass,
	"if": KwIf, "else": KwElse, "for": KwFor, "while": KwWhile, "do": KwDo,
	"switch": KwSwitch, "case": KwCase, "default": KwDefault,
	"break": KwBreak, "continue": KwContinue, "return": KwReturn, "discard": KwDiscard,
	"true": KwTrue, "false": KwFalse,
	"extern": KwExtern, "static": KwStatic, "uniform": KwUniform, "const": KwConst,
	"volatile": KwVolatile, "precise": KwPrecise,
	"in": KwIn, "out": KwOut, "inout": KwInout,
	"linear": KwLinear, "noperspective": KwNoperspective, "centroid": KwCentroid,
	"nointerpolation": KwNointerpolation,
	"row_major":       KwRowMajor, "column_major": KwColumnMajor,
	"unorm": KwUnorm, "snorm": KwSnorm, "groupshared": KwGroupshared,
}

// Lookup resolves a keyword, returning (Identifier, false) for non-keywords.
func Lookup(name string) (Kind, bool) {
	k, ok := keywords[name]
	if !ok {
		return Identifier, false
	}
	return k, true
}

// Literal carries a token's decoded literal value, when it has one.
type Literal struct {
	Int    int64
	Uint   uint64
	Float  float32
	Double float64
	Str    string
}

// Token is one lexical unit with its source span and optional literal value.
type Token struct {
	Kind    Kind
	Raw     string
	Loc     Location
	Literal Literal
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%s", t.Kind, t.Raw, t.Loc)
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var kindNames = map[Kind]string{
	Invalid: "Invalid", EOF: "EOF",
	Identifier: "Identifier", IntLiteral: "IntLiteral", UintLiteral: "UintLiteral",
	FloatLiteral: "FloatLiteral", DoubleLiteral: "DoubleLiteral",
	StringLiteral: "StringLiteral", BoolLiteral: "BoolLiteral",
}
