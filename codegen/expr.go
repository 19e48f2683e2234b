package codegen

import (
	"fmt"
	"strings"

	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/intrinsic"
)

var unarySymbol = map[ast.UnaryOp]string{
	ast.UnNegate:   "-",
	ast.UnBitNot:   "~",
	ast.UnLogicNot: "!",
}

var binarySymbol = map[ast.BinaryOp]string{
	ast.BinAdd: "+", ast.BinSub: "-", ast.BinMul: "*", ast.BinDiv: "/", ast.BinMod: "%",
	ast.BinShl: "<<", ast.BinShr: ">>",
	ast.BinLt: "<", ast.BinGt: ">", ast.BinLe: "<=", ast.BinGe: ">=",
	ast.BinEq: "==", ast.BinNe: "!=",
	ast.BinBitAnd: "&", ast.BinBitXor: "^", ast.BinBitOr: "|",
	ast.BinLogicAnd: "&&", ast.BinLogicOr: "||",
}

var assignSymbol = map[ast.AssignOp]string{
	ast.AsSimple: "=", ast.AsAdd: "+=", ast.AsSub: "-=", ast.AsMul: "*=", ast.AsDiv: "/=", ast.AsMod: "%=",
	ast.AsBitAnd: "&=", ast.AsBitOr: "|=", ast.AsBitXor: "^=", ast.AsShl: "<<=", ast.AsShr: ">>=",
}

// Expr renders the expression at idx as target-language source. Operators
// common to both HLSL and GLSL (the full C-like set spec.md §4.2 defines)
// are emitted directly; only type spellings, literals, swizzle masks, and
// intrinsic/texture-sample calls are delegated to the Sink.
func (w *Walker) Expr(idx ast.NodeIndex) string {
	n := w.res.Arena.At(idx)
	switch e := n.(type) {
	case nil:
		return ""
	case *ast.Literal:
		return w.sink.Literal(e)
	case *ast.LValue:
		return e.Name
	case *ast.Unary:
		if e.Op == ast.UnCast {
			return fmt.Sprintf("(%s)(%s)", w.sink.TypeName(e.CastType), w.Expr(e.Operand))
		}
		if e.Op == ast.UnPreInc || e.Op == ast.UnPreDec {
			sym := "++"
			if e.Op == ast.UnPreDec {
				sym = "--"
			}
			return sym + w.Expr(e.Operand)
		}
		if e.Op == ast.UnPostInc || e.Op == ast.UnPostDec {
			sym := "++"
			if e.Op == ast.UnPostDec {
				sym = "--"
			}
			return w.Expr(e.Operand) + sym
		}
		return unarySymbol[e.Op] + w.Expr(e.Operand)
	case *ast.Binary:
		return fmt.Sprintf("(%s %s %s)", w.Expr(e.Left), binarySymbol[e.Op], w.Expr(e.Right))
	case *ast.Assignment:
		return fmt.Sprintf("%s %s %s", w.Expr(e.Target), assignSymbol[e.Op], w.Expr(e.Value))
	case *ast.Conditional:
		return fmt.Sprintf("(%s ? %s : %s)", w.Expr(e.Cond), w.Expr(e.WhenTrue), w.Expr(e.WhenFalse))
	case *ast.Call:
		return fmt.Sprintf("%s(%s)", e.Name, w.exprList(e.Args))
	case *ast.Intrinsic:
		return w.emitIntrinsicCall(e)
	case *ast.Constructor:
		return fmt.Sprintf("%s(%s)", w.sink.TypeName(e.Type), w.exprList(e.Args))
	case *ast.FieldSelection:
		return fmt.Sprintf("%s.%s", w.Expr(e.Struct), e.FieldName)
	case *ast.Swizzle:
		return w.Expr(e.Operand) + w.sink.SwizzleMask(e)
	case *ast.Sequence:
		return fmt.Sprintf("(%s)", w.exprList(e.Items))
	case *ast.InitializerList:
		return fmt.Sprintf("{%s}", w.exprList(e.Items))
	case *ast.Subscript:
		return fmt.Sprintf("%s[%s]", w.Expr(e.Operand), w.Expr(e.Index))
	default:
		return ""
	}
}

func (w *Walker) exprList(items []ast.NodeIndex) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = w.Expr(it)
	}
	return strings.Join(parts, ", ")
}

// emitIntrinsicCall special-cases the tex{1,2,3}D sampler family (whose
// first source argument names a *sampler*, not a value expression — spec.md
// §4.3's pseudo-API) and otherwise applies the Sink's intrinsic rewrite.
func (w *Walker) emitIntrinsicCall(e *ast.Intrinsic) string {
	if strings.HasPrefix(e.Op, "tex") {
		samplerName := ""
		if lv, ok := w.res.Arena.At(e.Args[0]).(*ast.LValue); ok {
			samplerName = lv.Name
		}
		rest := make([]string, 0, len(e.Args)-1)
		for _, a := range e.Args[1:] {
			rest = append(rest, w.Expr(a))
		}
		return w.sink.TextureSample(e.Op, samplerName, rest)
	}

	argTypes := make([]ast.Type, len(e.Args))
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = w.Expr(a)
		argTypes[i] = w.exprType(a)
	}
	return w.sink.Intrinsic(e.Op, argTypes, args)
}

// exprType recovers the static type of a sub-expression by reading the
// Type field every expression node carries (populated by lang/parser's
// make* constructors).
func (w *Walker) exprType(idx ast.NodeIndex) ast.Type {
	switch e := w.res.Arena.At(idx).(type) {
	case *ast.Literal:
		return e.Type
	case *ast.LValue:
		return e.Type
	case *ast.Unary:
		return e.Type
	case *ast.Binary:
		return e.Type
	case *ast.Assignment:
		return e.Type
	case *ast.Conditional:
		return e.Type
	case *ast.Call:
		return e.Type
	case *ast.Intrinsic:
		return e.Type
	case *ast.Constructor:
		return e.Type
	case *ast.FieldSelection:
		return e.Type
	case *ast.Swizzle:
		return e.Type
	case *ast.Subscript:
		return e.Type
	default:
		return ast.Type{}
	}
}

// LookupIntrinsicSignature is used by Sink implementations that need the
// registered return/param shapes (e.g. to pick a GLSL overload name per
// component count) rather than just the op string.
func LookupIntrinsicSignature(name string, argc int) (intrinsic.Signature, bool) {
	for _, s := range intrinsic.Lookup(name) {
		if len(s.Params) == argc {
			return s, true
		}
	}
	return intrinsic.Signature{}, false
}
