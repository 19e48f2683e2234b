// build.go implements the type-checking rules of spec.md §4.2 for each
// expression node kind, and wires each into the constant folder.
package parser

import (
	"github.com/gogpu/effectfx/diag"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/token"
)

func (p *Parser) makeLiteralInt(loc token.Location, v int64) ast.NodeIndex {
	return p.arena.Add(&ast.Literal{Base: ast.Base{Loc: loc}, Type: ast.NewScalar(ast.Int), Value: ast.LiteralValue{Int: v}})
}
func (p *Parser) makeLiteralUint(loc token.Location, v uint64) ast.NodeIndex {
	return p.arena.Add(&ast.Literal{Base: ast.Base{Loc: loc}, Type: ast.NewScalar(ast.Uint), Value: ast.LiteralValue{Uint: v}})
}
func (p *Parser) makeLiteralFloat(loc token.Location, v float32) ast.NodeIndex {
	return p.arena.Add(&ast.Literal{Base: ast.Base{Loc: loc}, Type: ast.NewScalar(ast.Float), Value: ast.LiteralValue{Float: v}})
}
func (p *Parser) makeLiteralDouble(loc token.Location, v float64) ast.NodeIndex {
	return p.arena.Add(&ast.Literal{Base: ast.Base{Loc: loc}, Type: ast.NewScalar(ast.Double), Value: ast.LiteralValue{Double: v}})
}
func (p *Parser) makeLiteralBool(loc token.Location, v bool) ast.NodeIndex {
	return p.arena.Add(&ast.Literal{Base: ast.Base{Loc: loc}, Type: ast.NewScalar(ast.Bool), Value: ast.LiteralValue{Bool: v}})
}
func (p *Parser) makeLiteralString(loc token.Location, v string) ast.NodeIndex {
	return p.arena.Add(&ast.Literal{Base: ast.Base{Loc: loc}, Type: ast.Type{Base: ast.String}, Value: ast.LiteralValue{Str: v}})
}

func (p *Parser) typeOf(idx ast.NodeIndex) ast.Type {
	switch n := p.arena.At(idx).(type) {
	case *ast.Literal:
		return n.Type
	case *ast.LValue:
		return n.Type
	case *ast.Unary:
		return n.Type
	case *ast.Binary:
		return n.Type
	case *ast.Assignment:
		return n.Type
	case *ast.Conditional:
		return n.Type
	case *ast.Call:
		return n.Type
	case *ast.Intrinsic:
		return n.Type
	case *ast.Constructor:
		return n.Type
	case *ast.FieldSelection:
		return n.Type
	case *ast.Swizzle:
		return n.Type
	case *ast.Subscript:
		return n.Type
	case *ast.InitializerList:
		return n.Type
	}
	return ast.Type{}
}

// makeUnary applies the unary operator type rules: ~ requires integral
// (3082), ++/-- require a non-const l-value (3025).
func (p *Parser) makeUnary(loc token.Location, op ast.UnaryOp, operand ast.NodeIndex) ast.NodeIndex {
	t := p.typeOf(operand)
	if op == ast.UnBitNot && !isIntegral(t.Base) {
		p.diags.Error(loc, diag.CodeRequiresIntegral, "bitwise not requires an integral operand")
	}
	if op == ast.UnPreInc || op == ast.UnPreDec {
		p.checkAssignableLValue(loc, operand)
	}
	u := &ast.Unary{Base: ast.Base{Loc: loc}, Type: t, Op: op, Operand: operand}
	idx := p.arena.Add(u)
	p.foldUnary(idx, u)
	return idx
}

func (p *Parser) makeUnaryPostfix(loc token.Location, op ast.UnaryOp, operand ast.NodeIndex) ast.NodeIndex {
	p.checkAssignableLValue(loc, operand)
	t := p.typeOf(operand)
	idx := p.arena.Add(&ast.Unary{Base: ast.Base{Loc: loc}, Type: t, Op: op, Operand: operand})
	return idx
}

func (p *Parser) checkAssignableLValue(loc token.Location, idx ast.NodeIndex) {
	lv, ok := p.arena.At(idx).(*ast.LValue)
	if !ok {
		// Swizzles/subscripts of an l-value are checked at their own site;
		// anything else (a literal, a call result) is never assignable.
		switch p.arena.At(idx).(type) {
		case *ast.Swizzle, *ast.Subscript, *ast.FieldSelection:
			return
		}
		p.diags.Error(loc, diag.CodeLValueIsConst, "expression is not an l-value")
		return
	}
	v, _ := p.arena.At(p.syms.Get(lv.Symbol).Node).(*ast.Variable)
	if v != nil && v.Type.Qualifiers.Has(ast.QConst) {
		p.diags.Error(loc, diag.CodeLValueIsConst, "l-value %q is const", lv.Name)
	}
}

func isIntegral(b ast.BaseClass) bool { return b == ast.Int || b == ast.Uint || b == ast.Bool }

// makeCast implements the cast rule of spec.md §4.2: numeric T1{r1,c1} to
// numeric T2{r2,c2} is allowed if both are numeric and either T1 is
// scalar, or r1>=r2 and c1>=c2; narrowing warns 3206.
func (p *Parser) makeCast(loc token.Location, to ast.Type, operand ast.NodeIndex) ast.NodeIndex {
	from := p.typeOf(operand)
	if from.Base.IsNumeric() && to.Base.IsNumeric() {
		shapeOK := from.IsScalar() || (from.Rows >= to.Rows && from.Cols >= to.Cols)
		if !shapeOK {
			p.diags.Error(loc, diag.CodeCannotConvert, "cannot convert %v to %v", from, to)
		} else if from.Components() > to.Components() {
			p.warnf(diag.CodeImplicitTruncation, "implicit truncation converting to %v", to)
		}
	} else if from.Base != to.Base {
		p.diags.Error(loc, diag.CodeCannotConvert, "cannot convert %v to %v", from, to)
	}
	u := &ast.Unary{Base: ast.Base{Loc: loc}, Type: to, Op: ast.UnCast, CastType: to, Operand: operand}
	idx := p.arena.Add(u)
	p.foldUnary(idx, u)
	return idx
}

// promote picks the result base class of a binary operation using the
// lattice bool<int<uint<half<float<double> (spec.md §4.2).
func promote(a, b ast.BaseClass) ast.BaseClass {
	ra, rb := ast.PromotionRank(a), ast.PromotionRank(b)
	if ra < 0 || rb < 0 {
		return a
	}
	if ra >= rb {
		return a
	}
	return b
}

// makeBinary implements arithmetic/relational/logical/bitwise type rules
// of spec.md §4.2.
func (p *Parser) makeBinary(loc token.Location, left ast.NodeIndex, op ast.BinaryOp, right ast.NodeIndex) ast.NodeIndex {
	lt, rt := p.typeOf(left), p.typeOf(right)
	var resultType ast.Type

	switch op {
	case ast.BinShl, ast.BinShr, ast.BinBitAnd, ast.BinBitXor, ast.BinBitOr:
		if !isIntegral(lt.Base) || !isIntegral(rt.Base) {
			p.diags.Error(loc, diag.CodeRequiresIntegral, "bitwise/shift operators require integral operands")
		}
		resultType = shapeResult(p, loc, lt, rt)
		resultType.Base = promote(lt.Base, rt.Base)
	case ast.BinLogicAnd, ast.BinLogicOr:
		resultType = ast.NewScalar(ast.Bool)
	case ast.BinEq, ast.BinNe:
		if lt.IsArray() || rt.IsArray() || (lt.IsStruct() && rt.IsStruct() && lt.Definition != rt.Definition) {
			p.diags.Error(loc, diag.CodeTypeMismatch, "cannot compare arrays or mismatched structs")
		}
		resultType = resultShapeBool(lt, rt)
	case ast.BinLt, ast.BinGt, ast.BinLe, ast.BinGe:
		resultType = resultShapeBool(lt, rt)
	default: // arithmetic
		resultType = shapeResult(p, loc, lt, rt)
		resultType.Base = promote(lt.Base, rt.Base)
	}

	b := &ast.Binary{Base: ast.Base{Loc: loc}, Type: resultType, Op: op, Left: left, Right: right}
	idx := p.arena.Add(b)
	p.foldBinary(idx, b)
	return idx
}

// shapeResult implements "if either side is scalar, the other's shape
// determines the result; otherwise shapes must match exactly" (3020).
func shapeResult(p *Parser, loc token.Location, a, b ast.Type) ast.Type {
	if a.IsScalar() {
		return ast.Type{Rows: b.Rows, Cols: b.Cols}
	}
	if b.IsScalar() {
		return ast.Type{Rows: a.Rows, Cols: a.Cols}
	}
	if a.Rows != b.Rows || a.Cols != b.Cols {
		p.diags.Error(loc, diag.CodeTypeMismatch, "operand shapes do not match (%dx%d vs %dx%d)", a.Rows, a.Cols, b.Rows, b.Cols)
	}
	return ast.Type{Rows: a.Rows, Cols: a.Cols}
}

func resultShapeBool(a, b ast.Type) ast.Type {
	rows, cols := a.Rows, a.Cols
	if a.IsScalar() {
		rows, cols = b.Rows, b.Cols
	}
	return ast.Type{Base: ast.Bool, Rows: rows, Cols: cols}
}

// makeAssignment type-checks an assignment target as an l-value and
// carries the target's type as the expression's result type.
func (p *Parser) makeAssignment(loc token.Location, target ast.NodeIndex, op ast.AssignOp, value ast.NodeIndex) ast.NodeIndex {
	p.checkAssignableLValue(loc, target)
	t := p.typeOf(target)
	return p.arena.Add(&ast.Assignment{Base: ast.Base{Loc: loc}, Type: t, Op: op, Target: target, Value: value})
}

// makeConditional implements the ternary rule of spec.md §4.2: condition
// must be scalar/vector, branches must share a shape (3020), and the
// result is the smaller of the two shapes (with a truncation warning).
func (p *Parser) makeConditional(loc token.Location, cond, whenTrue, whenFalse ast.NodeIndex) ast.NodeIndex {
	ct := p.typeOf(cond)
	if ct.IsMatrix() {
		p.diags.Error(loc, diag.CodeTypeMismatch, "ternary condition must be scalar or vector")
	}
	tt, ft := p.typeOf(whenTrue), p.typeOf(whenFalse)
	resultRows, resultCols := tt.Rows, tt.Cols
	if ft.Components() < tt.Components() {
		resultRows, resultCols = ft.Rows, ft.Cols
	}
	if tt.Components() != ft.Components() {
		p.warnf(diag.CodeImplicitTruncation, "ternary branches differ in shape, truncating")
	} else if tt.Rows != ft.Rows || tt.Cols != ft.Cols {
		p.diags.Error(loc, diag.CodeTypeMismatch, "ternary branches must share a shape")
	}
	resultType := ast.Type{Base: promote(tt.Base, ft.Base), Rows: resultRows, Cols: resultCols}
	c := &ast.Conditional{Base: ast.Base{Loc: loc}, Type: resultType, Cond: cond, WhenTrue: whenTrue, WhenFalse: whenFalse}
	idx := p.arena.Add(c)
	p.foldConditional(idx, c)
	return idx
}

// makeSubscript strips one axis per spec.md §4.2: array->element,
// matrix->row vector, vector->scalar. The index must be scalar.
func (p *Parser) makeSubscript(loc token.Location, operand, index ast.NodeIndex) ast.NodeIndex {
	ot := p.typeOf(operand)
	it := p.typeOf(index)
	if !it.IsScalar() {
		p.diags.Error(loc, diag.CodeTypeMismatch, "subscript index must be scalar")
	}
	result := ot
	switch {
	case ot.IsArray():
		result.ArrayLength = 0
	case ot.IsMatrix():
		result = ast.Type{Base: ot.Base, Rows: ot.Cols, Cols: 1}
	case ot.IsVector() || ot.IsScalar():
		result = ast.Type{Base: ot.Base, Rows: 1, Cols: 1}
	}
	return p.arena.Add(&ast.Subscript{Base: ast.Base{Loc: loc}, Type: result, Operand: operand, Index: index})
}

// makeConstructor type-checks `Type(args...)`. The result has exactly
// Type's shape; argument count/shape checking is intentionally permissive
// (component concatenation) matching HLSL constructor semantics.
func (p *Parser) makeConstructor(loc token.Location, ty ast.Type, args []ast.NodeIndex) ast.NodeIndex {
	total := 0
	for _, a := range args {
		total += p.typeOf(a).Components()
	}
	if len(args) > 0 && total != ty.Components() && !(len(args) == 1) {
		p.warnf(diag.CodeImplicitTruncation, "constructor argument component count (%d) does not match target (%d)", total, ty.Components())
	}
	c := &ast.Constructor{Base: ast.Base{Loc: loc}, Type: ty, Args: args}
	idx := p.arena.Add(c)
	p.foldConstructor(idx, c)
	return idx
}
