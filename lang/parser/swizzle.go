// swizzle.go resolves `.name` postfix expressions into either a struct
// field selection or a vector/matrix swizzle, following spec.md §4.2.
package parser

import (
	"github.com/gogpu/effectfx/diag"
	"github.com/gogpu/effectfx/lang/ast"
	"github.com/gogpu/effectfx/lang/token"
)

var swizzleSets = [][]byte{
	[]byte("xyzw"), []byte("rgba"), []byte("stpq"),
}

func swizzleSetIndex(c byte) (set, idx int, ok bool) {
	for s, chars := range swizzleSets {
		for i, ch := range chars {
			if ch == c {
				return s, i, true
			}
		}
	}
	return 0, 0, false
}

func (p *Parser) resolveFieldOrSwizzle(loc token.Location, operand ast.NodeIndex, name string) ast.NodeIndex {
	ot := p.typeOf(operand)

	if ot.IsStruct() {
		return p.resolveFieldSelection(loc, operand, ot, name)
	}
	if ot.IsMatrix() {
		return p.resolveMatrixSwizzle(loc, operand, ot, name)
	}
	if ot.IsVector() || ot.IsScalar() {
		return p.resolveVectorSwizzle(loc, operand, ot, name)
	}
	p.diags.Error(loc, diag.CodeSyntaxError, "cannot select field %q on this type", name)
	return operand
}

func (p *Parser) resolveFieldSelection(loc token.Location, operand ast.NodeIndex, ot ast.Type, name string) ast.NodeIndex {
	decl, _ := p.arena.At(ot.Definition).(*ast.StructDecl)
	if decl == nil {
		p.diags.Error(loc, diag.CodeUndeclaredIdentifier, "struct definition missing for field %q", name)
		return operand
	}
	for i, f := range decl.Fields {
		if f.Name == name {
			return p.arena.Add(&ast.FieldSelection{Base: ast.Base{Loc: loc}, Type: f.Type, Struct: operand, FieldName: name, FieldIndex: i})
		}
	}
	p.diags.Error(loc, diag.CodeUndeclaredIdentifier, "struct %q has no field %q", decl.Name, name)
	return operand
}

// resolveVectorSwizzle implements spec.md §4.2: scalars and vectors allow
// masks up to length 4 drawn from exactly one of {xyzw, rgba, stpq};
// mixing sets or indexing past the operand's component count is 3018. A
// duplicate mask entry makes the result const (and strips uniform).
func (p *Parser) resolveVectorSwizzle(loc token.Location, operand ast.NodeIndex, ot ast.Type, name string) ast.NodeIndex {
	if len(name) == 0 || len(name) > 4 {
		p.diags.Error(loc, diag.CodeSwizzleInvalid, "swizzle mask %q has invalid length", name)
		return operand
	}
	var offsets [4]int8
	set := -1
	seen := map[byte]bool{}
	hasDup := false
	ok := true
	for i := 0; i < len(name); i++ {
		s, idx, found := swizzleSetIndex(name[i])
		if !found {
			p.diags.Error(loc, diag.CodeSwizzleInvalid, "invalid swizzle character %q", name[i])
			ok = false
			continue
		}
		if set == -1 {
			set = s
		} else if set != s {
			p.diags.Error(loc, diag.CodeSwizzleInvalid, "swizzle mask %q mixes component sets", name)
			ok = false
		}
		if idx >= ot.Components() {
			p.diags.Error(loc, diag.CodeSwizzleInvalid, "swizzle index %d out of range for %d-component value", idx, ot.Components())
			ok = false
		}
		if seen[name[i]] {
			hasDup = true
		}
		seen[name[i]] = true
		offsets[i] = int8(idx)
	}
	if !ok {
		return operand
	}
	resultType := ast.Type{Base: ot.Base, Rows: len(name), Cols: 1}
	if len(name) == 1 {
		resultType.Cols = 1
	}
	if hasDup {
		resultType.Qualifiers |= ast.QConst
		resultType.Qualifiers &^= ast.QUniform
	}
	return p.arena.Add(&ast.Swizzle{Base: ast.Base{Loc: loc}, Type: resultType, Operand: operand, Offsets: offsets, Length: len(name), Const: hasDup})
}

// resolveMatrixSwizzle implements the `_m{row}{col}` (0-based) and
// `_{row}{col}` (1-based) forms, groups of 3 or 4 characters, mixed forms
// rejected, four components max (spec.md §4.2).
func (p *Parser) resolveMatrixSwizzle(loc token.Location, operand ast.NodeIndex, ot ast.Type, name string) ast.NodeIndex {
	isM := len(name) >= 4 && name[0] == '_' && name[1] == 'm'
	groupLen := 3
	if isM {
		groupLen = 4
	}
	if len(name)%groupLen != 0 {
		p.diags.Error(loc, diag.CodeSwizzleInvalid, "matrix swizzle mask %q has invalid length", name)
		return operand
	}
	n := len(name) / groupLen
	if n > 4 {
		p.diags.Error(loc, diag.CodeSwizzleInvalid, "matrix swizzle mask %q selects more than 4 components", name)
		return operand
	}
	var offsets [4]int8
	ok := true
	for g := 0; g < n; g++ {
		chunk := name[g*groupLen : (g+1)*groupLen]
		if chunk[0] != '_' {
			p.diags.Error(loc, diag.CodeSwizzleInvalid, "matrix swizzle group %q must start with '_'", chunk)
			ok = false
			continue
		}
		var rowCh, colCh byte
		base := 0
		if isM {
			if chunk[1] != 'm' {
				p.diags.Error(loc, diag.CodeSwizzleInvalid, "matrix swizzle group %q must be of the form _mRC", chunk)
				ok = false
				continue
			}
			rowCh, colCh = chunk[2], chunk[3]
		} else {
			rowCh, colCh = chunk[1], chunk[2]
			base = 1
		}
		if rowCh < '0'+byte(base) || rowCh > '3'+byte(base) || colCh < '0'+byte(base) || colCh > '3'+byte(base) {
			p.diags.Error(loc, diag.CodeSwizzleInvalid, "matrix swizzle group %q index out of range", chunk)
			ok = false
			continue
		}
		row := int(rowCh-'0') - base
		col := int(colCh-'0') - base
		if row >= ot.Rows || col >= ot.Cols {
			p.diags.Error(loc, diag.CodeSwizzleInvalid, "matrix swizzle group %q out of bounds for %dx%d matrix", chunk, ot.Rows, ot.Cols)
			ok = false
			continue
		}
		offsets[g] = int8(row*4 + col)
	}
	if !ok {
		return operand
	}
	resultType := ast.Type{Base: ot.Base, Rows: n, Cols: 1}
	return p.arena.Add(&ast.Swizzle{Base: ast.Base{Loc: loc}, Type: resultType, Operand: operand, Offsets: offsets, Length: n, IsMatrix: true})
}
