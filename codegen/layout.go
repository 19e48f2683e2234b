package codegen

import "github.com/gogpu/effectfx/lang/ast"

// componentSize is the byte width of one scalar component of base,
// per the std140-equivalent rule of spec.md §3 (doubles occupy 8 bytes,
// everything else effectfx supports is 4).
func componentSize(b ast.BaseClass) int {
	if b == ast.Double {
		return 8
	}
	return 4
}

// SizeOf returns the byte size of t for uniform layout purposes. Matrices
// are stored row-major as Rows vectors of Cols components, matching the
// teacher's row-major buffer convention.
func SizeOf(t ast.Type) int {
	cols := t.Cols
	if cols < 1 {
		cols = 1
	}
	size := componentSize(t.Base) * t.Rows * cols
	if t.ArrayLength > 0 {
		size *= t.ArrayLength
	}
	return size
}

// Pack16 implements the layout rule of spec.md §3/§8: an element packs at
// the current offset if it fits in the slack remaining before the next
// 16-byte boundary; otherwise it advances to that boundary.
func Pack16(prevOffset, prevSize, size int) int {
	base := prevOffset + prevSize
	rem := base % 16
	if rem == 0 {
		return base
	}
	slack := 16 - rem
	if size <= slack {
		return base
	}
	return base + slack
}

// layoutFields assigns offsets to a sequence of (name, type) members in
// declaration order, returning the fields and the block's total size
// rounded up to a 16-byte multiple (the GPU-side cbuffer/block stride).
func layoutFields(members []ast.Variable, typeName func(ast.Type) string) ([]UniformField, int) {
	var fields []UniformField
	prevOffset, prevSize := 0, 0
	for i, m := range members {
		size := SizeOf(m.Type)
		offset := 0
		if i > 0 {
			offset = Pack16(prevOffset, prevSize, size)
		}
		fields = append(fields, UniformField{Name: m.Name, TypeName: typeName(m.Type), Offset: offset, Size: size})
		prevOffset, prevSize = offset, size
	}
	total := 0
	if len(fields) > 0 {
		last := fields[len(fields)-1]
		total = last.Offset + last.Size
	}
	if rem := total % 16; rem != 0 {
		total += 16 - rem
	}
	return fields, total
}
