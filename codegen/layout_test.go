package codegen

import (
	"testing"

	"github.com/gogpu/effectfx/lang/ast"
)

func TestSizeOfScalarsAndVectors(t *testing.T) {
	cases := []struct {
		t    ast.Type
		want int
	}{
		{ast.NewScalar(ast.Float), 4},
		{ast.NewScalar(ast.Double), 8},
		{ast.NewVector(ast.Float, 3), 12},
		{ast.NewVector(ast.Float, 4), 16},
		{ast.NewMatrix(ast.Float, 4, 4), 64},
	}
	for _, c := range cases {
		if got := SizeOf(c.t); got != c.want {
			t.Errorf("SizeOf(%+v) = %d, want %d", c.t, got, c.want)
		}
	}
}

func TestSizeOfArray(t *testing.T) {
	arr := ast.NewVector(ast.Float, 4)
	arr.ArrayLength = 3
	if got, want := SizeOf(arr), 48; got != want {
		t.Fatalf("SizeOf(array) = %d, want %d", got, want)
	}
}

// TestPack16FitsInSlot exercises the "fits in remaining 16-byte slot" arm
// of spec.md's std140-equivalent packing rule.
func TestPack16FitsInSlot(t *testing.T) {
	// prev field: float at offset 0, size 4 -> 12 bytes remain in the slot.
	// next field: float3 (size 12) fits exactly.
	if got, want := Pack16(0, 4, 12), 4; got != want {
		t.Fatalf("Pack16 = %d, want %d", got, want)
	}
}

// TestPack16AdvancesToNextBoundary exercises the "does not fit, advance to
// next 16-byte boundary" arm.
func TestPack16AdvancesToNextBoundary(t *testing.T) {
	// prev field: float at offset 0, size 4 -> 12 bytes remain.
	// next field: float4 (size 16) does not fit in 12 remaining bytes.
	if got, want := Pack16(0, 4, 16), 16; got != want {
		t.Fatalf("Pack16 = %d, want %d", got, want)
	}
}

func TestPack16ExactBoundary(t *testing.T) {
	if got, want := Pack16(0, 16, 4), 16; got != want {
		t.Fatalf("Pack16 = %d, want %d", got, want)
	}
}

func TestLayoutFieldsTotalRoundsUpTo16(t *testing.T) {
	members := []ast.Variable{
		{Name: "a", Type: ast.NewScalar(ast.Float)},
		{Name: "b", Type: ast.NewVector(ast.Float, 3)},
	}
	typeName := func(t ast.Type) string { return "float" }
	fields, size := layoutFields(members, typeName)
	if len(fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(fields))
	}
	if fields[0].Offset != 0 || fields[0].Size != 4 {
		t.Fatalf("field a = %+v", fields[0])
	}
	if fields[1].Offset != 4 || fields[1].Size != 12 {
		t.Fatalf("field b = %+v", fields[1])
	}
	if size != 16 {
		t.Fatalf("total size = %d, want 16", size)
	}
}
