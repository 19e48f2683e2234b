package parser

import (
	"testing"

	"github.com/gogpu/effectfx/lang/ast"
)

func TestRankArgument(t *testing.T) {
	float1 := ast.NewScalar(ast.Float)
	float3 := ast.NewVector(ast.Float, 3)
	float2 := ast.NewVector(ast.Float, 2)
	int1 := ast.NewScalar(ast.Int)

	tests := []struct {
		name     string
		from, to ast.Type
		viable   bool
	}{
		{"exact match", float1, float1, true},
		{"numeric promotion", int1, float1, true},
		{"scalar broadcast to vector", float1, float3, true},
		{"vector-to-scalar contraction", float3, float1, true},
		{"vector truncation", float3, float2, true},
		{"vector widening is not viable", float2, float3, false},
		{"non-numeric mismatch", ast.NewScalar(ast.Texture2D), float1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank := rankArgument(tt.from, tt.to)
			if tt.viable && rank == noMatch {
				t.Fatalf("expected %v->%v to be viable, got noMatch", tt.from, tt.to)
			}
			if !tt.viable && rank != noMatch {
				t.Fatalf("expected %v->%v to be non-viable, got rank %d", tt.from, tt.to, rank)
			}
		})
	}
}

func TestRankArgumentContractionCostsMoreThanBroadcast(t *testing.T) {
	float1 := ast.NewScalar(ast.Float)
	float3 := ast.NewVector(ast.Float, 3)

	broadcast := rankArgument(float1, float3)
	contraction := rankArgument(float3, float1)

	if contraction <= broadcast {
		t.Fatalf("expected contraction rank (%d) to exceed broadcast rank (%d)", contraction, broadcast)
	}
}
