package d3d_test

import (
	"testing"

	"github.com/gogpu/effectfx/backend/d3d"
	"github.com/gogpu/effectfx/codegen"
)

func TestStageTarget(t *testing.T) {
	cases := []struct {
		stage        codegen.Stage
		shaderModel3 bool
		want         string
	}{
		{codegen.StageVertex, false, "vs_5_1"},
		{codegen.StagePixel, false, "ps_5_1"},
		{codegen.StageVertex, true, "vs_3_0"},
		{codegen.StagePixel, true, "ps_3_0"},
	}
	for _, c := range cases {
		got := d3d.StageTarget(c.stage, c.shaderModel3)
		if got != c.want {
			t.Errorf("StageTarget(%v, %v) = %q, want %q", c.stage, c.shaderModel3, got, c.want)
		}
	}
}
