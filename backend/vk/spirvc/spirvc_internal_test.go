package spirvc

import (
	"testing"

	"github.com/gogpu/effectfx/codegen"
)

func TestStageFlag(t *testing.T) {
	if got := stageFlag(codegen.StageVertex); got != "vert" {
		t.Errorf("stageFlag(StageVertex) = %q, want vert", got)
	}
	if got := stageFlag(codegen.StagePixel); got != "frag" {
		t.Errorf("stageFlag(StagePixel) = %q, want frag", got)
	}
}
