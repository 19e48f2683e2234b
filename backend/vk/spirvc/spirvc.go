// Package spirvc compiles GLSL text to SPIR-V by shelling out to
// glslangValidator. No library in the retrieved example pack compiles
// GLSL to SPIR-V in-process (naga only lowers WGSL); glslangValidator is
// the reference compiler the Vulkan SDK ships, invoked the same way a
// shader build step would in a real asset pipeline.
package spirvc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"

	"github.com/gogpu/effectfx/codegen"
)

// stageFlag maps a codegen.Stage to glslangValidator's -S stage flag.
func stageFlag(stage codegen.Stage) string {
	if stage == codegen.StageVertex {
		return "vert"
	}
	return "frag"
}

// Compile runs glslangValidator against source and returns the resulting
// SPIR-V words. entryPoint is passed through via -e since effectfx's own
// codegen/glsl sink names the entry function after the effect's declared
// name rather than GLSL's usual implicit "main".
func Compile(source, entryPoint string, stage codegen.Stage) ([]uint32, error) {
	tmp, err := os.CreateTemp("", "effectfx-*."+stageFlag(stage))
	if err != nil {
		return nil, fmt.Errorf("spirvc: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(source); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("spirvc: write source: %w", err)
	}
	tmp.Close()

	out := tmp.Name() + ".spv"
	defer os.Remove(out)

	cmd := exec.Command("glslangValidator", "-V", "-S", stageFlag(stage), "-e", entryPoint, "--source-entrypoint", entryPoint, "-o", out, tmp.Name())
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("spirvc: glslangValidator: %w: %s", err, stderr.String())
	}

	blob, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("spirvc: read output: %w", err)
	}
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("spirvc: SPIR-V output is not word-aligned (%d bytes)", len(blob))
	}

	words := make([]uint32, len(blob)/4)
	if err := binary.Read(bytes.NewReader(blob), binary.LittleEndian, &words); err != nil {
		return nil, fmt.Errorf("spirvc: decode SPIR-V words: %w", err)
	}
	return words, nil
}
