// Package gl is effectfx's OpenGL4 backend: a native hal.Device/Queue/
// CommandEncoder implementation built directly on github.com/go-gl/gl,
// plus the runtime.ShaderCompiler that feeds it effectfx's own GLSL text.
//
// hal/gles, the teacher's own GL backend (github.com/gogpu/wgpu/hal/gles),
// cannot host this codegen path: its CreateRenderPipeline always lowers
// ShaderModuleDescriptor.Source.WGSL through naga (hal/gles/shader.go), and
// hal.ShaderSource carries no field for native GLSL text. spec.md's OpenGL
// GLSL emitter (codegen/glsl) requires a device that accepts that text
// as-is, so this package supplies its own Device (device.go), Queue/
// CommandEncoder/RenderPassEncoder (encoder.go) and resource types
// (resource.go, format.go), grounded on hal/gles's own call sequences but
// issued through github.com/go-gl/gl/v4.6-core/gl - the same library
// soypat-glgl uses for its shader-compile idiom, which NewShaderCompiler
// below mirrors.
package gl

import (
	"errors"
	"fmt"
	"strings"

	ggl "github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/wgpu/hal"
)

// NewShaderCompiler returns a runtime.ShaderCompiler that compiles
// codegen/glsl-emitted source directly against the host's current OpenGL
// context, mirroring soypat-glgl's compile()/ivLogErr() idiom (null-
// terminated source via gl.Strs, GetShaderiv(COMPILE_STATUS)/
// GetShaderInfoLog on failure). The returned function ignores the hal.Device
// its caller was built around - the module it produces belongs to this
// package's own Device, not to hal.ShaderModuleDescriptor.
func NewShaderCompiler() func(source, entryPoint string, stage codegen.Stage) (hal.ShaderModule, error) {
	return func(source, entryPoint string, stage codegen.Stage) (hal.ShaderModule, error) {
		glStage := uint32(ggl.FRAGMENT_SHADER)
		if stage == codegen.StageVertex {
			glStage = ggl.VERTEX_SHADER
		}
		id, err := compileGLSL(glStage, source)
		if err != nil {
			return nil, fmt.Errorf("backend/gl: compile %s entry point %q: %w", stageName(stage), entryPoint, err)
		}
		return &ShaderModule{id: id, stage: glStage}, nil
	}
}

func stageName(stage codegen.Stage) string {
	if stage == codegen.StageVertex {
		return "vertex"
	}
	return "pixel"
}

func compileGLSL(shaderType uint32, source string) (uint32, error) {
	if !strings.HasSuffix(source, "\x00") {
		source += "\x00"
	}
	id := ggl.CreateShader(shaderType)
	if id == 0 {
		return 0, errors.New("glCreateShader returned 0")
	}
	csources, free := ggl.Strs(source)
	length := int32(len(source))
	ggl.ShaderSource(id, 1, csources, &length)
	free()

	ggl.CompileShader(id)

	var status int32
	ggl.GetShaderiv(id, ggl.COMPILE_STATUS, &status)
	if status == ggl.FALSE {
		msg := shaderInfoLog(id)
		ggl.DeleteShader(id)
		return 0, errors.New(msg)
	}
	return id, nil
}

func shaderInfoLog(id uint32) string {
	var length int32
	ggl.GetShaderiv(id, ggl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return "shader compile failed with no log"
	}
	log := make([]byte, length)
	ggl.GetShaderInfoLog(id, length, nil, &log[0])
	return string(log[:len(log)-1])
}
