package resource

import (
	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/wgpu/hal"
)

// ConstantBuffer is the host-side storage arena plus GPU buffer for one
// cbuffer/uniform block (spec.md §4.4: "a parallel list of host-side
// storage arenas (byte blobs)"). Writes mark Dirty; Manager.Upload clears
// it on the next draw.
type ConstantBuffer struct {
	Block   codegen.UniformBlock
	Storage []byte
	GPU     hal.Buffer
	Dirty   bool
}

func newConstantBuffer(device hal.Device, block codegen.UniformBlock) (*ConstantBuffer, error) {
	size := block.Size
	if size == 0 {
		size = 16
	}
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "effectfx:cbuffer:" + blockLabel(block),
		Size:  uint64(size),
		Usage: gpuUniformUsage,
	})
	if err != nil {
		return nil, err
	}
	return &ConstantBuffer{Block: block, Storage: make([]byte, size), GPU: buf}, nil
}

func blockLabel(b codegen.UniformBlock) string {
	if b.Name == "" {
		return "globals"
	}
	return b.Name
}

// fieldIndex resolves a uniform's name to its storage location: which
// buffer slot and byte range within it.
type fieldIndex struct {
	bufferIdx int
	offset    int
	size      int
}
