package resource

import (
	"fmt"

	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/effectfx/core/track"
	"github.com/gogpu/wgpu/hal"
)

// Manager is the per-effect GPU resource manager of spec.md §4.4: a list of
// constant buffers, host-side storage arenas, samplers, shader-resource
// views, and textures, built once from a compiled codegen.ResourceTable and
// torn down as a unit when the effect is unloaded.
//
// Texture and sampler slots are tracked with the teacher's dense free-list
// allocator (core/track) even though effectfx never frees a single slot
// mid-effect — it's the same index-into-dense-storage discipline the
// teacher uses for every other GPU handle table, and gives Manager a
// ready-made path to support hot-reload (replace one resource without
// renumbering the rest) without redesigning the lookup tables.
type Manager struct {
	device hal.Device

	buffers  []*ConstantBuffer
	textures []*Texture
	samplers []*Sampler

	textureIndex track.TrackerIndexAllocator
	samplerIndex track.TrackerIndexAllocator

	texturesByName map[string]track.TrackerIndex
	samplersByName map[string]track.TrackerIndex
	fields         map[string]fieldIndex
}

// NewManager builds every GPU object named by table against device,
// tearing down anything already created if a later step fails (spec.md §3's
// lifecycle invariant: partially-constructed effects never leak handles).
func NewManager(device hal.Device, table codegen.ResourceTable) (*Manager, error) {
	m := &Manager{
		device:         device,
		texturesByName: make(map[string]track.TrackerIndex),
		samplersByName: make(map[string]track.TrackerIndex),
		fields:         make(map[string]fieldIndex),
	}

	for bufIdx, block := range table.UniformBlocks {
		cb, err := newConstantBuffer(device, block)
		if err != nil {
			m.Destroy()
			return nil, fmt.Errorf("resource: create constant buffer %q: %w", blockLabel(block), err)
		}
		m.buffers = append(m.buffers, cb)
		for _, f := range block.Fields {
			m.fields[f.Name] = fieldIndex{bufferIdx: bufIdx, offset: f.Offset, size: f.Size}
		}
	}

	for _, tb := range table.Textures {
		tex, err := newTexture(device, tb)
		if err != nil {
			m.Destroy()
			return nil, fmt.Errorf("resource: create texture %q: %w", tb.Desc.Name, err)
		}
		idx := m.textureIndex.Alloc()
		m.growTextures(idx)
		m.textures[idx] = tex
		m.texturesByName[tb.Desc.Name] = idx
	}

	for _, sb := range table.Samplers {
		samp, err := newSampler(device, sb)
		if err != nil {
			m.Destroy()
			return nil, fmt.Errorf("resource: create sampler %q: %w", sb.Desc.Name, err)
		}
		idx := m.samplerIndex.Alloc()
		m.growSamplers(idx)
		m.samplers[idx] = samp
		m.samplersByName[sb.Desc.Name] = idx
	}

	return m, nil
}

func (m *Manager) growTextures(idx track.TrackerIndex) {
	for track.TrackerIndex(len(m.textures)) <= idx {
		m.textures = append(m.textures, nil)
	}
}

func (m *Manager) growSamplers(idx track.TrackerIndex) {
	for track.TrackerIndex(len(m.samplers)) <= idx {
		m.samplers = append(m.samplers, nil)
	}
}

// Texture looks up an effect-declared texture by name.
func (m *Manager) Texture(name string) (*Texture, bool) {
	idx, ok := m.texturesByName[name]
	if !ok {
		return nil, false
	}
	return m.textures[idx], true
}

// Sampler looks up an effect-declared sampler by name.
func (m *Manager) Sampler(name string) (*Sampler, bool) {
	idx, ok := m.samplersByName[name]
	if !ok {
		return nil, false
	}
	return m.samplers[idx], true
}

// Buffers returns every constant buffer in slot order, for binding all of
// an effect's uniform blocks at once (spec.md §4.6 begin() step 3).
func (m *Manager) Buffers() []*ConstantBuffer { return m.buffers }

// Textures returns every effect-declared texture in allocation order.
func (m *Manager) Textures() []*Texture { return m.textures }

// Samplers returns every effect-declared sampler in allocation order.
func (m *Manager) Samplers() []*Sampler { return m.samplers }

// SetConstant writes a uniform's raw bytes into its backing storage arena
// and marks that buffer dirty; the GPU copy lags until Upload runs on the
// next draw (spec.md §4.4's dirty-flag upload cycle).
func (m *Manager) SetConstant(name string, data []byte) error {
	fi, ok := m.fields[name]
	if !ok {
		return fmt.Errorf("resource: no such constant %q", name)
	}
	if len(data) != fi.size {
		return fmt.Errorf("resource: constant %q is %d bytes, got %d", name, fi.size, len(data))
	}
	buf := m.buffers[fi.bufferIdx]
	copy(buf.Storage[fi.offset:fi.offset+fi.size], data)
	buf.Dirty = true
	return nil
}

// GetConstant reads a uniform's current host-side bytes, regardless of
// whether they've been uploaded to the GPU yet.
func (m *Manager) GetConstant(name string) ([]byte, error) {
	fi, ok := m.fields[name]
	if !ok {
		return nil, fmt.Errorf("resource: no such constant %q", name)
	}
	buf := m.buffers[fi.bufferIdx]
	out := make([]byte, fi.size)
	copy(out, buf.Storage[fi.offset:fi.offset+fi.size])
	return out, nil
}

// Upload writes every dirty constant buffer's storage arena to its GPU
// buffer and clears the dirty flag. Called once per effect per draw, never
// per-constant, per spec.md §4.4.
func (m *Manager) Upload(queue hal.Queue) {
	for _, buf := range m.buffers {
		if !buf.Dirty {
			continue
		}
		queue.WriteBuffer(buf.GPU, 0, buf.Storage)
		buf.Dirty = false
	}
}

// Destroy releases every GPU handle this Manager owns, in reverse creation
// order (spec.md §3's lifecycle invariant).
func (m *Manager) Destroy() {
	for i := len(m.samplers) - 1; i >= 0; i-- {
		if s := m.samplers[i]; s != nil {
			m.device.DestroySampler(s.GPU)
		}
	}
	m.samplers = nil

	for i := len(m.textures) - 1; i >= 0; i-- {
		if t := m.textures[i]; t != nil {
			t.destroy(m.device)
		}
	}
	m.textures = nil

	for i := len(m.buffers) - 1; i >= 0; i-- {
		m.device.DestroyBuffer(m.buffers[i].GPU)
	}
	m.buffers = nil
}
