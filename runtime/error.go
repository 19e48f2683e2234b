package runtime

import "errors"

// Sentinel errors for the runtime/technique lifecycle, mirroring hal's own
// error.go convention of package-level errors.New values rather than typed
// error structs.
var (
	// ErrNotInitialized is returned by OnPresent/CaptureScreenshot when
	// called before a successful OnInit.
	ErrNotInitialized = errors.New("runtime: not initialized")

	// ErrShaderCompile is returned when a pass's vertex or pixel shader
	// fails to produce a hal.ShaderModule. Per spec.md §4.6 this is fatal
	// for the technique, not retried.
	ErrShaderCompile = errors.New("runtime: shader compilation failed")

	// ErrDeviceLost escalates a failure seen mid-frame into a caller-visible
	// signal that OnReset/OnInit must run again (spec.md §4.6: "a lost
	// device during render_pass escalates to on_reset").
	ErrDeviceLost = errors.New("runtime: device lost")

	// ErrUnknownRenderTarget is returned when a pass names a render target
	// the effect never declared.
	ErrUnknownRenderTarget = errors.New("runtime: unknown render target")
)
