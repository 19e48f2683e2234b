// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command effectfx-compile parses and compiles a single effect source file
// against the noop hal backend, printing diagnostics and the compiled
// technique list. It exists for the same reason cmd/dx12-test exercised the
// DX12 backend directly: a small integration smoke test runnable without a
// real GPU, here driving compiler.Compile instead of a hal.Backend.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gogpu/effectfx/codegen"
	"github.com/gogpu/effectfx/compiler"
	"github.com/gogpu/effectfx/fxtypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/gogpu/effectfx/hostiface"
	"github.com/gogpu/effectfx/runtime"
)

var backendNames = map[string]fxtypes.Backend{
	"d3d9":   fxtypes.BackendD3D9,
	"d3d10":  fxtypes.BackendD3D10,
	"d3d11":  fxtypes.BackendD3D11,
	"opengl": fxtypes.BackendOpenGL,
	"vulkan": fxtypes.BackendVulkan,
}

var (
	backendFlag = flag.String("backend", "d3d11", "target backend: d3d9, d3d10, d3d11, opengl, vulkan")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: effectfx-compile [-backend NAME] <effect-file>")
		os.Exit(2)
	}
	if err := run(flag.Arg(0), *backendFlag); err != nil {
		fmt.Fprintf(os.Stderr, "FAILED: %v\n", err)
		os.Exit(1)
	}
}

func run(path, backendName string) error {
	backend, ok := backendNames[backendName]
	if !ok {
		return fmt.Errorf("unknown backend %q", backendName)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	api := noop.API{}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	defer instance.Destroy()

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no adapters available")
	}
	opened, err := adapters[0].Adapter.Open(adapters[0].Features, adapters[0].Capabilities.Limits)
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}

	rt := runtime.New(opened.Device, nil, nil)
	if !rt.OnInit(hostiface.SwapChainDescriptor{Width: 1, Height: 1}, 0) {
		return fmt.Errorf("runtime.OnInit failed")
	}

	e, diags, err := compiler.Compile(source, path, compiler.Options{
		Device:  opened.Device,
		Queue:   opened.Queue,
		Runtime: rt,
		Backend: backend,
		Compile: func(_, entryPoint string, _ codegen.Stage) (hal.ShaderModule, error) {
			return opened.Device.CreateShaderModule(&hal.ShaderModuleDescriptor{Label: entryPoint})
		},
	})
	if err != nil {
		return err
	}
	if diags != nil && len(diags.Entries()) > 0 {
		fmt.Fprint(os.Stderr, diags.String())
	}
	if e == nil {
		return fmt.Errorf("compilation failed")
	}

	fmt.Printf("OK: %s (%s)\n", path, backendName)
	for _, name := range e.ListTechniqueNames() {
		fmt.Printf("  technique %s\n", name)
	}
	return nil
}
