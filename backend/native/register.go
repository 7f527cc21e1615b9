// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package native

import (
	"github.com/gogpu/tilealias/backend"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// init registers the native backend on package import.
func init() {
	backend.Register(backend.BackendNative, func() backend.RenderBackend {
		return New(nil, nil)
	})
}
