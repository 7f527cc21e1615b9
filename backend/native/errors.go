// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "errors"

// Package errors for the native backend.
var (
	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("native: backend not initialized")

	// ErrNoGPU is returned when no GPU adapter is available.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("native: invalid texture dimensions")

	// ErrTextureDestroyed is returned when operating on a destroyed texture.
	ErrTextureDestroyed = errors.New("native: texture has been destroyed")

	// ErrForeignTexture is returned for textures created by another backend.
	ErrForeignTexture = errors.New("native: texture belongs to another backend")

	// ErrInvalidPitch is returned when the row pitch or buffer length does not
	// cover the texture.
	ErrInvalidPitch = errors.New("native: invalid row pitch")

	// ErrNoHALProvider is returned when a device provider does not expose
	// HAL device and queue handles.
	ErrNoHALProvider = errors.New("native: provider does not expose HAL types")
)
