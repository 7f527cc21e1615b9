package tilealias

import "errors"

// Errors returned by Pool and Alias.
var (
	// ErrInvalidArgument is returned when a tileset or renderer is nil or is
	// not a reference type that can be used as a cache key.
	ErrInvalidArgument = errors.New("tilealias: invalid argument")

	// ErrResourceAllocation wraps a renderer failure to create or upload
	// an alias texture.
	ErrResourceAllocation = errors.New("tilealias: texture allocation failed")

	// ErrEmptyTileset is returned when an atlas is built from a tileset with
	// no tiles or a zero tile size, and by Acquire under EmptyReject.
	ErrEmptyTileset = errors.New("tilealias: tileset has no tiles")

	// ErrPoolClosed is returned by Acquire after Close.
	ErrPoolClosed = errors.New("tilealias: pool closed")
)
