package tilealias

// PoolOption configures a Pool during creation.
//
// Example:
//
//	pool := tilealias.NewPool(
//	    tilealias.WithEmptyTilesetPolicy(tilealias.EmptyReject),
//	)
type PoolOption func(*poolOptions)

// poolOptions holds optional configuration for Pool creation.
type poolOptions struct {
	emptyPolicy EmptyTilesetPolicy
	access      TextureAccess
}

// defaultPoolOptions returns the default pool options.
func defaultPoolOptions() poolOptions {
	return poolOptions{
		emptyPolicy: EmptyPlaceholder,
		access:      AccessStatic,
	}
}

// EmptyTilesetPolicy selects what an alias does when its tileset has no
// tiles.
type EmptyTilesetPolicy uint8

const (
	// EmptyPlaceholder creates no texture: Alias.Texture returns nil and
	// Alias.Size reports a zero width. Any previous texture is destroyed.
	EmptyPlaceholder EmptyTilesetPolicy = iota

	// EmptyReject fails with ErrEmptyTileset. Acquire returns the error;
	// a rebuild returns it and keeps the previous texture.
	EmptyReject
)

// String returns the policy name.
func (p EmptyTilesetPolicy) String() string {
	switch p {
	case EmptyPlaceholder:
		return "placeholder"
	case EmptyReject:
		return "reject"
	default:
		return "unknown"
	}
}

// WithEmptyTilesetPolicy sets how empty tilesets are handled.
// The default is EmptyPlaceholder.
func WithEmptyTilesetPolicy(p EmptyTilesetPolicy) PoolOption {
	return func(o *poolOptions) {
		o.emptyPolicy = p
	}
}

// WithTextureAccess sets the access mode requested for alias textures.
// The default is AccessStatic.
func WithTextureAccess(a TextureAccess) PoolOption {
	return func(o *poolOptions) {
		o.access = a
	}
}
