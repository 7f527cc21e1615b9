package tilealias

import (
	"fmt"
	"reflect"

	"github.com/gogpu/tilealias/pixmap"
	"github.com/gogpu/tilealias/tileset"
)

// TileSource is the tileset an alias is built from. *tileset.Tileset
// implements it.
//
// Tile i must return a bitmap of at most TileWidth x TileHeight pixels, or
// nil for a transparent tile. Subscribe must deliver change notifications
// synchronously on the mutating goroutine.
type TileSource interface {
	TileWidth() int
	TileHeight() int
	TileCount() int
	Tile(i int) *pixmap.Pixmap
	Subscribe(o tileset.Observer) (cancel func())
}

// Key identifies an alias entry: one tileset on one renderer.
// Both fields are compared by identity.
type Key struct {
	Tileset  TileSource
	Renderer Renderer
}

// String returns a short description of the key for logs.
func (k Key) String() string {
	return fmt.Sprintf("%p/%p", k.Tileset, k.Renderer)
}

// newKey validates ts and r and returns their key.
func newKey(ts TileSource, r Renderer) (Key, error) {
	if err := checkIdentity("renderer", r); err != nil {
		return Key{}, err
	}
	if err := checkIdentity("tileset", ts); err != nil {
		return Key{}, err
	}
	return Key{Tileset: ts, Renderer: r}, nil
}

// checkIdentity rejects nil values and values without reference identity.
// A struct value would make two distinct tilesets with equal content share
// one key.
func checkIdentity(what string, v any) error {
	if v == nil {
		return fmt.Errorf("%w: %s is nil", ErrInvalidArgument, what)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Chan:
		if rv.IsNil() {
			return fmt.Errorf("%w: %s is a nil %T", ErrInvalidArgument, what, v)
		}
		if rv.Kind() == reflect.Pointer && rv.Type().Elem().Size() == 0 {
			return fmt.Errorf("%w: %s %T has no identity (zero-size type)", ErrInvalidArgument, what, v)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s %T is not a reference type", ErrInvalidArgument, what, v)
	}
}
