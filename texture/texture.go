// Package texture loads images into GPU 2D textures.
//
// A Texture2D owns its GPU handle exclusively: Release deletes it once, Move
// and Replace transfer it, and copies are flagged by go vet. Load never
// aborts; on failure it logs the path and returns an invalid texture (ID 0)
// together with the error. Binding an invalid texture binds texture 0.
package texture

import (
	"errors"
	"fmt"
	"image"

	"render-sandbox/gpu"
	"render-sandbox/internal/logging"
)

// ErrPixelBufferTooShort is returned when raw pixel data is smaller than
// width × height × bytes per pixel of the selected source format.
var ErrPixelBufferTooShort = errors.New("pixel buffer too short")

// Options control how an image is uploaded.
type Options struct {
	// SRGB stores 3- and 4-channel color data in an sRGB internal format so
	// sampling linearizes it. Leave it unset for data that is not color,
	// such as normal or roughness maps.
	SRGB bool
	// FlipY flips rows on load so the first image row lands at v = 1.
	FlipY bool
}

// DefaultOptions returns linear storage with vertical flip.
func DefaultOptions() Options {
	return Options{FlipY: true}
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Texture2D is a mip-mapped GPU 2D texture plus the metadata read at load
// time.
type Texture2D struct {
	noCopy noCopy

	ctx      gpu.Context
	id       uint32
	width    int
	height   int
	channels int
}

// SourceFormat maps a channel count to the layout of the uploaded data.
// Counts other than 1, 3 and 4 fall back to RGB.
func SourceFormat(channels int) gpu.Enum {
	switch channels {
	case 1:
		return gpu.Red
	case 3:
		return gpu.RGB
	case 4:
		return gpu.RGBA
	default:
		return gpu.RGB
	}
}

// InternalFormat picks the GPU storage format for a source format. With srgb
// set, RGB and RGBA data is stored as sRGB; single-channel data stays linear.
func InternalFormat(format gpu.Enum, srgb bool) gpu.Enum {
	if !srgb {
		return format
	}
	switch format {
	case gpu.RGB:
		return gpu.SRGB
	case gpu.RGBA:
		return gpu.SRGBAlpha
	}
	return format
}

// Load decodes the image at path and uploads it. The format is detected
// from the file's content.
func Load(ctx gpu.Context, path string, opts Options) (*Texture2D, error) {
	px, err := decodeFile(path, opts.FlipY)
	if err != nil {
		logging.Logger().Error("failed to load texture", "path", path, "err", err)
		return &Texture2D{ctx: ctx}, err
	}
	t, err := upload(ctx, px.data, px.width, px.height, px.channels, opts.SRGB)
	if err != nil {
		logging.Logger().Error("failed to upload texture", "path", path, "err", err)
		return t, fmt.Errorf("upload %s: %w", path, err)
	}
	logging.Logger().Debug("texture loaded", "path", path, "texture", t.id,
		"width", t.width, "height", t.height, "channels", t.channels, "srgb", opts.SRGB)
	return t, nil
}

// FromImage uploads an already decoded image.
func FromImage(ctx gpu.Context, img image.Image, opts Options) (*Texture2D, error) {
	px := pack(img, opts.FlipY)
	t, err := upload(ctx, px.data, px.width, px.height, px.channels, opts.SRGB)
	if err != nil {
		logging.Logger().Error("failed to upload texture", "err", err)
	}
	return t, err
}

// FromPixels uploads raw 8-bit pixels with the given channel count. data
// must hold at least width × height pixels of SourceFormat(channels).
func FromPixels(ctx gpu.Context, data []byte, width, height, channels int, opts Options) (*Texture2D, error) {
	if opts.FlipY && width > 0 && height > 0 {
		rowSize := width * gpu.BytesPerPixel(SourceFormat(channels))
		if len(data) >= rowSize*height {
			data = flipRows(data[:rowSize*height], rowSize, height)
		}
	}
	t, err := upload(ctx, data, width, height, channels, opts.SRGB)
	if err != nil {
		logging.Logger().Error("failed to upload texture", "err", err)
	}
	return t, err
}

func upload(ctx gpu.Context, data []byte, width, height, channels int, srgb bool) (*Texture2D, error) {
	t := &Texture2D{ctx: ctx}
	if width <= 0 || height <= 0 {
		return t, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	format := SourceFormat(channels)
	if need := width * height * gpu.BytesPerPixel(format); len(data) < need {
		return t, fmt.Errorf("%w: have %d bytes, need %d", ErrPixelBufferTooShort, len(data), need)
	}

	id := ctx.CreateTexture()
	ctx.BindTexture(gpu.Texture2D, id)

	ctx.TexParameteri(gpu.Texture2D, gpu.TextureWrapS, int32(gpu.Repeat))
	ctx.TexParameteri(gpu.Texture2D, gpu.TextureWrapT, int32(gpu.Repeat))
	ctx.TexParameteri(gpu.Texture2D, gpu.TextureMinFilter, int32(gpu.LinearMipmapLinear))
	ctx.TexParameteri(gpu.Texture2D, gpu.TextureMagFilter, int32(gpu.Linear))

	// rows are tightly packed; restore the GL default afterwards
	ctx.PixelStorei(gpu.UnpackAlignment, 1)
	ctx.TexImage2D(gpu.Texture2D, 0, InternalFormat(format, srgb),
		int32(width), int32(height), format, gpu.UnsignedByte, data)
	ctx.PixelStorei(gpu.UnpackAlignment, 4)
	ctx.GenerateMipmap(gpu.Texture2D)

	ctx.BindTexture(gpu.Texture2D, 0)

	t.id = id
	t.width = width
	t.height = height
	t.channels = channels
	return t, nil
}

func (t *Texture2D) ID() uint32    { return t.id }
func (t *Texture2D) Width() int    { return t.width }
func (t *Texture2D) Height() int   { return t.height }
func (t *Texture2D) Channels() int { return t.channels }
func (t *Texture2D) Valid() bool   { return t.id != 0 }

// Bind activates texture unit and binds the texture to it. A sampler uniform
// set to the same unit index reads from this texture.
func (t *Texture2D) Bind(unit uint32) {
	t.ctx.ActiveTexture(gpu.Texture0 + gpu.Enum(unit))
	t.ctx.BindTexture(gpu.Texture2D, t.id)
}

// Unbind clears the 2D binding of the active texture unit.
func (t *Texture2D) Unbind() {
	t.ctx.BindTexture(gpu.Texture2D, 0)
}

// Release deletes the GPU texture. Calling it again is a no-op.
func (t *Texture2D) Release() {
	if t.id == 0 {
		return
	}
	t.ctx.DeleteTexture(t.id)
	t.id = 0
}

// Move transfers the GPU texture and its metadata to a new Texture2D and
// leaves t empty.
func (t *Texture2D) Move() *Texture2D {
	m := &Texture2D{
		ctx:      t.ctx,
		id:       t.id,
		width:    t.width,
		height:   t.height,
		channels: t.channels,
	}
	t.id, t.width, t.height, t.channels = 0, 0, 0, 0
	return m
}

// Replace releases t's texture and takes over other's, leaving other empty.
func (t *Texture2D) Replace(other *Texture2D) {
	if other == t {
		return
	}
	t.Release()
	t.ctx = other.ctx
	t.id, t.width, t.height, t.channels = other.id, other.width, other.height, other.channels
	other.id, other.width, other.height, other.channels = 0, 0, 0, 0
}
