package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned when a file's content is not an image
// format this package can decode.
var ErrUnsupportedImage = errors.New("unsupported image data")

// pixels is decoded image data, 8 bits per channel, rows tightly packed.
type pixels struct {
	data          []byte
	width, height int
	channels      int
}

func decodeFile(path string, flipY bool) (pixels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pixels{}, fmt.Errorf("read %s: %w", path, err)
	}
	return decode(data, flipY)
}

// decode sniffs the content type first; file extensions are never used.
func decode(data []byte, flipY bool) (pixels, error) {
	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		return pixels{}, fmt.Errorf("%w: content looks like %q", ErrUnsupportedImage, kind.Extension)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return pixels{}, fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}
	return pack(img, flipY), nil
}

// channelsOf reports the channel count an image carries natively: 1 for
// grayscale, 4 when an alpha channel is present and 3 otherwise.
func channelsOf(img image.Image) int {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	case *image.NRGBA, *image.NRGBA64, *image.NYCbCrA:
		return 4
	case *image.YCbCr, *image.CMYK:
		return 3
	case interface{ Opaque() bool }:
		if m.Opaque() {
			return 3
		}
	}
	return 4
}

// pack converts img into tightly packed rows of its native channel count,
// bottom row first when flipY is set.
func pack(img image.Image, flipY bool) pixels {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	n := channelsOf(img)
	out := make([]byte, w*h*n)

	for y := 0; y < h; y++ {
		dstY := y
		if flipY {
			dstY = h - 1 - y
		}
		row := out[dstY*w*n : (dstY+1)*w*n]
		sy := b.Min.Y + y

		switch src := img.(type) {
		case *image.Gray:
			off := src.PixOffset(b.Min.X, sy)
			copy(row, src.Pix[off:off+w])
		case *image.NRGBA:
			off := src.PixOffset(b.Min.X, sy)
			copy(row, src.Pix[off:off+w*4])
		default:
			for x := 0; x < w; x++ {
				putPixel(row[x*n:(x+1)*n], img.At(b.Min.X+x, sy))
			}
		}
	}
	return pixels{data: out, width: w, height: h, channels: n}
}

func putPixel(dst []byte, c color.Color) {
	if len(dst) == 1 {
		dst[0] = color.GrayModel.Convert(c).(color.Gray).Y
		return
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	dst[0], dst[1], dst[2] = nc.R, nc.G, nc.B
	if len(dst) == 4 {
		dst[3] = nc.A
	}
}

func flipRows(data []byte, rowSize, height int) []byte {
	out := make([]byte, len(data))
	for y := 0; y < height; y++ {
		copy(out[(height-1-y)*rowSize:(height-y)*rowSize], data[y*rowSize:(y+1)*rowSize])
	}
	return out
}

// Checker builds a size×size checkerboard of 8×8 blocks.
func Checker(size int, c1, c2 color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	block := size / 8
	if block < 1 {
		block = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if ((x/block)+(y/block))%2 == 0 {
				img.SetNRGBA(x, y, c1)
			} else {
				img.SetNRGBA(x, y, c2)
			}
		}
	}
	return img
}
