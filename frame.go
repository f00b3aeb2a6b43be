package animimg

import (
	"errors"
	"image"
	"image/color"
)

// Frame errors.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("animimg: invalid dimensions")

	// ErrDataTooSmall is returned when provided pixel data is smaller than required.
	ErrDataTooSmall = errors.New("animimg: pixel data too small")
)

// Frame is a fully-composited RGBA raster at a fixed size.
//
// Pixels are stored row-major, 4 bytes per pixel (R, G, B, A), with no
// padding between rows: the pixel at (x, y) starts at Pix[(y*Width+x)*4].
// The layout matches the stdlib image.RGBA convention, so frames
// interoperate with image/draw directly (see ToImage).
//
// Thread safety: Frame is safe for concurrent read access. Mutating methods
// (Set, Clear, CopyFrom) require external synchronization.
type Frame struct {
	// Pix holds the pixel data; len(Pix) == Width*Height*4.
	Pix []uint8

	// Width and Height are the raster dimensions in pixels.
	Width  int
	Height int
}

// NewFrame creates a zeroed (fully transparent) frame of the given size.
// Returns an error if either dimension is non-positive.
func NewFrame(width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Frame{
		Pix:    make([]uint8, width*height*4),
		Width:  width,
		Height: height,
	}, nil
}

// FrameFromRaw wraps existing RGBA data without copying.
// The caller must ensure data remains valid for the lifetime of the Frame.
func FrameFromRaw(data []uint8, width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	required := width * height * 4
	if len(data) < required {
		return nil, ErrDataTooSmall
	}
	return &Frame{
		Pix:    data[:required],
		Width:  width,
		Height: height,
	}, nil
}

// FrameFromImage copies a stdlib image into a new Frame at the image's own
// size. Any color model is accepted; pixels are converted through RGBA.
func FrameFromImage(src image.Image) (*Frame, error) {
	b := src.Bounds()
	f, err := NewFrame(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	// Fast path: *image.RGBA can be copied row-wise.
	if rgba, ok := src.(*image.RGBA); ok {
		rowBytes := f.Width * 4
		for y := 0; y < f.Height; y++ {
			srcRow := rgba.Pix[y*rgba.Stride : y*rgba.Stride+rowBytes]
			copy(f.Pix[y*rowBytes:(y+1)*rowBytes], srcRow)
		}
		return f, nil
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(src.At(x, y)).(color.RGBA)
			f.Pix[i+0] = c.R
			f.Pix[i+1] = c.G
			f.Pix[i+2] = c.B
			f.Pix[i+3] = c.A
			i += 4
		}
	}
	return f, nil
}

// Clone creates a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	pix := make([]uint8, len(f.Pix))
	copy(pix, f.Pix)
	return &Frame{Pix: pix, Width: f.Width, Height: f.Height}
}

// CopyFrom overwrites this frame's pixels with src's.
// Both frames must have identical dimensions; mismatches are ignored.
func (f *Frame) CopyFrom(src *Frame) {
	if src.Width != f.Width || src.Height != f.Height {
		return
	}
	copy(f.Pix, src.Pix)
}

// Clear zeroes all pixels (fully transparent black).
func (f *Frame) Clear() {
	clear(f.Pix)
}

// At returns the RGBA value at (x, y). Out-of-bounds reads return zero.
func (f *Frame) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return color.RGBA{}
	}
	i := (y*f.Width + x) * 4
	return color.RGBA{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2], A: f.Pix[i+3]}
}

// Set writes the RGBA value at (x, y). Out-of-bounds writes are ignored.
func (f *Frame) Set(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	i := (y*f.Width + x) * 4
	f.Pix[i+0] = c.R
	f.Pix[i+1] = c.G
	f.Pix[i+2] = c.B
	f.Pix[i+3] = c.A
}

// ToImage returns a stdlib *image.RGBA view sharing this frame's pixel data.
// Mutations through either reference are visible to both.
func (f *Frame) ToImage() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}
