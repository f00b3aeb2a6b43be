package animimg

import (
	"image"
	"image/color"
	"testing"
)

func TestNewFrame(t *testing.T) {
	f, err := NewFrame(3, 2)
	if err != nil {
		t.Fatalf("NewFrame() error: %v", err)
	}
	if f.Width != 3 || f.Height != 2 {
		t.Errorf("frame = %dx%d, want 3x2", f.Width, f.Height)
	}
	if len(f.Pix) != 3*2*4 {
		t.Errorf("len(Pix) = %d, want %d", len(f.Pix), 3*2*4)
	}

	for _, dims := range [][2]int{{0, 2}, {2, 0}, {-1, 2}} {
		if _, err := NewFrame(dims[0], dims[1]); err != ErrInvalidDimensions {
			t.Errorf("NewFrame(%d, %d) error = %v, want ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}
}

func TestFrameFromRaw(t *testing.T) {
	data := make([]uint8, 2*2*4+3) // oversized: extra bytes are sliced off
	f, err := FrameFromRaw(data, 2, 2)
	if err != nil {
		t.Fatalf("FrameFromRaw() error: %v", err)
	}
	if len(f.Pix) != 16 {
		t.Errorf("len(Pix) = %d, want 16", len(f.Pix))
	}

	if _, err := FrameFromRaw(make([]uint8, 15), 2, 2); err != ErrDataTooSmall {
		t.Errorf("short data: error = %v, want ErrDataTooSmall", err)
	}
	if _, err := FrameFromRaw(data, 0, 2); err != ErrInvalidDimensions {
		t.Errorf("zero width: error = %v, want ErrInvalidDimensions", err)
	}
}

func TestFrameSetAt(t *testing.T) {
	f, _ := NewFrame(4, 4)
	c := color.RGBA{R: 1, G: 2, B: 3, A: 4}
	f.Set(2, 3, c)
	if got := f.At(2, 3); got != c {
		t.Errorf("At(2,3) = %v, want %v", got, c)
	}
	if got := f.At(0, 0); got != (color.RGBA{}) {
		t.Errorf("At(0,0) = %v, want zero", got)
	}

	// Out-of-bounds access is a no-op, not a panic.
	f.Set(-1, 0, c)
	f.Set(4, 4, c)
	if got := f.At(-1, 0); got != (color.RGBA{}) {
		t.Errorf("out-of-bounds At = %v, want zero", got)
	}
}

func TestFrameCloneIndependent(t *testing.T) {
	f, _ := NewFrame(2, 2)
	f.Set(0, 0, color.RGBA{R: 9, A: 9})

	c := f.Clone()
	c.Set(0, 0, color.RGBA{G: 7, A: 7})

	if got := f.At(0, 0); got != (color.RGBA{R: 9, A: 9}) {
		t.Errorf("mutating clone changed original: %v", got)
	}
}

func TestFrameCopyFrom(t *testing.T) {
	a, _ := NewFrame(2, 2)
	b, _ := NewFrame(2, 2)
	b.Set(1, 1, color.RGBA{B: 5, A: 5})

	a.CopyFrom(b)
	if got := a.At(1, 1); got != (color.RGBA{B: 5, A: 5}) {
		t.Errorf("CopyFrom did not copy: %v", got)
	}

	// Mismatched sizes are ignored.
	c, _ := NewFrame(3, 3)
	c.Set(0, 0, color.RGBA{R: 1, A: 1})
	a.CopyFrom(c)
	if got := a.At(0, 0); got != (color.RGBA{}) {
		t.Errorf("mismatched CopyFrom mutated destination: %v", got)
	}
}

func TestFrameClear(t *testing.T) {
	f, _ := NewFrame(2, 2)
	f.Set(0, 0, color.RGBA{R: 255, A: 255})
	f.Clear()
	for i, b := range f.Pix {
		if b != 0 {
			t.Fatalf("Pix[%d] = %d after Clear, want 0", i, b)
		}
	}
}

func TestFrameFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})

	f, err := FrameFromImage(src)
	if err != nil {
		t.Fatalf("FrameFromImage() error: %v", err)
	}
	if got := f.At(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("At(0,0) = %v, want opaque red", got)
	}
	if got := f.At(1, 0); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("At(1,0) = %v, want opaque green", got)
	}
}

func TestFrameFromImageRGBAFastPath(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(1, 1, color.RGBA{R: 3, G: 4, B: 5, A: 255})

	f, err := FrameFromImage(src)
	if err != nil {
		t.Fatalf("FrameFromImage() error: %v", err)
	}
	if got := f.At(1, 1); got != (color.RGBA{R: 3, G: 4, B: 5, A: 255}) {
		t.Errorf("At(1,1) = %v, want {3 4 5 255}", got)
	}
}

func TestFrameToImageSharesPixels(t *testing.T) {
	f, _ := NewFrame(2, 2)
	img := f.ToImage()
	img.SetRGBA(0, 1, color.RGBA{R: 8, A: 8})
	if got := f.At(0, 1); got != (color.RGBA{R: 8, A: 8}) {
		t.Errorf("ToImage() view is not shared: %v", got)
	}
}
