package animimg

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	// Static raster formats registered for image.Decode. GIF registers via
	// gif.go's direct import.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Decode errors.
var (
	// ErrEmptyData is returned when the fetched buffer is empty.
	ErrEmptyData = errors.New("animimg: empty data")

	// ErrNoFrames is returned when an animated stream decodes to zero frames.
	ErrNoFrames = errors.New("animimg: no frames")

	// ErrPatchMismatch is returned when a frame patch's pixel buffer does not
	// match its declared rectangle.
	ErrPatchMismatch = errors.New("animimg: patch size mismatch")
)

// FormatDecoder turns raw bytes of one container format into a DecodedImage.
// The two concrete variants (GIF's disposal compositor, WebP's timestamp
// adapter) are selected through a dispatch table keyed by sniffed format, not
// by callers.
type FormatDecoder interface {
	Decode(data []byte) (*DecodedImage, error)
}

// animatedDecoders dispatches animated formats to their decoder.
var animatedDecoders = map[Format]FormatDecoder{
	FormatGIF:  gifDecoder{},
	FormatWebP: webpDecoder{},
}

// decodeImage is the pipeline behind Loader.Load: sniff the format, decode
// through the animated pipeline or the static raster path, and wrap the
// result as a LoadedImage.
//
// GIFs always take the animated path, even with a single frame. WebP takes
// it only when the container declares animation; still WebP is a plain
// raster.
func decodeImage(data []byte, url, mediaType string) (*LoadedImage, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	format := DetectFormat(data, url, mediaType)
	animated := format == FormatGIF || (format == FormatWebP && isAnimatedWebP(data))
	if !animated {
		return decodeStatic(data)
	}

	img, err := animatedDecoders[format].Decode(data)
	if err != nil {
		return nil, err
	}
	// Overlay animations repeat for as long as the scene holds them on
	// screen, so sequences always loop; non-looping playback is the scene
	// director's concern, via Sequence on the DecodedImage.
	return &LoadedImage{Animated: true, Sequence: img.Sequence(true)}, nil
}

// decodeStatic decodes a single raster through the stdlib registry
// (PNG, JPEG, BMP, still WebP, and single-frame fallback for anything GIF
// shaped that the sniffer missed).
func decodeStatic(data []byte) (*LoadedImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("animimg: static decode: %w", err)
	}
	frame, err := FrameFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("animimg: static decode: %w", err)
	}
	return &LoadedImage{Animated: false, Frame: frame}, nil
}
