// Package webpdemux extracts the frames of an animated WebP (ANIM/ANMF)
// container.
//
// The package walks the RIFF chunk list, reconstructs every ANMF payload as a
// standalone still WebP, hands it to golang.org/x/image/webp for VP8/VP8L
// decompression, and composites the result onto the canvas according to the
// frame's blend and dispose flags. The output is a list of full-canvas RGBA
// frames with monotonically increasing start timestamps, ready for duration
// bookkeeping by the caller.
package webpdemux

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"time"

	"golang.org/x/image/riff"
	"golang.org/x/image/webp"
)

// Demux errors.
var (
	// ErrNotWebP is returned when the buffer is not a RIFF/WEBP container.
	ErrNotWebP = errors.New("webpdemux: not a WebP container")

	// ErrNotAnimated is returned when the container holds no ANMF frames.
	ErrNotAnimated = errors.New("webpdemux: no animation frames")

	// ErrMalformed is returned for structurally invalid containers.
	ErrMalformed = errors.New("webpdemux: malformed container")
)

// FourCC codes used by the WebP container.
var (
	fccWEBP = riff.FourCC{'W', 'E', 'B', 'P'}
	fccVP8X = riff.FourCC{'V', 'P', '8', 'X'}
	fccANIM = riff.FourCC{'A', 'N', 'I', 'M'}
	fccANMF = riff.FourCC{'A', 'N', 'M', 'F'}
	fccVP8  = riff.FourCC{'V', 'P', '8', ' '}
	fccVP8L = riff.FourCC{'V', 'P', '8', 'L'}
	fccALPH = riff.FourCC{'A', 'L', 'P', 'H'}
)

// ANMF frame flag bits (last byte of the 16-byte frame header).
const (
	anmfDisposeBackground = 1 << 0 // clear the frame rectangle after display
	anmfNoBlend           = 1 << 1 // overwrite the rectangle instead of alpha-blending
)

// Frame is one composited animation frame: a full-canvas RGBA snapshot and
// the time at which it starts displaying.
type Frame struct {
	Image     *image.RGBA
	Timestamp time.Duration
}

// Animation is the demuxed, composited animation.
type Animation struct {
	CanvasWidth  int
	CanvasHeight int
	LoopCount    int
	Frames       []Frame
}

// Decoder demuxes animated WebP containers.
//
// The still-frame decode step is a function field so tests can substitute a
// stub and exercise container parsing and compositing without crafting real
// VP8 bitstreams.
type Decoder struct {
	decodeStill func(r io.Reader) (image.Image, error)
}

// NewDecoder creates a Decoder backed by golang.org/x/image/webp.
func NewDecoder() *Decoder {
	return &Decoder{decodeStill: webp.Decode}
}

// Decode demuxes data with a default Decoder.
func Decode(data []byte) (*Animation, error) {
	return NewDecoder().Decode(data)
}

// anmfHeader is the fixed 16-byte ANMF frame header.
type anmfHeader struct {
	x, y          int // frame origin on the canvas, in pixels
	width, height int
	duration      time.Duration
	dispose       bool // clear frame rect after display
	blend         bool // alpha-blend onto the canvas (false = overwrite)
}

// Decode demuxes an animated WebP and composites its frames.
// Returns ErrNotAnimated for a still WebP.
func (d *Decoder) Decode(data []byte) (*Animation, error) {
	formType, r, err := riff.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("webpdemux: %w", err)
	}
	if formType != fccWEBP {
		return nil, ErrNotWebP
	}

	anim := &Animation{}
	var canvas *image.RGBA

	frameIndex := 0
	var clock time.Duration

	for {
		chunkID, chunkLen, chunkData, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("webpdemux: reading chunk list: %w", err)
		}

		switch chunkID {
		case fccVP8X:
			buf := make([]byte, 10)
			if _, err := io.ReadFull(chunkData, buf); err != nil {
				return nil, fmt.Errorf("webpdemux: VP8X chunk: %w", err)
			}
			anim.CanvasWidth = int(readUint24(buf[4:7])) + 1
			anim.CanvasHeight = int(readUint24(buf[7:10])) + 1

		case fccANIM:
			buf := make([]byte, 6)
			if _, err := io.ReadFull(chunkData, buf); err != nil {
				return nil, fmt.Errorf("webpdemux: ANIM chunk: %w", err)
			}
			// buf[0:4] is the background color (BGRA); this pipeline
			// composites onto transparent instead, matching browsers.
			anim.LoopCount = int(binary.LittleEndian.Uint16(buf[4:6]))

		case fccANMF:
			payload := make([]byte, chunkLen)
			if _, err := io.ReadFull(chunkData, payload); err != nil {
				return nil, fmt.Errorf("webpdemux: frame %d: %w", frameIndex, err)
			}
			hdr, body, err := parseANMF(payload)
			if err != nil {
				return nil, fmt.Errorf("webpdemux: frame %d: %w", frameIndex, err)
			}

			patch, err := d.decodeFramePatch(hdr, body)
			if err != nil {
				return nil, fmt.Errorf("webpdemux: frame %d: %w", frameIndex, err)
			}

			if canvas == nil {
				if anim.CanvasWidth <= 0 || anim.CanvasHeight <= 0 {
					// No VP8X before the first frame: adopt the frame size.
					anim.CanvasWidth = hdr.width
					anim.CanvasHeight = hdr.height
				}
				canvas = image.NewRGBA(image.Rect(0, 0, anim.CanvasWidth, anim.CanvasHeight))
			}

			rect := image.Rect(hdr.x, hdr.y, hdr.x+hdr.width, hdr.y+hdr.height)
			compositePatch(canvas, patch, rect, hdr.blend)

			anim.Frames = append(anim.Frames, Frame{
				Image:     cloneRGBA(canvas),
				Timestamp: clock,
			})
			clock += hdr.duration

			if hdr.dispose {
				clearRect(canvas, rect)
			}
			frameIndex++

		default:
			// ICCP, EXIF, XMP, bare VP8/VP8L of a still image: skip.
			if _, err := io.Copy(io.Discard, chunkData); err != nil {
				return nil, fmt.Errorf("webpdemux: skipping chunk: %w", err)
			}
		}
	}

	if len(anim.Frames) == 0 {
		return nil, ErrNotAnimated
	}
	return anim, nil
}

// parseANMF splits an ANMF payload into its fixed header and frame body.
func parseANMF(payload []byte) (anmfHeader, []byte, error) {
	if len(payload) < 16 {
		return anmfHeader{}, nil, fmt.Errorf("%w: ANMF header truncated", ErrMalformed)
	}
	flags := payload[15]
	hdr := anmfHeader{
		// Frame origin is stored divided by two.
		x:        int(readUint24(payload[0:3])) * 2,
		y:        int(readUint24(payload[3:6])) * 2,
		width:    int(readUint24(payload[6:9])) + 1,
		height:   int(readUint24(payload[9:12])) + 1,
		duration: time.Duration(readUint24(payload[12:15])) * time.Millisecond,
		dispose:  flags&anmfDisposeBackground != 0,
		blend:    flags&anmfNoBlend == 0,
	}
	return hdr, payload[16:], nil
}

// decodeFramePatch reconstructs the ANMF body as a standalone still WebP and
// decompresses it.
func (d *Decoder) decodeFramePatch(hdr anmfHeader, body []byte) (image.Image, error) {
	still, err := buildStillWebP(hdr.width, hdr.height, body)
	if err != nil {
		return nil, err
	}
	img, err := d.decodeStill(bytes.NewReader(still))
	if err != nil {
		return nil, fmt.Errorf("still decode: %w", err)
	}
	b := img.Bounds()
	if b.Dx() != hdr.width || b.Dy() != hdr.height {
		return nil, fmt.Errorf("%w: frame bitstream is %dx%d, header declares %dx%d",
			ErrMalformed, b.Dx(), b.Dy(), hdr.width, hdr.height)
	}
	return img, nil
}

// buildStillWebP wraps the chunks of an ANMF body into a standalone RIFF/WEBP
// stream that a still-image decoder accepts. A VP8X chunk is synthesized when
// the body carries an ALPH chunk, since ALPH is only legal in extended files.
func buildStillWebP(width, height int, body []byte) ([]byte, error) {
	chunks, err := splitChunks(body)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: empty frame body", ErrMalformed)
	}

	hasAlpha := false
	for _, c := range chunks {
		if c.id == fccALPH {
			hasAlpha = true
		}
	}

	var out bytes.Buffer
	out.WriteString("RIFF\x00\x00\x00\x00WEBP")
	if hasAlpha {
		vp8x := make([]byte, 10)
		vp8x[0] = 0x10 // alpha flag
		writeUint24(vp8x[4:7], uint32(width-1))
		writeUint24(vp8x[7:10], uint32(height-1))
		writeChunk(&out, fccVP8X, vp8x)
	}
	for _, c := range chunks {
		writeChunk(&out, c.id, c.data)
	}

	raw := out.Bytes()
	binary.LittleEndian.PutUint32(raw[4:8], uint32(len(raw)-8))
	return raw, nil
}

// chunk is a raw RIFF sub-chunk.
type chunk struct {
	id   riff.FourCC
	data []byte
}

// splitChunks parses a flat chunk list (each padded to even length).
func splitChunks(body []byte) ([]chunk, error) {
	var chunks []chunk
	for len(body) > 0 {
		if len(body) < 8 {
			return nil, fmt.Errorf("%w: chunk header truncated", ErrMalformed)
		}
		var id riff.FourCC
		copy(id[:], body[0:4])
		size := binary.LittleEndian.Uint32(body[4:8])
		body = body[8:]
		if uint32(len(body)) < size {
			return nil, fmt.Errorf("%w: chunk body truncated", ErrMalformed)
		}
		chunks = append(chunks, chunk{id: id, data: body[:size]})
		body = body[size:]
		if size%2 == 1 && len(body) > 0 {
			body = body[1:] // padding byte
		}
	}
	return chunks, nil
}

func writeChunk(out *bytes.Buffer, id riff.FourCC, data []byte) {
	out.Write(id[:])
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(data)))
	out.Write(size[:])
	out.Write(data)
	if len(data)%2 == 1 {
		out.WriteByte(0)
	}
}

func readUint24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

func writeUint24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

// compositePatch paints patch onto the canvas over rect.
// With blend set, source-over compositing is used; otherwise the rectangle is
// overwritten outright.
func compositePatch(canvas *image.RGBA, patch image.Image, rect image.Rectangle, blend bool) {
	op := draw.Src
	if blend {
		op = draw.Over
	}
	draw.Draw(canvas, rect.Intersect(canvas.Bounds()), patch, patch.Bounds().Min, op)
}

// clearRect zeroes the pixels of rect (fully transparent).
func clearRect(canvas *image.RGBA, rect image.Rectangle) {
	draw.Draw(canvas, rect.Intersect(canvas.Bounds()), image.Transparent, image.Point{}, draw.Src)
}

// cloneRGBA deep-copies an RGBA image.
func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
