package animimg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"time"
)

// GIF disposal modes (89a graphic control extension). Values match the wire
// format and stdlib image/gif's Disposal bytes.
const (
	gifDisposalUnspecified = 0 // treat like none
	gifDisposalNone        = 1 // leave the frame's pixels in place
	gifDisposalBackground  = 2 // clear the canvas to transparent
	gifDisposalPrevious    = 3 // restore the canvas as it was before the frame
)

// gifPatch is one decompressed frame delta: the dirty rectangle within the
// logical screen and its RGBA pixels (alpha 0 marks transparent pixels).
// Patches are internal to the decoder; they never reach callers.
type gifPatch struct {
	rect     image.Rectangle
	pix      []uint8 // rect.Dx()*rect.Dy()*4 bytes
	disposal byte
	delay    time.Duration
}

// gifDecoder decodes GIF byte streams. LZW decompression and patch
// extraction are delegated to image/gif; this type owns the disposal
// compositing on top.
type gifDecoder struct{}

// Decode implements FormatDecoder.
func (gifDecoder) Decode(data []byte) (*DecodedImage, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("animimg: gif parse: %w", err)
	}

	width, height := g.Config.Width, g.Config.Height
	if (width <= 0 || height <= 0) && len(g.Image) > 0 {
		// Some encoders omit the logical screen size; adopt the first
		// frame's bounds, which stdlib guarantees every frame fits inside.
		b := g.Image[0].Bounds()
		width, height = b.Max.X, b.Max.Y
	}

	patches := make([]gifPatch, len(g.Image))
	for i, pal := range g.Image {
		patches[i] = gifPatch{
			rect:     pal.Bounds(),
			pix:      palettedToRGBA(pal),
			disposal: g.Disposal[i],
			delay:    time.Duration(g.Delay[i]) * 10 * time.Millisecond,
		}
	}

	return compositeGIF(width, height, patches)
}

// compositeGIF runs the disposal state machine over the patch list,
// producing one full-canvas frame per patch.
//
// One composite buffer is mutated in place across the whole pass. For each
// frame, in order: apply the previous frame's disposal, snapshot a backup if
// this frame itself declares restore-to-previous, paint the patch, then copy
// the entire composite out as the display frame.
func compositeGIF(width, height int, patches []gifPatch) (*DecodedImage, error) {
	if len(patches) == 0 {
		return nil, fmt.Errorf("animimg: gif: %w", ErrNoFrames)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("animimg: gif: %w", ErrInvalidDimensions)
	}

	composite := defaultFramePool.Get(width, height)
	defer defaultFramePool.Put(composite)
	var backup *Frame
	defer func() { defaultFramePool.Put(backup) }()

	out := &DecodedImage{
		Frames:    make([]*Frame, 0, len(patches)),
		Durations: make([]time.Duration, 0, len(patches)),
		Width:     width,
		Height:    height,
	}

	var prevDisposal byte
	for i, p := range patches {
		if p.rect.Dx() <= 0 || p.rect.Dy() <= 0 {
			return nil, fmt.Errorf("animimg: gif frame %d: %w (%dx%d patch)",
				i, ErrInvalidDimensions, p.rect.Dx(), p.rect.Dy())
		}
		if want := p.rect.Dx() * p.rect.Dy() * 4; len(p.pix) != want {
			return nil, fmt.Errorf("animimg: gif frame %d: %w: patch has %d bytes, rect needs %d",
				i, ErrPatchMismatch, len(p.pix), want)
		}

		// Dispose of frame i-1 before touching frame i.
		if i > 0 {
			switch prevDisposal {
			case gifDisposalBackground:
				composite.Clear()
			case gifDisposalPrevious:
				if backup != nil {
					composite.CopyFrom(backup)
				}
			}
		}

		// A restore-to-previous frame needs the canvas as it exists right
		// now, before this frame paints. Keying the snapshot off the
		// current frame's own disposal (not the previous frame's) is the
		// GIF convention.
		if p.disposal == gifDisposalPrevious {
			if backup == nil {
				backup = defaultFramePool.Get(width, height)
			}
			backup.CopyFrom(composite)
		}

		paintPatch(composite, p)

		out.Frames = append(out.Frames, composite.Clone())
		out.Durations = append(out.Durations, clampFrameDuration(p.delay))
		prevDisposal = p.disposal
	}

	return out, nil
}

// paintPatch composites a patch onto the canvas at its rectangle.
// A destination pixel is overwritten only when the source alpha is non-zero;
// fully transparent source pixels leave the canvas untouched, letting prior
// frames show through under disposal modes 0/1.
func paintPatch(canvas *Frame, p gifPatch) {
	pw := p.rect.Dx()
	for y := 0; y < p.rect.Dy(); y++ {
		cy := p.rect.Min.Y + y
		if cy < 0 || cy >= canvas.Height {
			continue
		}
		for x := 0; x < pw; x++ {
			cx := p.rect.Min.X + x
			if cx < 0 || cx >= canvas.Width {
				continue
			}
			si := (y*pw + x) * 4
			if p.pix[si+3] == 0 {
				continue
			}
			di := (cy*canvas.Width + cx) * 4
			canvas.Pix[di+0] = p.pix[si+0]
			canvas.Pix[di+1] = p.pix[si+1]
			canvas.Pix[di+2] = p.pix[si+2]
			canvas.Pix[di+3] = p.pix[si+3]
		}
	}
}

// palettedToRGBA expands a paletted patch into tightly packed RGBA bytes.
// image/gif zeroes the transparent palette entry, so transparency survives
// the conversion as alpha 0.
func palettedToRGBA(pal *image.Paletted) []uint8 {
	b := pal.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]uint8, w*h*4)

	// Resolve the palette once; patches repeat few distinct colors.
	table := make([]color.RGBA, len(pal.Palette))
	for i, c := range pal.Palette {
		table[i] = color.RGBAModel.Convert(c).(color.RGBA)
	}

	di := 0
	for y := 0; y < h; y++ {
		row := pal.Pix[y*pal.Stride : y*pal.Stride+w]
		for _, idx := range row {
			c := table[idx]
			out[di+0] = c.R
			out[di+1] = c.G
			out[di+2] = c.B
			out[di+3] = c.A
			di += 4
		}
	}
	return out
}
