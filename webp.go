package animimg

import (
	"fmt"
	"time"

	"github.com/overlayfx/animimg/internal/webpdemux"
)

// webpDecoder decodes animated WebP byte streams. Container demuxing,
// VP8/VP8L decompression, and blend/dispose compositing are delegated to the
// demux collaborator, which returns full frames with start timestamps; this
// type only owns the duration bookkeeping.
type webpDecoder struct {
	// demux is injectable for tests; nil means webpdemux.Decode.
	demux func(data []byte) (*webpdemux.Animation, error)
}

// Decode implements FormatDecoder.
//
// Frame i's duration is timestamp[i+1] - timestamp[i], floored at
// MinFrameDuration to absorb zero or negative diffs from malformed streams.
// The last frame has no next timestamp and defaults to
// DefaultLastFrameDuration.
func (d webpDecoder) Decode(data []byte) (*DecodedImage, error) {
	demux := d.demux
	if demux == nil {
		demux = webpdemux.Decode
	}

	anim, err := demux(data)
	if err != nil {
		return nil, fmt.Errorf("animimg: webp demux: %w", err)
	}
	if len(anim.Frames) == 0 {
		return nil, fmt.Errorf("animimg: webp: %w", ErrNoFrames)
	}

	out := &DecodedImage{
		Frames:    make([]*Frame, 0, len(anim.Frames)),
		Durations: make([]time.Duration, 0, len(anim.Frames)),
		Width:     anim.CanvasWidth,
		Height:    anim.CanvasHeight,
	}

	for i, fr := range anim.Frames {
		frame, err := FrameFromImage(fr.Image)
		if err != nil {
			return nil, fmt.Errorf("animimg: webp frame %d: %w", i, err)
		}

		duration := DefaultLastFrameDuration
		if i+1 < len(anim.Frames) {
			duration = anim.Frames[i+1].Timestamp - fr.Timestamp
		}

		out.Frames = append(out.Frames, frame)
		out.Durations = append(out.Durations, clampFrameDuration(duration))
	}

	return out, nil
}
