package animimg

import "time"

// DecodedImage is the output of any format decoder: an ordered list of
// fully-composited frames with per-frame hold durations.
//
// Invariants:
//   - len(Frames) == len(Durations) >= 1
//   - every frame is exactly Width x Height RGBA (len(Pix) == Width*Height*4)
//   - every duration is at least MinFrameDuration
//
// Width and Height are the canvas (logical screen) dimensions declared by
// the format; individual source patches may have covered only a
// sub-rectangle, but decoded frames never do.
type DecodedImage struct {
	Frames    []*Frame
	Durations []time.Duration
	Width     int
	Height    int
}

// MinFrameDuration is the floor applied to per-frame hold times.
// Malformed streams commonly declare zero or near-zero delays; browsers
// clamp these, and so does this pipeline.
const MinFrameDuration = 10 * time.Millisecond

// DefaultLastFrameDuration is the hold time assigned to the final frame of a
// timestamp-based stream (WebP), which carries no "next" timestamp to diff
// against.
const DefaultLastFrameDuration = 100 * time.Millisecond

// clampFrameDuration floors a declared hold time at MinFrameDuration.
// Zero and negative values from malformed streams become the minimum.
func clampFrameDuration(d time.Duration) time.Duration {
	if d < MinFrameDuration {
		return MinFrameDuration
	}
	return d
}

// Sequence builds a playback sequence over the decoded frames.
func (d *DecodedImage) Sequence(loop bool) *Sequence[*Frame] {
	items := make([]SequenceItem[*Frame], len(d.Frames))
	for i, f := range d.Frames {
		items[i] = SequenceItem[*Frame]{Item: f, Duration: d.Durations[i]}
	}
	return NewSequence(items, loop)
}

// LoadedImage is the discriminated result of Loader.Load: either a static
// raster or an animated sequence, never both.
//
// For static results Sequence is nil. A static result with a nil Frame means
// "nothing to draw" (both the requested image and the fallback placeholder
// failed); callers must treat it as empty, not as an error.
type LoadedImage struct {
	// Animated reports which variant this is.
	Animated bool

	// Frame is the raster for static images; nil for animated images and
	// for the explicit empty result.
	Frame *Frame

	// Sequence is the frame player for animated images; nil otherwise.
	// The Sequence belongs to this LoadedImage alone, but cached
	// LoadedImages are shared between callers of the same URL, so all such
	// callers advance the same playback clock.
	Sequence *Sequence[*Frame]
}

// Empty reports whether there is nothing to draw.
func (li *LoadedImage) Empty() bool {
	return !li.Animated && li.Frame == nil
}
