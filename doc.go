// Package animimg decodes animated GIF and WebP byte streams into
// deterministic, time-addressable frame sequences and serves them through a
// deduplicating loader cache.
//
// # Overview
//
// animimg turns a fetched image buffer into display-ready frames: every frame
// in a [DecodedImage] is a fully-composited RGBA raster at the canvas size,
// never a delta. GIF per-frame disposal semantics (the shared composite
// buffer, restore-to-background, restore-to-previous) are applied during
// decode, so consumers only ever blit whole frames.
//
// # Quick Start
//
//	import "github.com/overlayfx/animimg"
//
//	loader := animimg.NewLoader(animimg.WithFallbackURL(placeholderURL))
//
//	img, err := loader.Load(ctx, "https://example.com/party.gif")
//	if err != nil {
//	    return err
//	}
//	if img.Animated {
//	    img.Sequence.Update(dt)
//	    frame := img.Sequence.Current() // *Frame, ready to blit
//	}
//
// # Architecture
//
// The pipeline flows one direction:
//
//	ByteSource -> FormatDecoder -> DecodedImage -> Sequence -> consumer
//
// The library is organized into:
//   - Public API: Loader, LoadedImage, DecodedImage, Sequence, Frame
//   - cache/: generic LRU cache backing the loader
//   - internal/webpdemux: ANIM/ANMF container demuxing over x/image
//
// Bitstream decompression is delegated: image/gif performs LZW and patch
// extraction, golang.org/x/image/webp performs VP8/VP8L. animimg owns the
// compositing, duration bookkeeping, sequencing, and caching on top.
package animimg
