package animimg

import "sync"

// FramePool is a thread-safe pool for reusing Frame instances.
//
// The pool groups frames by their dimensions, allowing efficient reuse of
// identically-sized buffers. The GIF compositor draws its composite and
// backup buffers from a pool; overlays that decode many same-sized stickers
// benefit from reduced GC pressure.
//
// Thread safety: all methods are safe for concurrent use.
type FramePool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Frame
	maxSize int // max frames retained per bucket
}

// poolKey identifies a bucket of identically-sized frames.
type poolKey struct {
	width  int
	height int
}

// NewFramePool creates a pool retaining at most maxPerBucket frames per size.
// A maxPerBucket of 0 means unlimited (use with caution).
func NewFramePool(maxPerBucket int) *FramePool {
	return &FramePool{
		buckets: make(map[poolKey][]*Frame),
		maxSize: maxPerBucket,
	}
}

// Get retrieves a frame from the pool or allocates a new one.
// The returned frame has the requested dimensions and is fully transparent.
// Returns nil for non-positive dimensions.
func (p *FramePool) Get(width, height int) *Frame {
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		f := bucket[n-1]
		p.buckets[key] = bucket[:n-1]
		p.mu.Unlock()

		f.Clear()
		return f
	}
	p.mu.Unlock()

	f, err := NewFrame(width, height)
	if err != nil {
		return nil
	}
	return f
}

// Put returns a frame to the pool for reuse.
// If f is nil or the bucket is at capacity, the frame is discarded.
func (p *FramePool) Put(f *Frame) {
	if f == nil {
		return
	}

	key := poolKey{width: f.Width, height: f.Height}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, f)
}

// defaultFramePool backs the package-level decode paths.
// Two buffers per size covers a single in-flight decode (composite + backup).
var defaultFramePool = NewFramePool(4)
