package animimg

import (
	"bytes"
	"path"
	"strings"
)

// Format identifies a detected image container format.
type Format uint8

const (
	// FormatUnknown means the bytes matched no known signature.
	FormatUnknown Format = iota

	// FormatGIF is GIF87a/GIF89a.
	FormatGIF

	// FormatWebP is a RIFF/WEBP container, still or animated.
	FormatWebP

	// FormatPNG is PNG.
	FormatPNG

	// FormatJPEG is JFIF/EXIF JPEG.
	FormatJPEG

	// FormatBMP is Windows bitmap.
	FormatBMP
)

// String returns the canonical lower-case name of the format.
func (f Format) String() string {
	switch f {
	case FormatGIF:
		return "gif"
	case FormatWebP:
		return "webp"
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatBMP:
		return "bmp"
	default:
		return "unknown"
	}
}

// Magic-byte signatures.
var (
	sigGIF87 = []byte("GIF87a")
	sigGIF89 = []byte("GIF89a")
	sigRIFF  = []byte("RIFF")
	sigWEBP  = []byte("WEBP")
	sigPNG   = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	sigJPEG  = []byte{0xFF, 0xD8, 0xFF}
	sigBMP   = []byte("BM")
)

// DetectFormat sniffs the container format from leading magic bytes,
// falling back to the URL's extension and then the reported media type.
// Header sniffing wins over both hints: proxies routinely mislabel bytes.
func DetectFormat(data []byte, url, mediaType string) Format {
	if f := sniffFormat(data); f != FormatUnknown {
		return f
	}
	if f := formatFromExt(url); f != FormatUnknown {
		return f
	}
	return formatFromMediaType(mediaType)
}

// sniffFormat matches leading magic bytes only.
func sniffFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, sigGIF87), bytes.HasPrefix(data, sigGIF89):
		return FormatGIF
	case len(data) >= 12 && bytes.HasPrefix(data, sigRIFF) && bytes.Equal(data[8:12], sigWEBP):
		return FormatWebP
	case bytes.HasPrefix(data, sigPNG):
		return FormatPNG
	case bytes.HasPrefix(data, sigJPEG):
		return FormatJPEG
	case bytes.HasPrefix(data, sigBMP):
		return FormatBMP
	default:
		return FormatUnknown
	}
}

func formatFromExt(url string) Format {
	// Strip query/fragment before taking the extension.
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	switch strings.ToLower(path.Ext(url)) {
	case ".gif":
		return FormatGIF
	case ".webp":
		return FormatWebP
	case ".png":
		return FormatPNG
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".bmp":
		return FormatBMP
	default:
		return FormatUnknown
	}
}

func formatFromMediaType(mediaType string) Format {
	// Ignore parameters like "; charset=".
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	switch strings.TrimSpace(strings.ToLower(mediaType)) {
	case "image/gif":
		return FormatGIF
	case "image/webp":
		return FormatWebP
	case "image/png":
		return FormatPNG
	case "image/jpeg", "image/jpg":
		return FormatJPEG
	case "image/bmp", "image/x-ms-bmp":
		return FormatBMP
	default:
		return FormatUnknown
	}
}

// vp8x chunk flag bits (WebP extended format).
const vp8xAnimationFlag = 0x02

// isAnimatedWebP reports whether a RIFF/WEBP buffer declares animation.
// It checks the VP8X animation bit and, failing that, scans the top-level
// chunk list for an ANIM chunk.
func isAnimatedWebP(data []byte) bool {
	if len(data) < 21 || !bytes.HasPrefix(data, sigRIFF) || !bytes.Equal(data[8:12], sigWEBP) {
		return false
	}
	if bytes.Equal(data[12:16], []byte("VP8X")) {
		return data[20]&vp8xAnimationFlag != 0
	}
	return bytes.Contains(data, []byte("ANIM"))
}
