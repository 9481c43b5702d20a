// Package resource resolves the image references found in guide
// markup. A reference is either an inline base64 data URI, decoded in
// place, or an HTTP(S) URL fetched with a bounded client. Decoded
// images are validated, capped in pixel size, and re-encoded when the
// renderer cannot embed the source format.
package resource

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/nmalhotra/guidepress/core"
)

// Default loader bounds, overridable through the config file.
const (
	DefaultFetchTimeout = 15 * time.Second
	DefaultMaxBytes     = 8 << 20
	DefaultMaxEdge      = 4096
)

const (
	defaultUserAgent = "guidepress/1.0"

	// DisplayWidthMM is the rendered width of every guide image.
	// Height follows the aspect ratio.
	DisplayWidthMM = 140
)

// Loader resolves image references. The zero value is not usable; call
// New and override fields as needed.
type Loader struct {
	Client   *http.Client
	MaxBytes int64 // fetched payload cap
	MaxEdge  int   // longest pixel edge before downscaling
}

// New returns a Loader with a bounded HTTP client and default limits.
func New() *Loader {
	return &Loader{
		Client:   &http.Client{Timeout: DefaultFetchTimeout},
		MaxBytes: DefaultMaxBytes,
		MaxEdge:  DefaultMaxEdge,
	}
}

// Load resolves one image reference into a decoded, size-bounded
// image. Any failure is reported to the caller, which drops the image
// block; loading never aborts the surrounding conversion.
func (l *Loader) Load(ctx context.Context, src string) (*core.Image, error) {
	var (
		raw []byte
		err error
	)
	switch {
	case strings.HasPrefix(src, "data:image"):
		raw, err = decodeDataURI(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		raw, err = l.fetch(ctx, src)
	default:
		return nil, fmt.Errorf("unsupported image source %q", clip(src))
	}
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	needTranscode := false
	switch format {
	case "png", "jpeg", "gif":
	case "webp":
		// The PDF renderer cannot embed webp directly.
		needTranscode = true
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	needShrink := cfg.Width > l.MaxEdge || cfg.Height > l.MaxEdge

	width, height := cfg.Width, cfg.Height
	if needTranscode || needShrink {
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
		if needShrink {
			img = shrink(img, l.MaxEdge)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("re-encoding image: %w", err)
		}
		raw = buf.Bytes()
		format = "png"
		bounds := img.Bounds()
		width, height = bounds.Dx(), bounds.Dy()
	}

	return &core.Image{
		Data:    raw,
		Format:  format,
		PixelW:  width,
		PixelH:  height,
		WidthMM: DisplayWidthMM,
	}, nil
}

// decodeDataURI extracts and decodes the base64 payload of a data URI.
func decodeDataURI(src string) ([]byte, error) {
	_, payload, ok := strings.Cut(src, ",")
	if !ok {
		return nil, errors.New("data URI has no payload")
	}
	payload = strings.Map(dropSpace, payload)
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data URI: %w", err)
	}
	return raw, nil
}

func dropSpace(r rune) rune {
	switch r {
	case ' ', '\t', '\n', '\r':
		return -1
	}
	return r
}

// fetch retrieves remote image bytes, refusing payloads over MaxBytes.
func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image body: %w", err)
	}
	if int64(len(body)) > l.MaxBytes {
		return nil, fmt.Errorf("image at %s exceeds %d bytes", url, l.MaxBytes)
	}
	return body, nil
}

// shrink scales img down so its longest edge is at most maxEdge.
func shrink(img image.Image, maxEdge int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := max(w, h)
	if longest <= maxEdge {
		return img
	}

	scale := float64(maxEdge) / float64(longest)
	dw := max(int(float64(w)*scale), 1)
	dh := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// clip keeps error messages readable for very long references.
func clip(src string) string {
	const limit = 64
	if len(src) <= limit {
		return src
	}
	return src[:limit] + "…"
}
