// path: pdfreport/images.go
package pdfreport

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	"encoding/base64"
)

// PhotoResolver turns one stored photo reference into a payload the engine
// can embed. index is the photo's position in the report; it keys the
// registration name so renders stay deterministic.
type PhotoResolver func(ref string, index int) (ImagePayload, error)

// maxPhotoBytes caps remote photo downloads (20 MiB).
const maxPhotoBytes = 20 << 20

var photoClient = &http.Client{Timeout: 10 * time.Second}

// ResolvePhoto handles the three reference kinds the app stores: base64 data
// URIs, served upload paths (/uploads/...) and absolute URLs. The payload is
// fully decoded before it is accepted: fpdf's error state is sticky per
// document, so a corrupt image must never reach the engine. A failure here is
// isolated to the one photo.
func ResolvePhoto(ref string, index int) (ImagePayload, error) {
	raw, err := fetchPhoto(ref)
	if err != nil {
		return ImagePayload{}, err
	}
	decoded, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return ImagePayload{}, fmt.Errorf("decode image: %w", err)
	}
	switch format {
	case "png", "jpeg", "gif":
	default:
		return ImagePayload{}, fmt.Errorf("unsupported image format %q", format)
	}
	// The stdlib decodes Adam7-interlaced and 16-bit PNGs but fpdf rejects
	// them, which would poison the whole document. Re-encode those to plain
	// 8-bit non-interlaced form (IHDR: raw[24] bit depth, raw[28] interlace).
	if format == "png" && len(raw) > 28 && (raw[24] > 8 || raw[28] != 0) {
		raw, err = reencodePNG(decoded)
		if err != nil {
			return ImagePayload{}, fmt.Errorf("reencode image: %w", err)
		}
	}
	return ImagePayload{
		Name:   fmt.Sprintf("photo_%d", index),
		Format: format,
		Data:   raw,
	}, nil
}

// reencodePNG flattens a decoded image into 8-bit NRGBA and encodes it
// non-interlaced, the shape fpdf always accepts.
func reencodePNG(src image.Image) ([]byte, error) {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fetchPhoto(ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return fetchURL(ref)
	case strings.HasPrefix(ref, "/uploads/"):
		// Base() keeps reads inside the upload dir.
		name := filepath.Base(ref)
		dir := envOr("UPLOAD_DIR", "uploads")
		return os.ReadFile(filepath.Join(dir, name))
	default:
		return nil, fmt.Errorf("unrecognized photo reference %q", clip(ref, 40))
	}
}

func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, errors.New("malformed data URI")
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, errors.New("data URI is not base64 encoded")
	}
	return base64.StdEncoding.DecodeString(payload)
}

func fetchURL(u string) ([]byte, error) {
	resp, err := photoClient.Get(u)
	if err != nil {
		return nil, fmt.Errorf("fetch photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch photo: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch photo: %w", err)
	}
	if len(data) > maxPhotoBytes {
		return nil, errors.New("fetch photo: payload too large")
	}
	return data, nil
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
