package imagestore

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/caresync-app/caresync-api/internal/apperr"
)

const maxProfileEdge = 512

// ToWebp decodes a jpeg/png/webp upload, caps the longest edge at
// maxProfileEdge and re-encodes as lossy webp.
func ToWebp(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// image.Decode only knows registered formats; try webp directly.
		src, err = webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, apperr.Validation("unsupported image format")
		}
	}

	src = shrink(src, maxProfileEdge)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: 80}); err != nil {
		return nil, apperr.Dependency("image encoding failed")
	}
	return buf.Bytes(), nil
}

func shrink(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	if w >= h {
		h = h * maxEdge / w
		w = maxEdge
	} else {
		w = w * maxEdge / h
		h = maxEdge
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
