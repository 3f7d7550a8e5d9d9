package upload

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	stddraw "image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	types "lostfound/internal/common/type"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

const DefaultThumbnailSize = 240

// Preview is the displayable form of a pending file.
type Preview struct {
	FileID   string `json:"fileId"`
	Name     string `json:"name"`
	DataURL  string `json:"dataUrl,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Approved bool   `json:"approved"`
	// Failed marks a file whose bytes could not be decoded; it is still
	// listed and can be approved.
	Failed bool `json:"failed"`
}

type Decoder interface {
	Decode(file *types.BufferedFile) (Preview, error)
}

type DecoderFunc func(file *types.BufferedFile) (Preview, error)

func (f DecoderFunc) Decode(file *types.BufferedFile) (Preview, error) {
	return f(file)
}

// ThumbnailDecoder scales images so the longer side is at most MaxSide and
// encodes the result as a PNG data URL.
type ThumbnailDecoder struct {
	MaxSide int
}

func NewThumbnailDecoder(maxSide int) *ThumbnailDecoder {
	if maxSide <= 0 {
		maxSide = DefaultThumbnailSize
	}
	return &ThumbnailDecoder{MaxSide: maxSide}
}

func (d *ThumbnailDecoder) Decode(file *types.BufferedFile) (Preview, error) {
	preview := Preview{Name: file.OriginalName}

	img, err := decodeImage(file.Buffer)
	if err != nil {
		return preview, fmt.Errorf("decode %s: %w", file.OriginalName, err)
	}

	src := img.Bounds()
	w, h := fit(src.Dx(), src.Dy(), d.MaxSide)
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(canvas, canvas.Bounds(), img, src, stddraw.Over, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, canvas); err != nil {
		return preview, fmt.Errorf("encode preview for %s: %w", file.OriginalName, err)
	}

	preview.Width = w
	preview.Height = h
	preview.DataURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(out.Bytes())
	return preview, nil
}

func decodeImage(raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err == nil {
		return img, nil
	}
	if decoded, webpErr := webp.Decode(bytes.NewReader(raw)); webpErr == nil {
		return decoded, nil
	}
	return nil, err
}

func fit(w, h, maxSide int) (int, int) {
	if w <= maxSide && h <= maxSide {
		return max(w, 1), max(h, 1)
	}
	if w >= h {
		return maxSide, max(h*maxSide/w, 1)
	}
	return max(w*maxSide/h, 1), maxSide
}
