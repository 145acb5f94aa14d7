package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// ImageService provides image processing operations for captured frames.
//
// ImageService is used to:
//   - Draw a live frame onto an offscreen surface of a given size
//   - Encode surfaces as PNG
//   - Shrink frames for the terminal preview
type ImageService struct {
	encoder png.Encoder
}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{
		encoder: png.Encoder{CompressionLevel: png.DefaultCompression},
	}
}

// Snapshot draws frame onto a new width x height RGBA surface.
//
// The frame is scaled to fill the surface; when the sizes already match
// this is a plain copy. The returned surface does not share memory with
// frame, so later frames cannot change it.
func (s *ImageService) Snapshot(frame image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	src := frame.Bounds()
	if src.Dx() == width && src.Dy() == height {
		draw.Draw(dst, dst.Bounds(), frame, src.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), frame, src, draw.Src, nil)
	return dst
}

// EncodePNG encodes img as PNG.
//
// Parameters:
//   - ctx: Context for cancellation (checked before encoding)
//   - img: Image to encode
func (s *ImageService) EncodePNG(ctx context.Context, img image.Image) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.encoder.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Thumbnail scales img to fit within maxWidth x maxHeight, keeping the
// aspect ratio. Images that already fit are scaled anyway so the result
// is always an independent RGBA copy.
//
// Approximate bilinear scaling is used; previews are redrawn many times
// a second and do not need Catmull-Rom quality.
func (s *ImageService) Thumbnail(img image.Image, maxWidth, maxHeight int) *image.RGBA {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 || maxWidth <= 0 || maxHeight <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	// Calculate new dimensions maintaining aspect ratio
	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			// Height is the limiting factor
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			// Width is the limiting factor
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
