package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/adrium/goheif"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// ImageProcessor normalizes uploaded images to bounded WebP
type ImageProcessor struct {
	Quality      int // WebP quality (0-100)
	MaxDimension int // longest edge in pixels, 0 keeps the original size
}

// NewImageProcessor creates a new image processor
func NewImageProcessor(quality, maxDimension int) *ImageProcessor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &ImageProcessor{
		Quality:      quality,
		MaxDimension: maxDimension,
	}
}

// IsImageFile checks if the file is a supported image type
func (ip *ImageProcessor) IsImageFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".tif", ".webp", ".heic", ".heif":
		return true
	}
	return false
}

// ConvertToWebPBytes decodes data, downsizes it to MaxDimension and encodes WebP.
// Non images are returned untouched.
func (ip *ImageProcessor) ConvertToWebPBytes(data []byte, originalFilename string) ([]byte, string, error) {
	if !ip.IsImageFile(originalFilename) {
		return data, originalFilename, nil
	}

	img, err := ip.decodeImage(data, originalFilename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	img = ip.resize(img)

	var buf bytes.Buffer
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(ip.Quality))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create encoder options: %w", err)
	}
	if err := webp.Encode(&buf, img, options); err != nil {
		return nil, "", fmt.Errorf("failed to encode to webp: %w", err)
	}

	ext := filepath.Ext(originalFilename)
	newFilename := strings.TrimSuffix(originalFilename, ext) + ".webp"
	return buf.Bytes(), newFilename, nil
}

// decodeImage decodes an image based on file extension
func (ip *ImageProcessor) decodeImage(data []byte, filename string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".png":
		return png.Decode(r)
	case ".bmp":
		return bmp.Decode(r)
	case ".tif", ".tiff":
		return tiff.Decode(r)
	case ".webp":
		return webp.Decode(r, nil)
	case ".heic", ".heif":
		return goheif.Decode(r)
	default:
		img, _, err := image.Decode(r)
		return img, err
	}
}

// resize scales img so its longest edge fits MaxDimension
func (ip *ImageProcessor) resize(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	longest := max(width, height)
	if ip.MaxDimension <= 0 || longest <= ip.MaxDimension {
		return img
	}

	scale := float64(ip.MaxDimension) / float64(longest)
	target := image.Rect(0, 0, max(1, int(float64(width)*scale)), max(1, int(float64(height)*scale)))
	dst := image.NewRGBA(target)
	draw.CatmullRom.Scale(dst, target, img, bounds, draw.Over, nil)
	return dst
}
