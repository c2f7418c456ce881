package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
)

// ImageFormat represents supported image formats.
type ImageFormat string

const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
)

// FormatFromPath guesses the image format from a file extension. Unknown
// extensions return an empty format, which DecodeImage resolves by sniffing
// the content.
func FormatFromPath(path string) ImageFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".png":
		return FormatPNG
	case ".webp":
		return FormatWebP
	default:
		return ""
	}
}

// DecodeImage decodes an image []byte of the given format into a Go-native
// image.Image, suitable for tiling and inference preprocessing.
//
// Arguments:
//   - b: The raw image file bytes.
//   - format: The container format of the bytes.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: An error if the data is empty or fails to decode.
func DecodeImage(b []byte, format ImageFormat) (image.Image, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	switch format {
	case FormatJPEG:
		return jpeg.Decode(bytes.NewReader(b))
	case FormatPNG:
		return png.Decode(bytes.NewReader(b))
	case FormatWebP:
		return webp.Decode(bytes.NewReader(b))
	default:
		// Fall back to content sniffing for unknown formats.
		img, _, err := image.Decode(bytes.NewReader(b))
		return img, err
	}
}
