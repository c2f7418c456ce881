package slicing

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// letterboxFill is the padding color expected by the model's training regime.
var letterboxFill = color.RGBA{114, 114, 114, 255}

// ModelInput is a normalized planar (channel-major) float buffer of shape
// (3, Size, Size) with values scaled to [0, 1], ready to hand to an
// inference engine.
type ModelInput struct {
	Data []float32
	Size int
}

// subImager is implemented by image types that can share pixels with a
// cropped view, e.g. *image.RGBA and *image.NRGBA.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Letterbox fits the tile's source region into a size×size square preserving
// aspect ratio, centers it with neutral-gray padding, and converts the result
// into a normalized planar buffer.
//
// The computed scale and padding are recorded on spec so detections in model
// space can later be mapped back to source-image space.
//
// Arguments:
//   - img: The full source image.
//   - spec: The tile to extract; Scale/PadX/PadY are filled in.
//   - size: The square model input size S.
//
// Returns:
//   - *ModelInput: The normalized (3, S, S) buffer.
//   - error: An error if the region is degenerate or the source image cannot
//     provide a cropped view. Such a failure is fatal for the run: skipping a
//     tile would leave an uncontrolled coverage gap.
func Letterbox(img image.Image, spec *TileSpec, size int) (*ModelInput, error) {
	if img == nil {
		return nil, errors.New("cannot acquire source surface: nil image")
	}
	if spec.Width <= 0 || spec.Height <= 0 || size <= 0 {
		return nil, errors.Errorf("degenerate tile region %dx%d (size %d)",
			spec.Width, spec.Height, size)
	}

	region, err := cropRegion(img, spec)
	if err != nil {
		return nil, err
	}

	scale := math.Min(
		float64(size)/float64(spec.Width),
		float64(size)/float64(spec.Height),
	)
	newW := int(math.Round(float64(spec.Width) * scale))
	newH := int(math.Round(float64(spec.Height) * scale))
	// Padding is deliberately whole pixels: the fitted region lands on the
	// pixel grid and the recorded pad matches the drawn position exactly, at
	// the cost of an odd margin sitting half a pixel off center.
	padX := (size - newW) / 2
	padY := (size - newH) / 2

	fitted := resize.Resize(uint(newW), uint(newH), region, resize.Lanczos3)

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{letterboxFill}, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(padX, padY, padX+newW, padY+newH),
		fitted, fitted.Bounds().Min, draw.Over)

	spec.Scale = float32(scale)
	spec.PadX = float32(padX)
	spec.PadY = float32(padY)

	return &ModelInput{Data: toPlanar(canvas, size), Size: size}, nil
}

// cropRegion extracts the tile's region from the source image without
// copying when the image supports shared sub-views.
func cropRegion(img image.Image, spec *TileSpec) (image.Image, error) {
	b := img.Bounds()
	r := image.Rect(
		b.Min.X+spec.OffsetX,
		b.Min.Y+spec.OffsetY,
		b.Min.X+spec.OffsetX+spec.Width,
		b.Min.Y+spec.OffsetY+spec.Height,
	)
	if r == b {
		return img, nil
	}
	if !r.In(b) {
		return nil, errors.Errorf("tile region %v outside image bounds %v", r, b)
	}
	si, ok := img.(subImager)
	if !ok {
		// Copy path for exotic image types.
		dst := image.NewRGBA(image.Rect(0, 0, spec.Width, spec.Height))
		draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
		return dst, nil
	}
	return si.SubImage(r), nil
}

// toPlanar converts an RGBA canvas to channel-major floats in [0, 1].
func toPlanar(canvas *image.RGBA, size int) []float32 {
	channelSize := size * size
	data := make([]float32, 3*channelSize)
	red := data[0:channelSize]
	green := data[channelSize : channelSize*2]
	blue := data[channelSize*2 : channelSize*3]

	i := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := canvas.At(x, y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(b>>8) / 255.0
			i++
		}
	}
	return data
}
