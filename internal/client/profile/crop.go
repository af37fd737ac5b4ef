package profile

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"

	// Registered decoders for the formats a profile source may be in.
	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
)

// avatarSize is the edge length of the stored square avatar.
const avatarSize = 256

// CropRect is a crop rectangle expressed in displayed-image
// coordinates, as produced by an interactive crop tool working on a
// scaled-down rendering of the source.
type CropRect struct {
	X, Y, W, H int
}

// Dimensions reports the natural width and height of an encoded image
// without decoding the pixel data.
func Dimensions(src []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// CenterSquare returns the largest centered square crop of src in
// natural coordinates, along with the natural dimensions so the crop
// maps 1:1.
func CenterSquare(src []byte) (CropRect, int, int, error) {
	w, h, err := Dimensions(src)
	if err != nil {
		return CropRect{}, 0, 0, err
	}
	edge := min(w, h)
	rect := CropRect{X: (w - edge) / 2, Y: (h - edge) / 2, W: edge, H: edge}
	return rect, w, h, nil
}

// CropSquare decodes src, maps rect from displayed coordinates to the
// image's natural dimensions using the natural-vs-displayed ratio,
// extracts that region, scales it to the avatar edge length, and
// re-encodes it as JPEG. displayedW/H are the dimensions the crop tool
// rendered the image at; passing the natural dimensions gives a 1:1
// mapping.
func CropSquare(src []byte, rect CropRect, displayedW, displayedH int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	if rect.W <= 0 || rect.H <= 0 || displayedW <= 0 || displayedH <= 0 {
		return nil, errors.New("empty crop area")
	}

	bounds := img.Bounds()
	scaleX := float64(bounds.Dx()) / float64(displayedW)
	scaleY := float64(bounds.Dy()) / float64(displayedH)

	region := image.Rect(
		bounds.Min.X+int(float64(rect.X)*scaleX),
		bounds.Min.Y+int(float64(rect.Y)*scaleY),
		bounds.Min.X+int(float64(rect.X+rect.W)*scaleX),
		bounds.Min.Y+int(float64(rect.Y+rect.H)*scaleY),
	).Intersect(bounds)
	if region.Empty() {
		return nil, errors.New("crop area is outside the image")
	}
	// Clipping at the image edge can leave a non-square region, which
	// would be stretched by the square resize below. Shrink it to the
	// largest centered square it contains.
	if region.Dx() != region.Dy() {
		edge := min(region.Dx(), region.Dy())
		x0 := region.Min.X + (region.Dx()-edge)/2
		y0 := region.Min.Y + (region.Dy()-edge)/2
		region = image.Rect(x0, y0, x0+edge, y0+edge)
	}

	cropped := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			cropped.Set(x-region.Min.X, y-region.Min.Y, img.At(x, y))
		}
	}

	scaled := resize.Resize(avatarSize, avatarSize, cropped, resize.Lanczos3)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, scaled, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
