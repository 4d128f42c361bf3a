// Package trim removes white borders from the right and bottom of chart
// images.
package trim

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // Register the TIFF format with image.Decode.
)

// DefaultMargin is the number of pixels kept beyond the last non-white pixel.
const DefaultMargin = 225

// Decode decodes a PNG or TIFF image from r.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

// Encode encodes img as a PNG to w.
func Encode(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// Bounds returns the bounds of img after trimming. The kept height is one past
// the last row containing a non-white pixel and the kept width is one past
// the last column containing a non-white pixel within the kept rows. Each is
// grown by margin and clamped to img's bounds. Alpha is ignored.
func Bounds(img image.Image, margin int) image.Rectangle {
	b := img.Bounds()

	height := b.Dy()
	for ; height > 0; height-- {
		y := b.Min.Y + height - 1
		if rowHasInk(img, y, b.Min.X, b.Max.X) {
			break
		}
	}

	width := b.Dx()
	for ; width > 0; width-- {
		x := b.Min.X + width - 1
		if columnHasInk(img, x, b.Min.Y, b.Min.Y+height) {
			break
		}
	}

	width = min(width+margin, b.Dx())
	height = min(height+margin, b.Dy())
	return image.Rect(b.Min.X, b.Min.Y, b.Min.X+width, b.Min.Y+height)
}

// Trim returns img trimmed to Bounds(img, margin) as an opaque image, and
// whether anything was trimmed. If nothing was trimmed it returns img.
func Trim(img image.Image, margin int) (image.Image, bool) {
	r := Bounds(img, margin)
	if r.Eq(img.Bounds()) {
		return img, false
	}
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Copy(dst, image.Point{}, opaqueImage{img}, r, draw.Src, nil)
	return dst, true
}

// An opaqueImage is an image with its alpha channel replaced by 0xff. Colors
// are not premultiplied first, so transparent pixels keep their color.
type opaqueImage struct {
	image.Image
}

func (o opaqueImage) ColorModel() color.Model {
	return color.NRGBAModel
}

func (o opaqueImage) At(x, y int) color.Color {
	c := color.NRGBAModel.Convert(o.Image.At(x, y)).(color.NRGBA)
	c.A = 0xff
	return c
}

func rowHasInk(img image.Image, y, minX, maxX int) bool {
	for x := minX; x < maxX; x++ {
		if !isWhite(img.At(x, y)) {
			return true
		}
	}
	return false
}

func columnHasInk(img image.Image, x, minY, maxY int) bool {
	for y := minY; y < maxY; y++ {
		if !isWhite(img.At(x, y)) {
			return true
		}
	}
	return false
}

func isWhite(c color.Color) bool {
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	return nrgba.R == 0xff && nrgba.G == 0xff && nrgba.B == 0xff
}
