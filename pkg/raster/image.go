package raster

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrUnsupportedFormat is returned when an output path has an unknown extension
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format identifies an output encoding
type Format string

const (
	FormatPPM Format = "ppm"
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

// FormatForPath picks the encoder from the file extension. Paths without an
// extension are written as PPM.
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".ppm":
		return FormatPPM, nil
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Image is a width×height grid of RGB colors in [0,1]. Distinct pixels may be
// written from different goroutines.
type Image struct {
	width  int
	height int
	pixels []core.Vec3
}

// New creates a black image
func New(width, height int) *Image {
	width, height = max(width, 0), max(height, 0)
	return &Image{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

// Width returns the image width in pixels
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels
func (img *Image) Height() int { return img.height }

// Bounds returns the pixel rectangle covered by the image
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.width, img.height)
}

// SetPixel stores c clamped to [0,1] at (x, y). Row 0 is the top of the image.
// Coordinates outside the image are ignored.
func (img *Image) SetPixel(x, y int, c core.Vec3) {
	if !img.inside(x, y) {
		return
	}
	img.pixels[y*img.width+x] = core.NewVec3(clamp(c.X), clamp(c.Y), clamp(c.Z))
}

// At returns the color at (x, y), or black outside the image
func (img *Image) At(x, y int) core.Vec3 {
	if !img.inside(x, y) {
		return core.Vec3{}
	}
	return img.pixels[y*img.width+x]
}

func (img *Image) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < img.width && y < img.height
}

// ToRGBA converts the image to 8-bit channels
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			c := img.pixels[y*img.width+x]
			out.SetRGBA(x, y, color.RGBA{
				R: ChannelByte(c.X),
				G: ChannelByte(c.Y),
				B: ChannelByte(c.Z),
				A: 255,
			})
		}
	}
	return out
}

// WritePPM writes a plain-text P3 portable pixmap with one line per row
func (img *Image) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.width, img.height)

	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			c := img.pixels[y*img.width+x]
			if x > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%d %d %d", ChannelByte(c.X), ChannelByte(c.Y), ChannelByte(c.Z))
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// WritePNG writes the image as PNG
func (img *Image) WritePNG(w io.Writer) error {
	return png.Encode(w, img.ToRGBA())
}

// WriteBMP writes the image as an uncompressed BMP
func (img *Image) WriteBMP(w io.Writer) error {
	return bmp.Encode(w, img.ToRGBA())
}

// Encode writes the image in the given format
func (img *Image) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatPPM:
		return img.WritePPM(w)
	case FormatPNG:
		return img.WritePNG(w)
	case FormatBMP:
		return img.WriteBMP(w)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Save writes the image to path, creating parent directories as needed. The
// encoder is chosen by extension.
func (img *Image) Save(path string) (err error) {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if err := img.Encode(file, format); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return min(v, 1)
}

// ChannelByte converts a color channel to the 0-255 value written to image
// files: clamped to [0,1], scaled and rounded to nearest. NaN maps to 0.
func ChannelByte(v float64) uint8 {
	return uint8(math.Round(255 * clamp(v)))
}
