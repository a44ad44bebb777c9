package imaging

import (
	"image"
	"image/color"

	apperrors "go-image-forensics/internal/errors"
)

// Channels is the fixed channel count of a PixelBuffer. The engine works on
// 8-bit RGB only; alpha and higher bit depths are normalized away at decode.
const Channels = 3

// PixelBuffer is a row-major 8-bit RGB byte buffer. It is owned by the caller
// for the duration of one analysis call and never retained by the engine.
type PixelBuffer struct {
	Width  int
	Height int
	Data   []byte
}

// Validate checks that the buffer is usable for analysis.
func (p *PixelBuffer) Validate() error {
	if p == nil {
		return apperrors.NewDecodeError("nil pixel buffer", nil)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return apperrors.NewDecodeError("pixel buffer has empty dimensions", nil)
	}
	if len(p.Data) != p.Width*p.Height*Channels {
		return apperrors.NewDecodeError("pixel buffer length disagrees with dimensions", nil)
	}
	return nil
}

// At returns the value of channel c at (x, y). No bounds checking.
func (p *PixelBuffer) At(x, y, c int) byte {
	return p.Data[(y*p.Width+x)*Channels+c]
}

// Channel extracts one color plane as a contiguous byte slice.
func (p *PixelBuffer) Channel(c int) []byte {
	plane := make([]byte, p.Width*p.Height)
	for i := range plane {
		plane[i] = p.Data[i*Channels+c]
	}
	return plane
}

// LSBPlane extracts the least-significant-bit plane of one channel as a
// slice of 0/1 bytes in row-major order.
func (p *PixelBuffer) LSBPlane(c int) []byte {
	plane := make([]byte, p.Width*p.Height)
	for i := range plane {
		plane[i] = p.Data[i*Channels+c] & 1
	}
	return plane
}

// GrayscaleBytes converts to 8-bit grayscale using the mean of the channels.
func (p *PixelBuffer) GrayscaleBytes() []byte {
	gray := make([]byte, p.Width*p.Height)
	for i := range gray {
		base := i * Channels
		sum := int(p.Data[base]) + int(p.Data[base+1]) + int(p.Data[base+2])
		gray[i] = byte(sum / 3)
	}
	return gray
}

// GrayscaleFloat converts to float64 grayscale using the mean of the channels.
func (p *PixelBuffer) GrayscaleFloat() []float64 {
	gray := make([]float64, p.Width*p.Height)
	for i := range gray {
		base := i * Channels
		sum := float64(p.Data[base]) + float64(p.Data[base+1]) + float64(p.Data[base+2])
		gray[i] = sum / 3
	}
	return gray
}

// FromImage normalizes any decoded image to an 8-bit RGB PixelBuffer.
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	buf := &PixelBuffer{
		Width:  width,
		Height: height,
		Data:   make([]byte, width*height*Channels),
	}

	// Fast path for the common decoder output types.
	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+width*4]
			out := buf.Data[y*width*Channels:]
			for x := 0; x < width; x++ {
				out[x*3] = row[x*4]
				out[x*3+1] = row[x*4+1]
				out[x*3+2] = row[x*4+2]
			}
		}
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+width*4]
			out := buf.Data[y*width*Channels:]
			for x := 0; x < width; x++ {
				out[x*3] = row[x*4]
				out[x*3+1] = row[x*4+1]
				out[x*3+2] = row[x*4+2]
			}
		}
	default:
		i := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				buf.Data[i] = byte(r >> 8)
				buf.Data[i+1] = byte(g >> 8)
				buf.Data[i+2] = byte(b >> 8)
				i += 3
			}
		}
	}

	return buf
}

// ToImage renders the buffer back into an image.RGBA, used by the lossy
// re-encode capability.
func (p *PixelBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			base := (y*p.Width + x) * Channels
			img.SetRGBA(x, y, color.RGBA{
				R: p.Data[base],
				G: p.Data[base+1],
				B: p.Data[base+2],
				A: 255,
			})
		}
	}
	return img
}
