package imaging

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "go-image-forensics/internal/errors"
)

// Decode loads an image file and normalizes it to an 8-bit RGB PixelBuffer.
// Supported formats: PNG, JPEG, GIF, BMP, TIFF, WebP.
func Decode(path string) (*PixelBuffer, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", apperrors.NewDecodeError("opening image file", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", apperrors.NewDecodeError("decoding image", err)
	}

	buf := FromImage(img)
	if err := buf.Validate(); err != nil {
		return nil, format, err
	}
	return buf, format, nil
}
