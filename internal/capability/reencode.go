package capability

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"go-image-forensics/internal/imaging"
)

// jpegReencoder implements Reencoder with the standard JPEG codec, entirely
// in memory so no scratch files can leak on error paths.
type jpegReencoder struct{}

// NewJPEGReencoder creates the JPEG-backed re-encode capability.
func NewJPEGReencoder() Reencoder {
	return &jpegReencoder{}
}

// Reencode runs the buffer through one lossy JPEG encode/decode cycle.
func (j *jpegReencoder) Reencode(buf *imaging.PixelBuffer, quality int) (*imaging.PixelBuffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("reencode: quality %d out of range [1,100]", quality)
	}

	var encoded bytes.Buffer
	if err := jpeg.Encode(&encoded, buf.ToImage(), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("reencode: encoding: %w", err)
	}

	decoded, err := jpeg.Decode(&encoded)
	if err != nil {
		return nil, fmt.Errorf("reencode: decoding: %w", err)
	}

	out := imaging.FromImage(decoded)
	if out.Width != buf.Width || out.Height != buf.Height {
		return nil, fmt.Errorf("reencode: dimensions changed from %dx%d to %dx%d",
			buf.Width, buf.Height, out.Width, out.Height)
	}
	return out, nil
}
