package capability

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// gonumFourier implements FourierTransformer with gonum's DSP package by
// running 1D complex FFTs over rows, then over columns.
type gonumFourier struct{}

// NewGonumFourier creates the gonum-backed Fourier capability.
func NewGonumFourier() FourierTransformer {
	return &gonumFourier{}
}

// Transform2D computes the full 2D complex spectrum of row-major real data.
func (g *gonumFourier) Transform2D(data []float64, width, height int) ([]complex128, error) {
	if width <= 0 || height <= 0 || len(data) != width*height {
		return nil, fmt.Errorf("fourier: data length %d does not match %dx%d", len(data), width, height)
	}

	spectrum := make([]complex128, width*height)
	for i, v := range data {
		spectrum[i] = complex(v, 0)
	}

	// Row pass
	rowFFT := fourier.NewCmplxFFT(width)
	rowBuf := make([]complex128, width)
	for y := 0; y < height; y++ {
		row := spectrum[y*width : (y+1)*width]
		rowFFT.Coefficients(rowBuf, row)
		copy(row, rowBuf)
	}

	// Column pass
	colFFT := fourier.NewCmplxFFT(height)
	colIn := make([]complex128, height)
	colOut := make([]complex128, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			colIn[y] = spectrum[y*width+x]
		}
		colFFT.Coefficients(colOut, colIn)
		for y := 0; y < height; y++ {
			spectrum[y*width+x] = colOut[y]
		}
	}

	return spectrum, nil
}
