package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	spectrogramWidth  = 800
	spectrogramHeight = 200
	spectrogramFFT    = 1024
)

// GenerateSpectrogram renders mono PCM in [-1,1] as a PNG, time on X and
// linear frequency on Y. Short sounds use fewer columns.
func GenerateSpectrogram(mono []float64) ([]byte, error) {
	cols := len(mono) / spectrogramFFT
	if cols > spectrogramWidth {
		cols = spectrogramWidth
	}
	if cols < 1 {
		cols = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, cols, spectrogramHeight))

	step := len(mono) / cols
	window := make([]float64, spectrogramFFT)

	for x := 0; x < cols; x++ {
		start := x * step
		for i := range window {
			window[i] = 0
			if start+i < len(mono) {
				window[i] = mono[start+i] * hann(i, spectrogramFFT)
			}
		}

		coeffs := fft.FFTReal(window)

		for y := 0; y < spectrogramHeight; y++ {
			idx := (spectrogramHeight - 1 - y) * (spectrogramFFT / 2) / spectrogramHeight
			mag := cmplx.Abs(coeffs[idx])

			// log scale: 0 dB at mag 1, 80 dB range
			db := 20 * math.Log10(mag+1e-9)
			intensity := uint8(math.Max(0, math.Min(255, (db+60)*255/80)))
			img.Set(x, y, color.RGBA{R: intensity / 2, G: intensity, B: intensity / 2, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func hann(i, n int) float64 {
	return 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
}
