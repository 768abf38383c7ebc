package codec

import (
	"crypto/sha256"
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	fpWindow = 1024
	fpStride = 512
	// fpFloor drops near-silent windows so leading silence does not shift
	// the fingerprint.
	fpFloor = 0.02
)

// GenerateFingerprint hashes the dominant spectral bin of every audible
// window of mono PCM in [-1,1]. Identical sounds give identical fingerprints
// regardless of gain.
func GenerateFingerprint(mono []float64) string {
	h := sha256.New()
	seq := 0
	window := make([]float64, fpWindow)

	for i := 0; i+fpWindow <= len(mono); i += fpStride {
		peak := 0.0
		for j := 0; j < fpWindow; j++ {
			window[j] = mono[i+j]
			if a := abs(window[j]); a > peak {
				peak = a
			}
		}
		if peak < fpFloor {
			continue
		}

		coeffs := fft.FFTReal(window)
		bin, best := 0, 0.0
		for k := 1; k < fpWindow/2; k++ {
			if m := cmplx.Abs(coeffs[k]); m > best {
				best, bin = m, k
			}
		}
		fmt.Fprintf(h, "%d|%d;", seq, bin)
		seq++
	}

	return fmt.Sprintf("HDXS-%x", h.Sum(nil)[:12])
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
