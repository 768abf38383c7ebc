package audioengine

import (
	"math"

	"github.com/faiface/beep"
)

// ApplyQuickGain scales samples in place with hard clipping.
func ApplyQuickGain(samples []int16, factor float64) {
	for i := range samples {
		val := float64(samples[i]) * factor
		if val > 32767 {
			val = 32767
		} else if val < -32768 {
			val = -32768
		}
		samples[i] = int16(val)
	}
}

// gainToVolume maps a linear gain to effects.Volume settings with Base 2.
// A non-positive gain is silence.
func gainToVolume(gain float64) (volume float64, silent bool) {
	if gain <= 0 {
		return 0, true
	}
	return math.Log2(gain), false
}

// Samples copies every frame of s into memory.
func Samples(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	chunk := make([][2]float64, 512)
	for {
		n, ok := s.Stream(chunk)
		out = append(out, chunk[:n]...)
		if !ok {
			return out
		}
	}
}
