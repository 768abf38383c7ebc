package codec

import (
	"math"
)

// WaveformPoints is the resolution of GenerateWaveformData.
const WaveformPoints = 1000

// GenerateWaveformData reduces PCM to at most WaveformPoints RMS amplitudes
// on a 0-255 scale.
func GenerateWaveformData(pcm []int16) []byte {
	if len(pcm) == 0 {
		return nil
	}
	step := (len(pcm) + WaveformPoints - 1) / WaveformPoints
	if step == 0 {
		step = 1
	}

	waveform := make([]byte, 0, WaveformPoints)

	for i := 0; i < len(pcm); i += step {
		var sum float64
		count := 0
		for j := 0; j < step && (i+j) < len(pcm); j++ {
			val := float64(pcm[i+j])
			sum += val * val
			count++
		}

		rms := math.Sqrt(sum / float64(count))
		normalized := uint8(math.Min((rms/32768.0)*255.0*5.0, 255.0))
		waveform = append(waveform, normalized)
	}
	return waveform
}
