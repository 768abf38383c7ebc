package codec

import (
	"math"
	"math/cmplx"

	"hdxsfx/pkg/audioengine"
	"hdxsfx/pkg/spec"

	"github.com/faiface/beep"
	"github.com/mjibson/go-dsp/fft"
)

// maxSpectrumWindow bounds the FFT used for the dominant frequency.
const maxSpectrumWindow = 1 << 16

// SilenceDB is the peak level reported for all-zero sounds.
const SilenceDB = -120.0

// Report summarises one sound file.
type Report struct {
	Format      string  `json:"format"`
	Duration    float64 `json:"duration_s"`
	Frames      int     `json:"frames"`
	Peak        float64 `json:"peak"`
	PeakDB      float64 `json:"peak_db"`
	RMS         float64 `json:"rms"`
	DominantHz  float64 `json:"dominant_hz"`
	Fingerprint string  `json:"fingerprint"`
	Waveform    []byte  `json:"-"`

	mono []float64
}

// Analyze decodes data at the HDX rate and measures it.
func Analyze(data []byte) (*Report, error) {
	kind, err := audioengine.Sniff(data)
	if err != nil {
		return nil, err
	}
	format := beep.Format{SampleRate: spec.SampleRate, NumChannels: spec.Channels, Precision: 2}
	buf, err := audioengine.DecodeBytes(data, format)
	if err != nil {
		return nil, err
	}
	frames := audioengine.Samples(buf.Streamer(0, buf.Len()))

	mono := make([]float64, len(frames))
	pcm := make([]int16, 0, len(frames)*2)
	var peak, sum float64
	for i, f := range frames {
		m := (f[0] + f[1]) / 2
		mono[i] = m
		sum += m * m
		for _, v := range f {
			if a := math.Abs(v); a > peak {
				peak = a
			}
			pcm = append(pcm, toInt16(v))
		}
	}

	r := &Report{
		Format:      string(kind),
		Duration:    float64(len(frames)) / spec.SampleRate,
		Frames:      len(frames),
		Peak:        peak,
		PeakDB:      SilenceDB,
		Fingerprint: GenerateFingerprint(mono),
		Waveform:    GenerateWaveformData(pcm),
		mono:        mono,
	}
	if peak > 0 {
		r.PeakDB = math.Max(20*math.Log10(peak), SilenceDB)
	}
	if len(mono) > 0 {
		r.RMS = math.Sqrt(sum / float64(len(mono)))
	}
	r.DominantHz = DominantFrequency(mono, spec.SampleRate)
	return r, nil
}

// Spectrogram renders the analysed sound as a PNG.
func (r *Report) Spectrogram() ([]byte, error) {
	return GenerateSpectrogram(r.mono)
}

// DominantFrequency returns the strongest frequency in the first
// power-of-two window of mono, or 0 when it is too short.
func DominantFrequency(mono []float64, rate int) float64 {
	n := 1
	for n*2 <= len(mono) && n*2 <= maxSpectrumWindow {
		n *= 2
	}
	if n < 64 {
		return 0
	}

	window := make([]float64, n)
	for i := range window {
		window[i] = mono[i] * hann(i, n)
	}
	coeffs := fft.FFTReal(window)

	bin, best := 0, 0.0
	for k := 1; k < n/2; k++ {
		if m := cmplx.Abs(coeffs[k]); m > best {
			best, bin = m, k
		}
	}
	return float64(bin) * float64(rate) / float64(n)
}

func toInt16(v float64) int16 {
	s := v * 32768
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}
