// Package audio produces placeholder speech audio when synthesis is
// unavailable, so clients always have something to play.
package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// SampleRate of generated audio, matching the synthesizer's configuration.
const SampleRate = 22050

const (
	charsPerMinute = 150.0
	minSeconds     = 0.5
	maxSeconds     = 5.0
	baseFreq       = 220.0
	volume         = 0.3
	headerSize     = 44
)

// Duration estimates how long text takes to read aloud, clamped to 0.5-5 s.
func Duration(text string) float64 {
	d := float64(utf8.RuneCountInString(text)) / charsPerMinute * 60
	return math.Max(minSeconds, math.Min(maxSeconds, d))
}

// PlaceholderWAV renders a mono 16-bit PCM WAV whose length follows the
// text: a slowly wavering 220 Hz tone with two harmonics and a gentle
// tremolo.
func PlaceholderWAV(text string) []byte {
	n := int(SampleRate * Duration(text))

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+n*2))
	writeHeader(buf, n)

	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		freq := baseFreq * (1 + 0.1*math.Sin(2*math.Pi*0.5*t))
		s := 0.6*math.Sin(2*math.Pi*freq*t) +
			0.3*math.Sin(2*math.Pi*freq*2*t) +
			0.1*math.Sin(2*math.Pi*freq*3*t)
		s *= 0.8 + 0.2*math.Sin(2*math.Pi*2*t)
		_ = binary.Write(buf, binary.LittleEndian, int16(32767*s*volume))
	}
	return buf.Bytes()
}

func writeHeader(buf *bytes.Buffer, samples int) {
	dataSize := uint32(samples * 2)
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16)) // PCM chunk size
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))  // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))  // mono
	_ = binary.Write(buf, binary.LittleEndian, uint32(SampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(SampleRate*2))
	_ = binary.Write(buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, dataSize)
}
