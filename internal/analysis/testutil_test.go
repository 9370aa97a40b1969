package analysis

import (
	"fmt"
	"math"
	"math/rand"
)

// Container layout constants for the test builder. Signals are rendered
// into a single data record spanning the whole duration with a +-100
// physical range over the full 16-bit digital range.
const (
	testPhysMin = -100.0
	testPhysMax = 100.0
	testDigMin  = -32768
	testDigMax  = 32767
)

func putField(buf []byte, off, width int, s string) {
	copy(buf[off:off+width], fmt.Sprintf("%-*s", width, s))
}

// buildContainer renders equal-length signals into valid container bytes.
// All channels share the sample rate; the recording is one data record
// long.
func buildContainer(labels []string, signals [][]float64, sampleRate float64) []byte {
	n := len(labels)
	samples := len(signals[0])
	duration := float64(samples) / sampleRate
	headerBytes := 256 + n*256

	buf := make([]byte, headerBytes+n*samples*2)
	for i := range buf[:headerBytes] {
		buf[i] = ' '
	}

	putField(buf, 0, 8, "0")
	putField(buf, 8, 80, "S001 test subject")
	putField(buf, 88, 80, "analysis fixture")
	putField(buf, 168, 8, "01.01.26")
	putField(buf, 176, 8, "12.00.00")
	putField(buf, 184, 8, fmt.Sprintf("%d", headerBytes))
	putField(buf, 236, 8, "1")
	putField(buf, 244, 8, fmt.Sprintf("%g", duration))
	putField(buf, 252, 4, fmt.Sprintf("%d", n))

	off := 256
	for i := 0; i < n; i++ {
		putField(buf, off+i*16, 16, labels[i])
	}
	off += n * 16
	off += n * 80 // transducer
	for i := 0; i < n; i++ {
		putField(buf, off+i*8, 8, "uV")
	}
	off += n * 8
	for i := 0; i < n; i++ {
		putField(buf, off+i*8, 8, fmt.Sprintf("%g", testPhysMin))
	}
	off += n * 8
	for i := 0; i < n; i++ {
		putField(buf, off+i*8, 8, fmt.Sprintf("%g", testPhysMax))
	}
	off += n * 8
	for i := 0; i < n; i++ {
		putField(buf, off+i*8, 8, fmt.Sprintf("%d", testDigMin))
	}
	off += n * 8
	for i := 0; i < n; i++ {
		putField(buf, off+i*8, 8, fmt.Sprintf("%d", testDigMax))
	}
	off += n * 8
	off += n * 80 // prefiltering
	for i := 0; i < n; i++ {
		putField(buf, off+i*8, 8, fmt.Sprintf("%d", samples))
	}
	off += n * 8
	off += n * 32 // reserved

	scale := float64(testDigMax-testDigMin) / (testPhysMax - testPhysMin)
	pos := headerBytes
	for _, signal := range signals {
		for _, p := range signal {
			d := int16(math.Round((p-testPhysMin)*scale + testDigMin))
			buf[pos] = byte(d)
			buf[pos+1] = byte(d >> 8)
			pos += 2
		}
	}
	return buf
}

// tone synthesizes a sinusoid with additive Gaussian noise.
func tone(freq, amp, sampleRate float64, samples int, noiseSD float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, samples)
	for i := range out {
		t := float64(i) / sampleRate
		out[i] = amp*math.Sin(2*math.Pi*freq*t) + rng.NormFloat64()*noiseSD
	}
	return out
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
