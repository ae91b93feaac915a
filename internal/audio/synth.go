package audio

import (
	"math"
	"math/rand/v2"

	"github.com/gopxl/beep"
)

// SampleRate is the rate every sound is synthesized and played at.
const SampleRate = beep.SampleRate(44100)

// Waveform types
const (
	waveSine = iota
	waveSquare
	waveSaw
	waveNoise
)

// floatBuffer is mono float64 samples at unity gain.
type floatBuffer []float64

// oscillator generates raw waveform samples. freqEnd sweeps the frequency
// linearly over the buffer; pass freq again for a steady tone.
func oscillator(waveType int, freq, freqEnd float64, samples int, rng *rand.Rand) floatBuffer {
	buf := make(floatBuffer, samples)
	phase := 0.0
	for i := range buf {
		switch waveType {
		case waveSine:
			buf[i] = math.Sin(2 * math.Pi * phase)
		case waveSquare:
			if phase < 0.5 {
				buf[i] = 1
			} else {
				buf[i] = -1
			}
		case waveSaw:
			buf[i] = 2 * (phase - 0.5)
		case waveNoise:
			buf[i] = rng.Float64()*2 - 1
		}

		f := freq
		if samples > 1 {
			f += (freqEnd - freq) * float64(i) / float64(samples-1)
		}
		phase += f / float64(SampleRate)
		phase -= math.Floor(phase)
	}
	return buf
}

// applyEnvelope applies an attack/release envelope in place.
func applyEnvelope(buf floatBuffer, attackSec, releaseSec float64) {
	total := len(buf)
	attack := durationToSamples(attackSec)
	release := durationToSamples(releaseSec)

	releaseStart := total - release
	if releaseStart < attack {
		releaseStart = attack
	}
	for i := range buf {
		vol := 1.0
		if i < attack && attack > 0 {
			vol = float64(i) / float64(attack)
		} else if i >= releaseStart && release > 0 {
			vol = float64(total-i) / float64(release)
		}
		buf[i] *= vol
	}
}

// applyDecay multiplies buf by exp(-rate*t).
func applyDecay(buf floatBuffer, rate float64) {
	for i := range buf {
		buf[i] *= math.Exp(-rate * float64(i) / float64(SampleRate))
	}
}

// mix adds b scaled into a, extending a if needed.
func mix(a, b floatBuffer, scale float64) floatBuffer {
	if len(b) > len(a) {
		extended := make(floatBuffer, len(b))
		copy(extended, a)
		a = extended
	}
	for i := range b {
		a[i] += b[i] * scale
	}
	return a
}

func gain(buf floatBuffer, g float64) floatBuffer {
	for i := range buf {
		buf[i] *= g
	}
	return buf
}

func durationToSamples(sec float64) int {
	return int(sec * float64(SampleRate))
}

// --- Effects ---

// laser is a fast downward square sweep.
func laser(rng *rand.Rand) floatBuffer {
	buf := oscillator(waveSquare, 1400, 300, durationToSamples(0.12), rng)
	applyEnvelope(buf, 0.002, 0.06)
	return gain(buf, 0.25)
}

// explosionSmall is a short noise burst over a low thump.
func explosionSmall(rng *rand.Rand) floatBuffer {
	n := durationToSamples(0.25)
	noise := oscillator(waveNoise, 0, 0, n, rng)
	applyDecay(noise, 14)
	thump := oscillator(waveSine, 140, 60, n, rng)
	applyDecay(thump, 10)
	return gain(mix(noise, thump, 0.6), 0.4)
}

// explosionLarge is a longer rumble with a saw undertone.
func explosionLarge(rng *rand.Rand) floatBuffer {
	n := durationToSamples(0.7)
	noise := oscillator(waveNoise, 0, 0, n, rng)
	applyDecay(noise, 5)
	rumble := oscillator(waveSaw, 90, 35, n, rng)
	applyDecay(rumble, 4)
	out := mix(noise, rumble, 0.5)
	applyEnvelope(out, 0.005, 0.2)
	return gain(out, 0.45)
}

// --- Music ---

// musicNotes is one bar of the background bass line, in Hz.
var musicNotes = [...]float64{110, 110, 130.81, 110, 146.83, 130.81, 98, 110}

const musicNoteSec = 0.3

// spaceTrack renders one bar of the background loop: a plucked bass line
// with a soft pad underneath.
func spaceTrack(rng *rand.Rand) floatBuffer {
	noteLen := durationToSamples(musicNoteSec)
	out := make(floatBuffer, 0, noteLen*len(musicNotes))
	for _, f := range musicNotes {
		note := oscillator(waveSaw, f, f, noteLen, rng)
		applyDecay(note, 6)
		applyEnvelope(note, 0.005, 0.02)
		out = append(out, note...)
	}
	pad := oscillator(waveSine, 220, 220, len(out), rng)
	applyEnvelope(pad, 0.3, 0.3)
	return gain(mix(out, pad, 0.3), 0.15)
}

// generators maps effect names to their synthesizers.
var generators = map[string]func(*rand.Rand) floatBuffer{
	EffectLaser:          laser,
	EffectExplosionSmall: explosionSmall,
	EffectExplosionLarge: explosionLarge,
}

// tracks maps music names to their synthesizers.
var tracks = map[string]func(*rand.Rand) floatBuffer{
	TrackSpaceGame: spaceTrack,
}

// samples plays a floatBuffer once as a stereo beep.Streamer.
type samples struct {
	buf floatBuffer
	pos int
}

func (s *samples) Stream(out [][2]float64) (n int, ok bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	for n < len(out) && s.pos < len(s.buf) {
		v := s.buf[s.pos]
		out[n][0] = v
		out[n][1] = v
		n++
		s.pos++
	}
	return n, true
}

func (s *samples) Err() error { return nil }

// toBuffer copies buf into a seekable beep.Buffer.
func toBuffer(buf floatBuffer) *beep.Buffer {
	b := beep.NewBuffer(beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2})
	b.Append(&samples{buf: buf})
	return b
}
