package audio

import (
	"bytes"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestGeneratorsProduceBoundedFiniteSamples(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	all := map[string]func(*rand.Rand) floatBuffer{}
	for k, v := range generators {
		all[k] = v
	}
	for k, v := range tracks {
		all[k] = v
	}

	for name, gen := range all {
		t.Run(name, func(t *testing.T) {
			buf := gen(rng)
			if len(buf) == 0 {
				t.Fatal("empty sound")
			}
			for i, v := range buf {
				if math.IsNaN(v) || math.Abs(v) > 1 {
					t.Fatalf("sample %d = %v out of range", i, v)
				}
			}
		})
	}
}

func TestSamplesStreamEnds(t *testing.T) {
	s := &samples{buf: floatBuffer{0.1, 0.2, 0.3}}
	out := make([][2]float64, 2)

	n, ok := s.Stream(out)
	if n != 2 || !ok || out[1][0] != 0.2 || out[1][1] != 0.2 {
		t.Fatalf("first read n=%d ok=%v out=%v", n, ok, out)
	}
	n, ok = s.Stream(out)
	if n != 1 || !ok {
		t.Fatalf("second read n=%d ok=%v", n, ok)
	}
	if n, ok = s.Stream(out); n != 0 || ok {
		t.Fatalf("drained stream returned n=%d ok=%v", n, ok)
	}
}

func TestMusicLoops(t *testing.T) {
	s := New(log.New(&bytes.Buffer{}), 0)
	s.ready = true

	if err := s.StartMusic(TrackSpaceGame); err != nil {
		t.Fatal(err)
	}
	trackLen := len(s.cache[TrackSpaceGame])

	out := make([][2]float64, 4096)
	total := 0
	for total < trackLen*2 {
		n, ok := s.music.Stream(out)
		if !ok || n == 0 {
			t.Fatalf("loop ended after %d samples, track is %d", total, trackLen)
		}
		total += n
	}

	s.StopMusic()
	if s.music != nil {
		t.Fatal("StopMusic should drop the track")
	}
}

func TestPlayAddsToMixer(t *testing.T) {
	s := New(log.New(&bytes.Buffer{}), 0)

	s.Play(EffectLaser)
	if s.mixer.Len() != 0 {
		t.Fatal("effects before Init must be dropped")
	}

	s.ready = true
	s.Play(EffectLaser)
	s.Play(EffectExplosionSmall)
	if s.mixer.Len() != 2 {
		t.Fatalf("mixer has %d streamers, want 2", s.mixer.Len())
	}
}

func TestUnknownNames(t *testing.T) {
	var logs bytes.Buffer
	s := New(log.New(&logs), 0)
	s.ready = true

	s.Play("nope")
	if s.mixer.Len() != 0 {
		t.Fatal("unknown effect should not play")
	}
	if !strings.Contains(logs.String(), "unknown effect") {
		t.Fatalf("unknown effect not logged: %q", logs.String())
	}
	if err := s.StartMusic("nope"); err == nil {
		t.Fatal("unknown track should fail")
	}
}
