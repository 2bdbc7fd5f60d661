package audio

import (
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/vovakirdan/starstrike/internal/games/starstrike/core"
)

func nopLock() {}

func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestEverySoundHasAVoice(t *testing.T) {
	for s := core.SoundPlayerShot; s <= core.SoundSpecial; s++ {
		if _, ok := voices[s]; !ok {
			t.Errorf("no voice for %s", s)
		}
	}
}

func TestOscillatorLengthAndLevel(t *testing.T) {
	for s, v := range voices {
		t.Run(s.String(), func(t *testing.T) {
			samples := drain(newOscillator(v, sampleRate))
			if want := sampleRate.N(v.dur); len(samples) != want {
				t.Errorf("got %d samples, expected %d", len(samples), want)
			}
			peak := 0.0
			for _, smp := range samples {
				peak = math.Max(peak, math.Abs(smp[0]))
				if smp[0] != smp[1] {
					t.Fatal("oscillator output should be mono")
				}
			}
			if peak == 0 || peak > v.volume+1e-9 {
				t.Errorf("peak %f outside (0, %f]", peak, v.volume)
			}
		})
	}
}

func TestOscillatorStartsSilent(t *testing.T) {
	v := voice{wave: waveSquare, freq: 440, endFreq: 440, dur: 50 * time.Millisecond, attack: 10 * time.Millisecond, volume: 1}
	samples := drain(newOscillator(v, sampleRate))
	if samples[0][0] != 0 {
		t.Errorf("first sample = %f, attack should start from silence", samples[0][0])
	}
}

func TestPanBalance(t *testing.T) {
	v := voice{wave: waveSquare, freq: 440, endFreq: 440, dur: 20 * time.Millisecond, volume: 1}

	tests := []struct {
		name    string
		balance float64
		left    bool
		right   bool
	}{
		{"hard left", -1, true, false},
		{"clamped left", -5, true, false},
		{"hard right", 1, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var l, r float64
			for _, smp := range drain(pan(newOscillator(v, sampleRate), tc.balance)) {
				l += math.Abs(smp[0])
				r += math.Abs(smp[1])
			}
			if (l > 0) != tc.left || (r > 0) != tc.right {
				t.Errorf("left energy %f, right energy %f", l, r)
			}
		})
	}
}

func TestPlayerQueuesAndCapsVoices(t *testing.T) {
	p := newPlayer(nopLock, nopLock)

	p.Play(core.SoundHit, 0)
	if p.mixer.Len() != 1 {
		t.Fatalf("mixer has %d streams, expected 1", p.mixer.Len())
	}
	p.Play(core.Sound(200), 0)
	if p.mixer.Len() != 1 {
		t.Error("unknown sounds should be ignored")
	}

	for range maxVoices + 3 {
		p.Play(core.SoundExplosion, 0.5)
	}
	if p.mixer.Len() != maxVoices {
		t.Errorf("mixer has %d streams, expected the cap of %d", p.mixer.Len(), maxVoices)
	}
	if p.Dropped() != 4 {
		t.Errorf("Dropped() = %d, expected 4", p.Dropped())
	}

	p.Close()
	if p.mixer.Len() != 0 {
		t.Error("Close should clear the mixer")
	}
}

func TestOpenMuted(t *testing.T) {
	sink, closeFn := Open(true, log.Default())
	if _, ok := sink.(core.NopAudio); !ok {
		t.Errorf("muted sink = %T, expected NopAudio", sink)
	}
	closeFn()
}
