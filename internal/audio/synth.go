package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/vovakirdan/starstrike/internal/games/starstrike/core"
)

// waveform selects the oscillator shape.
type waveform int

const (
	waveSine waveform = iota
	waveSquare
	waveNoise
)

// voice describes one synthesized effect: a pitch sweep from freq to
// endFreq shaped by a linear attack and exponential decay.
type voice struct {
	wave    waveform
	freq    float64
	endFreq float64
	dur     time.Duration
	attack  time.Duration
	volume  float64 // linear gain, 1 is full scale
}

var voices = map[core.Sound]voice{
	core.SoundPlayerShot:  {wave: waveSquare, freq: 1200, endFreq: 600, dur: 80 * time.Millisecond, attack: 2 * time.Millisecond, volume: 0.25},
	core.SoundEnemyShot:   {wave: waveSquare, freq: 400, endFreq: 250, dur: 90 * time.Millisecond, attack: 2 * time.Millisecond, volume: 0.15},
	core.SoundHit:         {wave: waveSine, freq: 900, endFreq: 900, dur: 50 * time.Millisecond, attack: time.Millisecond, volume: 0.3},
	core.SoundExplosion:   {wave: waveNoise, dur: 300 * time.Millisecond, attack: 5 * time.Millisecond, volume: 0.4},
	core.SoundBlock:       {wave: waveSine, freq: 220, endFreq: 180, dur: 60 * time.Millisecond, attack: time.Millisecond, volume: 0.3},
	core.SoundItem:        {wave: waveSine, freq: 660, endFreq: 1320, dur: 200 * time.Millisecond, attack: 10 * time.Millisecond, volume: 0.3},
	core.SoundPlayerDeath: {wave: waveNoise, dur: 700 * time.Millisecond, attack: 5 * time.Millisecond, volume: 0.5},
	core.SoundSpecial:     {wave: waveSquare, freq: 520, endFreq: 780, dur: 250 * time.Millisecond, attack: 10 * time.Millisecond, volume: 0.2},
}

// oscillator streams a voice sample by sample.
type oscillator struct {
	v     voice
	rate  beep.SampleRate
	total int
	pos   int
	phase float64
	rng   *rand.Rand
}

func newOscillator(v voice, rate beep.SampleRate) *oscillator {
	return &oscillator{
		v:     v,
		rate:  rate,
		total: rate.N(v.dur),
		rng:   rand.New(rand.NewSource(int64(v.freq) + int64(v.dur))), //#nosec G404 -- noise, not crypto
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	attack := o.rate.N(o.v.attack)
	for i := range samples {
		if o.pos >= o.total {
			return i, i > 0
		}
		t := float64(o.pos) / float64(o.total)

		var val float64
		switch o.v.wave {
		case waveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case waveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case waveNoise:
			val = o.rng.Float64()*2 - 1
		}

		gain := math.Exp(-4 * t)
		if o.pos < attack {
			gain *= float64(o.pos) / float64(attack)
		}
		val *= gain * o.v.volume

		samples[i][0] = val
		samples[i][1] = val

		freq := o.v.freq + (o.v.endFreq-o.v.freq)*t
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// render synthesizes a voice into a replayable buffer.
func render(v voice, format beep.Format) *beep.Buffer {
	buf := beep.NewBuffer(format)
	buf.Append(newOscillator(v, format.SampleRate))
	return buf
}

// pan places a stream in the stereo field, -1 left to 1 right.
func pan(s beep.Streamer, balance float64) beep.Streamer {
	return &effects.Pan{Streamer: s, Pan: max(-1, min(1, balance))}
}
