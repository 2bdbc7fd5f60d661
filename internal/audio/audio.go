// Package audio plays the game's synthesized sound effects through the
// system speaker.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/starstrike/internal/games/starstrike/core"
)

const sampleRate = beep.SampleRate(44100)

// maxVoices caps simultaneous sounds; extra triggers are dropped.
const maxVoices = 12

// Player is a core.AudioSink backed by a beep mixer.
type Player struct {
	mu      sync.Mutex
	buffers map[core.Sound]*beep.Buffer
	mixer   *beep.Mixer
	lock    func()
	unlock  func()
	release func()
	dropped int
}

// New initializes the speaker and starts the mixer.
func New() (*Player, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("audio: speaker init: %w", err)
	}
	p := newPlayer(speaker.Lock, speaker.Unlock)
	p.release = speaker.Close
	speaker.Play(p.mixer)
	return p, nil
}

// newPlayer renders every voice up front so Play only queues buffers.
func newPlayer(lock, unlock func()) *Player {
	format := beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}
	buffers := make(map[core.Sound]*beep.Buffer, len(voices))
	for s, v := range voices {
		buffers[s] = render(v, format)
	}
	return &Player{
		buffers: buffers,
		mixer:   &beep.Mixer{},
		lock:    lock,
		unlock:  unlock,
	}
}

// Play implements core.AudioSink. It never blocks on playback.
func (p *Player) Play(s core.Sound, balance float64) {
	buf, ok := p.buffers[s]
	if !ok {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.lock()
	defer p.unlock()
	if p.mixer.Len() >= maxVoices {
		p.dropped++
		return
	}
	p.mixer.Add(pan(buf.Streamer(0, buf.Len()), balance))
}

// Dropped returns how many triggers were skipped at the voice cap.
func (p *Player) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Close silences everything still playing and releases the device.
func (p *Player) Close() {
	p.lock()
	p.mixer.Clear()
	p.unlock()
	if p.release != nil {
		p.release()
	}
}

// Open returns a speaker-backed sink, or a silent one when muted or when
// no audio device is available.
func Open(mute bool, logger *log.Logger) (core.AudioSink, func()) {
	if mute {
		return core.NopAudio{}, func() {}
	}
	p, err := New()
	if err != nil {
		logger.Warn("audio disabled", "error", err)
		return core.NopAudio{}, func() {}
	}
	return p, func() {
		if n := p.Dropped(); n > 0 {
			logger.Debug("audio voices dropped", "count", n)
		}
		p.Close()
	}
}
