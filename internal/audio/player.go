// Package audio plays synthesized tones for simulation sound cues.
//
// A Player satisfies sim.AudioNotifier. Cues are queued without blocking and
// rendered on a worker goroutine, so a slow or missing sound device never
// stalls a tick.
package audio

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-invaders/internal/games/invaders/sim"
)

const (
	DefaultSampleRate = beep.SampleRate(44100)
	queueSize         = 32
)

// Options configure a Player.
type Options struct {
	SampleRate beep.SampleRate
	// Volume is linear, 0..1. Zero keeps the default of 0.5.
	Volume float64
	Muted  bool
	Logger *log.Logger
}

// output is where rendered streamers go. The speaker in production.
type output interface {
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Clear()
}

type speakerOutput struct{}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) Lock()                { speaker.Lock() }
func (speakerOutput) Unlock()              { speaker.Unlock() }
func (speakerOutput) Clear()               { speaker.Clear() }

// Player renders sound cues into tones.
type Player struct {
	rate   beep.SampleRate
	volume float64
	log    *log.Logger
	out    output

	cues chan sim.Sound
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once

	// Touched only by the worker goroutine.
	steps int
	hum   *beep.Ctrl

	dropped atomic.Int64
}

// Open initializes the speaker and starts the worker. When the device cannot
// be opened the returned Player is silent and the error says why; callers may
// log it and keep going.
func Open(opts Options) (*Player, error) {
	opts = opts.withDefaults()
	if opts.Muted {
		return Silent(), nil
	}
	if err := speaker.Init(opts.SampleRate, opts.SampleRate.N(time.Second/10)); err != nil {
		opts.Logger.Warn("audio unavailable, continuing without sound", "err", err)
		return Silent(), fmt.Errorf("audio: init speaker: %w", err)
	}
	return start(opts, speakerOutput{}), nil
}

// Silent returns a Player that drops every cue.
func Silent() *Player {
	return &Player{}
}

func (o Options) withDefaults() Options {
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.Volume <= 0 {
		o.Volume = 0.5
	}
	if o.Volume > 1 {
		o.Volume = 1
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

func start(opts Options, out output) *Player {
	p := &Player{
		rate:   opts.SampleRate,
		volume: opts.Volume,
		log:    opts.Logger,
		out:    out,
		cues:   make(chan sim.Sound, queueSize),
		done:   make(chan struct{}),
	}
	p.wg.Add(1)
	go p.loop()
	return p
}

// Enabled reports whether cues reach an output.
func (p *Player) Enabled() bool {
	return p.out != nil
}

// Notify queues a cue. It never blocks; a full queue drops the cue.
func (p *Player) Notify(s sim.Sound) {
	if p.out == nil {
		return
	}
	select {
	case <-p.done:
		return
	default:
	}
	select {
	case p.cues <- s:
	default:
		p.dropped.Add(1)
	}
}

// Dropped returns how many cues were discarded because the queue was full.
func (p *Player) Dropped() int64 {
	return p.dropped.Load()
}

// Close stops the worker and silences the output.
func (p *Player) Close() {
	if p.out == nil {
		return
	}
	p.once.Do(func() {
		close(p.done)
		p.wg.Wait()
		p.out.Clear()
		if n := p.dropped.Load(); n > 0 {
			p.log.Debug("audio cues dropped", "count", n)
		}
	})
}

func (p *Player) loop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case s := <-p.cues:
			p.play(s)
		}
	}
}

func (p *Player) play(s sim.Sound) {
	switch s {
	case sim.SoundFormationStep:
		p.out.Play(newVolume(stepStreamer(p.steps, p.rate), p.volume))
		p.steps++
	case sim.SoundBonusSpawn:
		if p.hum != nil {
			return
		}
		p.hum = &beep.Ctrl{Streamer: newVolume(newHum(p.rate), p.volume*0.6)}
		p.out.Play(p.hum)
	case sim.SoundBonusDespawn:
		if p.hum == nil {
			return
		}
		// A Ctrl without a streamer drains and leaves the mixer.
		p.out.Lock()
		p.hum.Streamer = nil
		p.out.Unlock()
		p.hum = nil
	case sim.SoundVictory:
		st, err := victoryStreamer(p.rate)
		if err != nil {
			p.log.Debug("victory tone", "err", err)
			return
		}
		p.out.Play(newVolume(st, p.volume))
	default:
		tone, ok := ToneFor(s)
		if !ok {
			p.log.Debug("no tone for sound", "sound", s)
			return
		}
		p.out.Play(newVolume(tone.Render(p.rate), p.volume))
	}
}
