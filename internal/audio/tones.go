package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/tui-invaders/internal/games/invaders/sim"
)

// Wave defines oscillator wave shapes.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// Tone describes one synthesized cue.
type Tone struct {
	Freq     float64
	Wave     Wave
	Duration time.Duration
	// Floor is the gain the exponential decay reaches at the end of the tone.
	Floor float64
}

var tones = map[sim.Sound]Tone{
	sim.SoundShoot:     {Freq: 400, Wave: WaveSquare, Duration: 150 * time.Millisecond, Floor: 0.2},
	sim.SoundExplosion: {Freq: 80, Wave: WaveSaw, Duration: 400 * time.Millisecond, Floor: 0.1},
	sim.SoundHit:       {Freq: 100, Wave: WaveSaw, Duration: 300 * time.Millisecond, Floor: 0.2},
}

// stepNotes is the descending four-note march played on formation steps.
var stepNotes = [4]float64{480, 440, 400, 360}

const (
	stepDuration = 100 * time.Millisecond
	humFreq      = 300
	humGate      = 100 * time.Millisecond
)

// victoryNotes is a rising arpeggio (C5 E5 G5 C6).
var victoryNotes = []float64{523.25, 659.25, 783.99, 1046.5}

// ToneFor returns the tone table entry for a one-shot sound.
func ToneFor(s sim.Sound) (Tone, bool) {
	t, ok := tones[s]
	return t, ok
}

// StepNote returns the march frequency for the n-th formation step.
func StepNote(n int) float64 {
	if n < 0 {
		n = -n
	}
	return stepNotes[n%len(stepNotes)]
}

// oscillator generates raw audio waves. A zero duration streams forever.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     Wave
	rate     beep.SampleRate
	noise    uint32
}

// NewOscillator creates a new oscillator for wave generation.
func NewOscillator(freq float64, duration time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		noise:    0x2545f491,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.duration > 0 && o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			o.noise ^= o.noise << 13
			o.noise ^= o.noise >> 17
			o.noise ^= o.noise << 5
			val = float64(o.noise)/math.MaxUint32*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// decay fades a stream exponentially from 1 down to floor over total samples.
type decay struct {
	streamer beep.Streamer
	position int
	total    int
	rate     float64
}

// NewDecay wraps s with an exponential release reaching floor at duration.
func NewDecay(s beep.Streamer, duration time.Duration, floor float64, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	if floor <= 0 || floor >= 1 {
		floor = 0.01
	}
	k := 0.0
	if total > 0 {
		k = math.Log(floor) / float64(total)
	}
	return &decay{streamer: s, total: total, rate: k}
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := math.Exp(d.rate * float64(d.position))
		samples[i][0] *= gain
		samples[i][1] *= gain
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// newVolume applies a linear volume; zero is silent since log2(0) is -Inf.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Render builds a finite streamer for a tone.
func (t Tone) Render(rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(t.Freq, t.Duration, t.Wave, rate)
	return NewDecay(osc, t.Duration, t.Floor, rate)
}

// stepStreamer renders the march note for the n-th step.
func stepStreamer(n int, rate beep.SampleRate) beep.Streamer {
	return Tone{Freq: StepNote(n), Wave: WaveSquare, Duration: stepDuration, Floor: 0.1}.Render(rate)
}

// victoryStreamer plays the arpeggio as a sequence of short sine notes.
func victoryStreamer(rate beep.SampleRate) (beep.Streamer, error) {
	notes := make([]beep.Streamer, 0, len(victoryNotes))
	for _, f := range victoryNotes {
		sine, err := generators.SineTone(rate, f)
		if err != nil {
			return nil, err
		}
		notes = append(notes, NewDecay(beep.Take(rate.N(120*time.Millisecond), sine), 120*time.Millisecond, 0.3, rate))
	}
	return beep.Seq(notes...), nil
}

// hum is the endless gated tone that follows a bonus ship across the screen.
type hum struct {
	osc  beep.Streamer
	gate int
	pos  int
}

func newHum(rate beep.SampleRate) *hum {
	return &hum{
		osc:  NewOscillator(humFreq, 0, WaveSquare, rate),
		gate: rate.N(humGate),
	}
}

func (h *hum) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = h.osc.Stream(samples)
	for i := 0; i < n; i++ {
		if (h.pos/h.gate)%2 == 1 {
			samples[i][0], samples[i][1] = 0, 0
		}
		h.pos++
	}
	return n, ok
}

func (h *hum) Err() error { return nil }
