// Package sound plays a short tone when a dialog opens, pitched by
// severity. Audio is optional: if the output device cannot be opened the
// failure is logged once and every cue is silent.
package sound

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"messagebox-test/internal/logger"
	"messagebox-test/internal/messagebox"
)

const sampleRate = beep.SampleRate(44100)

type tone struct {
	freq     float64
	duration time.Duration
}

// tonesFor returns the notes played for a severity, in order.
func tonesFor(s messagebox.Severity) []tone {
	switch s {
	case messagebox.SeverityError:
		return []tone{{440, 120 * time.Millisecond}, {220, 200 * time.Millisecond}}
	case messagebox.SeverityWarning:
		return []tone{{660, 150 * time.Millisecond}}
	default:
		return []tone{{880, 80 * time.Millisecond}}
	}
}

// cueStreamer renders the cue for s as a finite stream.
func cueStreamer(s messagebox.Severity) (beep.Streamer, error) {
	var parts []beep.Streamer
	for _, t := range tonesFor(s) {
		sine, err := generators.SineTone(sampleRate, t.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(sampleRate.N(t.duration), sine))
	}
	return beep.Seq(parts...), nil
}

// Chime implements toolkit.Chime on the default audio device.
type Chime struct {
	log *logger.Logger

	initAudio func() error
	play      func(...beep.Streamer)

	once  sync.Once
	ready bool
}

func New(log *logger.Logger) *Chime {
	if log == nil {
		log = logger.Discard()
	}
	return &Chime{log: log, initAudio: initSpeaker, play: playStreamers}
}

// Cue plays the tone for a severity without waiting for it to finish. The
// audio device is opened on the first cue.
func (c *Chime) Cue(s messagebox.Severity) {
	c.once.Do(func() {
		if err := c.initAudio(); err != nil {
			// Non-fatal, dialogs still work without sound
			c.log.Logf("Audio initialization failed: %v", err)
			return
		}
		c.ready = true
	})
	if !c.ready {
		return
	}
	streamer, err := cueStreamer(s)
	if err != nil {
		c.log.Debugf("Building %s cue: %v", s, err)
		return
	}
	c.play(streamer)
}
