package sound

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/gopxl/beep"

	"messagebox-test/internal/logger"
	"messagebox-test/internal/messagebox"
)

func drain(t *testing.T, s beep.Streamer) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			if buf[i][0] < -1 || buf[i][0] > 1 {
				t.Fatalf("sample %d out of range: %f", total+i, buf[i][0])
			}
		}
		total += n
		if !ok {
			return total
		}
	}
}

func TestCueLength(t *testing.T) {
	for _, sev := range []messagebox.Severity{
		messagebox.SeverityError,
		messagebox.SeverityWarning,
		messagebox.SeverityInformation,
	} {
		want := 0
		for _, tn := range tonesFor(sev) {
			want += sampleRate.N(tn.duration)
		}
		s, err := cueStreamer(sev)
		if err != nil {
			t.Fatalf("%s: %v", sev, err)
		}
		if got := drain(t, s); got != want {
			t.Errorf("%s cue is %d samples, want %d", sev, got, want)
		}
	}
}

func TestSeveritiesSoundDifferent(t *testing.T) {
	errTones := tonesFor(messagebox.SeverityError)
	warn := tonesFor(messagebox.SeverityWarning)
	info := tonesFor(messagebox.SeverityInformation)
	if len(errTones) < 2 {
		t.Error("error cue should be a two-note drop")
	}
	if warn[0].freq == info[0].freq {
		t.Error("warning and information cues share a pitch")
	}
}

func TestChimeInitFailureIsSilent(t *testing.T) {
	log := logger.Discard()
	var mu sync.Mutex
	var lines []string
	log.SetObserver(func(l string) {
		mu.Lock()
		lines = append(lines, l)
		mu.Unlock()
	})

	c := New(log)
	inits := 0
	c.initAudio = func() error { inits++; return errors.New("no device") }
	c.play = func(...beep.Streamer) { t.Error("played without an audio device") }

	c.Cue(messagebox.SeverityError)
	c.Cue(messagebox.SeverityWarning)
	if inits != 1 {
		t.Errorf("audio initialised %d times, want 1", inits)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(lines) != 1 || !strings.Contains(lines[0], "Audio initialization failed: no device") {
		t.Errorf("log = %q", lines)
	}
}

func TestChimePlaysCue(t *testing.T) {
	c := New(nil)
	c.initAudio = func() error { return nil }
	played := 0
	c.play = func(s ...beep.Streamer) { played += len(s) }
	c.Cue(messagebox.SeverityInformation)
	c.Cue(messagebox.SeverityInformation)
	if played != 2 {
		t.Errorf("played %d cues, want 2", played)
	}
}
