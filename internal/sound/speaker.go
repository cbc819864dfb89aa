//go:build cgo || !linux

package sound

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

func initSpeaker() error {
	return speaker.Init(sampleRate, sampleRate.N(time.Second/10))
}

func playStreamers(s ...beep.Streamer) {
	speaker.Play(s...)
}
