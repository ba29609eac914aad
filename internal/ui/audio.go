package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SoundType represents different sound effects.
type SoundType int

const (
	SoundCapture SoundType = iota
	SoundSelect
	SoundWin
	SoundLose
)

const sampleRate = 44100

// AudioManager plays short synthesized sound effects.
type AudioManager struct {
	context *audio.Context
	sounds  map[SoundType][]byte
	enabled bool
	volume  float64
}

// NewAudioManager creates a new audio manager.
func NewAudioManager(enabled bool) *AudioManager {
	am := &AudioManager{
		context: audio.NewContext(sampleRate),
		sounds:  make(map[SoundType][]byte),
		enabled: enabled,
		volume:  0.5,
	}
	am.sounds[SoundCapture] = synth(0.12, func(t float64) float64 {
		noise := (math.Sin(t*sampleRate*0.3) + math.Sin(t*sampleRate*0.7)) * 0.3
		return (math.Sin(2*math.Pi*330*t) + noise) * math.Exp(-t*30) * 0.5
	})
	am.sounds[SoundSelect] = synth(0.05, func(t float64) float64 {
		return math.Sin(2*math.Pi*660*t) * math.Exp(-t*60) * 0.2
	})
	am.sounds[SoundWin] = chord(0.5, 0.5, 261.63, 329.63, 392.00)
	am.sounds[SoundLose] = chord(0.5, 0.5, 261.63, 311.13, 369.99)
	return am
}

// synth renders fn over duration seconds as 16-bit stereo PCM.
func synth(duration float64, fn func(t float64) float64) []byte {
	samples := int(sampleRate * duration)
	data := make([]byte, samples*4)
	for i := 0; i < samples; i++ {
		v := fn(float64(i) / sampleRate)
		v = math.Max(-1, math.Min(1, v))
		val := int16(v * 32767)
		data[i*4] = byte(val)
		data[i*4+1] = byte(val >> 8)
		data[i*4+2] = byte(val)
		data[i*4+3] = byte(val >> 8)
	}
	return data
}

// chord fades a set of sine waves in and out.
func chord(duration, amplitude float64, freqs ...float64) []byte {
	return synth(duration, func(t float64) float64 {
		progress := t / duration
		envelope := 1.0
		if progress < 0.1 {
			envelope = progress / 0.1
		} else if progress > 0.7 {
			envelope = (1.0 - progress) / 0.3
		}
		sample := 0.0
		for _, f := range freqs {
			sample += math.Sin(2 * math.Pi * f * t)
		}
		return sample / float64(len(freqs)) * envelope * amplitude
	})
}

// Play plays a sound effect.
func (am *AudioManager) Play(sound SoundType) {
	if !am.enabled {
		return
	}
	data, ok := am.sounds[sound]
	if !ok {
		return
	}
	player := am.context.NewPlayerFromBytes(data)
	player.SetVolume(am.volume)
	player.Play()
}

// SetEnabled enables or disables audio.
func (am *AudioManager) SetEnabled(enabled bool) {
	am.enabled = enabled
}

// IsEnabled returns whether audio is enabled.
func (am *AudioManager) IsEnabled() bool {
	return am.enabled
}
