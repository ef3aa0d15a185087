package audio

import (
	"errors"

	"github.com/gen2brain/malgo"
)

const (
	// DefaultSampleRate is 16kHz, the native sample rate for Whisper.
	DefaultSampleRate = 16_000
	// DefaultChannels is mono.
	DefaultChannels = 1
)

// DeviceConfig configures the capture device.
type DeviceConfig struct {
	Format          malgo.FormatType
	SampleRate      int
	CaptureChannels int
}

// DefaultDeviceConfig returns the capture configuration used for voice memos:
// 16-bit signed mono PCM at 16kHz.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		Format:          malgo.FormatS16,
		SampleRate:      DefaultSampleRate,
		CaptureChannels: DefaultChannels,
	}
}

// RecorderConfig configures the PCM-to-MP3 file recorder.
type RecorderConfig struct {
	SampleRate int
	Channels   int
	MP3Path    string
}

// Validate returns an error if the recorder config is unusable.
func (c RecorderConfig) Validate() error {
	if c.SampleRate <= 0 {
		return errors.New("sample rate must be positive")
	}

	if c.Channels != 1 {
		return errors.New("only mono capture is supported")
	}

	if c.MP3Path == "" {
		return errors.New("MP3 path cannot be empty")
	}

	return nil
}
