package audio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vocapita/vocapita/pkg/channels"
	"github.com/vocapita/vocapita/pkg/controls"
)

// recorderSendTimeout bounds how long the fan-out blocks delivering a packet
// to the recorder before dropping it. The recorder must see every packet
// under normal load; the meter tolerates drops.
const recorderSendTimeout = time.Second

// Capture ties the capture device, the file recorder, and the level meter
// together for one recording session at a time. The PCM stream is fanned out
// so the recorder and the meter each get their own copy of every packet.
type Capture struct {
	conf  DeviceConfig
	meter *Meter

	dev      Device
	recorder *Recorder
	fanout   *channels.FanOut[[]byte]
	cancel   context.CancelFunc
	recC     chan []byte
	meterC   chan []byte
}

// NewCapture creates an idle capture pipeline.
func NewCapture(conf DeviceConfig) *Capture {
	return &Capture{
		conf:  conf,
		meter: NewMeter(),
	}
}

// Meter returns the level telemetry dial for this pipeline.
func (c *Capture) Meter() *Meter {
	return c.meter
}

// BytesWritten reports how many PCM bytes the active session has captured,
// or zero when idle.
func (c *Capture) BytesWritten() int64 {
	if c.recorder == nil {
		return 0
	}
	return c.recorder.Read()
}

// SizeDial exposes the captured byte count as a capped dial for
// progress-style readouts.
func (c *Capture) SizeDial(maxBytes int64) controls.CappedDial[int64] {
	return sizeDial{capture: c, max: maxBytes}
}

type sizeDial struct {
	capture *Capture
	max     int64
}

func (d sizeDial) Read() int64 { return d.capture.BytesWritten() }

func (d sizeDial) Cap() (int64, int64) { return d.Read(), d.max }

// Start allocates the device and begins recording to outputPath. Only one
// session may be active at a time. On error, everything started so far is
// torn down: the next Start begins from a clean slate.
func (c *Capture) Start(ctx context.Context, outputPath string) error {
	if c.dev != nil {
		return errors.New("capture session already active")
	}

	c.recC = make(chan []byte, 64)
	c.meterC = make(chan []byte, 64)

	c.fanout = channels.NewFanOut[[]byte]()
	c.fanout.SubscribeWithTimeout(c.recC, recorderSendTimeout)
	c.fanout.Subscribe(c.meterC)

	fanCtx, cancel := context.WithCancel(context.Background())
	input, err := c.fanout.Run(fanCtx)
	if err != nil {
		cancel()
		c.fanout = nil
		return fmt.Errorf("failed to start PCM fan-out: %w", err)
	}
	c.cancel = cancel

	// Unwinds a partially started session so that recorder and meter
	// goroutines exit and the PCM temp file is removed.
	abort := func() {
		c.cancel()
		c.fanout.Wait()
		if c.recorder != nil {
			c.recorder.Abort()
		}
		close(c.recC)
		close(c.meterC)
		if c.recorder != nil {
			_ = c.recorder.Wait()
		}
		c.meter.Wait()
		c.recorder = nil
		c.fanout = nil
		c.cancel = nil
	}

	recorder, err := NewRecorder(RecorderConfig{
		SampleRate: c.conf.SampleRate,
		Channels:   c.conf.CaptureChannels,
		MP3Path:    outputPath,
	}, c.recC)
	if err != nil {
		abort()
		return err
	}
	if err := recorder.Start(); err != nil {
		abort()
		return err
	}
	c.recorder = recorder

	c.meter.Run(c.meterC)

	dev := NewDevice(c.conf)
	if err := dev.CaptureInto(ctx, input); err != nil {
		abort()
		return fmt.Errorf("failed to allocate capture device: %w", err)
	}
	if err := dev.Start(ctx); err != nil {
		dev.Dealloc(ctx)
		abort()
		return fmt.Errorf("failed to start capture: %w", err)
	}
	c.dev = dev

	return nil
}

// Stop finishes the active session: stops the device, drains the PCM stream,
// and waits for the MP3 to be written. Returns the recorder's error, if any.
func (c *Capture) Stop(ctx context.Context) error {
	if c.dev == nil {
		return errors.New("no capture session active")
	}

	if err := c.dev.Stop(ctx); err != nil {
		return err
	}
	c.dev.Dealloc(ctx)
	c.dev = nil

	// Close the fan-out input and let buffered packets drain, then release
	// the subscriber channels so recorder and meter can finish.
	c.cancel()
	c.fanout.Wait()
	close(c.recC)
	close(c.meterC)

	err := c.recorder.Wait()
	c.meter.Wait()
	c.recorder = nil
	c.fanout = nil
	c.cancel = nil

	return err
}
