// Package audio captures microphone input and records it to MP3 for the
// transcription pipeline.
package audio

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"

	"github.com/vocapita/vocapita/pkg/channels"
	"github.com/vocapita/vocapita/pkg/collections"
)

// Device abstracts a capture device.
type Device interface {
	// EnumerateDevices lists the available capture devices.
	EnumerateDevices(ctx context.Context) ([]Info, error)

	// CaptureInto allocates the underlying device so that, once Start is
	// called, packets of sampled PCM bytes are written into dataC.
	CaptureInto(ctx context.Context, dataC chan<- []byte) error

	// Start starts capturing.
	Start(ctx context.Context) error
	// Stop stops capturing. A no-op when nothing was allocated.
	Stop(ctx context.Context) error

	// Dealloc frees the underlying device resources.
	Dealloc(ctx context.Context)
}

// Info describes one capture device.
type Info struct {
	Name      string
	IsDefault bool
	Formats   []string
}

type device struct {
	conf DeviceConfig

	mgCtx    *malgo.AllocatedContext
	mgDevice *malgo.Device
}

// NewDevice creates a capture device with the given configuration. The device
// is allocated lazily by CaptureInto.
func NewDevice(conf DeviceConfig) Device {
	return &device{conf: conf}
}

func (d *device) EnumerateDevices(_ context.Context) ([]Info, error) {
	devCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	defer func() {
		_ = devCtx.Uninit()
		devCtx.Free()
	}()

	captureDevices, err := devCtx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate capture devices: %w", err)
	}

	return collections.Apply(captureDevices, deviceInfo), nil
}

func (d *device) CaptureInto(_ context.Context, dataC chan<- []byte) error {
	if dataC == nil {
		return fmt.Errorf("data channel is nil")
	}

	mgCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	devCnf := malgo.DefaultDeviceConfig(malgo.Capture)
	devCnf.Capture.Format = d.conf.Format
	devCnf.Capture.Channels = uint32(d.conf.CaptureChannels)
	devCnf.SampleRate = uint32(d.conf.SampleRate)

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, samples []byte, _ uint32) {
			// The sink may close while the device drains its last buffers;
			// drop packets rather than block or panic.
			buf := make([]byte, len(samples))
			copy(buf, samples)
			_ = channels.SendNonBlock(dataC, buf)
		},
	}

	mgDevice, err := malgo.InitDevice(mgCtx.Context, devCnf, callbacks)
	if err != nil {
		_ = mgCtx.Uninit()
		mgCtx.Free()
		return fmt.Errorf("failed to initialize malgo device: %w", err)
	}

	d.mgCtx = mgCtx
	d.mgDevice = mgDevice

	return nil
}

func (d *device) Start(_ context.Context) error {
	if d.mgDevice == nil {
		return fmt.Errorf("device not allocated; call CaptureInto first")
	}

	if d.mgDevice.IsStarted() {
		return nil
	}

	if err := d.mgDevice.Start(); err != nil {
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	return nil
}

func (d *device) Stop(_ context.Context) error {
	if d.mgDevice == nil {
		return nil
	}

	if err := d.mgDevice.Stop(); err != nil {
		return fmt.Errorf("failed to stop capture device: %w", err)
	}

	return nil
}

func (d *device) Dealloc(_ context.Context) {
	if d.mgDevice == nil {
		return
	}

	d.mgDevice.Uninit()
	_ = d.mgCtx.Uninit()
	d.mgCtx.Free()
	d.mgDevice = nil
	d.mgCtx = nil
}

func deviceInfo(mdi malgo.DeviceInfo) Info {
	formats := make([]string, len(mdi.Formats))
	for i, mf := range mdi.Formats {
		formats[i] = fmt.Sprintf("(sampleSizeBytes: %d, channels: %d, sampleRate: %d)",
			malgo.SampleSizeInBytes(mf.Format), mf.Channels, mf.SampleRate)
	}

	return Info{
		Name:      mdi.Name(),
		IsDefault: mdi.IsDefault != 0,
		Formats:   formats,
	}
}
