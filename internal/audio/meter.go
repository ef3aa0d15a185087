package audio

import (
	"encoding/binary"
	"math"
	"sync"
)

// Meter computes the instantaneous amplitude of the capture stream. It is
// read-only telemetry for level displays; it never touches the recording
// path. Implements controls.Dial[float32].
type Meter struct {
	mu    sync.RWMutex
	level float32
	done  chan struct{}
}

// NewMeter creates an idle meter.
func NewMeter() *Meter {
	return &Meter{}
}

// Run consumes S16LE PCM packets until the input channel closes, updating the
// level once per packet. Each call starts a fresh run; Wait tracks only the
// most recent one, so an abandoned earlier run cannot wedge a later session.
func (m *Meter) Run(input <-chan []byte) {
	done := make(chan struct{})
	m.mu.Lock()
	m.done = done
	m.mu.Unlock()

	go func() {
		defer close(done)
		for data := range input {
			m.update(rms(data))
		}
		m.update(0)
	}()
}

// Wait blocks until the current run's input channel has closed and the level
// reset. A no-op when the meter never ran.
func (m *Meter) Wait() {
	m.mu.RLock()
	done := m.done
	m.mu.RUnlock()

	if done != nil {
		<-done
	}
}

// Read returns the current normalized level in [0, 1].
func (m *Meter) Read() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.level
}

func (m *Meter) update(level float32) {
	m.mu.Lock()
	m.level = level
	m.mu.Unlock()
}

// rms computes the root mean square of an S16LE packet, normalized to [0, 1].
func rms(data []byte) float32 {
	numSamples := len(data) / 2
	if numSamples == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < numSamples; i++ {
		sample := int16(binary.LittleEndian.Uint16(data[i*2:]))
		v := float64(sample)
		sum += v * v
	}

	return float32(math.Sqrt(sum/float64(numSamples)) / math.MaxInt16)
}
