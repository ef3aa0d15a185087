package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	mp3encoder "github.com/braheezy/shine-mp3/pkg/mp3"
)

// Recorder reads raw S16LE PCM packets from a channel and buffers them to a
// temporary file. When the input channel closes, the buffered PCM is encoded
// to MP3 and the temporary file removed.
type Recorder struct {
	conf    RecorderConfig
	input   <-chan []byte
	pcmPath string

	pcmFile      *os.File
	bytesWritten int64

	mu      sync.RWMutex
	wg      sync.WaitGroup
	errOnce sync.Once
	err     error
	aborted atomic.Bool
}

// NewRecorder creates a file recorder consuming PCM packets from input.
func NewRecorder(conf RecorderConfig, input <-chan []byte) (*Recorder, error) {
	if input == nil {
		return nil, errors.New("input channel cannot be nil")
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recorder config: %w", err)
	}

	return &Recorder{
		conf:    conf,
		input:   input,
		pcmPath: conf.MP3Path + ".tmp.pcm",
	}, nil
}

// Start begins draining the input channel to disk. Must be called before any
// data is sent.
func (r *Recorder) Start() error {
	if r.pcmFile != nil {
		return errors.New("recorder already started")
	}

	pcmFile, err := os.Create(r.pcmPath)
	if err != nil {
		return fmt.Errorf("failed to create PCM file %s: %w", r.pcmPath, err)
	}
	r.pcmFile = pcmFile

	r.wg.Go(func() {
		defer r.finalize()

		for data := range r.input {
			n, err := r.pcmFile.Write(data)
			if err != nil {
				r.setError(fmt.Errorf("failed to write PCM data: %w", err))
				return
			}

			r.mu.Lock()
			r.bytesWritten += int64(n)
			r.mu.Unlock()
		}
	})

	return nil
}

// Abort discards the in-flight recording: once the input channel closes, the
// PCM temp file is removed and no MP3 is written. Must be called before the
// input channel is closed to take effect.
func (r *Recorder) Abort() {
	r.aborted.Store(true)
}

// Wait blocks until recording completes, including MP3 conversion and
// temp-file cleanup, and returns any error from the whole process.
func (r *Recorder) Wait() error {
	r.wg.Wait()
	return r.err
}

// Read returns the number of PCM bytes written so far. Implements
// controls.Dial[int64].
func (r *Recorder) Read() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bytesWritten
}

func (r *Recorder) finalize() {
	if r.aborted.Load() {
		_ = r.pcmFile.Close()
		if err := os.Remove(r.pcmPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove temporary PCM file", "path", r.pcmPath, "error", err)
		}
		return
	}

	if err := r.pcmFile.Close(); err != nil {
		r.setError(fmt.Errorf("failed to close PCM file: %w", err))
		return
	}

	if err := r.convertToMP3(); err != nil {
		r.setError(fmt.Errorf("failed to convert to MP3: %w", err))
		return
	}

	if err := os.Remove(r.pcmPath); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove temporary PCM file", "path", r.pcmPath, "error", err)
	}

	slog.Debug("recording finalized", "output", r.conf.MP3Path)
}

func (r *Recorder) convertToMP3() error {
	pcmData, err := os.ReadFile(r.pcmPath)
	if err != nil {
		return fmt.Errorf("failed to read PCM file: %w", err)
	}

	numSamples := len(pcmData) / 2
	monoSamples := make([]int16, numSamples)
	if err := binary.Read(bytes.NewReader(pcmData), binary.LittleEndian, monoSamples); err != nil {
		return fmt.Errorf("failed to read PCM samples: %w", err)
	}

	// shine-mp3 mishandles mono input, so duplicate each sample into a
	// stereo pair (L=R) and encode as 2 channels.
	stereoSamples := make([]int16, numSamples*2)
	for i, sample := range monoSamples {
		stereoSamples[i*2] = sample
		stereoSamples[i*2+1] = sample
	}

	encoder := mp3encoder.NewEncoder(r.conf.SampleRate, 2)

	mp3File, err := os.Create(r.conf.MP3Path)
	if err != nil {
		return fmt.Errorf("failed to create MP3 file %s: %w", r.conf.MP3Path, err)
	}
	defer mp3File.Close()

	if err := encoder.Write(mp3File, stereoSamples); err != nil {
		return fmt.Errorf("failed to encode MP3: %w", err)
	}

	return nil
}

func (r *Recorder) setError(err error) {
	r.errOnce.Do(func() {
		r.err = err
		slog.Error("audio recorder error", "error", err)
	})
}
