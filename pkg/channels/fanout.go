package channels

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

type subscriber[T any] struct {
	ch   chan<- T
	send func(ch chan<- T, msg T) error
}

// FanOut broadcasts messages from a single input channel to multiple
// subscriber channels. The send strategy is chosen per subscriber: plain
// Subscribe drops messages for slow consumers, SubscribeWithTimeout blocks
// up to a deadline first.
//
// FanOut owns the input channel. On context cancellation the input is closed
// and remaining messages are drained to subscribers before shutdown
// completes. Subscriber channels are never closed by FanOut; their owners
// close them after Wait returns.
type FanOut[T any] struct {
	subscribers []subscriber[T]
	input       chan T
	started     atomic.Bool
	wg          sync.WaitGroup
}

// NewFanOut creates an empty FanOut.
func NewFanOut[T any]() *FanOut[T] {
	return &FanOut[T]{}
}

// Subscribe registers a channel to receive broadcast messages with
// non-blocking sends; when the channel is full the message is dropped. Must
// be called before Run; not safe for concurrent use with Run.
func (f *FanOut[T]) Subscribe(ch chan<- T) {
	f.subscribers = append(f.subscribers, subscriber[T]{ch: ch, send: SendNonBlock[T]})
}

// SubscribeWithTimeout registers a channel whose sends block up to timeout
// before dropping, for consumers that must see every message under normal
// load. Must be called before Run.
func (f *FanOut[T]) SubscribeWithTimeout(ch chan<- T, timeout time.Duration) {
	f.subscribers = append(f.subscribers, subscriber[T]{
		ch: ch,
		send: func(ch chan<- T, msg T) error {
			return SendWithTimeout(ch, msg, timeout)
		},
	})
}

// Run starts the broadcast goroutine and returns the input channel. The
// returned channel is closed on context cancellation; senders should use
// SendNonBlock to tolerate the close.
func (f *FanOut[T]) Run(ctx context.Context) (chan<- T, error) {
	if f.started.Load() {
		return nil, errors.New("fan out already started")
	}

	if len(f.subscribers) == 0 {
		return nil, errors.New("no subscribers registered")
	}

	f.input = make(chan T, len(f.subscribers)*2)
	f.started.Store(true)

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()

		for msg := range f.input {
			for _, sub := range f.subscribers {
				// Failed sends (full, timed out, or closed) drop the message.
				_ = sub.send(sub.ch, msg)
			}
		}
	}()

	go func() {
		<-ctx.Done()
		close(f.input)
	}()

	return f.input, nil
}

// Wait blocks until the input channel is closed and every buffered message
// has been delivered.
func (f *FanOut[T]) Wait() {
	f.wg.Wait()
}
