package engine

import (
	"context"
	"sync"

	"github.com/piwi3910/BoardCut/internal/model"
)

// Kind tags a Message.
type Kind int

const (
	KindProgress    Kind = iota // Fraction of materials finished
	KindSubProgress             // Fraction of units placed within the current material
	KindResults                 // Final solution or error, always last
)

func (k Kind) String() string {
	switch k {
	case KindProgress:
		return "progress"
	case KindSubProgress:
		return "sub_progress"
	case KindResults:
		return "result"
	default:
		return "unknown"
	}
}

// Message is one item of the progress/result protocol. Fraction is set for
// the progress kinds; Solution and Err are set for KindResults.
type Message struct {
	Kind     Kind
	Fraction float64
	Solution model.Solution
	Err      error
}

func Progress(fraction float64) Message {
	return Message{Kind: KindProgress, Fraction: fraction}
}

func SubProgress(fraction float64) Message {
	return Message{Kind: KindSubProgress, Fraction: fraction}
}

func Results(solution model.Solution, err error) Message {
	return Message{Kind: KindResults, Solution: solution, Err: err}
}

// Sink receives messages from a running solve. A Send error aborts the
// solve.
type Sink interface {
	Send(ctx context.Context, msg Message) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, msg Message) error

func (f SinkFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Channel is a buffered Sink read through Messages.
//
// Send blocks while the buffer is full. After Close every Send returns
// ErrChannelClosed; messages are never dropped silently.
type Channel struct {
	ch     chan Message
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

func NewChannel(buffer int) *Channel {
	if buffer < 0 {
		buffer = 0
	}
	return &Channel{
		ch:   make(chan Message, buffer),
		done: make(chan struct{}),
	}
}

// Messages returns the receive side. It is closed by Close.
func (c *Channel) Messages() <-chan Message {
	return c.ch
}

func (c *Channel) Send(ctx context.Context, msg Message) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrChannelClosed
	}
	select {
	case c.ch <- msg:
		return nil
	case <-c.done:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops further sends and closes the receive side. Blocked senders
// are released with ErrChannelClosed. Close is safe to call more than once.
func (c *Channel) Close() {
	c.once.Do(func() {
		close(c.done)
		c.mu.Lock()
		c.closed = true
		close(c.ch)
		c.mu.Unlock()
	})
}

// Run solves problem on a new goroutine and returns the channel carrying
// its messages. The channel is closed after the Results message.
func Run(ctx context.Context, solver *Solver, problem model.Problem, buffer int) *Channel {
	out := NewChannel(buffer)
	go func() {
		defer out.Close()
		_, _ = solver.Solve(ctx, problem, out)
	}()
	return out
}
