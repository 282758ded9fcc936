package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a single-line progress indicator. After the first second it
// also shows the elapsed time.
type Spinner struct {
	w       io.Writer
	message string
	ctx     context.Context
	done    chan struct{}
	stop    sync.Once
	stopped chan struct{}

	mu      sync.Mutex
	started bool
	width   int // widest line written, for clearing
}

// newSpinnerWithContext creates a spinner on stderr that stops when ctx
// is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		ctx:     ctx,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	start := time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				line := styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]) + " " + StyleDim.Render(s.message)
				if elapsed := time.Since(start); elapsed >= time.Second {
					line += " " + StyleDim.Render(fmt.Sprintf("(%ds)", int(elapsed.Seconds())))
				}
				s.write(line)
			}
		}
	}()
}

func (s *Spinner) write(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(line); n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s", line)
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}

// Stop ends the animation and clears the line. It may be called more
// than once, and before Start.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		close(s.done)
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
		s.clearLine()
	})
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner ended because its parent context
// was cancelled rather than by Stop.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
