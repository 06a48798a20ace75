package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/setlist/pkg/catalog"
	serrors "github.com/matzehuels/setlist/pkg/errors"
	"github.com/matzehuels/setlist/pkg/i18n"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a one-line status on a terminal while a backend call
// runs. It stops on Stop or when its context ends.
type Spinner struct {
	message string
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}

	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
}

// newSpinnerWithContext creates a spinner on stderr bound to ctx.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, out io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		out:     out,
		ctx:     sctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Message returns the status line the spinner shows.
func (s *Spinner) Message() string { return s.message }

// Start begins the animation. It has no effect when already started or
// stopped.
func (s *Spinner) Start() {
	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		return
	default:
	}
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			s.frame(i)
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
			}
		}
	}()
}

func (s *Spinner) frame(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := spinnerFrames[i%len(spinnerFrames)]
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(f), StyleDim.Render(s.message))
}

// Stop ends the animation and clears the line. It is safe to call more
// than once and before Start.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
		s.cancel()
		s.clearLine()
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// StopWithSuccess stops the spinner and prints message as a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints message as an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context ended before Stop.
func (s *Spinner) Cancelled() bool {
	select {
	case <-s.done:
		return false
	default:
		return s.ctx.Err() != nil
	}
}

// spinnerNotifier reports edit workflow steps: a spinner while a step
// runs, then a success or failure line in the configured locale.
type spinnerNotifier struct {
	ctx     context.Context
	out     io.Writer
	labels  *i18n.Labels
	spinner *Spinner
}

func newSpinnerNotifier(ctx context.Context, l *i18n.Labels) *spinnerNotifier {
	return &spinnerNotifier{ctx: ctx, out: os.Stderr, labels: l}
}

func (n *spinnerNotifier) label(s catalog.Step, phase string) string {
	return n.labels.T(i18n.EditKey(s.String(), phase))
}

// failure is the line printed when step s fails with err.
func (n *spinnerNotifier) failure(s catalog.Step, err error) string {
	return n.label(s, i18n.PhaseFailure) + " " + StyleDim.Render(serrors.UserMessage(err))
}

func (n *spinnerNotifier) Loading(s catalog.Step) {
	n.stop()
	n.spinner = newSpinnerTo(n.ctx, n.out, n.label(s, i18n.PhaseLoading))
	n.spinner.Start()
}

func (n *spinnerNotifier) Success(s catalog.Step) {
	sp := n.take()
	sp.StopWithSuccess(n.label(s, i18n.PhaseSuccess))
}

func (n *spinnerNotifier) Failure(s catalog.Step, err error) {
	sp := n.take()
	sp.StopWithError(n.failure(s, err))
}

// take detaches the running spinner, or returns a stopped one when none
// runs.
func (n *spinnerNotifier) take() *Spinner {
	sp := n.spinner
	n.spinner = nil
	if sp == nil {
		sp = newSpinnerTo(n.ctx, n.out, "")
	}
	return sp
}

func (n *spinnerNotifier) stop() {
	if n.spinner != nil {
		n.spinner.Stop()
		n.spinner = nil
	}
}

var _ catalog.Notifier = (*spinnerNotifier)(nil)
