package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat prints wall-clock time with hundredths, e.g. "14:32:01.45".
const logTimeFormat = "15:04:05.00"

// newLogger creates the command logger writing to w at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// progress times one backend operation of a command.
type progress struct {
	logger *log.Logger
	start  time.Time
	now    func() time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now(), now: time.Now}
}

// done logs msg at info level with keyvals and the elapsed time, e.g.
// "collection loaded user=2 page=0 items=3 elapsed=41ms".
func (p *progress) done(msg string, keyvals ...any) {
	elapsed := p.now().Sub(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches the command logger to ctx. The root command does this
// before any subcommand runs.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() outside a command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
