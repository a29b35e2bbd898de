// logging.go - leveled Logger interface and its default implementations
//
// Licensed under the GNU General Public License v3.0 or later.

package avs2dec

import (
	"fmt"
	"os"
	"time"
)

// Logger is the leveled logging sink used throughout the control plane.
// It generalizes a plain fmt.Fprintf(os.Stderr, ...) call into an
// interface so the diagnostics control channel and tests can capture
// log output instead of stdio.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// stderrLogger is the default Logger: leveled lines on stderr, with a
// LOG_DEBUG level suppressed unless Verbose is set.
type stderrLogger struct {
	Verbose bool
}

func (l *stderrLogger) log(level, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s avs2dec [%s] %s\n", time.Now().Format("15:04:05.000"), level, fmt.Sprintf(format, args...))
}

func (l *stderrLogger) Debugf(format string, args ...any) {
	if l.Verbose {
		l.log("debug", format, args...)
	}
}
func (l *stderrLogger) Infof(format string, args ...any)  { l.log("info", format, args...) }
func (l *stderrLogger) Warnf(format string, args ...any)  { l.log("warn", format, args...) }
func (l *stderrLogger) Errorf(format string, args ...any) { l.log("error", format, args...) }

// nopLogger discards everything; used by tests that don't care about
// log output and don't want it interleaved with -v test output.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
