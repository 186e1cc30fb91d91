// Package notify delivers user-facing toasts.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mentorhub/internal/client"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier shows short messages to the user.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// LogNotifier writes toasts to a zerolog logger and, when set, a plain
// writer such as the terminal.
type LogNotifier struct {
	logger zerolog.Logger
	out    io.Writer
}

// NewLogNotifier creates a notifier. out may be nil.
func NewLogNotifier(logger zerolog.Logger, out io.Writer) *LogNotifier {
	return &LogNotifier{logger: logger, out: out}
}

func (n *LogNotifier) Success(msg string) { n.emit(LevelSuccess, msg) }
func (n *LogNotifier) Info(msg string)    { n.emit(LevelInfo, msg) }
func (n *LogNotifier) Warning(msg string) { n.emit(LevelWarning, msg) }
func (n *LogNotifier) Error(msg string)   { n.emit(LevelError, msg) }

func (n *LogNotifier) emit(level Level, msg string) {
	var ev *zerolog.Event
	switch level {
	case LevelWarning:
		ev = n.logger.Warn()
	case LevelError:
		ev = n.logger.Error()
	default:
		ev = n.logger.Info()
	}
	ev.Str("toast", string(level)).Msg(msg)

	if n.out != nil {
		fmt.Fprintf(n.out, "%s %s\n", symbol(level), msg)
	}
}

func symbol(level Level) string {
	switch level {
	case LevelSuccess:
		return "✓"
	case LevelWarning:
		return "!"
	case LevelError:
		return "✗"
	default:
		return "i"
	}
}

// Toast is one recorded notification.
type Toast struct {
	Level   Level
	Message string
}

// Recorder keeps every toast in memory.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Info(msg string)    { r.add(LevelInfo, msg) }
func (r *Recorder) Warning(msg string) { r.add(LevelWarning, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, Toast{Level: level, Message: msg})
}

// Toasts returns a copy of the recorded toasts.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Last returns the most recent toast.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

// MutationResult reports the outcome of a mutation: a success toast, or the
// server's message (fallback when it has none) as an error toast. The error
// is logged and consumed; it reports whether the mutation succeeded.
func MutationResult(n Notifier, err error, success, fallback string) bool {
	if err == nil {
		n.Success(success)
		return true
	}

	log.Error().Err(err).Msg(fallback)
	n.Error(client.MessageOf(err, fallback))
	return false
}
