// Package notify is the transient user-facing notification channel the
// stores report through. The view layer decides how a notification is
// rendered; the stores only classify it.
package notify

import (
	"fmt"
	"log/slog"
	"os"
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Log routes notifications to a structured logger. Used as the default sink
// when no interactive surface is attached.
type Log struct {
	Logger *slog.Logger
}

func (n *Log) Success(msg string) { n.logger().Info("notification", "kind", "success", "message", msg) }
func (n *Log) Error(msg string)   { n.logger().Warn("notification", "kind", "error", "message", msg) }

func (n *Log) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

// Console prints notifications for terminal use.
type Console struct{}

func (Console) Success(msg string) { fmt.Println(msg) }
func (Console) Error(msg string)   { fmt.Fprintln(os.Stderr, "error: "+msg) }
