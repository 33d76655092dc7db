// Package logs builds the diagnostic logger. Diagnostics never carry command
// output; that goes through the output package.
package logs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// DefaultLevel is used when the configured level is empty or unknown.
const DefaultLevel = slog.LevelWarn

// ParseLevel converts "debug", "info", "warn" or "error" (any case) to a
// slog.Level, falling back to DefaultLevel.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return DefaultLevel
	}
	return l
}

// New returns a logger writing text records at or above level to w. When the
// process runs as a systemd service the records go to the journal instead.
func New(w io.Writer, level string) *slog.Logger {
	return newLogger(w, ParseLevel(level), isSystemdService())
}

func newLogger(w io.Writer, level slog.Level, journal bool) *slog.Logger {
	var handlers []slog.Handler

	var terminal slog.Handler
	if !journal {
		terminal = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
		handlers = append(handlers, terminal)
	}

	if journal {
		h, err := slogjournal.NewHandler(&slogjournal.Options{
			ReplaceGroup: toJournalKey,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			// Fall back to the terminal and say why.
			terminal = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
			handlers = append(handlers, terminal)
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "logs: journal unavailable", 0)
			record.Add("err", err)
			_ = terminal.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, &leveled{Handler: h, min: level})
		}
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// leveled drops records below min before they reach the wrapped handler.
type leveled struct {
	slog.Handler
	min slog.Level
}

func (h *leveled) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.min && h.Handler.Enabled(ctx, l)
}

func (h *leveled) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &leveled{Handler: h.Handler.WithAttrs(attrs), min: h.min}
}

func (h *leveled) WithGroup(name string) slog.Handler {
	return &leveled{Handler: h.Handler.WithGroup(name), min: h.min}
}

func toJournalKey(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(s))
}

func isSystemdService() bool {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) < 3 {
		return false
	}
	return strings.HasSuffix(path.Dir(parts[2]), ".service")
}
