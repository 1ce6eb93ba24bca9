package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const (
	shortSHALen   = 7
	shortRunIDLen = 8
)

// PrettyHandler writes one colored line per record for CLI and CI output. Run attributes
// (run_id, repo) lead the line so interleaved runs can be told apart.
type PrettyHandler struct {
	opts   *slog.HandlerOptions
	w      io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{
		opts: opts,
		w:    w,
		mu:   &sync.Mutex{},
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelWarn
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(h.formatLevel(r.Level))
	buf.WriteString(" ")

	var run, rest []string
	for _, a := range h.attrs {
		if a.Key == "run_id" || a.Key == "repo" {
			run = append(run, h.formatAttr(a))
			continue
		}
		rest = append(rest, h.formatAttr(a))
	}
	if len(run) > 0 {
		buf.WriteString(strings.Join(run, " "))
		buf.WriteString(" ")
	}

	buf.WriteString(r.Message)

	prefix := h.groupPrefix()
	r.Attrs(func(a slog.Attr) bool {
		rest = append(rest, h.flatten(prefix, a)...)
		return true
	})
	if len(rest) > 0 {
		buf.WriteString(" ")
		buf.WriteString(strings.Join(rest, " "))
	}

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			buf.WriteString(" ")
			buf.WriteString(color.HiBlackString("(%s:%d)", filepath.Base(frame.File), frame.Line))
		}
	}

	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

// WithAttrs resolves the current group prefix right away, so attributes added before a
// WithGroup call keep their own keys.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := h.groupPrefix()
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	for _, a := range attrs {
		a.Key = prefix + a.Key
		newAttrs = append(newAttrs, a)
	}

	return &PrettyHandler{
		opts:   h.opts,
		w:      h.w,
		mu:     h.mu,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroups := make([]string, len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups[len(h.groups)] = name

	return &PrettyHandler{
		opts:   h.opts,
		w:      h.w,
		mu:     h.mu,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

func (h *PrettyHandler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

// flatten expands group values into dotted keys.
func (h *PrettyHandler) flatten(prefix string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() != slog.KindGroup {
		a.Key = prefix + a.Key
		return []string{h.formatAttr(a)}
	}
	var out []string
	for _, inner := range a.Value.Group() {
		out = append(out, h.flatten(prefix+a.Key+".", inner)...)
	}
	return out
}

func (h *PrettyHandler) formatLevel(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return color.HiBlackString("[DEBUG]")
	case slog.LevelInfo:
		return color.CyanString("[INFO] ")
	case slog.LevelWarn:
		return color.YellowString("[WARN] ")
	case slog.LevelError:
		return color.RedString("[ERROR]")
	default:
		return fmt.Sprintf("[%s]", level.String())
	}
}

func (h *PrettyHandler) formatAttr(a slog.Attr) string {
	key := a.Key
	val := a.Value.String()

	switch key[strings.LastIndex(key, ".")+1:] {
	case "error", "err":
		return color.RedString("%s=%s", key, val)
	case "sha", "since", "merge_sha":
		return color.HiBlackString("%s=%s", key, shorten(val, shortSHALen))
	case "run_id":
		return color.BlueString("%s=%s", key, shorten(val, shortRunIDLen))
	case "version", "previous_tag", "release_type", "tag":
		return color.MagentaString("%s=%s", key, val)
	case "pr_number", "commits", "packages", "closed":
		return color.GreenString("%s=%s", key, val)
	case "package", "repo":
		return color.CyanString("%s=%s", key, val)
	default:
		return color.HiBlackString("%s=%s", key, val)
	}
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
