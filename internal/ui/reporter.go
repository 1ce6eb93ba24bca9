package ui

import (
	"context"
	"io"
	"reflect"

	"github.com/thomas-vilte/releasemate/internal/i18n"
	"github.com/thomas-vilte/releasemate/internal/models"
)

// ConsoleReporter prints each checkpoint as one translated, colored line.
type ConsoleReporter struct {
	w       io.Writer
	t       *i18n.Translations
	spinner *SmartSpinner
}

type ReporterOption func(*ConsoleReporter)

// WithSpinner routes info checkpoints to the spinner message instead of printing them.
func WithSpinner(s *SmartSpinner) ReporterOption {
	return func(r *ConsoleReporter) {
		r.spinner = s
	}
}

func NewConsoleReporter(w io.Writer, t *i18n.Translations, opts ...ReporterOption) *ConsoleReporter {
	r := &ConsoleReporter{w: w, t: t}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ConsoleReporter) Report(_ context.Context, cp models.Checkpoint) {
	count := countOf(cp.Fields)
	data := make(map[string]interface{}, len(cp.Fields)+1)
	for k, v := range cp.Fields {
		data[k] = v
	}
	data["Count"] = count

	msg := r.t.GetMessage(string(cp.State), count, data)

	if r.spinner == nil {
		r.print(cp.Kind, msg)
		return
	}
	if cp.Kind == models.CheckpointInfo {
		r.spinner.UpdateMessage(msg)
		return
	}
	r.spinner.Pause(func() { r.print(cp.Kind, msg) })
}

func (r *ConsoleReporter) print(kind models.CheckpointKind, msg string) {
	switch kind {
	case models.CheckpointSuccess:
		PrintSuccess(r.w, msg)
	case models.CheckpointWarning:
		PrintWarning(r.w, msg)
	case models.CheckpointFailure:
		PrintError(r.w, msg)
	default:
		PrintInfo(r.w, msg)
	}
}

// countOf picks the length of the first list field, for plural messages.
func countOf(fields map[string]interface{}) int {
	for _, key := range []string{"files", "closed"} {
		v, ok := fields[key]
		if !ok || v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice {
			return rv.Len()
		}
	}
	return 0
}
