package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/i18n"
	"github.com/thomas-vilte/releasemate/internal/models"
)

var (
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Accent  = color.New(color.FgMagenta, color.Bold)
	Dim     = color.New(color.FgHiBlack)
)

// SmartSpinner shows progress on a terminal. It does nothing when f is not a terminal.
type SmartSpinner struct {
	spinner *spinner.Spinner
}

func NewSmartSpinner(f *os.File, initialMessage string) *SmartSpinner {
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithColor("cyan"),
		spinner.WithSuffix(" "+initialMessage),
		spinner.WithWriterFile(f),
	)
	return &SmartSpinner{spinner: s}
}

func (s *SmartSpinner) Start() {
	s.spinner.Start()
}

func (s *SmartSpinner) Stop() {
	s.spinner.Stop()
}

func (s *SmartSpinner) UpdateMessage(msg string) {
	s.spinner.Lock()
	s.spinner.Suffix = " " + msg
	s.spinner.Unlock()
}

// Pause stops the spinner while fn prints, then starts it again.
func (s *SmartSpinner) Pause(fn func()) {
	active := s.spinner.Active()
	if active {
		s.spinner.Stop()
	}
	fn()
	if active {
		s.spinner.Start()
	}
}

func PrintSuccess(w io.Writer, msg string) {
	_, _ = Success.Fprintf(w, "✓ %s\n", msg)
}

func PrintError(w io.Writer, msg string) {
	_, _ = Error.Fprintf(w, "✗ %s\n", msg)
}

func PrintWarning(w io.Writer, msg string) {
	_, _ = Warning.Fprintf(w, "! %s\n", msg)
}

func PrintInfo(w io.Writer, msg string) {
	_, _ = Info.Fprintf(w, "• %s\n", msg)
}

func PrintSectionBanner(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w)
	_, _ = Accent.Fprintln(w, title)
	_, _ = Dim.Fprintln(w, strings.Repeat("─", len(title)))
}

func PrintKeyValue(w io.Writer, key, value string) {
	keyColored := Dim.Sprint(key + ":")
	valueColored := color.New(color.FgWhite, color.Bold).Sprint(value)
	_, _ = fmt.Fprintf(w, "   %s %s\n", keyColored, valueColored)
}

// HandleAppError prints err with its suggestion, if it is an AppError.
func HandleAppError(w io.Writer, err error) {
	if err == nil {
		return
	}

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		PrintError(w, err.Error())
		return
	}

	_, _ = fmt.Fprintln(w)
	_, _ = Error.Fprintf(w, "✗ %s: %s\n", appErr.Type, appErr.Message)
	if appErr.Err != nil {
		_, _ = Dim.Fprintf(w, "   Details: %v\n", appErr.Err)
	}
	if detail := appErr.Detail(); detail != "" {
		_, _ = Dim.Fprintf(w, "   %s\n", detail)
	}
	if appErr.Suggestion != "" {
		_, _ = Info.Fprint(w, "   Try: ")
		for i, line := range strings.Split(appErr.Suggestion, "\n") {
			if i == 0 {
				_, _ = fmt.Fprintln(w, line)
				continue
			}
			_, _ = fmt.Fprintf(w, "        %s\n", line)
		}
	}
}

// PrintDryRun writes the would-be contents of every file a release PR would change.
func PrintDryRun(w io.Writer, t *i18n.Translations, result *models.RunResult) {
	PrintSectionBanner(w, t.GetMessage("dry_run_header", 0, nil))
	PrintKeyValue(w, "version", result.Version)
	for _, p := range result.Packages {
		PrintKeyValue(w, p.Key, p.Candidate.Version)
	}
	for _, f := range result.Rendered {
		data := map[string]interface{}{"path": f.Path}
		if f.Skipped {
			_, _ = Dim.Fprintln(w, t.GetMessage("dry_run_file_skipped", 0, data))
			continue
		}
		_, _ = Accent.Fprintln(w, t.GetMessage("dry_run_file", 0, data))
		_, _ = fmt.Fprintln(w, strings.TrimRight(f.Content, "\n"))
	}
}
