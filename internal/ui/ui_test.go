package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
	"github.com/thomas-vilte/releasemate/internal/i18n"
	"github.com/thomas-vilte/releasemate/internal/models"
)

func newTranslations(t *testing.T) *i18n.Translations {
	t.Helper()
	color.NoColor = true
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return trans
}

func TestConsoleReporter_Report(t *testing.T) {
	tests := []struct {
		name string
		cp   models.Checkpoint
		want string
	}{
		{
			name: "info line",
			cp: models.Checkpoint{State: models.StateNothingToRelease, Kind: models.CheckpointInfo,
				Fields: map[string]interface{}{"since": "abc"}},
			want: "• Nothing to release since commit abc\n",
		},
		{
			name: "success line",
			cp: models.Checkpoint{State: models.StatePROpened, Kind: models.CheckpointSuccess,
				Fields: map[string]interface{}{"pr_number": 7, "version": "1.2.4"}},
			want: "✓ Opened release PR #7 for 1.2.4\n",
		},
		{
			name: "warning line",
			cp: models.Checkpoint{State: models.StatePackageSkipped, Kind: models.CheckpointWarning,
				Fields: map[string]interface{}{"package": "b", "reason": "no_version_record"}},
			want: "! Skipping package b: no_version_record\n",
		},
		{
			name: "failure line renders error",
			cp: models.Checkpoint{State: models.StateRunFailed, Kind: models.CheckpointFailure,
				Fields: map[string]interface{}{"error": errors.New("boom")}},
			want: "✗ Release PR run failed: boom\n",
		},
		{
			name: "plural count from list field",
			cp: models.Checkpoint{State: models.StateStaleClosed, Kind: models.CheckpointInfo,
				Fields: map[string]interface{}{"closed": []int{40, 41}}},
			want: "• Closed 2 stale release PRs\n",
		},
		{
			name: "singular count",
			cp: models.Checkpoint{State: models.StateUpdatesPrepared, Kind: models.CheckpointInfo,
				Fields: map[string]interface{}{"files": []string{"CHANGELOG.md"}, "version": "1.0.0"}},
			want: "• Prepared 1 file update for 1.0.0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewConsoleReporter(&buf, newTranslations(t))

			r.Report(context.Background(), tt.cp)

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestConsoleReporter_SpinnerKeepsInfoOffOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, newTranslations(t), WithSpinner(NewSmartSpinner(os.Stdout, "working")))

	r.Report(context.Background(), models.Checkpoint{State: models.StateNoPendingRelease, Kind: models.CheckpointInfo})
	r.Report(context.Background(), models.Checkpoint{State: models.StateReleaseCreated, Kind: models.CheckpointSuccess,
		Fields: map[string]interface{}{"tag": "v1.0.0", "sha": "abc"}})

	assert.Equal(t, "✓ Created release v1.0.0 at abc\n", buf.String())
}

func TestHandleAppError(t *testing.T) {
	color.NoColor = true

	t.Run("app error with suggestion", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, domainErrors.ErrTokenMissing.WithError(errors.New("empty")))

		out := buf.String()
		assert.Contains(t, out, "CONFIGURATION: Repository host token is missing")
		assert.Contains(t, out, "Details: empty")
		assert.Contains(t, out, "Try: Set token in .releasemate.toml")
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, errors.New("boom"))

		assert.Equal(t, "✗ boom\n", buf.String())
	})

	t.Run("nil error prints nothing", func(t *testing.T) {
		var buf bytes.Buffer
		HandleAppError(&buf, nil)
		assert.Empty(t, buf.String())
	})
}

func TestPrintDryRun(t *testing.T) {
	var buf bytes.Buffer
	result := &models.RunResult{
		Status:  models.StatusDryRun,
		Version: "1.1.0",
		Rendered: []models.RenderedFile{
			{Path: "CHANGELOG.md", Content: "## 1.1.0\n"},
			{Path: "package-lock.json", Skipped: true},
		},
	}

	PrintDryRun(&buf, newTranslations(t), result)

	out := buf.String()
	assert.Contains(t, out, "Dry run: nothing was written")
	assert.Contains(t, out, "version: 1.1.0")
	assert.Contains(t, out, "--- CHANGELOG.md\n## 1.1.0\n")
	assert.Contains(t, out, "--- package-lock.json (absent, skipped)")
}
