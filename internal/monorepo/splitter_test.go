package monorepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/releasemate/internal/models"
)

func TestSplitter_Split(t *testing.T) {
	t.Run("shared commit lands in every touched bucket once", func(t *testing.T) {
		shared := &models.Commit{SHA: "c1", Message: "fix: shared", Files: []string{"packages/a/x.js", "packages/b/y.js", "packages/a/z.js"}}
		onlyA := &models.Commit{SHA: "c2", Message: "feat: a only", Files: []string{"packages/a/index.js"}}
		s := Splitter{Convention: ConventionFirstSegment, Root: "packages"}

		result := s.Split([]*models.Commit{shared, onlyA})

		assert.Equal(t, []string{"packages/a", "packages/b"}, result.Buckets.Keys)
		require.Len(t, result.Buckets.For("packages/a"), 2)
		assert.Same(t, shared, result.Buckets.For("packages/a")[0])
		assert.Same(t, onlyA, result.Buckets.For("packages/a")[1])
		require.Len(t, result.Buckets.For("packages/b"), 1)
		assert.Same(t, shared, result.Buckets.For("packages/b")[0])
		assert.Empty(t, result.Unassigned)
	})

	t.Run("commit without package path is unassigned", func(t *testing.T) {
		root := &models.Commit{SHA: "c1", Files: []string{"README.md"}}
		outside := &models.Commit{SHA: "c2", Files: []string{"docs/guide.md"}}
		none := &models.Commit{SHA: "c3"}
		s := Splitter{Convention: ConventionFirstSegment, Root: "packages"}

		result := s.Split([]*models.Commit{root, outside, none})

		assert.Empty(t, result.Buckets.Keys)
		assert.Equal(t, []*models.Commit{root, outside, none}, result.Unassigned)
	})

	t.Run("keys are sorted regardless of input order", func(t *testing.T) {
		commits := []*models.Commit{
			{SHA: "1", Files: []string{"zeta/main.go"}},
			{SHA: "2", Files: []string{"alpha/main.go"}},
			{SHA: "3", Files: []string{"mid/main.go"}},
		}

		result := Splitter{}.Split(commits)

		assert.Equal(t, []string{"alpha", "mid", "zeta"}, result.Buckets.Keys)
	})
}

func TestSplitter_KeyFor(t *testing.T) {
	tests := []struct {
		name     string
		splitter Splitter
		file     string
		want     string
		ok       bool
	}{
		{"first segment without root", Splitter{}, "api/handler.go", "api", true},
		{"top level file is not a package", Splitter{}, "go.mod", "", false},
		{"root prefix", Splitter{Root: "packages"}, "packages/foo/lib/x.js", "packages/foo", true},
		{"root with trailing slash", Splitter{Root: "packages/"}, "packages/foo/x.js", "packages/foo", true},
		{"file directly in root", Splitter{Root: "packages"}, "packages/README.md", "", false},
		{"outside root", Splitter{Root: "packages"}, "tools/x.js", "", false},
		{"nested root", Splitter{Root: "js/packages"}, "js/packages/ui/src/a.ts", "js/packages/ui", true},
		{"marker", Splitter{Convention: ConventionMarker, Marker: "src"}, "libs/a/src/x.go", "libs/a", true},
		{"marker first occurrence", Splitter{Convention: ConventionMarker, Marker: "src"}, "a/src/b/src/x.go", "a", true},
		{"marker missing", Splitter{Convention: ConventionMarker, Marker: "src"}, "libs/a/x.go", "", false},
		{"marker at top level", Splitter{Convention: ConventionMarker, Marker: "src"}, "src/x.go", "", false},
		{"marker unset", Splitter{Convention: ConventionMarker}, "libs/a/src/x.go", "", false},
		{"windows separators", Splitter{Root: "packages"}, "packages\\foo\\x.js", "packages/foo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.splitter.KeyFor(tt.file)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
