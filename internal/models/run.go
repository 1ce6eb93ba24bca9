package models

type RunStatus string

const (
	StatusPendingRelease      RunStatus = "pending_release"
	StatusNothingToRelease    RunStatus = "nothing_to_release"
	StatusNoUserFacingChanges RunStatus = "no_user_facing_changes"
	StatusDryRun              RunStatus = "dry_run"
	StatusPROpened            RunStatus = "pr_opened"
	StatusNoMergedPR          RunStatus = "no_merged_pr"
	StatusReleaseCreated      RunStatus = "release_created"
)

// RunResult is the terminal outcome of an orchestrator or finalizer run that did not fail.
type RunResult struct {
	Status    RunStatus
	Version   string
	PRNumber  int
	ClosedPRs []int
	Packages  []PackageRelease
	Updates   []FileUpdate
	// Rendered holds the would-be file contents of a dry run, in update order.
	Rendered []RenderedFile
	// Notes is the changelog text of the release.
	Notes string
	// Since is the sha commits were collected from, empty for full history.
	Since string
}

type RenderedFile struct {
	Path    string
	Content string
	Skipped bool
}

// Halted reports whether the run stopped without acting. Halted runs are not failures.
func (r *RunResult) Halted() bool {
	switch r.Status {
	case StatusPendingRelease, StatusNothingToRelease, StatusNoUserFacingChanges, StatusNoMergedPR:
		return true
	}
	return false
}

type (
	State string

	CheckpointKind string

	// Checkpoint is emitted at every state machine transition.
	Checkpoint struct {
		State  State
		Kind   CheckpointKind
		Fields map[string]interface{}
	}
)

const (
	CheckpointInfo    CheckpointKind = "info"
	CheckpointSuccess CheckpointKind = "success"
	CheckpointWarning CheckpointKind = "warning"
	CheckpointFailure CheckpointKind = "failure"
)

// Release PR state machine.
const (
	StateNoPendingRelease       State = "no_pending_release"
	StatePendingReleaseDetected State = "pending_release_detected"
	StateNothingToRelease       State = "nothing_to_release"
	StateCandidateComputed      State = "candidate_computed"
	StatePackageSkipped         State = "package_skipped"
	StateNoOpChangelogEmpty     State = "noop_changelog_empty"
	StateUpdatesPrepared        State = "updates_prepared"
	StatePROpened               State = "pr_opened"
	StateStaleClosed            State = "stale_closed"
	StateRunFailed              State = "run_failed"
)

// Finalizer state machine.
const (
	StateNoMergedPRFound State = "no_merged_pr_found"
	StateMergedPRFound   State = "merged_pr_found"
	StateNotesExtracted  State = "notes_extracted"
	StateNotesNotFound   State = "notes_not_found"
	StateFinalizeFailed  State = "finalize_failed"
	StateReleaseCreated  State = "release_created"
	StateLabelsRemoved   State = "labels_removed"
)
