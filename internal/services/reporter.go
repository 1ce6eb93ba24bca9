package services

import (
	"context"

	"github.com/thomas-vilte/releasemate/internal/models"
)

// Reporter observes state machine transitions. Implementations must not fail the run.
type Reporter interface {
	Report(ctx context.Context, cp models.Checkpoint)
}

type NopReporter struct{}

func (NopReporter) Report(context.Context, models.Checkpoint) {}

func checkpoint(state models.State, kind models.CheckpointKind, kv ...interface{}) models.Checkpoint {
	fields := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields[key] = kv[i+1]
	}
	return models.Checkpoint{State: state, Kind: kind, Fields: fields}
}
