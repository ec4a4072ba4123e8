package services

import (
	"github.com/google/uuid"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
)

// Progress events published on the run's event bus.

type RunStartedEvent struct {
	RunID     uuid.UUID
	SourceDir string
}

type EntityStartedEvent struct {
	RunID  uuid.UUID
	Entity store.Entity
}

type EntityCompletedEvent struct {
	RunID  uuid.UUID
	Report EntityReport
}

type RowFailedEvent struct {
	RunID  uuid.UUID
	Entity store.Entity
	Line   int
	Key    string
	Err    error
}

type RunCompletedEvent struct {
	Report *RunReport
	Err    error
}
