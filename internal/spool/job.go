package spool

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	Queued   Status = "queued"
	Printing Status = "printing"
	Printed  Status = "printed"
	Failed   Status = "failed"
)

// Where a job's document came from
type Source string

const (
	JSONSource   Source = "json"
	ScriptSource Source = "script"
)

// Job is one receipt waiting for, or done with, the printer. Document is the
// receipt as submitted and Program the printer byte stream rendered from it.
type Job struct {
	Id        int64
	Uuid      uuid.UUID
	Status    Status
	Source    Source
	Document  []byte
	Program   []byte
	Error     string
	Attempts  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
