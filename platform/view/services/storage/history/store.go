/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package history

import (
	"time"

	"github.com/hyperledger-labs/peerweb/platform/common/services/logging"
	"github.com/pkg/errors"
)

var logger = logging.MustGetLogger("peerweb.history")

type Kind string

const (
	Invoke Kind = "invoke"
	Query  Kind = "query"
)

// Record is the stored outcome of a single peer CLI run.
type Record struct {
	RunID      string    `json:"runId"`
	Kind       Kind      `json:"kind"`
	Args       []string  `json:"args"`
	Status     string    `json:"status"`
	ExitCode   int       `json:"exitCode"`
	Stdout     string    `json:"stdout,omitempty"`
	Stderr     string    `json:"stderr,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMs int64     `json:"durationMs"`
}

// Store keeps the most recent records, up to a fixed capacity.
type Store interface {
	Add(r Record) error
	// List returns up to limit records, newest first. A non-positive limit returns all of them.
	List(limit int) ([]Record, error)
	Close() error
}

type PersistenceType string

const (
	MemoryPersistence PersistenceType = "memory"
	BadgerPersistence PersistenceType = "badger"
)

type Config struct {
	Type     PersistenceType
	Path     string
	Capacity int
}

func New(c Config) (Store, error) {
	if c.Capacity <= 0 {
		return nil, errors.Errorf("history capacity must be positive, got [%d]", c.Capacity)
	}
	switch c.Type {
	case MemoryPersistence, "":
		return NewMemory(c.Capacity), nil
	case BadgerPersistence:
		return OpenBadger(c.Path, c.Capacity)
	default:
		return nil, errors.Errorf("unknown history persistence [%s]", c.Type)
	}
}
