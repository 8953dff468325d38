/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package history

import (
	"sync"
)

// Memory is a ring of the last capacity records.
type Memory struct {
	mu      sync.RWMutex
	records []Record
	next    int
	full    bool
}

func NewMemory(capacity int) *Memory {
	return &Memory{records: make([]Record, capacity)}
}

func (m *Memory) Add(r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[m.next] = r
	m.next = (m.next + 1) % len(m.records)
	if m.next == 0 {
		m.full = true
	}
	return nil
}

func (m *Memory) List(limit int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	size := m.next
	if m.full {
		size = len(m.records)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	res := make([]Record, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (m.next - i + len(m.records)) % len(m.records)
		res = append(res, m.records[idx])
	}
	return res, nil
}

func (m *Memory) Close() error {
	return nil
}
