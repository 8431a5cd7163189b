// Copyright 2026 The Delegated MPSI Authors
// SPDX-License-Identifier: MIT

// Package stats collects per-party, per-repetition wall-clock timings
// and writes them out as CSV.
package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Timings accumulates one duration per (repetition, party) pair.
type Timings struct {
	durations map[int]map[int]time.Duration // repetition -> party id -> duration
}

// NewTimings returns an empty Timings collector.
func NewTimings() *Timings {
	return &Timings{durations: make(map[int]map[int]time.Duration)}
}

// Record stores how long party id took during repetition rep.
func (t *Timings) Record(rep, id int, d time.Duration) {
	if t.durations[rep] == nil {
		t.durations[rep] = make(map[int]time.Duration)
	}
	t.durations[rep][id] = d
}

// For returns the recorded duration for (rep, id), or 0 if absent.
func (t *Timings) For(rep, id int) time.Duration {
	return t.durations[rep][id]
}

// WriteCSV writes one row per repetition for the given party id:
// repetition,milliseconds.
func WriteCSV(path string, id int, t *Timings) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("stats: creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"repetition", "milliseconds"}); err != nil {
		return err
	}
	for rep := 0; rep < len(t.durations); rep++ {
		d := t.For(rep, id)
		row := []string{strconv.Itoa(rep), strconv.FormatFloat(float64(d.Microseconds())/1000, 'f', 3, 64)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
