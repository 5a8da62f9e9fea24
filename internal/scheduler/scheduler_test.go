// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
)

// testLogger creates a test logger that discards output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestAddAndList(t *testing.T) {
	s := New(testLogger())
	defer s.Stop()

	for _, name := range []string{"refresh-catalog", "sweep-editors"} {
		err := s.Add(Job{Name: name, Description: name + " job", Schedule: "@every 5m", Run: func(context.Context) error { return nil }})
		if err != nil {
			t.Fatalf("Add(%s) error = %v", name, err)
		}
	}

	jobs := s.Registry().List()
	if len(jobs) != 2 {
		t.Fatalf("List() returned %d jobs, want 2", len(jobs))
	}
	if jobs[0].Name != "refresh-catalog" || jobs[1].Name != "sweep-editors" {
		t.Errorf("List() not sorted by name: %v, %v", jobs[0].Name, jobs[1].Name)
	}
	if jobs[0].IsOverridden {
		t.Error("fresh job should not be overridden")
	}
}

func TestAddRejectsInvalidAndDuplicate(t *testing.T) {
	s := New(testLogger())
	defer s.Stop()

	noop := func(context.Context) error { return nil }
	if err := s.Add(Job{Name: "bad", Schedule: "every now and then", Run: noop}); err == nil {
		t.Error("Add() with an invalid schedule should fail")
	}
	if err := s.Add(Job{Name: "dup", Schedule: "*/5 * * * *", Run: noop}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add(Job{Name: "dup", Schedule: "*/5 * * * *", Run: noop}); err == nil {
		t.Error("Add() with a duplicate name should fail")
	}
}

func TestTriggerNow(t *testing.T) {
	s := New(testLogger())
	defer s.Stop()

	var runs atomic.Int32
	boom := errors.New("backend down")
	fail := false
	err := s.Add(Job{Name: "refresh", Schedule: "@hourly", Run: func(ctx context.Context) error {
		runs.Add(1)
		if _, ok := ctx.Deadline(); !ok {
			t.Error("job context has no deadline")
		}
		if fail {
			return boom
		}
		return nil
	}})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := s.Registry().TriggerNow("refresh"); err != nil {
		t.Fatalf("TriggerNow() error = %v", err)
	}
	if runs.Load() != 1 {
		t.Errorf("runs = %d, want 1", runs.Load())
	}

	fail = true
	if err := s.Registry().TriggerNow("refresh"); !errors.Is(err, ErrTriggerLimit) {
		t.Errorf("second TriggerNow() error = %v, want ErrTriggerLimit", err)
	}
	if err := s.Registry().TriggerNow("missing"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("TriggerNow(missing) error = %v, want ErrJobNotFound", err)
	}
}

func TestTriggerNowRecordsFailure(t *testing.T) {
	s := New(testLogger())
	defer s.Stop()

	boom := errors.New("backend down")
	if err := s.Add(Job{Name: "refresh", Schedule: "@hourly", Run: func(context.Context) error { return boom }}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Registry().TriggerNow("refresh"); !errors.Is(err, boom) {
		t.Errorf("TriggerNow() error = %v, want %v", err, boom)
	}
	if got := s.Registry().List()[0].LastError; got != "backend down" {
		t.Errorf("LastError = %q, want %q", got, "backend down")
	}
}

func TestUpdateAndResetSchedule(t *testing.T) {
	s := New(testLogger())
	defer s.Stop()

	if err := s.Add(Job{Name: "sweep", Schedule: "@every 10m", Run: func(context.Context) error { return nil }}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	r := s.Registry()

	if err := r.UpdateSchedule("sweep", "not a spec"); err == nil {
		t.Error("UpdateSchedule() with an invalid spec should fail")
	}
	if err := r.UpdateSchedule("sweep", "@every 1m"); err != nil {
		t.Fatalf("UpdateSchedule() error = %v", err)
	}
	info := r.List()[0]
	if info.Schedule != "@every 1m" || !info.IsOverridden {
		t.Errorf("after update: %+v", info)
	}

	if err := r.ResetSchedule("sweep"); err != nil {
		t.Fatalf("ResetSchedule() error = %v", err)
	}
	info = r.List()[0]
	if info.Schedule != "@every 10m" || info.IsOverridden {
		t.Errorf("after reset: %+v", info)
	}
	if len(s.cron.Entries()) != 1 {
		t.Errorf("cron has %d entries, want 1", len(s.cron.Entries()))
	}
}
