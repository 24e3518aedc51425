package runlock_test

import (
	"errors"
	"path/filepath"
	"testing"

	"gallerylinker/internal/runlock"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "run.lock")

	lock := runlock.New(path)
	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestSecondAcquireFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	first := runlock.New(path)
	if err := first.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer first.Release()

	second := runlock.New(path)
	err := second.Acquire()
	if !errors.Is(err, runlock.ErrHeld) {
		t.Fatalf("second Acquire = %v, want ErrHeld", err)
	}
}

func TestReacquireAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	lock := runlock.New(path)
	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	again := runlock.New(path)
	if err := again.Acquire(); err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	again.Release()
}
