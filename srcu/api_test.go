package srcu_test

import (
	"errors"
	"testing"

	"github.com/kolkov/srcu/srcu"
)

// TestFacade tests delegation through the public API surface.
func TestFacade(t *testing.T) {
	dom, err := srcu.NewWithUnits(2)
	if err != nil {
		t.Fatal(err)
	}
	if got := dom.Units(); got != 2 {
		t.Errorf("Units() = %d, want 2", got)
	}

	idx := dom.Enter()
	if idx != 0 {
		t.Errorf("first Enter() = %d, want 0", idx)
	}
	dom.Exit(idx)

	dom.Wait()
	if got := dom.BatchesCompleted(); got != 1 {
		t.Errorf("BatchesCompleted() = %d after one Wait, want 1", got)
	}

	if err := dom.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := dom.Close(); !errors.Is(err, srcu.ErrClosed) {
		t.Errorf("second Close() error = %v, want ErrClosed", err)
	}
}

// TestNewWithUnitsValidation tests the constructor error path.
func TestNewWithUnitsValidation(t *testing.T) {
	if _, err := srcu.NewWithUnits(0); !errors.Is(err, srcu.ErrNoUnits) {
		t.Errorf("NewWithUnits(0) error = %v, want ErrNoUnits", err)
	}
}

// TestIsRetryable tests the Close error classification helper.
func TestIsRetryable(t *testing.T) {
	if !srcu.IsRetryable(srcu.ErrActiveReaders) {
		t.Error("IsRetryable(ErrActiveReaders) = false, want true")
	}
	if srcu.IsRetryable(srcu.ErrClosed) {
		t.Error("IsRetryable(ErrClosed) = true, want false")
	}
	if srcu.IsRetryable(nil) {
		t.Error("IsRetryable(nil) = true, want false")
	}
}

// TestGetInfo tests the version reporting surface.
func TestGetInfo(t *testing.T) {
	info := srcu.GetInfo()
	if info.Version != srcu.Version {
		t.Errorf("Info.Version = %q, want %q", info.Version, srcu.Version)
	}
	if info.Units <= 0 {
		t.Errorf("Info.Units = %d, want > 0", info.Units)
	}
	if info.Algorithm == "" {
		t.Error("Info.Algorithm is empty")
	}
}

// TestAtLeast tests semantic version comparison.
func TestAtLeast(t *testing.T) {
	tests := []struct {
		name string
		min  string
		want bool
	}{
		{name: "own version", min: srcu.Version, want: true},
		{name: "with v prefix", min: "v" + srcu.Version, want: true},
		{name: "older", min: "0.0.1", want: true},
		{name: "newer", min: "99.0.0", want: false},
		{name: "invalid", min: "not-a-version", want: false},
		{name: "empty", min: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := srcu.AtLeast(tt.min); got != tt.want {
				t.Errorf("AtLeast(%q) = %v, want %v", tt.min, got, tt.want)
			}
		})
	}
}
