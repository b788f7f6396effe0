package usbmode

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/usbctl/internal/testutil/testlog"
)

func newTestStore(t *testing.T) (*Store, string, string) {
	t.Helper()
	testlog.Start(t)
	dir := t.TempDir()
	perm := filepath.Join(dir, "mode.cfg")
	tmp := filepath.Join(dir, "mode_tmp.cfg")
	return NewStore(perm, tmp), perm, tmp
}

func TestEffectiveUnsetWhenNothingPersisted(t *testing.T) {
	s, _, _ := newTestStore(t)
	if got := s.Effective(); got != ModeUnset {
		t.Fatalf("expected ModeUnset, got %d", int(got))
	}
	if s.TemporaryActive() {
		t.Fatalf("expected no temporary override")
	}
}

func TestSetAndEffectiveRoundTrip(t *testing.T) {
	for _, mode := range []Mode{ModeCdcNcm, ModeCdcEcm, ModeRndis} {
		for _, permanent := range []bool{false, true} {
			s, _, _ := newTestStore(t)
			if err := s.Set(mode, permanent); err != nil {
				t.Fatalf("set %v permanent=%v: %v", mode, permanent, err)
			}
			got := s.Effective()
			if got != mode {
				t.Fatalf("effective after set %v permanent=%v: got %v", mode, permanent, got)
			}
			if got.String() != mode.String() {
				t.Fatalf("round trip name mismatch: %q vs %q", got.String(), mode.String())
			}
		}
	}
}

func TestTemporaryWinsOverPermanent(t *testing.T) {
	s, _, _ := newTestStore(t)
	if err := s.Set(ModeCdcNcm, true); err != nil {
		t.Fatalf("permanent set: %v", err)
	}
	if err := s.Set(ModeRndis, false); err != nil {
		t.Fatalf("temporary set: %v", err)
	}
	if got := s.Effective(); got != ModeRndis {
		t.Fatalf("expected temporary rndis to win, got %v", got)
	}
	if !s.TemporaryActive() {
		t.Fatalf("expected temporary override present")
	}
}

func TestPermanentSetClearsTemporary(t *testing.T) {
	s, _, tmp := newTestStore(t)
	if err := s.Set(ModeRndis, false); err != nil {
		t.Fatalf("temporary set: %v", err)
	}
	if err := s.Set(ModeCdcEcm, true); err != nil {
		t.Fatalf("permanent set: %v", err)
	}
	if got := s.Effective(); got != ModeCdcEcm {
		t.Fatalf("expected cdc_ecm after permanent set, got %v", got)
	}
	if s.TemporaryActive() {
		t.Fatalf("expected temporary file removed")
	}
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Fatalf("temporary file still present: %v", err)
	}
}

func TestTemporarySetLeavesPermanentUntouched(t *testing.T) {
	s, perm, _ := newTestStore(t)
	if err := s.Set(ModeCdcNcm, true); err != nil {
		t.Fatalf("permanent set: %v", err)
	}
	if err := s.Set(ModeCdcEcm, false); err != nil {
		t.Fatalf("temporary set: %v", err)
	}
	data, err := os.ReadFile(perm)
	if err != nil {
		t.Fatalf("read permanent file: %v", err)
	}
	if string(data) != "1" {
		t.Fatalf("permanent file changed: %q", string(data))
	}
}

func TestGarbledTemporaryFallsThroughToPermanent(t *testing.T) {
	s, _, tmp := newTestStore(t)
	if err := s.Set(ModeCdcNcm, true); err != nil {
		t.Fatalf("permanent set: %v", err)
	}
	if err := os.WriteFile(tmp, []byte("not-a-number"), 0o644); err != nil {
		t.Fatalf("write garbled tmp: %v", err)
	}
	if got := s.Effective(); got != ModeCdcNcm {
		t.Fatalf("expected fall-through to permanent, got %v", got)
	}
	// Presence flag is independent of whether the value is usable.
	if !s.TemporaryActive() {
		t.Fatalf("expected temporary file presence reported")
	}
}

func TestNonPositiveTemporarySkipped(t *testing.T) {
	for _, raw := range []string{"0", "-2"} {
		s, _, tmp := newTestStore(t)
		if err := s.Set(ModeRndis, true); err != nil {
			t.Fatalf("permanent set: %v", err)
		}
		if err := os.WriteFile(tmp, []byte(raw), 0o644); err != nil {
			t.Fatalf("write tmp: %v", err)
		}
		if got := s.Effective(); got != ModeRndis {
			t.Fatalf("tmp=%q: expected permanent rndis, got %v", raw, got)
		}
	}
}

func TestPositiveOutOfEnumTemporaryReturnedVerbatim(t *testing.T) {
	s, _, tmp := newTestStore(t)
	if err := s.Set(ModeCdcNcm, true); err != nil {
		t.Fatalf("permanent set: %v", err)
	}
	if err := os.WriteFile(tmp, []byte("7"), 0o644); err != nil {
		t.Fatalf("write tmp: %v", err)
	}
	got := s.Effective()
	if got != Mode(7) {
		t.Fatalf("expected stored value 7 verbatim, got %v", int(got))
	}
	if got.String() != "unknown" {
		t.Fatalf("expected unknown name for out-of-enum value, got %q", got.String())
	}
}

func TestSetRejectsInvalidMode(t *testing.T) {
	s, _, _ := newTestStore(t)
	for _, m := range []Mode{0, -1, 4} {
		if err := s.Set(m, false); !errors.Is(err, ErrInvalidMode) {
			t.Fatalf("mode %d: expected ErrInvalidMode, got %v", int(m), err)
		}
	}
	if got := s.Effective(); got != ModeUnset {
		t.Fatalf("rejected set mutated state: %v", got)
	}
}

func TestWriteFailureLeavesPriorStateUnchanged(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	perm := filepath.Join(dir, "mode.cfg")
	tmp := filepath.Join(dir, "missing", "mode_tmp.cfg")
	s := NewStore(perm, tmp)

	if err := writeModeFile(perm, ModeCdcEcm); err != nil {
		t.Fatalf("seed permanent file: %v", err)
	}
	if err := s.Set(ModeRndis, false); !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("expected ErrWriteFailed, got %v", err)
	}
	if got := s.Effective(); got != ModeCdcEcm {
		t.Fatalf("prior state changed after failed write: %v", got)
	}
}

func TestPermanentSetToleratesMissingTemporary(t *testing.T) {
	s, _, _ := newTestStore(t)
	if err := s.Set(ModeRndis, true); err != nil {
		t.Fatalf("permanent set with no tmp file: %v", err)
	}
	if got := s.Effective(); got != ModeRndis {
		t.Fatalf("expected rndis, got %v", got)
	}
}
