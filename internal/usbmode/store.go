package usbmode

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidMode = errors.New("usbmode: invalid mode")
	ErrWriteFailed = errors.New("usbmode: mode write failed")
)

// Store persists the device USB mode as two single-integer files: a
// permanent setting and a temporary override that lasts until the next
// permanent set. The files are the only source of truth; every call
// re-reads them. Concurrent writers are last-writer-wins, there is no
// locking here and the device runtime serializes requests.
type Store struct {
	permPath string
	tmpPath  string
}

// NewStore builds a store over the two well-known setting files.
func NewStore(permPath, tmpPath string) *Store {
	return &Store{permPath: permPath, tmpPath: tmpPath}
}

type readState int

const (
	readAbsent readState = iota
	readGarbled
	readParsed
)

// reading distinguishes a missing file from unparsable content from a
// parsed integer. Parsed values are carried verbatim, membership is not
// checked on the read path.
type reading struct {
	state readState
	mode  Mode
}

func readModeFile(path string) reading {
	data, err := os.ReadFile(path)
	if err != nil {
		return reading{state: readAbsent}
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		log.Debug().Str("path", path).Msg("mode_file_garbled")
		return reading{state: readGarbled}
	}
	return reading{state: readParsed, mode: Mode(v)}
}

// Effective resolves the precedence rule: a strictly positive temporary
// value wins and is returned verbatim even when it is outside the enum;
// otherwise any parsed permanent value is returned verbatim; otherwise
// ModeUnset. A garbled or non-positive temporary file does not suppress
// the permanent setting.
func (s *Store) Effective() Mode {
	if r := readModeFile(s.tmpPath); r.state == readParsed && r.mode > 0 {
		return r.mode
	}
	if r := readModeFile(s.permPath); r.state == readParsed {
		return r.mode
	}
	return ModeUnset
}

// Set validates enum membership and persists the mode. A permanent set
// writes the permanent file and then removes the temporary override;
// the removal is best-effort cleanup and never fails the call. A
// non-permanent set writes only the temporary file.
func (s *Store) Set(mode Mode, permanent bool) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}

	if permanent {
		if err := writeModeFile(s.permPath, mode); err != nil {
			return err
		}
		if err := os.Remove(s.tmpPath); err != nil && !os.IsNotExist(err) {
			log.Warn().Str("path", s.tmpPath).Err(err).Msg("mode_tmp_cleanup_failed")
		}
		log.Info().Str("mode", mode.String()).Int("value", int(mode)).Msg("usb_mode_set_permanent")
		return nil
	}

	if err := writeModeFile(s.tmpPath, mode); err != nil {
		return err
	}
	log.Info().Str("mode", mode.String()).Int("value", int(mode)).Msg("usb_mode_set_temporary")
	return nil
}

// TemporaryActive reports whether a temporary override file exists. This
// is a presence check only; the file may hold a value the precedence
// rule would skip.
func (s *Store) TemporaryActive() bool {
	_, err := os.Stat(s.tmpPath)
	return err == nil
}

// writeModeFile opens the destination before touching anything else, so
// an unopenable path leaves the previous content in place.
func writeModeFile(path string, mode Mode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, err)
	}
	_, werr := f.WriteString(strconv.Itoa(int(mode)))
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, werr)
	}
	if cerr != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, path, cerr)
	}
	return nil
}
