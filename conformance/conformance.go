// Package conformance loads concrete path-resolution scenarios from an
// embedded CSV fixture table, the way this codebase's lineage loads
// tabular domain data (disk geometries) from CSV rather than Go literals.
package conformance

import (
	"fmt"
	"io"
	"strings"
	"syscall"

	_ "embed"

	"github.com/gocarina/gocsv"
)

// Scenario is one row of the conformance fixture table: a path, an open
// mode, and the expected outcome of resolving it against a fresh volume.
type Scenario struct {
	Name        string `csv:"name"`
	Path        string `csv:"path"`
	Mode        string `csv:"mode"`
	ExpectErrno string `csv:"expect_errno"`
	ExpectInum  int    `csv:"expect_inum"`
}

//go:embed scenarios.csv
var scenariosRawCSV string

// Errno returns the expected syscall.Errno for the scenario, or zero if the
// scenario expects success.
func (s Scenario) Errno() (syscall.Errno, bool) {
	switch s.ExpectErrno {
	case "":
		return 0, false
	case "ENOENT":
		return syscall.ENOENT, true
	case "EINVAL":
		return syscall.EINVAL, true
	case "EIO":
		return syscall.EIO, true
	case "ENOSPC":
		return syscall.ENOSPC, true
	case "ENOSYS":
		return syscall.ENOSYS, true
	default:
		return 0, true
	}
}

// Scenarios parses and returns every row of the embedded fixture table.
func Scenarios() ([]Scenario, error) {
	var scenarios []Scenario
	reader := strings.NewReader(scenariosRawCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row Scenario) error {
		scenarios = append(scenarios, row)
		return nil
	})
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing conformance scenarios: %w", err)
	}
	return scenarios, nil
}
