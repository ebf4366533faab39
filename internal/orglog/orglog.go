// Package orglog appends finished sessions to an org-mode outline file.
//
// Each save writes one root heading for the main goal followed by one
// sub-heading per closed split, each carrying a LOGBOOK drawer:
//
//	* write report
//	  :LOGBOOK:
//	  CLOCK: [2025-03-14 09:30]--[2025-03-14 10:15] => 00:45:00.000
//	  :END:
//
//	** outline
//	  :LOGBOOK:
//	  CLOCK: [00:00:00.000]--[00:10:30.000] => 00:10:30.000
//	  :END:
//
// The root entry's clock range is stamped with wall-clock times and its
// duration is the wall-clock delta between them, while split entries use
// elapsed offsets off the monotonic timer. Under wall-clock adjustments
// the two can disagree; that mismatch is inherited behaviour and is kept.
package orglog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/orgwatch/orgwatch/internal/session"
	"github.com/orgwatch/orgwatch/internal/timefmt"
)

// ErrExportIO reports that the log file could not be opened or written.
// The session is unaffected; the caller may simply retry a later save.
var ErrExportIO = errors.New("cannot write org log")

const stampLayout = "2006-01-02 15:04"

// Exporter appends session entries to a single org file. The file is
// opened, appended to, and closed within each Export call; no handle is
// held between saves.
type Exporter struct {
	path string
}

// New returns an exporter appending to path.
func New(path string) *Exporter {
	return &Exporter{path: path}
}

// Path returns the log file path.
func (e *Exporter) Path() string { return e.path }

// Export appends the session's root entry and all closed splits to the
// log. Open splits are skipped, never written. A session with no goal
// name (i.e. after reset) is a no-op. Prior file content is never
// touched; exporting twice appends two full copies.
func (e *Exporter) Export(s *session.Session, wallNow time.Time) error {
	if s.Goal() == "" {
		return nil
	}

	f, err := os.OpenFile(e.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportIO, err)
	}
	defer f.Close()

	if _, err := f.WriteString(Render(s, wallNow)); err != nil {
		return fmt.Errorf("%w: %v", ErrExportIO, err)
	}
	return nil
}

// Render produces the text Export appends, without touching the file.
func Render(s *session.Session, wallNow time.Time) string {
	var b strings.Builder

	start := s.WallStart()
	fmt.Fprintf(&b, "* %s\n", s.Goal())
	b.WriteString("  :LOGBOOK:\n")
	fmt.Fprintf(&b, "  CLOCK: [%s]--[%s] => %s\n",
		start.Format(stampLayout),
		wallNow.Format(stampLayout),
		timefmt.Format(wallNow.Sub(start)))
	b.WriteString("  :END:\n\n")

	for _, sp := range s.Splits() {
		if !sp.Closed {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", strings.Repeat("*", sp.Depth+2), sp.Name)
		b.WriteString("  :LOGBOOK:\n")
		fmt.Fprintf(&b, "  CLOCK: [%s]--[%s] => %s\n",
			timefmt.Format(sp.Start),
			timefmt.Format(sp.End),
			timefmt.Format(sp.Duration()))
		b.WriteString("  :END:\n\n")
	}

	return b.String()
}
