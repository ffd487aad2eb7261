package archive

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"claudelens/internal/types"
)

// maxLineSize bounds a single JSONL line. Lines carrying base64 images can be
// several MB.
const maxLineSize = 64 * 1024 * 1024

// ScanStats counts what happened to the lines of one file during a scan.
type ScanStats struct {
	Lines   int // non-blank lines seen
	Decoded int // lines that decoded into a record
	Skipped int // lines that failed to decode
}

// ScanObserver receives the statistics of each scanned file.
type ScanObserver func(path string, stats ScanStats)

// LogSkipped is the default observer: it reports files with unparseable lines
// at debug level.
func LogSkipped(path string, stats ScanStats) {
	if stats.Skipped == 0 {
		return
	}
	log.Debug().
		Str("path", path).
		Int("lines", stats.Lines).
		Int("skipped", stats.Skipped).
		Msg("skipped unparseable lines")
}

// ForEachLine calls fn for every non-blank line of r with its 1-based index
// among non-blank lines. Iteration stops early when fn returns false.
func ForEachLine(r io.Reader, fn func(n int, line string) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		n++
		if !fn(n, line) {
			return nil
		}
	}
	return scanner.Err()
}

// ForEachRecord decodes every non-blank line of the file at path and calls fn
// with each record. Unparseable lines are skipped and counted. Iteration
// stops early when fn returns false.
func ForEachRecord(path string, fn func(rec *types.LogRecord) bool) (ScanStats, error) {
	var stats ScanStats

	file, err := os.Open(path)
	if err != nil {
		return stats, err
	}
	defer file.Close()

	err = ForEachLine(file, func(_ int, line string) bool {
		stats.Lines++
		rec, err := types.DecodeLine(line)
		if err != nil {
			stats.Skipped++
			return true
		}
		stats.Decoded++
		return fn(rec)
	})
	if err != nil {
		return stats, errors.Wrapf(err, "scan %s", path)
	}
	return stats, nil
}

// StatExisting returns the file info for path, mapping absence to ErrNotFound.
func StatExisting(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "file not found: %s", path)
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	return info, nil
}
