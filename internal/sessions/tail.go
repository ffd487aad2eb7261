// Package sessions reports on live Claude Code sessions: which session files
// were written recently, and what was appended to one since a previous read.
package sessions

import (
	"os"

	"github.com/pkg/errors"

	"claudelens/internal/archive"
	"claudelens/internal/types"
)

// =============================================================================
// TAIL READER
// =============================================================================

// TailSession returns the qualifying messages found after the first fromLine
// non-blank lines of the file, along with the total number of non-blank
// lines. Passing a previous TotalLines as fromLine resumes where that read
// stopped. Lines that fail to decode still count toward TotalLines.
func TailSession(path string, fromLine int) (types.TailResult, error) {
	result := types.TailResult{Messages: make([]types.TailMessage, 0)}

	if _, err := archive.StatExisting(path); err != nil {
		return result, err
	}

	file, err := os.Open(path)
	if err != nil {
		return result, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	err = archive.ForEachLine(file, func(n int, line string) bool {
		result.TotalLines = n
		if n <= fromLine {
			return true
		}

		rec, err := types.DecodeLine(line)
		if err != nil || !rec.IsMessage() {
			return true
		}
		text := rec.Preview()
		if text == "" {
			return true
		}

		result.Messages = append(result.Messages, types.TailMessage{
			Role:      rec.Role,
			Content:   text,
			Timestamp: rec.Timestamp,
			Model:     rec.Model,
			TokensIn:  rec.Usage.InputTokens,
			TokensOut: rec.Usage.OutputTokens,
		})
		return true
	})
	if err != nil {
		return result, errors.Wrapf(err, "tail %s", path)
	}
	return result, nil
}
