// Package history provides read access to archived Claude Code conversations:
// per-file summaries, full transcripts, substring search, and deletion.
// Every call re-reads the archive from disk; the store holds no state.
package history

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"claudelens/internal/archive"
	"claudelens/internal/types"
)

// DefaultSearchMaxResults caps search results when the caller passes 0.
const DefaultSearchMaxResults = 50

// Store answers transcript queries against an archive layout.
type Store struct {
	layout   archive.Layout
	observer archive.ScanObserver
}

// Option configures a Store.
type Option func(*Store)

// WithScanObserver replaces the default per-file scan observer.
func WithScanObserver(observer archive.ScanObserver) Option {
	return func(s *Store) {
		s.observer = observer
	}
}

// NewStore creates a store over the given layout.
func NewStore(layout archive.Layout, opts ...Option) *Store {
	s := &Store{
		layout:   layout,
		observer: archive.LogSkipped,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Layout returns the archive layout the store reads.
func (s *Store) Layout() archive.Layout {
	return s.layout
}

func (s *Store) observe(path string, stats archive.ScanStats) {
	if s.observer != nil {
		s.observer(path, stats)
	}
}

// =============================================================================
// LIST
// =============================================================================

// ListConversations returns one summary per session file that has at least
// one qualifying message, most recent first. projectFilter restricts the
// listing to one encoded project directory name; "" lists all projects.
func (s *Store) ListConversations(projectFilter string) ([]types.ConversationSummary, error) {
	projects, err := s.layout.ListProjectDirs()
	if err != nil {
		return nil, err
	}

	conversations := make([]types.ConversationSummary, 0)
	for _, project := range projects {
		if projectFilter != "" && project.Name != projectFilter {
			continue
		}

		files, err := archive.ListLogFiles(project.Path)
		if err != nil {
			log.Debug().Err(err).Str("project", project.Name).Msg("skipping unreadable project")
			continue
		}

		for _, path := range files {
			summary, err := s.summarize(path, project.Name)
			if err != nil {
				log.Debug().Err(err).Str("path", path).Msg("skipping unreadable session")
				continue
			}
			if summary.FirstMessagePreview == "" {
				continue
			}
			conversations = append(conversations, summary)
		}
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].Timestamp > conversations[j].Timestamp
	})
	return conversations, nil
}

// summarize builds the summary of one file. The preview and timestamp come
// from the first user record with text; every qualifying record is counted.
func (s *Store) summarize(path, project string) (types.ConversationSummary, error) {
	summary := types.ConversationSummary{
		SessionID: archive.SessionIDFromPath(path),
		Project:   project,
		FilePath:  path,
	}

	stats, err := archive.ForEachRecord(path, func(rec *types.LogRecord) bool {
		if !rec.IsMessage() {
			return true
		}
		text := rec.Preview()
		if text == "" {
			return true
		}
		summary.MessageCount++
		if summary.FirstMessagePreview == "" && rec.Kind == types.RecordKindUser {
			summary.FirstMessagePreview = text
			summary.Timestamp = rec.Timestamp
		}
		return true
	})
	s.observe(path, stats)
	return summary, err
}

// =============================================================================
// READ
// =============================================================================

// ReadConversation returns every qualifying message of a session file in
// file order. A missing file yields an error wrapping archive.ErrNotFound.
func (s *Store) ReadConversation(path string) ([]types.ConversationMessage, error) {
	if _, err := archive.StatExisting(path); err != nil {
		return nil, err
	}

	messages := make([]types.ConversationMessage, 0)
	stats, err := archive.ForEachRecord(path, func(rec *types.LogRecord) bool {
		if !rec.IsMessage() {
			return true
		}
		text := rec.Preview()
		if text == "" {
			return true
		}
		messages = append(messages, types.ConversationMessage{
			Role:        rec.Role,
			Content:     text,
			Timestamp:   rec.Timestamp,
			MessageType: rec.Type,
		})
		return true
	})
	s.observe(path, stats)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchConversations finds user/assistant lines whose raw text contains
// query, ignoring case. The raw line is matched before decoding. Collection
// stops across all projects as soon as maxResults hits are found; hits are
// returned in discovery order. maxResults <= 0 means DefaultSearchMaxResults.
func (s *Store) SearchConversations(query string, maxResults int) ([]types.SearchHit, error) {
	if maxResults <= 0 {
		maxResults = DefaultSearchMaxResults
	}

	projects, err := s.layout.ListProjectDirs()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	hits := make([]types.SearchHit, 0)

	for _, project := range projects {
		files, err := archive.ListLogFiles(project.Path)
		if err != nil {
			log.Debug().Err(err).Str("project", project.Name).Msg("skipping unreadable project")
			continue
		}

		for _, path := range files {
			s.searchFile(path, project.Name, needle, maxResults, &hits)
			if len(hits) >= maxResults {
				return hits, nil
			}
		}
	}
	return hits, nil
}

// searchFile appends the hits of one file until hits reaches limit.
func (s *Store) searchFile(path, project, needle string, limit int, hits *[]types.SearchHit) {
	file, err := os.Open(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("skipping unreadable session")
		return
	}
	defer file.Close()

	err = archive.ForEachLine(file, func(_ int, line string) bool {
		if !strings.Contains(strings.ToLower(line), needle) {
			return true
		}
		rec, err := types.DecodeLine(line)
		if err != nil || !rec.IsMessage() {
			return true
		}
		*hits = append(*hits, types.SearchHit{
			SessionPath: path,
			Project:     project,
			MatchedLine: rec.Preview(),
			Timestamp:   rec.Timestamp,
		})
		return len(*hits) < limit
	})
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("search stopped early")
	}
}

// =============================================================================
// DELETE
// =============================================================================

// DeleteConversation removes a session file and its side-car directory, if
// any. A missing file is not an error.
func (s *Store) DeleteConversation(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", path)
	}

	sidecar := archive.SidecarDir(path)
	if info, err := os.Stat(sidecar); err == nil && info.IsDir() {
		if err := os.RemoveAll(sidecar); err != nil {
			return errors.Wrapf(err, "remove side-car dir %s", sidecar)
		}
	}
	return nil
}

// ClearAllConversations deletes every session file of the matched projects
// and returns how many were deleted. The first failure aborts the sweep.
func (s *Store) ClearAllConversations(projectFilter string) (int, error) {
	projects, err := s.layout.ListProjectDirs()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, project := range projects {
		if projectFilter != "" && project.Name != projectFilter {
			continue
		}
		files, err := archive.ListLogFiles(project.Path)
		if err != nil {
			return count, err
		}
		for _, path := range files {
			if err := s.DeleteConversation(path); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
