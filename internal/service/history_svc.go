package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mathieu-neron/tubestats/internal/metrics"
	"github.com/mathieu-neron/tubestats/internal/model"
	"github.com/mathieu-neron/tubestats/internal/repository"
)

// ErrHistoryWrite wraps any failure to persist the history document. Callers
// surface it as a notice; the analysis that produced the entry still stands.
var ErrHistoryWrite = errors.New("history could not be saved")

// HistoryStore owns the persisted channel history. Every mutation reads the
// current document, applies the change and rewrites it wholesale; mu keeps
// concurrent requests from interleaving those steps.
type HistoryStore struct {
	repo repository.HistoryRepo
	log  zerolog.Logger
	mu   sync.Mutex
}

func NewHistoryStore(repo repository.HistoryRepo, logger zerolog.Logger) *HistoryStore {
	return &HistoryStore{repo: repo, log: logger}
}

// load degrades any read failure to an empty document.
func (s *HistoryStore) load(ctx context.Context) repository.HistoryDocument {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("history: unreadable document, treating as empty")
		return repository.HistoryDocument{}
	}
	if doc == nil {
		return repository.HistoryDocument{}
	}
	return doc
}

// Upsert replaces any existing entry for entry.ChannelID.
func (s *HistoryStore) Upsert(ctx context.Context, entry model.ChannelHistoryEntry) error {
	if entry.ChannelID == "" {
		return fmt.Errorf("%w: empty channel id", ErrHistoryWrite)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load(ctx)
	doc[entry.ChannelID] = entry
	err := s.repo.Save(ctx, doc)
	metrics.HistoryWrite("upsert", err)
	if err != nil {
		s.log.Error().Err(err).Str("channel_id", entry.ChannelID).Msg("history: upsert failed")
		return fmt.Errorf("%w: %v", ErrHistoryWrite, err)
	}
	s.log.Info().Str("channel_id", entry.ChannelID).Str("grade", string(entry.Grade)).Msg("history: entry saved")
	return nil
}

// ListAll returns every stored entry. Order is unspecified.
func (s *HistoryStore) ListAll(ctx context.Context) []model.ChannelHistoryEntry {
	s.mu.Lock()
	doc := s.load(ctx)
	s.mu.Unlock()

	entries := make([]model.ChannelHistoryEntry, 0, len(doc))
	for _, e := range doc {
		entries = append(entries, e)
	}
	return entries
}

// ClearAll empties the store irreversibly.
func (s *HistoryStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.Save(ctx, repository.HistoryDocument{})
	metrics.HistoryWrite("clear", err)
	if err != nil {
		s.log.Error().Err(err).Msg("history: clear failed")
		return fmt.Errorf("%w: %v", ErrHistoryWrite, err)
	}
	s.log.Info().Msg("history: cleared")
	return nil
}

// SortHistoryByAnalyzedAt orders entries newest first, then by channel ID.
func SortHistoryByAnalyzedAt(entries []model.ChannelHistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].AnalyzedAt.Equal(entries[j].AnalyzedAt) {
			return entries[i].AnalyzedAt.After(entries[j].AnalyzedAt)
		}
		return entries[i].ChannelID < entries[j].ChannelID
	})
}
