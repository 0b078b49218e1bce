package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mathieu-neron/tubestats/internal/youtube"
)

// HistoryRefreshWorker is a periodic background job that re-analyzes every
// saved channel and rewrites its history entry, so the history list tracks
// current subscriber counts and grades without manual re-saves.
type HistoryRefreshWorker struct {
	svc        *AnalysisService
	interval   time.Duration
	maxResults int
	log        zerolog.Logger
	stopCh     chan struct{}
}

// NewHistoryRefreshWorker creates a worker that ticks every interval.
func NewHistoryRefreshWorker(svc *AnalysisService, interval time.Duration, maxResults int, logger zerolog.Logger) *HistoryRefreshWorker {
	return &HistoryRefreshWorker{
		svc:        svc,
		interval:   interval,
		maxResults: maxResults,
		log:        logger,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the refresh loop. Unlike a startup job it waits one full
// interval before the first tick, since saved entries are fresh at boot.
func (w *HistoryRefreshWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("history-refresh: starting")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Tick(ctx)
		case <-ctx.Done():
			w.log.Info().Msg("history-refresh: stopping (context cancelled)")
			return
		case <-w.stopCh:
			w.log.Info().Msg("history-refresh: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *HistoryRefreshWorker) Stop() {
	close(w.stopCh)
}

// Tick runs one cycle and reports how many entries were refreshed. A quota
// or credential failure ends the cycle early; other per-channel failures are
// logged and skipped.
func (w *HistoryRefreshWorker) Tick(ctx context.Context) (refreshed int) {
	start := time.Now()
	entries := w.svc.History(ctx)

	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		_, err := w.svc.SaveChannel(ctx, e.ChannelID, w.maxResults)
		if err == nil {
			refreshed++
			continue
		}

		w.log.Warn().Err(err).Str("channel_id", e.ChannelID).Msg("history-refresh: channel failed")
		if errors.Is(err, ErrHistoryWrite) {
			break
		}
		if k := youtube.KindOf(err); k == youtube.KindQuota || k == youtube.KindCredential {
			break
		}
	}

	w.log.Info().
		Int("refreshed", refreshed).
		Int("total", len(entries)).
		Dur("elapsed", time.Since(start)).
		Msg("history-refresh: tick complete")
	return refreshed
}
