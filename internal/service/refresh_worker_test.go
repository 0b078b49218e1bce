package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mathieu-neron/tubestats/internal/model"
	"github.com/mathieu-neron/tubestats/internal/youtube"
)

func TestHistoryRefreshWorker_TickUpdatesSavedChannels(t *testing.T) {
	src := newFakeSource()
	src.channels["A"] = rawChannel("A", "Alpha", 1000, 1, 1)
	src.channels["B"] = rawChannel("B", "Beta", 2000, 1, 1)
	svc := newTestService(t, src, nil)
	ctx := context.Background()

	_, err := svc.SaveChannel(ctx, "A", 10)
	require.NoError(t, err)
	_, err = svc.SaveChannel(ctx, "B", 10)
	require.NoError(t, err)

	src.channels["A"] = rawChannel("A", "Alpha", 7777, 1, 1)
	w := NewHistoryRefreshWorker(svc, time.Hour, 10, zerolog.Nop())
	require.Equal(t, 2, w.Tick(ctx))

	subs := map[string]int64{}
	for _, e := range svc.History(ctx) {
		subs[e.ChannelID] = e.Subscribers
	}
	require.Equal(t, map[string]int64{"A": 7777, "B": 2000}, subs)
}

func TestHistoryRefreshWorker_StopsOnQuota(t *testing.T) {
	src := newFakeSource()
	src.channels["A"] = rawChannel("A", "Alpha", 1000, 1, 1)
	src.channels["B"] = rawChannel("B", "Beta", 1000, 1, 1)
	svc := newTestService(t, src, nil)
	ctx := context.Background()
	_, _ = svc.SaveChannel(ctx, "A", 10)
	_, _ = svc.SaveChannel(ctx, "B", 10)

	src.err = &youtube.Error{Kind: youtube.KindQuota, Status: 403}
	before := src.Calls("channel")
	w := NewHistoryRefreshWorker(svc, time.Hour, 10, zerolog.Nop())
	require.Zero(t, w.Tick(ctx))
	require.Equal(t, before+1, src.Calls("channel"))
}

func TestHistoryRefreshWorker_EmptyHistory(t *testing.T) {
	svc := newTestService(t, newFakeSource(), nil)
	w := NewHistoryRefreshWorker(svc, time.Hour, 10, zerolog.Nop())
	require.Zero(t, w.Tick(context.Background()))
	require.Equal(t, []model.ChannelHistoryEntry{}, svc.History(context.Background()))
}

func TestHistoryRefreshWorker_StartStops(t *testing.T) {
	svc := newTestService(t, newFakeSource(), nil)
	w := NewHistoryRefreshWorker(svc, time.Hour, 10, zerolog.Nop())
	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()
	w.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
