package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	mu    sync.Mutex
	calls []Task
	fail  map[string]bool
}

func (r *fakeResolver) Resolve(ctx context.Context, lat, lng float64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Task{Latitude: lat, Longitude: lng})
	key := fmt.Sprintf("%.0f", lat)
	if r.fail[key] {
		return "", errors.New("provider down")
	}
	return fmt.Sprintf("addr(%.0f,%.0f)", lat, lng), nil
}

type fakeStore struct {
	mu     sync.Mutex
	writes map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{writes: make(map[string]string)}
}

func (s *fakeStore) SetPunchLocation(ctx context.Context, attendanceID string, punchOut bool, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	field := "in"
	if punchOut {
		field = "out"
	}
	s.writes[attendanceID+"/"+field] = address
	return nil
}

func (s *fakeStore) get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[key]
}

func TestQueueDrainsInOrder(t *testing.T) {
	resolver := &fakeResolver{}
	store := newFakeStore()
	q := NewQueue(resolver, store, slog.New(slog.DiscardHandler), 0)

	q.Start()
	q.Enqueue(Task{AttendanceID: "a1", Latitude: 1, Longitude: 10})
	q.Enqueue(Task{AttendanceID: "a2", Latitude: 2, Longitude: 20, PunchOut: true})
	q.Enqueue(Task{AttendanceID: "a3", Latitude: 3, Longitude: 30})
	q.Stop()

	require.Equal(t, "addr(1,10)", store.get("a1/in"))
	require.Equal(t, "addr(2,20)", store.get("a2/out"))
	require.Equal(t, "addr(3,30)", store.get("a3/in"))

	resolver.mu.Lock()
	defer resolver.mu.Unlock()
	require.Len(t, resolver.calls, 3)
	require.Equal(t, 1.0, resolver.calls[0].Latitude)
	require.Equal(t, 2.0, resolver.calls[1].Latitude)
	require.Equal(t, 3.0, resolver.calls[2].Latitude)
}

func TestQueueFailureIsolation(t *testing.T) {
	resolver := &fakeResolver{fail: map[string]bool{"2": true}}
	store := newFakeStore()
	q := NewQueue(resolver, store, slog.New(slog.DiscardHandler), 0)

	q.Start()
	q.Enqueue(Task{AttendanceID: "a1", Latitude: 1})
	q.Enqueue(Task{AttendanceID: "a2", Latitude: 2})
	q.Enqueue(Task{AttendanceID: "a3", Latitude: 3})
	q.Stop()

	// The failed lookup writes the error sentinel and the rest still run.
	require.Equal(t, AddressUnresolved, store.get("a2/in"))
	require.Equal(t, "addr(1,0)", store.get("a1/in"))
	require.Equal(t, "addr(3,0)", store.get("a3/in"))
}

func TestQueueDropsAfterStop(t *testing.T) {
	resolver := &fakeResolver{}
	store := newFakeStore()
	q := NewQueue(resolver, store, slog.New(slog.DiscardHandler), 0)

	q.Start()
	q.Enqueue(Task{AttendanceID: "a1", Latitude: 1})
	q.Stop()
	q.Enqueue(Task{AttendanceID: "late", Latitude: 9})

	require.Equal(t, "addr(1,0)", store.get("a1/in"))
	require.Empty(t, store.get("late/in"))
}
