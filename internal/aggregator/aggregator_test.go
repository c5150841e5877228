package aggregator

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentsafe/server/internal/bus"
	"rentsafe/server/internal/models"
)

const testOwner = "owner-1"

// fakeStore serves parent lists and snapshots from memory, with
// injectable per-slot failures.
type fakeStore struct {
	mu        sync.Mutex
	parents   []models.Property
	snapshots map[string][]any // "propertyID/collection" → records
	failures  map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		snapshots: make(map[string][]any),
		failures:  make(map[string]bool),
	}
}

func slotKey(propertyID, collection string) string {
	return fmt.Sprintf("%s/%s", propertyID, collection)
}

func (f *fakeStore) setParents(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parents = nil
	for _, id := range ids {
		f.parents = append(f.parents, models.Property{ID: id, OwnerID: testOwner})
	}
}

func (f *fakeStore) setSnapshot(propertyID, collection string, records ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[slotKey(propertyID, collection)] = records
}

func (f *fakeStore) GetProperties(ownerID, status string) ([]models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Property(nil), f.parents...), nil
}

func (f *fakeStore) LoadCollectionSnapshot(ownerID, propertyID, collection string) ([]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures[slotKey(propertyID, collection)] {
		return nil, errors.New("subscription failed")
	}
	return f.snapshots[slotKey(propertyID, collection)], nil
}

func startAggregator(t *testing.T, store *fakeStore, collections ...string) (*Aggregator, *bus.Bus) {
	t.Helper()
	logger := logrus.New()
	changeBus := bus.NewBus(8, logger)
	agg := New(testOwner, collections, store, changeBus, logger)
	require.NoError(t, agg.Start())
	t.Cleanup(func() {
		agg.Stop()
		changeBus.Close()
	})
	return agg, changeBus
}

func waitSettled(t *testing.T, agg *Aggregator) {
	t.Helper()
	require.Eventually(t, func() bool { return !agg.Loading() },
		2*time.Second, 10*time.Millisecond, "aggregator never finished loading")
}

func recordSet(view View) map[any]int {
	set := make(map[any]int)
	for _, r := range view.Records {
		set[r]++
	}
	return set
}

func publishParents(t *testing.T, changeBus *bus.Bus, ids ...string) {
	t.Helper()
	records := make([]any, 0, len(ids))
	for _, id := range ids {
		records = append(records, models.Property{ID: id, OwnerID: testOwner})
	}
	require.NoError(t, changeBus.Publish(bus.Snapshot{
		Topic:   bus.ParentTopic(testOwner),
		Records: records,
	}))
}

func TestAggregator_FlattensAcrossParents(t *testing.T) {
	store := newFakeStore()
	store.setParents("p1", "p2")
	store.setSnapshot("p1", "documents", "a", "b")
	store.setSnapshot("p2", "documents", "c")

	agg, _ := startAggregator(t, store, "documents")
	waitSettled(t, agg)

	view := agg.View("documents")
	// Arrival order across parents is unspecified; the flattened output
	// must be set-equal to the union either way.
	assert.Equal(t, map[any]int{"a": 1, "b": 1, "c": 1}, recordSet(view))
	assert.Equal(t, 0, view.Errors)
}

func TestAggregator_UpdateReplacesOnlyOneSlot(t *testing.T) {
	store := newFakeStore()
	store.setParents("p1", "p2")
	store.setSnapshot("p1", "documents", "a")
	store.setSnapshot("p2", "documents", "b")

	agg, changeBus := startAggregator(t, store, "documents")
	waitSettled(t, agg)

	require.NoError(t, changeBus.Publish(bus.Snapshot{
		Topic:   bus.Topic{OwnerID: testOwner, PropertyID: "p1", Collection: "documents"},
		Records: []any{"a2", "a3"},
	}))

	require.Eventually(t, func() bool {
		return len(agg.View("documents").Records) == 3
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, map[any]int{"a2": 1, "a3": 1, "b": 1}, recordSet(agg.View("documents")))
}

func TestAggregator_IdempotentRedelivery(t *testing.T) {
	store := newFakeStore()
	store.setParents("p1")
	store.setSnapshot("p1", "documents", "a", "b")

	agg, changeBus := startAggregator(t, store, "documents")
	waitSettled(t, agg)

	snap := bus.Snapshot{
		Topic:   bus.Topic{OwnerID: testOwner, PropertyID: "p1", Collection: "documents"},
		Records: []any{"a", "b"},
	}
	require.NoError(t, changeBus.Publish(snap))
	require.NoError(t, changeBus.Publish(snap))

	// Duplicate deliveries must not duplicate records.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, map[any]int{"a": 1, "b": 1}, recordSet(agg.View("documents")))
}

func TestAggregator_ParentChangeDoesNotDuplicateSurvivors(t *testing.T) {
	store := newFakeStore()
	store.setParents("p1", "p2")
	store.setSnapshot("p1", "documents", "a")
	store.setSnapshot("p2", "documents", "b")

	agg, changeBus := startAggregator(t, store, "documents")
	waitSettled(t, agg)

	// p2 leaves, p3 arrives, p1 survives the teardown.
	store.setParents("p1", "p3")
	store.setSnapshot("p3", "documents", "c")
	publishParents(t, changeBus, "p1", "p3")

	require.Eventually(t, func() bool {
		set := recordSet(agg.View("documents"))
		_, hasB := set["b"]
		_, hasC := set["c"]
		return !hasB && hasC && !agg.Loading()
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, map[any]int{"a": 1, "c": 1}, recordSet(agg.View("documents")))
	assert.Equal(t, []string{"p1", "p3"}, agg.Parents())
}

func TestAggregator_ErrorIsolation(t *testing.T) {
	store := newFakeStore()
	store.setParents("p1", "p2")
	store.failures[slotKey("p1", "documents")] = true
	store.setSnapshot("p2", "documents", "b")

	agg, _ := startAggregator(t, store, "documents")
	waitSettled(t, agg)

	view := agg.View("documents")
	// The failed parent reads as empty; the healthy one is untouched.
	assert.Equal(t, map[any]int{"b": 1}, recordSet(view))
	assert.Equal(t, 1, view.Errors)
}

func TestAggregator_WatchesMultipleCollections(t *testing.T) {
	store := newFakeStore()
	store.setParents("p1")
	store.setSnapshot("p1", "documents", "d1")
	store.setSnapshot("p1", "maintenance_logs", "m1", "m2")

	agg, _ := startAggregator(t, store, "documents", "maintenance_logs")
	waitSettled(t, agg)

	assert.Equal(t, map[any]int{"d1": 1}, recordSet(agg.View("documents")))
	assert.Equal(t, map[any]int{"m1": 1, "m2": 1}, recordSet(agg.View("maintenance_logs")))
}

func TestAggregator_StopRacesParentSnapshot(t *testing.T) {
	store := newFakeStore()
	store.setParents("p1")
	store.setSnapshot("p1", "documents", "a")
	logger := logrus.New()

	// A parent-list snapshot buffered at shutdown must be discarded, not
	// applied against torn-down subscriptions.
	for i := 0; i < 500; i++ {
		changeBus := bus.NewBus(8, logger)
		agg := New(testOwner, []string{"documents"}, store, changeBus, logger)
		require.NoError(t, agg.Start())

		publishParents(t, changeBus, "p1", "p2")
		agg.Stop()
		require.NoError(t, changeBus.Close())
	}
}

func TestAggregator_EmptyPortfolio(t *testing.T) {
	store := newFakeStore()

	agg, _ := startAggregator(t, store, "documents")
	waitSettled(t, agg)

	view := agg.View("documents")
	assert.Empty(t, view.Records)
	assert.False(t, view.Loading)
}
