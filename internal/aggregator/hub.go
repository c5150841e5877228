package aggregator

import (
	"sync"

	"github.com/sirupsen/logrus"

	"rentsafe/server/internal/bus"
)

// Hub hands out one running Aggregator per owner, created lazily on the
// first portfolio read and kept alive for the life of the process.
type Hub struct {
	collections []string
	store       Store
	changeBus   *bus.Bus
	logger      *logrus.Logger

	mu   sync.Mutex
	aggs map[string]*Aggregator
}

func NewHub(collections []string, store Store, changeBus *bus.Bus, logger *logrus.Logger) *Hub {
	return &Hub{
		collections: collections,
		store:       store,
		changeBus:   changeBus,
		logger:      logger,
		aggs:        make(map[string]*Aggregator),
	}
}

// ForOwner returns the owner's aggregator, starting one if needed.
func (h *Hub) ForOwner(ownerID string) (*Aggregator, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if agg, ok := h.aggs[ownerID]; ok {
		return agg, nil
	}

	agg := New(ownerID, h.collections, h.store, h.changeBus, h.logger)
	if err := agg.Start(); err != nil {
		return nil, err
	}
	h.aggs[ownerID] = agg
	return agg, nil
}

// Stop shuts down every aggregator.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ownerID, agg := range h.aggs {
		agg.Stop()
		delete(h.aggs, ownerID)
	}
}
