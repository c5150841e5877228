package aggregator

import (
	"sync"

	"github.com/sirupsen/logrus"

	"rentsafe/server/internal/bus"
	"rentsafe/server/internal/models"
)

// Store is the slice of the database the aggregator needs: the initial
// parent list and priming snapshots for fresh subscriptions.
type Store interface {
	GetProperties(ownerID, status string) ([]models.Property, error)
	LoadCollectionSnapshot(ownerID, propertyID, collection string) ([]any, error)
}

// View is what a portfolio endpoint reads: the flattened records of one
// collection plus the aggregate loading/error state.
type View struct {
	Records []any
	Loading bool
	Errors  int
}

type subKey struct {
	parentID   string
	collection string
}

type event struct {
	gen     uint64
	key     subKey
	records []any
	prime   bool
	failed  bool
}

// Aggregator watches one owner's portfolio: it subscribes to the owner's
// parent-list topic and, per active property, to each watched child
// collection. Child snapshots land in an accumulator keyed by property;
// reads flatten the accumulator across properties.
//
// All accumulator mutation happens on a single event-loop goroutine.
// Parent-list changes bump a generation counter and tear every
// subscription down before re-opening; events from a stale generation are
// discarded, so a property present across the change cannot double up.
type Aggregator struct {
	ownerID     string
	collections []string
	store       Store
	changeBus   *bus.Bus
	logger      *logrus.Logger

	inbox chan event
	stop  chan struct{}
	wg    sync.WaitGroup

	mu      sync.RWMutex
	gen     uint64
	parents []string
	state   map[string]map[string][]any
	pending map[subKey]struct{}
	errs    int
	subs    []*bus.Subscription
}

// New creates an aggregator for one owner. Call Start before reading.
func New(ownerID string, collections []string, store Store, changeBus *bus.Bus, logger *logrus.Logger) *Aggregator {
	state := make(map[string]map[string][]any, len(collections))
	for _, c := range collections {
		state[c] = make(map[string][]any)
	}
	return &Aggregator{
		ownerID:     ownerID,
		collections: collections,
		store:       store,
		changeBus:   changeBus,
		logger:      logger,
		inbox:       make(chan event, 256),
		stop:        make(chan struct{}),
		state:       state,
		pending:     make(map[subKey]struct{}),
	}
}

// Start subscribes to the owner's parent-list topic, fans out over the
// current active properties and launches the event loop.
func (a *Aggregator) Start() error {
	parentSub, err := a.changeBus.Subscribe(bus.ParentTopic(a.ownerID))
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.subs = append(a.subs, parentSub)
	a.mu.Unlock()
	a.forward(parentSub, 0, subKey{collection: bus.CollectionProperties})

	properties, err := a.store.GetProperties(a.ownerID, "")
	if err != nil {
		// Parent load failure leaves an empty portfolio until the next
		// parent-list snapshot arrives.
		a.logger.WithError(err).WithField("owner", a.ownerID).
			Error("Failed to load initial property list")
		a.mu.Lock()
		a.errs++
		a.mu.Unlock()
		properties = nil
	}

	a.mu.Lock()
	a.setParentsLocked(propertyIDs(properties))
	a.mu.Unlock()

	a.wg.Add(1)
	go a.loop()
	return nil
}

// Stop tears down every subscription and stops the event loop.
func (a *Aggregator) Stop() {
	close(a.stop)

	a.mu.Lock()
	for _, sub := range a.subs {
		sub.Close()
	}
	a.subs = nil
	a.mu.Unlock()

	a.wg.Wait()
}

// View returns the flattened records of one watched collection, in parent
// order, plus the combined loading flag and the error count for the
// current generation.
func (a *Aggregator) View(collection string) View {
	a.mu.RLock()
	defer a.mu.RUnlock()

	slots := a.state[collection]
	var records []any
	for _, parentID := range a.parents {
		records = append(records, slots[parentID]...)
	}
	return View{
		Records: records,
		Loading: len(a.pending) > 0,
		Errors:  a.errs,
	}
}

// Loading reports whether any currently-open subscription has yet to
// deliver its first snapshot.
func (a *Aggregator) Loading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.pending) > 0
}

// Errors returns how many subscriptions failed to prime in the current
// generation. Failed slots read as empty; they are counted here instead
// of being silently dropped.
func (a *Aggregator) Errors() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.errs
}

// Parents returns the property IDs currently fanned out over.
func (a *Aggregator) Parents() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]string, len(a.parents))
	copy(out, a.parents)
	return out
}

func (a *Aggregator) loop() {
	defer a.wg.Done()
	for {
		select {
		case <-a.stop:
			return
		case ev := <-a.inbox:
			// A buffered event can win the select against a closed stop
			// channel; never apply it after shutdown began.
			select {
			case <-a.stop:
				return
			default:
			}
			a.apply(ev)
		}
	}
}

func (a *Aggregator) apply(ev event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if ev.key.collection == bus.CollectionProperties {
		// The parent subscription outlives every generation.
		parents := make([]string, 0, len(ev.records))
		for _, rec := range ev.records {
			if p, ok := rec.(models.Property); ok {
				parents = append(parents, p.ID)
			}
		}
		a.setParentsLocked(parents)
		return
	}

	if ev.gen != a.gen {
		// Stale subscription racing a teardown; discard.
		return
	}

	if ev.prime {
		if _, waiting := a.pending[ev.key]; !waiting {
			// A live snapshot beat the prime read; the prime is older.
			return
		}
	}
	delete(a.pending, ev.key)

	if ev.failed {
		// The slot stays unset and reads as empty. Other parents are
		// untouched.
		a.errs++
		return
	}
	a.state[ev.key.collection][ev.key.parentID] = ev.records
}

// setParentsLocked replaces the fan-out: bump the generation, close every
// child subscription, then open one subscription per parent per watched
// collection. Slots for surviving parents are retained until their fresh
// prime replaces them; slots for removed parents are dropped.
func (a *Aggregator) setParentsLocked(parents []string) {
	if len(a.subs) == 0 {
		// Stop already tore everything down; there is no parent
		// subscription left to fan out under.
		return
	}

	a.gen++
	gen := a.gen

	for _, sub := range a.subs[1:] {
		sub.Close()
	}
	a.subs = a.subs[:1]

	keep := make(map[string]struct{}, len(parents))
	for _, id := range parents {
		keep[id] = struct{}{}
	}
	for _, collection := range a.collections {
		for parentID := range a.state[collection] {
			if _, ok := keep[parentID]; !ok {
				delete(a.state[collection], parentID)
			}
		}
	}

	a.parents = parents
	a.pending = make(map[subKey]struct{}, len(parents)*len(a.collections))
	a.errs = 0

	for _, parentID := range parents {
		for _, collection := range a.collections {
			key := subKey{parentID: parentID, collection: collection}
			a.pending[key] = struct{}{}

			sub, err := a.changeBus.Subscribe(bus.Topic{
				OwnerID:    a.ownerID,
				PropertyID: parentID,
				Collection: collection,
			})
			if err != nil {
				a.logger.WithError(err).WithFields(logrus.Fields{
					"property":   parentID,
					"collection": collection,
				}).Error("Failed to open child subscription")
				delete(a.pending, key)
				a.errs++
				continue
			}
			a.subs = append(a.subs, sub)
			a.forward(sub, gen, key)
			a.prime(gen, key)
		}
	}
}

// forward relays one subscription's snapshots into the event loop, tagged
// with the generation the subscription belongs to.
func (a *Aggregator) forward(sub *bus.Subscription, gen uint64, key subKey) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for snap := range sub.C() {
			select {
			case a.inbox <- event{gen: gen, key: key, records: snap.Records}:
			case <-a.stop:
				return
			}
		}
	}()
}

// prime loads the collection's current contents from the store so a fresh
// subscription does not wait for the next write. A failed prime is logged
// and delivered as an empty, failed snapshot.
func (a *Aggregator) prime(gen uint64, key subKey) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		records, err := a.store.LoadCollectionSnapshot(a.ownerID, key.parentID, key.collection)
		ev := event{gen: gen, key: key, records: records, prime: true}
		if err != nil {
			a.logger.WithError(err).WithFields(logrus.Fields{
				"property":   key.parentID,
				"collection": key.collection,
			}).Error("Child subscription failed to prime")
			ev.records = nil
			ev.failed = true
		}

		select {
		case a.inbox <- ev:
		case <-a.stop:
		}
	}()
}

func propertyIDs(properties []models.Property) []string {
	ids := make([]string, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}
	return ids
}
