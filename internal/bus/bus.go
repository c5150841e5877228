package bus

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var ErrBusClosed = errors.New("bus is closed")

// CollectionProperties is the pseudo-collection carrying an owner's active
// property list. Snapshots on this topic drive aggregator fan-out.
const CollectionProperties = "properties"

// ParentTopic is the topic for an owner's active property list.
func ParentTopic(ownerID string) Topic {
	return Topic{OwnerID: ownerID, Collection: CollectionProperties}
}

// Topic identifies one child collection of one property, mirroring the
// store path owners/{owner}/properties/{property}/{collection}.
type Topic struct {
	OwnerID    string
	PropertyID string
	Collection string
}

// Snapshot is a full-state delivery for one topic: the complete current
// contents of that child collection. Deliveries are not diffs, so the
// newest snapshot always supersedes anything still buffered.
type Snapshot struct {
	Topic   Topic
	Records []any
}

// Bus is an in-process change bus. Writers publish a fresh snapshot of a
// collection after every mutation; subscribers receive snapshots on a
// buffered channel. A slow subscriber loses older snapshots, never newer
// ones.
type Bus struct {
	mu      sync.RWMutex
	subs    map[Topic]map[*Subscription]struct{}
	closed  bool
	bufSize int
	logger  *logrus.Logger
}

// Subscription is one subscriber's feed for a single topic.
type Subscription struct {
	topic Topic
	ch    chan Snapshot
	bus   *Bus
	once  sync.Once
}

// NewBus creates a bus whose subscriptions buffer up to bufSize snapshots.
func NewBus(bufSize int, logger *logrus.Logger) *Bus {
	if bufSize <= 0 {
		bufSize = 1
	}
	return &Bus{
		subs:    make(map[Topic]map[*Subscription]struct{}),
		bufSize: bufSize,
		logger:  logger,
	}
}

// Subscribe opens a feed for the given topic.
func (b *Bus) Subscribe(topic Topic) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}

	sub := &Subscription{
		topic: topic,
		ch:    make(chan Snapshot, b.bufSize),
		bus:   b,
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*Subscription]struct{})
	}
	b.subs[topic][sub] = struct{}{}
	return sub, nil
}

// Publish delivers a snapshot to every subscriber of its topic without
// blocking. When a subscriber's buffer is full the oldest pending snapshot
// is dropped in favour of the new one.
func (b *Bus) Publish(snap Snapshot) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	for sub := range b.subs[snap.Topic] {
		for {
			select {
			case sub.ch <- snap:
			default:
				// Buffer full: discard the oldest pending snapshot and retry.
				select {
				case <-sub.ch:
					b.logger.WithFields(logrus.Fields{
						"property":   snap.Topic.PropertyID,
						"collection": snap.Topic.Collection,
					}).Debug("Dropped stale snapshot for slow subscriber")
				default:
				}
				continue
			}
			break
		}
	}
	return nil
}

// SubscriberCount returns the number of open subscriptions for a topic.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Close shuts the bus down and closes every subscription channel.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, subs := range b.subs {
		for sub := range subs {
			sub.once.Do(func() { close(sub.ch) })
		}
	}
	b.subs = make(map[Topic]map[*Subscription]struct{})
	return nil
}

// IsClosed reports whether the bus has been closed.
func (b *Bus) IsClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

// C is the subscription's delivery channel. It is closed when the
// subscription or the bus is closed.
func (s *Subscription) C() <-chan Snapshot {
	return s.ch
}

// Topic returns the topic this subscription watches.
func (s *Subscription) Topic() Topic {
	return s.topic
}

// Close detaches the subscription from the bus and closes its channel.
func (s *Subscription) Close() {
	s.bus.mu.Lock()
	if subs, ok := s.bus.subs[s.topic]; ok {
		delete(subs, s)
		if len(subs) == 0 {
			delete(s.bus.subs, s.topic)
		}
	}
	s.bus.mu.Unlock()

	s.once.Do(func() { close(s.ch) })
}
