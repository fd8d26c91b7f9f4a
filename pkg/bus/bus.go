// Package bus is an in-process, synchronous publish/subscribe hub used to
// tell statistics consumers that store contents changed.
package bus

import (
	"sync"
)

// Topic names a stream of notifications.
type Topic string

const (
	// TracksChanged fires after any track mutation.
	TracksChanged Topic = "tracks.changed"
	// TimelineChanged fires when entries change as a side effect of a track
	// operation. The payload is a TimelineChange.
	TimelineChanged Topic = "timeline.changed"
	// TrackChanged fires for an updated track. The payload is a TrackEvent.
	TrackChanged Topic = "track.changed"
	// TrackDeleted fires for a removed track. The payload is a TrackEvent.
	TrackDeleted Topic = "track.deleted"
	// EntriesChanged fires after entries are added, deleted or cleared.
	EntriesChanged Topic = "entries.changed"
	// ProfileChanged fires after the profile is written.
	ProfileChanged Topic = "profile.changed"
)

// Reason explains a TimelineChange.
type Reason string

const (
	ReasonRename Reason = "rename"
	ReasonDelete Reason = "delete"
	ReasonClear  Reason = "clear"
)

// TimelineChange is the payload of TimelineChanged.
type TimelineChange struct {
	Reason    Reason
	OldName   string
	NewName   string
	TrackName string
	Count     int
}

// TrackEvent is the payload of TrackChanged and TrackDeleted.
type TrackEvent struct {
	TrackID string
	Name    string
	Color   string
}

// Handler receives the payload passed to Emit, which may be nil.
type Handler func(payload any)

// Subscription identifies a registered handler so it can be removed.
type Subscription struct {
	topic Topic
	id    uint64
}

// Topic is the topic the subscription listens on.
func (s Subscription) Topic() Topic {
	return s.topic
}

type registration struct {
	id uint64
	h  Handler
}

// Bus fans notifications out to handlers. The zero value is ready to use.
type Bus struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[Topic][]registration
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{}
}

// On registers h for topic.
func (b *Bus) On(topic Topic, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = make(map[Topic][]registration)
	}
	b.next++
	b.handlers[topic] = append(b.handlers[topic], registration{id: b.next, h: h})
	return Subscription{topic: topic, id: b.next}
}

// Off removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Off(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	regs := b.handlers[sub.topic]
	for i, r := range regs {
		if r.id == sub.id {
			kept := make([]registration, 0, len(regs)-1)
			kept = append(kept, regs[:i]...)
			kept = append(kept, regs[i+1:]...)
			b.handlers[sub.topic] = kept
			return
		}
	}
}

// Emit calls every handler registered for topic at the time of the call, in
// registration order, on the caller's goroutine. Handlers may subscribe or
// unsubscribe while being called; that affects later emits only.
func (b *Bus) Emit(topic Topic, payload any) {
	if b == nil {
		return
	}
	b.mu.RLock()
	regs := b.handlers[topic]
	b.mu.RUnlock()
	for _, r := range regs {
		r.h(payload)
	}
}

// Count reports how many handlers listen on topic.
func (b *Bus) Count(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[topic])
}
