// Package events delivers store change notifications to subscribers.
package events

import (
	"sort"
	"sync"
)

// Table names published by the services.
const (
	TableFixedCosts       = "fixed_costs"
	TableCollaborators    = "collaborators"
	TableSettings         = "business_settings"
	TableProjects         = "projects"
	TableProjectMaterials = "project_materials"
	TableProjectLabor     = "project_labor"
)

// Op names the kind of change made to a table.
type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Change describes one committed mutation.
type Change struct {
	Table string `json:"table"`
	Op    Op     `json:"op"`
	ID    string `json:"id"`
}

type subscription struct {
	table string
	fn    func(Change)
}

// Bus is a synchronous publish/subscribe hub keyed by table name.
// It is safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[int]subscription
}

// NewBus returns a bus with no subscribers.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]subscription)}
}

// Subscribe registers fn for changes on table and returns a func that
// removes the subscription.
func (b *Bus) Subscribe(table string, fn func(Change)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs[id] = subscription{table: table, fn: fn}

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// SubscribeAll registers fn for changes on every table.
func (b *Bus) SubscribeAll(fn func(Change)) (unsubscribe func()) {
	return b.Subscribe("", fn)
}

// Publish calls every matching subscriber, in subscription order, on the
// caller's goroutine. Subscribers may unsubscribe from inside fn.
func (b *Bus) Publish(c Change) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.subs))
	for id, s := range b.subs {
		if s.table == "" || s.table == c.Table {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.subs[id].fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}
