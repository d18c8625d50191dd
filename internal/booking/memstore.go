package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store. Bookings are indexed per resource in
// start-time order so overlap queries scan only one resource's slice.
type MemStore struct {
	mu         sync.RWMutex
	byID       map[string]*Booking
	byResource map[string][]*Booking // sorted by Window.Start
}

func NewMemStore() *MemStore {
	return &MemStore{
		byID:       make(map[string]*Booking),
		byResource: make(map[string][]*Booking),
	}
}

func clone(b *Booking) *Booking {
	c := *b
	if b.DecidedAt != nil {
		t := *b.DecidedAt
		c.DecidedAt = &t
	}
	if b.DecidedBy != nil {
		s := *b.DecidedBy
		c.DecidedBy = &s
	}
	if b.RejectionReason != nil {
		s := *b.RejectionReason
		c.RejectionReason = &s
	}
	return &c
}

func (s *MemStore) Insert(ctx context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = uuid.NewString()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	b.Version = 1

	stored := clone(b)
	s.byID[stored.ID] = stored
	s.indexLocked(stored)

	return nil
}

// indexLocked inserts into the per-resource slice keeping start order.
func (s *MemStore) indexLocked(b *Booking) {
	list := s.byResource[b.ResourceID]
	i := sort.Search(len(list), func(i int) bool {
		return !list[i].Window.Start.Before(b.Window.Start)
	})
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = b
	s.byResource[b.ResourceID] = list
}

func (s *MemStore) Get(ctx context.Context, id string) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(b), nil
}

func (s *MemStore) Update(ctx context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[b.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != b.Version {
		return ErrStaleWrite
	}

	b.Version++
	next := clone(b)
	s.byID[b.ID] = next

	// Windows are immutable after creation, so the index position is stable;
	// swap the pointer in place.
	list := s.byResource[b.ResourceID]
	for i, e := range list {
		if e.ID == b.ID {
			list[i] = next
			break
		}
	}

	return nil
}

func (s *MemStore) FindOverlapping(ctx context.Context, resourceID string, w Window, states []Status, excludeID string) ([]*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[Status]bool, len(states))
	for _, st := range states {
		wanted[st] = true
	}

	var out []*Booking
	for _, b := range s.byResource[resourceID] {
		if !b.Window.Start.Before(w.End) {
			// Sorted by start: nothing further can overlap.
			break
		}
		if b.ID == excludeID || !wanted[b.Status] {
			continue
		}
		if b.Window.Overlaps(w) {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

func (s *MemStore) List(ctx context.Context, f Filter) ([]*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[Status]bool, len(f.Statuses))
	for _, st := range f.Statuses {
		wanted[st] = true
	}

	var out []*Booking
	for _, list := range s.byResource {
		for _, b := range list {
			if f.ResourceID != "" && b.ResourceID != f.ResourceID {
				continue
			}
			if f.RequesterID != "" && b.RequesterID != f.RequesterID {
				continue
			}
			if f.DepartmentID != "" && b.DepartmentID != f.DepartmentID {
				continue
			}
			if len(wanted) > 0 && !wanted[b.Status] {
				continue
			}
			if f.From != nil && !b.Window.End.After(*f.From) {
				continue
			}
			if f.To != nil && !b.Window.Start.Before(*f.To) {
				continue
			}
			out = append(out, clone(b))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Window.Start.Before(out[j].Window.Start)
	})
	return out, nil
}
