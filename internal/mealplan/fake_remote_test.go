package mealplan

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
)

var errRemoteDown = errors.New("remote unavailable")

// fakeRemote is an in-memory Remote that can be switched off.
type fakeRemote struct {
	rows        map[string][]Entry
	down        bool
	caps        *Capabilities
	inserts     int
	deleteCalls [][]string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{rows: map[string][]Entry{}}
}

func (f *fakeRemote) Capabilities() Capabilities {
	if f.caps == nil {
		return Capabilities{Note: true, TotalWeight: true}
	}
	return *f.caps
}

func (f *fakeRemote) List(_ context.Context, ownerID string) ([]Entry, error) {
	if f.down {
		return nil, errRemoteDown
	}
	out := append([]Entry(nil), f.rows[ownerID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DateKey != out[j].DateKey {
			return out[i].DateKey < out[j].DateKey
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeRemote) InsertMany(_ context.Context, ownerID string, entries []Entry) error {
	if f.down {
		return errRemoteDown
	}
	for _, e := range entries {
		if !IsDurableID(e.ID) {
			e.ID = uuid.NewString()
		}
		if f.caps != nil && !f.caps.Note {
			e.Note = ""
		}
		if f.caps != nil && !f.caps.TotalWeight {
			e.TotalWeight = nil
		}
		f.rows[ownerID] = append(f.rows[ownerID], e.clone())
		f.inserts++
	}
	return nil
}

func (f *fakeRemote) Update(_ context.Context, ownerID, id string, updates Updates) error {
	if f.down {
		return errRemoteDown
	}
	for i, e := range f.rows[ownerID] {
		if e.ID == id {
			f.rows[ownerID][i] = updates.apply(e)
		}
	}
	return nil
}

func (f *fakeRemote) DeleteByIDs(_ context.Context, ownerID string, ids []string) error {
	f.deleteCalls = append(f.deleteCalls, append([]string(nil), ids...))
	if f.down {
		return errRemoteDown
	}
	drop := map[string]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	var kept []Entry
	for _, e := range f.rows[ownerID] {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	f.rows[ownerID] = kept
	return nil
}

func (f *fakeRemote) DeleteRange(_ context.Context, ownerID, start, end string) error {
	if f.down {
		return errRemoteDown
	}
	var kept []Entry
	for _, e := range f.rows[ownerID] {
		if e.DateKey < start || e.DateKey > end {
			kept = append(kept, e)
		}
	}
	f.rows[ownerID] = kept
	return nil
}

// failingCache simulates an unusable local slot.
type failingCache struct{}

func (failingCache) Load(context.Context, string) (PlanMap, error) {
	return nil, errors.New("slot corrupted")
}

func (failingCache) Save(context.Context, string, PlanMap) error {
	return errors.New("slot read-only")
}
