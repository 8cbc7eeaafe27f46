package mealplan

import (
	"context"
	"errors"
	"log"
	"time"
)

const (
	DefaultRemoteTimeout   = 8 * time.Second
	DefaultDeleteBatchSize = 200
)

// ErrInvalidMeal is returned by AddMeal for a malformed date or a missing recipe.
var ErrInvalidMeal = errors.New("mealplan: a valid date and recipe id are required")

// ErrMealNotFound is returned by RemoveMeal when the id is not in the
// owner's calendar.
var ErrMealNotFound = errors.New("mealplan: meal not found")

// Options tunes a Store.
type Options struct {
	RemoteTimeout   time.Duration
	DeleteBatchSize int
}

// Store keeps an owner's meal plan consistent between the authoritative
// Remote and the LocalCache. Local writes are never rolled back because of a
// remote failure; GetAll brings the two back together by content signature.
type Store struct {
	remote Remote
	local  LocalCache
	diag   *Diagnostics
	caps   Capabilities
	opts   Options
	now    func() time.Time
}

type capabilityReporter interface {
	Capabilities() Capabilities
}

// NewStore creates a Store. diag receives every degradation notice and may
// be shared with other components.
func NewStore(remote Remote, local LocalCache, diag *Diagnostics, opts Options) *Store {
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = DefaultRemoteTimeout
	}
	if opts.DeleteBatchSize <= 0 {
		opts.DeleteBatchSize = DefaultDeleteBatchSize
	}
	if diag == nil {
		diag = NewDiagnostics(DefaultWarningLimit)
	}
	caps := Capabilities{Note: true, TotalWeight: true}
	if r, ok := remote.(capabilityReporter); ok {
		caps = r.Capabilities()
	}
	return &Store{
		remote: remote,
		local:  local,
		diag:   diag,
		caps:   caps,
		opts:   opts,
		now:    time.Now,
	}
}

// ConsumeWarnings returns the queued degradation notices and clears them.
func (s *Store) ConsumeWarnings() []string {
	return s.diag.Drain()
}

// GetAll returns the owner's calendar. When the remote store is reachable
// the result is the remote view after uploading any meals that so far only
// exist locally; otherwise it is the local copy.
func (s *Store) GetAll(ctx context.Context, ownerID string) (PlanMap, error) {
	if ownerID == "" {
		return PlanMap{}, ErrMissingOwner
	}

	local := s.loadLocal(ctx, ownerID)
	remote, err := s.list(ctx, ownerID)
	if err != nil {
		s.warn("Could not reach the meal plan server; showing plans saved on this device.", err)
		return local, nil
	}

	if len(remote) == 0 {
		if local.Len() == 0 {
			return PlanMap{}, nil
		}
		return s.migrateLocal(ctx, ownerID, local), nil
	}
	return s.reconcile(ctx, ownerID, remote, local), nil
}

// migrateLocal uploads a local calendar the server has never seen.
func (s *Store) migrateLocal(ctx context.Context, ownerID string, local PlanMap) PlanMap {
	if err := s.insert(ctx, ownerID, local.Entries()); err != nil {
		s.warn("Plans saved on this device could not be uploaded; showing the local copy.", err)
		return local
	}
	fresh, err := s.list(ctx, ownerID)
	if err != nil {
		s.warn("Uploaded plans could not be reloaded; showing the local copy.", err)
		return local
	}
	merged := Group(fresh)
	s.saveLocal(ctx, ownerID, merged)
	return merged
}

// reconcile uploads pending local entries the remote does not hold yet.
// Entries are matched by signature and counted, so two identical meals
// planned offline are both kept while one already on the server is not
// uploaded again.
func (s *Store) reconcile(ctx context.Context, ownerID string, remote []Entry, local PlanMap) PlanMap {
	onServer := make(map[string]int, len(remote))
	for _, e := range remote {
		onServer[s.signature(e)]++
	}

	var pending []Entry
	for _, e := range local.Entries() {
		if !e.Pending() {
			continue
		}
		sig := s.signature(e)
		if onServer[sig] > 0 {
			onServer[sig]--
			continue
		}
		pending = append(pending, e)
	}

	if len(pending) == 0 {
		merged := Group(remote)
		s.saveLocal(ctx, ownerID, merged)
		return merged
	}

	if err := s.insert(ctx, ownerID, pending); err != nil {
		s.warn("Some meals planned offline could not be synced yet; they will be retried.", err)
		merged := Group(append(remote, pending...))
		s.saveLocal(ctx, ownerID, merged)
		return merged
	}

	fresh, err := s.list(ctx, ownerID)
	if err != nil {
		s.warn("Synced meals could not be reloaded; showing the last known plan.", err)
		merged := Group(append(remote, pending...))
		s.saveLocal(ctx, ownerID, merged)
		return merged
	}
	log.Printf("synced %d offline meal plan(s) for owner %s", len(pending), ownerID)
	merged := Group(fresh)
	s.saveLocal(ctx, ownerID, merged)
	return merged
}

// AddMeal plans a meal. It is written to the local cache first and returned
// even when the remote insert fails.
func (s *Store) AddMeal(ctx context.Context, ownerID, dateKey, recipeID, mealType string, opts MealOptions) (Entry, error) {
	if ownerID == "" {
		return Entry{}, ErrMissingOwner
	}
	if !ValidDateKey(dateKey) || recipeID == "" {
		return Entry{}, ErrInvalidMeal
	}

	now := s.now()
	entry := newEntry(NewLocalID(now), dateKey, recipeID, mealType, opts, now)

	plans := s.loadLocal(ctx, ownerID)
	plans[dateKey] = append(plans[dateKey], entry)
	s.saveLocal(ctx, ownerID, plans)

	if err := s.insert(ctx, ownerID, []Entry{entry}); err != nil {
		s.warn("The meal was saved on this device and will sync when the server is reachable.", err)
	}
	return entry.clone(), nil
}

// RemoveMeal deletes a planned meal remotely and locally. A remote failure
// only produces a warning. An id missing from the local calendar, such as a
// local id replaced by its durable id after a sync, yields ErrMealNotFound.
func (s *Store) RemoveMeal(ctx context.Context, ownerID, dateKey, mealID string) error {
	if ownerID == "" {
		return ErrMissingOwner
	}

	plans := s.loadLocal(ctx, ownerID)
	day, idx := locate(plans, dateKey, mealID)

	var local *Entry
	if idx >= 0 {
		e := plans[day][idx]
		local = &e
	}
	if err := s.deleteRemote(ctx, ownerID, mealID, local); err != nil {
		s.warn("The meal was removed on this device only; the server could not be updated.", err)
	}

	if idx < 0 {
		return ErrMealNotFound
	}
	plans[day] = append(plans[day][:idx:idx], plans[day][idx+1:]...)
	if len(plans[day]) == 0 {
		delete(plans, day)
	}
	s.saveLocal(ctx, ownerID, plans)
	return nil
}

// UpdateMeal changes a planned meal remotely and locally. It returns the
// updated local entry, or nil when the meal is not in the local cache.
func (s *Store) UpdateMeal(ctx context.Context, ownerID, dateKey, mealID string, updates Updates) (*Entry, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if updates.DateKey != nil && *updates.DateKey != "" && !ValidDateKey(*updates.DateKey) {
		return nil, ErrInvalidMeal
	}

	plans := s.loadLocal(ctx, ownerID)
	day, idx := locate(plans, dateKey, mealID)

	var local *Entry
	if idx >= 0 {
		e := plans[day][idx]
		local = &e
	}
	if err := s.updateRemote(ctx, ownerID, mealID, local, updates); err != nil {
		s.warn("The meal was changed on this device only; the server could not be updated.", err)
	}

	if idx < 0 {
		return nil, nil
	}
	updated := updates.apply(plans[day][idx])
	if updated.DateKey == day {
		plans[day][idx] = updated
	} else {
		plans[day] = append(plans[day][:idx:idx], plans[day][idx+1:]...)
		if len(plans[day]) == 0 {
			delete(plans, day)
		}
		plans[updated.DateKey] = append(plans[updated.DateKey], updated)
	}
	s.saveLocal(ctx, ownerID, plans)

	out := updated.clone()
	return &out, nil
}

// ClearPeriod removes every meal dated between start and end inclusive.
func (s *Store) ClearPeriod(ctx context.Context, ownerID, start, end string) error {
	if ownerID == "" {
		return ErrMissingOwner
	}
	if start > end {
		start, end = end, start
	}

	rctx, cancel := s.remoteContext(ctx)
	err := s.remote.DeleteRange(rctx, ownerID, start, end)
	cancel()
	if err != nil {
		s.warn("The period was cleared on this device only; the server could not be updated.", err)
	}

	plans := s.loadLocal(ctx, ownerID)
	changed := false
	for day := range plans {
		if day >= start && day <= end {
			delete(plans, day)
			changed = true
		}
	}
	if changed {
		s.saveLocal(ctx, ownerID, plans)
	}
	return nil
}

// CleanupInvalidPlans removes meals whose recipe is not in validRecipeIDs.
// An empty list is treated as "recipes unknown", never as "every recipe was
// deleted": the calendar is returned untouched.
func (s *Store) CleanupInvalidPlans(ctx context.Context, ownerID string, validRecipeIDs []string) (PlanMap, error) {
	if ownerID == "" {
		return PlanMap{}, ErrMissingOwner
	}
	plans, err := s.GetAll(ctx, ownerID)
	if err != nil || len(validRecipeIDs) == 0 {
		return plans, err
	}

	valid := make(map[string]struct{}, len(validRecipeIDs))
	for _, id := range validRecipeIDs {
		valid[id] = struct{}{}
	}

	kept := make(PlanMap, len(plans))
	var staleIDs []string
	removed := 0
	for day, entries := range plans {
		for _, e := range entries {
			if _, ok := valid[e.RecipeID]; ok {
				kept[day] = append(kept[day], e)
				continue
			}
			removed++
			if IsDurableID(e.ID) {
				staleIDs = append(staleIDs, e.ID)
			}
		}
	}
	if removed == 0 {
		return plans, nil
	}

	for startIdx := 0; startIdx < len(staleIDs); startIdx += s.opts.DeleteBatchSize {
		endIdx := startIdx + s.opts.DeleteBatchSize
		if endIdx > len(staleIDs) {
			endIdx = len(staleIDs)
		}
		rctx, cancel := s.remoteContext(ctx)
		err := s.remote.DeleteByIDs(rctx, ownerID, staleIDs[startIdx:endIdx])
		cancel()
		if err != nil {
			s.warn("Meals for deleted recipes were removed on this device only; the server could not be updated.", err)
		}
	}

	log.Printf("removed %d meal plan(s) referencing deleted recipes for owner %s", removed, ownerID)
	s.saveLocal(ctx, ownerID, kept)
	return kept, nil
}

func (s *Store) deleteRemote(ctx context.Context, ownerID, mealID string, local *Entry) error {
	id, err := s.remoteID(ctx, ownerID, mealID, local)
	if err != nil || id == "" {
		return err
	}
	rctx, cancel := s.remoteContext(ctx)
	defer cancel()
	return s.remote.DeleteByIDs(rctx, ownerID, []string{id})
}

func (s *Store) updateRemote(ctx context.Context, ownerID, mealID string, local *Entry, updates Updates) error {
	id, err := s.remoteID(ctx, ownerID, mealID, local)
	if err != nil || id == "" {
		return err
	}
	rctx, cancel := s.remoteContext(ctx)
	defer cancel()
	return s.remote.Update(rctx, ownerID, id, updates)
}

// remoteID finds the remote id for a meal. A pending local entry may already
// have a remote twin with a different id; it is found by signature.
func (s *Store) remoteID(ctx context.Context, ownerID, mealID string, local *Entry) (string, error) {
	if IsDurableID(mealID) {
		return mealID, nil
	}
	if local == nil {
		return "", nil
	}
	remote, err := s.list(ctx, ownerID)
	if err != nil {
		return "", err
	}
	want := s.signature(*local)
	for _, e := range remote {
		if s.signature(e) == want {
			return e.ID, nil
		}
	}
	return "", nil
}

// locate finds a meal by id, first on the given day, then anywhere.
func locate(plans PlanMap, dateKey, mealID string) (string, int) {
	for i, e := range plans[dateKey] {
		if e.ID == mealID {
			return dateKey, i
		}
	}
	for day, entries := range plans {
		for i, e := range entries {
			if e.ID == mealID {
				return day, i
			}
		}
	}
	return "", -1
}

// signature compares entries only on fields the remote schema can hold, so
// a value the server cannot store does not make an entry look unsynced.
func (s *Store) signature(e Entry) string {
	if !s.caps.Note {
		e.Note = ""
	}
	if !s.caps.TotalWeight {
		e.TotalWeight = nil
	}
	return Signature(e)
}

func (s *Store) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opts.RemoteTimeout)
}

func (s *Store) list(ctx context.Context, ownerID string) ([]Entry, error) {
	rctx, cancel := s.remoteContext(ctx)
	defer cancel()
	return s.remote.List(rctx, ownerID)
}

func (s *Store) insert(ctx context.Context, ownerID string, entries []Entry) error {
	rctx, cancel := s.remoteContext(ctx)
	defer cancel()
	return s.remote.InsertMany(rctx, ownerID, entries)
}

func (s *Store) loadLocal(ctx context.Context, ownerID string) PlanMap {
	plans, err := s.local.Load(ctx, ownerID)
	if err != nil {
		s.warn("Plans saved on this device could not be read.", err)
		return PlanMap{}
	}
	return plans
}

func (s *Store) saveLocal(ctx context.Context, ownerID string, plans PlanMap) {
	if err := s.local.Save(ctx, ownerID, plans); err != nil {
		s.warn("Plans could not be saved on this device.", err)
	}
}

func (s *Store) warn(msg string, err error) {
	log.Printf("mealplan: %s: %v", msg, err)
	s.diag.Warn(msg)
}
