// Package dashboard drives one partner dashboard session: a single
// hydration from the backend followed by optimistic edits and independent
// per-section saves.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"partner-sync/internal/adapter"
	"partner-sync/internal/identity"
	"partner-sync/internal/model"
	"partner-sync/internal/normalize"
	"partner-sync/internal/reconcile"
)

// State is the lifecycle position of a Session.
type State int

const (
	Uninitialized State = iota
	Loading
	Hydrated
	HydrationFailed
	Editing
	Saving
	Saved
	SaveFailed
)

var stateNames = [...]string{
	Uninitialized:   "uninitialized",
	Loading:         "loading",
	Hydrated:        "hydrated",
	HydrationFailed: "hydration_failed",
	Editing:         "editing",
	Saving:          "saving",
	Saved:           "saved",
	SaveFailed:      "save_failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("dashboard session closed")
	// ErrSaveInProgress rejects a second save of a section already in flight.
	ErrSaveInProgress = errors.New("save already in progress for section")
	// ErrNotLoaded is returned by Save before Load has run.
	ErrNotLoaded = errors.New("dashboard session not loaded")
)

// Options configures a Session.
type Options struct {
	Backend  adapter.Backend
	Resolver *identity.Resolver
	Decoder  *normalize.Decoder

	// Category selects the backend resource. Empty falls back to the
	// defaults' category.
	Category model.Category

	// Current is the in-memory partner from signin or signup, if any.
	Current *identity.ContextUser

	// Defaults seed the profile when the backend has nothing.
	Defaults model.PartialProfile

	Logger *slog.Logger
}

// Session is safe for concurrent use. Network calls run without the lock
// held, so edits and saves of other sections proceed while one is in flight.
type Session struct {
	backend  adapter.Backend
	resolver *identity.Resolver
	decoder  *normalize.Decoder
	current  *identity.ContextUser
	defaults model.PartialProfile
	logger   *slog.Logger

	mu       sync.Mutex
	category model.Category
	state    State
	profile  model.BusinessProfile
	baseline model.BusinessProfile
	lastErr  error
	loadErr  error
	saving   map[model.Section]bool
	loaded   bool
	closed   bool
}

// New creates an uninitialized session.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	decoder := opts.Decoder
	if decoder == nil {
		decoder = &normalize.Decoder{Logger: logger}
	}
	category := opts.Category
	if category == "" && opts.Defaults.Category != nil {
		category = *opts.Defaults.Category
	}

	return &Session{
		backend:  opts.Backend,
		resolver: opts.Resolver,
		decoder:  decoder,
		current:  opts.Current,
		defaults: opts.Defaults,
		logger:   logger,
		category: category,
		profile:  model.NewProfile(category),
		baseline: model.NewProfile(category),
		saving:   make(map[model.Section]bool),
	}
}

// Load hydrates the profile once. Later calls return nil without touching
// the network. A failed hydration is not fatal: the profile falls back to
// the defaults, the error is kept and editing stays possible.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.loaded {
		s.mu.Unlock()
		return nil
	}
	s.loaded = true
	s.state = Loading
	prev := s.profile.Clone()
	category := s.category
	s.mu.Unlock()

	remote, err := s.fetch(ctx, category)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	merged := reconcile.Merge(prev, remote, s.defaults)
	if merged.Category == "" {
		merged.Category = category
	}
	s.category = merged.Category
	s.profile = merged
	s.baseline = merged.Clone()

	s.loadErr = err
	if err != nil {
		s.state = HydrationFailed
		s.lastErr = err
		s.logger.Warn("profile hydration failed, using defaults",
			slog.String("category", string(category)),
			slog.String("error", err.Error()))
		return err
	}
	s.state = Hydrated
	s.lastErr = nil
	return nil
}

func (s *Session) fetch(ctx context.Context, category model.Category) (*model.PartialProfile, error) {
	email, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.backend.FetchProfile(ctx, email, category)
	if err != nil {
		return nil, err
	}
	partial := s.decoder.Document(doc, category)
	return &partial, nil
}

func (s *Session) resolve(ctx context.Context) (string, error) {
	if s.resolver == nil {
		return "", model.NewIdentityNotFoundError()
	}
	return s.resolver.Resolve(ctx, s.current)
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error of the last failed load or save, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ReflectsRemote reports whether the draft started from what the backend
// holds: hydration succeeded, or the backend has no profile yet. After any
// other load failure a list section saved from the draft would replace
// remote entries the session never saw.
func (s *Session) ReflectsRemote() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded || s.state == Loading {
		return false
	}
	return s.loadErr == nil || errors.Is(s.loadErr, model.ErrNotFound)
}

// Profile returns a copy of the draft being edited.
func (s *Session) Profile() model.BusinessProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// Baseline returns a copy of the last persisted profile.
func (s *Session) Baseline() model.BusinessProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseline.Clone()
}

// Edit applies fn to the draft immediately. Nothing is sent until Save.
func (s *Session) Edit(fn func(p *model.BusinessProfile)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	fn(&s.profile)
	if len(s.saving) == 0 {
		s.state = Editing
	}
	return nil
}

// Dirty lists the sections whose draft differs from the baseline.
func (s *Session) Dirty() []model.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reconcile.ChangedSections(s.baseline, s.profile)
}

// Close ends the session. Saves still in flight complete on the backend
// but their results are no longer applied.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Save persists one section. Photos go through SavePhotos. On a backend
// failure the section is reverted to the last persisted baseline and the
// error is returned and kept in Err. Identity and validation failures
// leave the draft as it is since nothing was sent.
func (s *Session) Save(ctx context.Context, section model.Section) error {
	if section == model.SectionPhotos {
		return s.SavePhotos(ctx)
	}

	snapshot, err := s.begin(section)
	if err != nil {
		return err
	}

	email, err := s.resolve(ctx)
	if err != nil {
		return s.finish(section, snapshot, err, false, nil)
	}

	payload, err := reconcile.BuildPatch(section, snapshot)
	if err != nil {
		return s.finish(section, snapshot, err, false, nil)
	}

	s.logChanges(section, snapshot)
	_, err = s.backend.PatchProfile(ctx, email, payload)
	return s.finish(section, snapshot, err, true, nil)
}

// SavePhotos uploads every pending slot one at a time in slot order, then
// saves the resolved photo set. The first failed upload aborts the batch:
// later uploads are not attempted and the photo set is not saved.
func (s *Session) SavePhotos(ctx context.Context) error {
	section := model.SectionPhotos
	snapshot, err := s.begin(section)
	if err != nil {
		return err
	}

	email, err := s.resolve(ctx)
	if err != nil {
		return s.finish(section, snapshot, err, false, nil)
	}

	uploaded := make(map[string]*model.LocalFile)
	for _, slot := range pendingSlots(snapshot.Category, snapshot.Photos) {
		ref := snapshot.Photos[slot]
		asset, err := s.backend.UploadAsset(ctx, email, &adapter.UploadRequest{
			Category:    snapshot.Category,
			Slot:        slot,
			File:        *ref.Local,
			OldPublicID: ref.PublicID,
		})
		if err != nil {
			s.logger.Warn("photo upload failed, batch aborted",
				slog.String("slot", slot),
				slog.String("error", err.Error()))
			return s.finish(section, snapshot, err, true, nil)
		}
		uploaded[slot] = ref.Local
		snapshot.Photos[slot] = model.PhotoRef{URL: asset.URL, PublicID: asset.PublicID}
	}

	payload, err := reconcile.BuildPatch(section, snapshot)
	if err != nil {
		return s.finish(section, snapshot, err, false, nil)
	}
	_, err = s.backend.PatchProfile(ctx, email, payload)
	return s.finish(section, snapshot, err, true, uploaded)
}

// pendingSlots returns slots holding a local file, known slots first in
// their fixed order, then any others alphabetically.
func pendingSlots(category model.Category, photos model.PhotoSet) []string {
	known := model.PhotoSlots(category)
	var out, extra []string
	for _, slot := range known {
		if photos[slot].Pending() {
			out = append(out, slot)
		}
	}
	for slot, ref := range photos {
		if ref.Pending() && !slices.Contains(known, slot) {
			extra = append(extra, slot)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// begin marks section as saving and returns a snapshot of the draft.
func (s *Session) begin(section model.Section) (model.BusinessProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.BusinessProfile{}, ErrClosed
	}
	if !s.loaded {
		return model.BusinessProfile{}, ErrNotLoaded
	}
	if s.saving[section] {
		return model.BusinessProfile{}, fmt.Errorf("%w: %s", ErrSaveInProgress, section)
	}
	s.saving[section] = true
	s.state = Saving
	return s.profile.Clone(), nil
}

// finish applies the outcome of a save. rollback is set once the backend
// may have seen a request. uploaded maps photo slots to the local files
// that were replaced by sent.Photos.
func (s *Session) finish(section model.Section, sent model.BusinessProfile, err error, rollback bool, uploaded map[string]*model.LocalFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saving, section)
	if s.closed {
		return err
	}

	if err != nil {
		if rollback {
			reconcile.RestoreSection(&s.profile, s.baseline, section)
		}
		s.lastErr = err
		s.state = SaveFailed
		s.logger.Warn("section save failed",
			slog.String("section", string(section)),
			slog.Bool("reverted", rollback),
			slog.String("error", err.Error()))
		return err
	}

	if section == model.SectionPhotos {
		s.applyResolvedPhotos(sent.Photos, uploaded)
	}
	reconcile.Absorb(&s.baseline, sent, section)
	s.lastErr = nil
	if len(s.saving) == 0 {
		s.state = Saved
	}
	s.logger.Info("section saved", slog.String("section", string(section)))
	return nil
}

// applyResolvedPhotos swaps uploaded previews in the draft for their
// durable references, unless the slot was changed again meanwhile.
func (s *Session) applyResolvedPhotos(resolved model.PhotoSet, uploaded map[string]*model.LocalFile) {
	for slot, local := range uploaded {
		if cur, ok := s.profile.Photos[slot]; ok && cur.Local == local {
			s.profile.Photos[slot] = resolved[slot]
		}
	}
}

func (s *Session) logChanges(section model.Section, sent model.BusinessProfile) {
	if !s.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	s.mu.Lock()
	base := s.baseline.Clone()
	s.mu.Unlock()

	switch section {
	case model.SectionPricing, model.SectionCatalog:
		cur, next := base.RoomTypes, sent.RoomTypes
		if section == model.SectionCatalog {
			cur, next = base.Catalog, sent.Catalog
		}
		d := reconcile.DiffPricedItems(cur, next)
		s.logger.Debug("saving priced list",
			slog.String("section", string(section)),
			slog.Int("added", len(d.ToAdd)),
			slog.Int("removed", len(d.ToRemove)),
			slog.Int("updated", len(d.ToUpdate)))
	case model.SectionOffers:
		d := reconcile.DiffStrings(base.Offers, sent.Offers)
		s.logger.Debug("saving offers",
			slog.Int("added", len(d.ToAdd)),
			slog.Int("removed", len(d.ToRemove)))
	}
}
