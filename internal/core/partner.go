package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/partners/internal/model"
)

// ErrClosed is returned by operations that resolve after Close.
var ErrClosed = errors.New("partner service closed")

// Store is the remote collection the service reconciles against.
type Store interface {
	List(ctx context.Context) ([]model.Partner, error)
	Create(ctx context.Context, input model.PartnerInput) (model.Partner, error)
	Update(ctx context.Context, id string, p model.Partner) error
	Delete(ctx context.Context, id string) error
}

// PartnerService holds the in-memory partner collection and the bulk loading
// flag. Local state changes only after the matching remote call succeeds.
// Safe for concurrent use.
type PartnerService struct {
	store  Store
	logger zerolog.Logger
	ops    *opTracker

	mu       sync.RWMutex
	partners []model.Partner
	fetching int
	closed   bool
}

func NewPartnerService(store Store, logger zerolog.Logger) *PartnerService {
	return &PartnerService{
		store:    store,
		logger:   logger.With().Str("component", "partners").Logger(),
		ops:      newOpTracker(time.Now),
		partners: []model.Partner{},
	}
}

// Start runs the initial fetch in the background. The loading flag is set
// before Start returns. The channel receives the fetch result.
func (s *PartnerService) Start(ctx context.Context) <-chan Result[[]model.Partner] {
	done := make(chan Result[[]model.Partner], 1)
	s.beginFetch()
	go func() {
		done <- s.fetch(ctx)
	}()
	return done
}

// FetchPartners replaces the whole collection with the store's current list.
func (s *PartnerService) FetchPartners(ctx context.Context) Result[[]model.Partner] {
	s.beginFetch()
	return s.fetch(ctx)
}

func (s *PartnerService) beginFetch() {
	s.mu.Lock()
	s.fetching++
	s.mu.Unlock()
	s.ops.begin(OpFetch)
}

func (s *PartnerService) fetch(ctx context.Context) (res Result[[]model.Partner]) {
	defer func() {
		s.mu.Lock()
		s.fetching--
		s.mu.Unlock()
		s.ops.end(OpFetch, res.Err)
	}()

	partners, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("fetch partners failed")
		return failed[[]model.Partner](fmt.Errorf("fetch partners: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return failed[[]model.Partner](ErrClosed)
	}
	s.partners = model.ClonePartners(partners)
	s.logger.Debug().Int("count", len(partners)).Msg("partners fetched")
	return ok(model.ClonePartners(partners))
}

// GetPartnerByID looks a partner up in local state.
func (s *PartnerService) GetPartnerByID(id string) (model.Partner, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.partners {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return model.Partner{}, false
}

// AddPartner creates a record remotely and appends the store's echo. An echo
// whose id is already held replaces that entry. It does not touch the
// loading flag.
func (s *PartnerService) AddPartner(ctx context.Context, input model.PartnerInput) (res Result[model.Partner]) {
	s.ops.begin(OpAdd)
	defer func() { s.ops.end(OpAdd, res.Err) }()

	created, err := s.store.Create(ctx, input)
	if err != nil {
		s.logger.Error().Err(err).Str("name", input.Name).Msg("add partner failed")
		return failed[model.Partner](fmt.Errorf("add partner: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return failed[model.Partner](ErrClosed)
	}
	if i := s.indexLocked(created.ID); i >= 0 {
		s.logger.Warn().Str("partner_id", created.ID).Msg("store echoed an existing id, replacing it")
		s.partners[i] = created.Clone()
	} else {
		s.partners = append(s.partners, created.Clone())
	}
	s.logger.Info().Str("partner_id", created.ID).Msg("partner added")
	return ok(created)
}

func (s *PartnerService) indexLocked(id string) int {
	for i := range s.partners {
		if s.partners[i].ID == id {
			return i
		}
	}
	return -1
}

// UpdatePartner sends p to the store and then replaces the local entry with
// the same id. Entries are matched on id; an id absent locally changes nothing.
func (s *PartnerService) UpdatePartner(ctx context.Context, id string, p model.Partner) (res Result[model.Partner]) {
	s.ops.begin(OpUpdate)
	defer func() { s.ops.end(OpUpdate, res.Err) }()

	if err := s.store.Update(ctx, id, p); err != nil {
		s.logger.Error().Err(err).Str("partner_id", id).Msg("update partner failed")
		return failed[model.Partner](fmt.Errorf("update partner %s: %w", id, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return failed[model.Partner](ErrClosed)
	}
	if i := s.indexLocked(id); i >= 0 {
		s.partners[i] = p.Clone()
	}
	s.logger.Info().Str("partner_id", id).Msg("partner updated")
	return ok(p)
}

// DeletePartner deletes a record remotely and then drops it from local state.
func (s *PartnerService) DeletePartner(ctx context.Context, id string) (res Result[string]) {
	s.ops.begin(OpDelete)
	defer func() { s.ops.end(OpDelete, res.Err) }()

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("partner_id", id).Msg("delete partner failed")
		return failed[string](fmt.Errorf("delete partner %s: %w", id, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return failed[string](ErrClosed)
	}
	kept := s.partners[:0:0]
	for _, p := range s.partners {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.partners = kept
	s.logger.Info().Str("partner_id", id).Msg("partner deleted")
	return ok(id)
}

// Partners returns a deep copy of the collection.
func (s *PartnerService) Partners() []model.Partner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.ClonePartners(s.partners)
}

// Len returns the number of partners held locally.
func (s *PartnerService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.partners)
}

// Loading reports whether a bulk fetch is in flight.
func (s *PartnerService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetching > 0
}

// Operation returns the state of the given operation kind.
func (s *PartnerService) Operation(kind OpKind) OpState {
	return s.ops.get(kind)
}

// Ready reports whether the most recently resolved fetch succeeded.
func (s *PartnerService) Ready() bool {
	st := s.ops.get(OpFetch)
	return st.Resolved > 0 && st.Err == nil
}

// Close stops later-resolving calls from mutating local state.
func (s *PartnerService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
