package backend

import (
	"context"
	"sync"

	"github.com/akeemphilbert/goro/internal/ldp/domain"
)

// MemoryStore is a plain-Go-maps, sync.RWMutex-guarded domain.Store. It is
// a test double, not a production path: the godog harness and unit tests
// use it so they never depend on a database (see DESIGN.md).
type MemoryStore struct {
	mu        sync.RWMutex
	resources map[string]*memoryRecord
	reserved  *ReservationIndex
}

type memoryRecord struct {
	resource *domain.Resource
	// members is the container-URI -> ordered member-URI list that backs
	// GetMembershipTriples, kept separately from resource.Graph so
	// containment/membership never appear in the graph a direct Read
	// returns (I3, P6).
	members []string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resources: make(map[string]*memoryRecord),
		reserved:  NewReservationIndex(),
	}
}

func (s *MemoryStore) Init(ctx context.Context) error { return nil }

func (s *MemoryStore) ReserveURI(ctx context.Context, uri string) error {
	return s.reserved.Reserve(uri)
}

func (s *MemoryStore) ReleaseURI(ctx context.Context, uri string) error {
	s.mu.Lock()
	delete(s.resources, uri)
	s.mu.Unlock()
	return s.reserved.Release(uri)
}

func (s *MemoryStore) Read(ctx context.Context, uri string) (*domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.resources[uri]
	if !ok {
		return nil, domain.WrapError(nil, domain.KindNotFound, "resource not found").WithOperation("MemoryStore.Read").WithContext("uri", uri)
	}
	r := *rec.resource
	r.MembershipResourceFor = s.membershipResourceForLocked(uri)
	return &r, nil
}

func (s *MemoryStore) membershipResourceForLocked(uri string) []string {
	var out []string
	for containerURI, rec := range s.resources {
		if rec.resource.InteractionModel == domain.DirectContainer && rec.resource.MembershipResource == uri {
			out = append(out, containerURI)
		}
	}
	return out
}

func (s *MemoryStore) Update(ctx context.Context, r *domain.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.resources[r.URI]
	if !ok {
		rec = &memoryRecord{}
		s.resources[r.URI] = rec
	}
	rec.resource = r
	return s.reserved.Promote(r.URI)
}

func (s *MemoryStore) InsertData(ctx context.Context, targetURI string, triples []*domain.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.resources[targetURI]
	if !ok {
		return domain.WrapError(nil, domain.KindNotFound, "insertData target not found").WithOperation("MemoryStore.InsertData").WithContext("uri", targetURI)
	}
	for _, t := range triples {
		if t.Predicate.RawValue() == domain.LDPContains {
			rec.members = append(rec.members, t.Object.RawValue())
		}
	}
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resources[uri]; !ok {
		return domain.WrapError(nil, domain.KindNotFound, "resource not found").WithOperation("MemoryStore.Remove").WithContext("uri", uri)
	}
	delete(s.resources, uri)
	return s.reserved.Release(uri)
}

func (s *MemoryStore) GetMembershipTriples(ctx context.Context, containerURI string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.resources[containerURI]
	if !ok {
		return nil, domain.WrapError(nil, domain.KindNotFound, "container not found").WithOperation("MemoryStore.GetMembershipTriples").WithContext("uri", containerURI)
	}
	out := make([]string, len(rec.members))
	copy(out, rec.members)
	return out, nil
}

func (s *MemoryStore) FindContainer(ctx context.Context, uri string) (*domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.resources[uri]
	if !ok || !rec.resource.InteractionModel.IsContainer() {
		return nil, nil
	}
	r := *rec.resource
	return &r, nil
}
