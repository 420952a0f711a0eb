package backend

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/akeemphilbert/goro/internal/ldp/domain"
	"github.com/akeemphilbert/goro/internal/ldp/infrastructure/codec"
)

// ResourceRecord is the persisted row for one LDP resource: its own
// (containment/membership-stripped, I3) graph content serialized as
// N-Quads text, plus the interaction-model/membership-pattern fields
// resource.go validates at construction time. Grounded on the teacher's
// ContainerModel/ResourceModel in models.go, collapsed into one table
// since this domain's Resource already unifies RDF Source/Basic
// Container/Direct Container behind a single struct (resource.go).
type ResourceRecord struct {
	URI                string `gorm:"primaryKey"`
	InteractionModel   string `gorm:"index"`
	MembershipResource string
	HasMemberRelation  string
	IsMemberOfRelation string
	Reserved           bool
	NQuads             string `gorm:"type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (ResourceRecord) TableName() string { return "ldp_resources" }

// MembershipRecord is one (container, member) pair in the per-container
// children index GetMembershipTriples reads from. A single such index
// drives both Containment and Membership-reverse emission uniformly, per
// the Open Question resolution recorded in DESIGN.md.
type MembershipRecord struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	ContainerURI string `gorm:"index"`
	MemberURI    string
	Position     int
	CreatedAt    time.Time
}

func (MembershipRecord) TableName() string { return "ldp_memberships" }

// GormStore is a gorm.io/gorm-backed domain.Store, grounded on the
// teacher's GORMContainerRepository (gorm_container_repository.go): same
// AutoMigrate-in-constructor idiom, same db.WithContext(ctx) calling
// convention, same gorm.ErrRecordNotFound check. URI reservation is kept
// in the same in-process ReservationIndex MemoryStore uses rather than a
// unique-constraint-and-retry dance, since a reservation never needs to
// survive a process restart (a crash mid-PUT/POST simply frees the slug
// for reuse) and the in-process index gives sub-lock semantics a bare
// unique index column cannot (P7).
type GormStore struct {
	db       *gorm.DB
	reserved *ReservationIndex
}

// NewGormStore wraps db. Init must be called once before use.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, reserved: NewReservationIndex()}
}

func (s *GormStore) Init(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&ResourceRecord{}, &MembershipRecord{}); err != nil {
		return domain.WrapError(err, domain.KindBackendFailure, "failed to migrate ldp schema").WithOperation("GormStore.Init")
	}
	return nil
}

func (s *GormStore) ReserveURI(ctx context.Context, uri string) error {
	return s.reserved.Reserve(uri)
}

func (s *GormStore) ReleaseURI(ctx context.Context, uri string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ResourceRecord{}, "uri = ?", uri).Error; err != nil {
			return err
		}
		return tx.Delete(&MembershipRecord{}, "container_uri = ?", uri).Error
	})
	if err != nil {
		return domain.WrapError(err, domain.KindBackendFailure, "failed to release uri").WithOperation("GormStore.ReleaseURI").WithContext("uri", uri)
	}
	return s.reserved.Release(uri)
}

func (s *GormStore) Read(ctx context.Context, uri string) (*domain.Resource, error) {
	var rec ResourceRecord
	err := s.db.WithContext(ctx).First(&rec, "uri = ?", uri).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.WrapError(err, domain.KindNotFound, "resource not found").WithOperation("GormStore.Read").WithContext("uri", uri)
	}
	if err != nil {
		return nil, domain.WrapError(err, domain.KindBackendFailure, "failed to read resource").WithOperation("GormStore.Read").WithContext("uri", uri)
	}

	r, err := recordToResource(ctx, &rec)
	if err != nil {
		return nil, err
	}

	membershipFor, err := s.membershipResourceFor(ctx, uri)
	if err != nil {
		return nil, err
	}
	r.MembershipResourceFor = membershipFor
	return r, nil
}

func (s *GormStore) membershipResourceFor(ctx context.Context, uri string) ([]string, error) {
	var recs []ResourceRecord
	err := s.db.WithContext(ctx).
		Where("interaction_model = ? AND membership_resource = ?", string(domain.DirectContainer), uri).
		Find(&recs).Error
	if err != nil {
		return nil, domain.WrapError(err, domain.KindBackendFailure, "failed to scan direct containers").WithOperation("GormStore.membershipResourceFor").WithContext("uri", uri)
	}
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = rec.URI
	}
	return out, nil
}

func (s *GormStore) Update(ctx context.Context, r *domain.Resource) error {
	rec, err := resourceToRecord(r)
	if err != nil {
		return err
	}
	now := time.Now()
	rec.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing ResourceRecord
		lookupErr := tx.First(&existing, "uri = ?", r.URI).Error
		switch {
		case lookupErr == gorm.ErrRecordNotFound:
			rec.CreatedAt = now
			return tx.Create(rec).Error
		case lookupErr != nil:
			return lookupErr
		default:
			rec.CreatedAt = existing.CreatedAt
			return tx.Save(rec).Error
		}
	})
	if err != nil {
		return domain.WrapError(err, domain.KindBackendFailure, "failed to persist resource").WithOperation("GormStore.Update").WithContext("uri", r.URI)
	}
	return s.reserved.Promote(r.URI)
}

// InsertData appends ldp:contains rows to the membership index; it is the
// only predicate the controller ever asks a Store to insert directly
// (see the Open Question resolution in DESIGN.md).
func (s *GormStore) InsertData(ctx context.Context, targetURI string, triples []*domain.Triple) error {
	var rows []MembershipRecord
	now := time.Now()
	for _, t := range triples {
		if t.Predicate.RawValue() != domain.LDPContains {
			continue
		}
		rows = append(rows, MembershipRecord{ContainerURI: targetURI, MemberURI: t.Object.RawValue(), CreatedAt: now})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return domain.WrapError(err, domain.KindBackendFailure, "failed to insert membership rows").WithOperation("GormStore.InsertData").WithContext("uri", targetURI)
	}
	return nil
}

func (s *GormStore) Remove(ctx context.Context, uri string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&ResourceRecord{}, "uri = ?", uri)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&MembershipRecord{}, "container_uri = ?", uri).Error
	})
	if err == gorm.ErrRecordNotFound {
		return domain.WrapError(err, domain.KindNotFound, "resource not found").WithOperation("GormStore.Remove").WithContext("uri", uri)
	}
	if err != nil {
		return domain.WrapError(err, domain.KindBackendFailure, "failed to remove resource").WithOperation("GormStore.Remove").WithContext("uri", uri)
	}
	return s.reserved.Release(uri)
}

func (s *GormStore) GetMembershipTriples(ctx context.Context, containerURI string) ([]string, error) {
	var recs []MembershipRecord
	err := s.db.WithContext(ctx).
		Where("container_uri = ?", containerURI).
		Order("position asc, id asc").
		Find(&recs).Error
	if err != nil {
		return nil, domain.WrapError(err, domain.KindBackendFailure, "failed to read membership index").WithOperation("GormStore.GetMembershipTriples").WithContext("uri", containerURI)
	}
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = rec.MemberURI
	}
	return out, nil
}

func (s *GormStore) FindContainer(ctx context.Context, uri string) (*domain.Resource, error) {
	var rec ResourceRecord
	err := s.db.WithContext(ctx).First(&rec, "uri = ?", uri).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, domain.WrapError(err, domain.KindBackendFailure, "failed to look up container").WithOperation("GormStore.FindContainer").WithContext("uri", uri)
	}
	if !domain.InteractionModel(rec.InteractionModel).IsContainer() {
		return nil, nil
	}
	return recordToResource(ctx, &rec)
}

func resourceToRecord(r *domain.Resource) (*ResourceRecord, error) {
	nquads, err := codec.EncodeNQuads(r.Graph)
	if err != nil {
		return nil, domain.WrapError(err, domain.KindBackendFailure, "failed to serialize graph").WithOperation("resourceToRecord").WithContext("uri", r.URI)
	}
	return &ResourceRecord{
		URI:                r.URI,
		InteractionModel:   string(r.InteractionModel),
		MembershipResource: r.MembershipResource,
		HasMemberRelation:  r.HasMemberRelation,
		IsMemberOfRelation: r.IsMemberOfRelation,
		Reserved:           r.Reserved,
		NQuads:             nquads,
	}, nil
}

func recordToResource(ctx context.Context, rec *ResourceRecord) (*domain.Resource, error) {
	g, err := codec.DecodeNQuads(rec.NQuads)
	if err != nil {
		return nil, domain.WrapError(err, domain.KindBackendFailure, "failed to parse stored graph").WithOperation("recordToResource").WithContext("uri", rec.URI)
	}
	r, err := domain.NewResource(ctx, rec.URI, g, domain.InteractionModel(rec.InteractionModel), rec.MembershipResource, rec.HasMemberRelation, rec.IsMemberOfRelation)
	if err != nil {
		return nil, err
	}
	r.Reserved = rec.Reserved
	return r, nil
}
