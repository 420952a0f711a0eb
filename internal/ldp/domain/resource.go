package domain

import (
	"context"
	"fmt"

	pericarpdomain "github.com/akeemphilbert/pericarp/pkg/domain"
	"github.com/go-kratos/kratos/v2/log"
)

// Resource is a named RDF graph, the aggregate this entire protocol turns
// around (spec §3). It wraps a pericarp BasicEntity the way the teacher's
// domain.BasicResource does, so reserving, creating and updating a resource
// record EntityEvents on it; removal records none. Those events are never
// consumed for correctness, only observability.
type Resource struct {
	*pericarpdomain.BasicEntity

	URI              string
	Graph            *Graph
	InteractionModel InteractionModel

	// Direct Container membership pattern (set only when InteractionModel
	// is DirectContainer; I2 requires MembershipResource plus exactly one
	// of HasMemberRelation / IsMemberOfRelation).
	MembershipResource string
	HasMemberRelation  string
	IsMemberOfRelation string

	// MembershipResourceFor is derived and reverse: the containers that
	// name this resource as their MembershipResource. The backend
	// maintains it; the core only ever reads it (never persists it as
	// part of this resource's own graph - I3).
	MembershipResourceFor []string

	// Reserved marks a URI that has been allocated but never successfully
	// populated (spec §3 lifecycle: reserved -> populated -> updated ->
	// removed).
	Reserved bool
}

// NewReservedResource returns a Resource occupying uri with no content yet,
// the first stage of the reserve/populate/update/remove lifecycle.
func NewReservedResource(ctx context.Context, uri string) *Resource {
	r := &Resource{
		BasicEntity: pericarpdomain.NewEntity(uri),
		URI:         uri,
		Graph:       NewGraph(),
		Reserved:    true,
	}
	r.AddEvent(NewResourceReservedEvent(uri))
	log.Context(ctx).Debugf("[NewReservedResource] reserved uri=%s", uri)
	return r
}

// NewResource builds a populated Resource from a parsed graph. model and the
// Direct Container membership fields must already have been produced by the
// Analyzer; NewResource only enforces I2 and assembles the aggregate.
func NewResource(ctx context.Context, uri string, g *Graph, model InteractionModel, membershipResource, hasMemberRelation, isMemberOfRelation string) (*Resource, error) {
	r := &Resource{
		BasicEntity:        pericarpdomain.NewEntity(uri),
		URI:                uri,
		Graph:              g,
		InteractionModel:   model,
		MembershipResource: membershipResource,
		HasMemberRelation:  hasMemberRelation,
		IsMemberOfRelation: isMemberOfRelation,
	}

	if err := r.ValidateMembershipPattern(); err != nil {
		r.AddError(err)
		return r, err
	}

	r.AddEvent(NewResourcePopulatedEvent(r))
	log.Context(ctx).Debugf("[NewResource] populated uri=%s model=%s", uri, model)
	return r, nil
}

// ValidateMembershipPattern enforces I2: a Direct Container must declare
// MembershipResource and exactly one of HasMemberRelation/IsMemberOfRelation.
func (r *Resource) ValidateMembershipPattern() error {
	if r.InteractionModel != DirectContainer {
		return nil
	}
	if r.MembershipResource == "" {
		return WrapError(fmt.Errorf("missing ldp:membershipResource"), KindInvalidLDPPattern, "direct container requires a membership resource").
			WithOperation("ValidateMembershipPattern").WithContext("uri", r.URI)
	}
	hasForward := r.HasMemberRelation != ""
	hasInverse := r.IsMemberOfRelation != ""
	if hasForward == hasInverse {
		return WrapError(fmt.Errorf("exactly one of hasMemberRelation/isMemberOfRelation required"), KindInvalidLDPPattern,
			"direct container must declare exactly one of hasMemberRelation or isMemberOfRelation").
			WithOperation("ValidateMembershipPattern").WithContext("uri", r.URI)
	}
	return nil
}

// Update replaces the resource's graph and membership pattern in place, the
// way a PUT on an existing RDF source does. The interaction model itself is
// immutable once persisted (spec §3: "once persisted it is fixed"); callers
// must not pass a different model than r.InteractionModel.
func (r *Resource) Update(ctx context.Context, g *Graph) {
	r.Graph = g
	r.Reserved = false
	r.AddEvent(NewResourceUpdatedEvent(r))
	log.Context(ctx).Debugf("[Resource.Update] uri=%s", r.URI)
}

// StripDerivedTriples removes containment and membership triples from g in
// place before persisting (spec §4.6, I3): these are always computed on
// read, never stored.
func StripDerivedTriples(g *Graph, uri string, hasMemberRelations []string) {
	subject := NewIRI(uri)
	for _, t := range g.Match(subject, NewIRI(LDPContains), nil) {
		g.Remove(t.Subject, t.Predicate, t.Object)
	}
	for _, relation := range hasMemberRelations {
		for _, t := range g.Match(subject, NewIRI(relation), nil) {
			g.Remove(t.Subject, t.Predicate, t.Object)
		}
	}
}
