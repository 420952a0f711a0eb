package domain

import "context"

// Store is the pluggable backend contract the core consumes (spec §6). The
// core never holds a lock across a Store call; mutual exclusion between
// concurrent writers of the same URI is the Store's own responsibility
// (spec §5) - ReserveURI is the coordination point for creates, If-Match
// ETags are the coordination point for updates.
type Store interface {
	// Init prepares the store; called once at startup.
	Init(ctx context.Context) error

	// ReserveURI atomically claims uri, returning a *domain.Error wrapping
	// KindConflictURITaken if it is already reserved or populated (I4).
	ReserveURI(ctx context.Context, uri string) error

	// ReleaseURI is a best-effort, idempotent release of a reservation
	// that was never populated.
	ReleaseURI(ctx context.Context, uri string) error

	// Read returns the stored resource, including its derived metadata
	// (InteractionModel, membership fields, MembershipResourceFor), or a
	// *domain.Error wrapping KindNotFound.
	Read(ctx context.Context, uri string) (*Resource, error)

	// Update persists a fully formed resource graph, creating it if
	// Reserved or replacing its stored content otherwise.
	Update(ctx context.Context, r *Resource) error

	// InsertData records the ldp:contains triples among triples as
	// members of the already-stored container at targetURI, the list
	// GetMembershipTriples returns; triples with any other predicate are
	// ignored and the stored graph is not changed. POST calls it for every
	// new member (spec §4.4 step 6), and a Direct Container's
	// hasMemberRelation triples are computed from that same member list.
	InsertData(ctx context.Context, targetURI string, triples []*Triple) error

	// Remove deletes the resource at uri, returning a *domain.Error
	// wrapping KindNotFound if it did not exist. No cascade to members.
	Remove(ctx context.Context, uri string) error

	// GetMembershipTriples lists the direct children of a container, by
	// member URI, in the order they should be reported.
	GetMembershipTriples(ctx context.Context, containerURI string) ([]string, error)

	// FindContainer returns the resource stored at uri when it is a
	// container, and nil, nil when nothing is stored there or it is not a
	// container. The controller uses it to look up the Direct Containers a
	// resource's MembershipResourceFor names; the POST path classifies its
	// target with Read.
	FindContainer(ctx context.Context, uri string) (*Resource, error)
}
