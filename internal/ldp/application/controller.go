package application

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/akeemphilbert/goro/internal/ldp/domain"
	"github.com/akeemphilbert/goro/internal/ldp/infrastructure/codec"
)

// Controller is the Resource Controller (spec §4.4): the state machine that
// composes the Request Decoder, RDF Codec, Interaction Model Analyzer,
// backend Store and Calculated-Triple Inserter into one response per HTTP
// method. It holds no per-request state, matching the teacher's
// ResourceHandler/ContainerHandler pattern of a thin struct wrapping a
// backend dependency plus a logger (handlers/resource.go,
// handlers/container.go), collapsed into one type because this domain's
// Resource already unifies what the teacher split across two handlers.
type Controller struct {
	store          domain.Store
	logger         log.Logger
	constraintsURL string
}

// NewController builds a Controller. constraintsURL is the document the
// ldp#constrainedBy Link header in every response points at (spec §4.4);
// it is server configuration, not domain state, so it is injected rather
// than hard-coded.
func NewController(store domain.Store, logger log.Logger, constraintsURL string) *Controller {
	return &Controller{store: store, logger: logger, constraintsURL: constraintsURL}
}

// Handle dispatches req to the method-specific handler. Any returned error
// is a *domain.Error; the transport layer maps its Kind to a status code.
// Expected LDP failures (404, 409, 412, 415, ...) come back as such errors
// with a nil Response. The non-2xx outcomes returned as a Response are the
// 304 for a matching If-None-Match and the 405 for PUT or POST against a
// resource that does not accept it.
func (c *Controller) Handle(ctx context.Context, req *Request) (*Response, error) {
	switch req.Method {
	case http.MethodGet:
		return c.get(ctx, req, true)
	case http.MethodHead:
		return c.get(ctx, req, false)
	case http.MethodPut:
		return c.put(ctx, req)
	case http.MethodPost:
		return c.post(ctx, req)
	case http.MethodDelete:
		return c.delete(ctx, req)
	case http.MethodOptions:
		return c.options(ctx, req)
	default:
		return nil, domain.NewError(domain.KindMethodNotAllowed, "unsupported method: "+req.Method).WithOperation("Controller.Handle")
	}
}

// get implements GET and HEAD (spec §4.4 "GET / HEAD"); includeBody
// distinguishes them, since everything up to the body write is identical.
func (c *Controller) get(ctx context.Context, req *Request, includeBody bool) (*Response, error) {
	r, err := c.store.Read(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	mediaType, ok := codec.NegotiateMediaType(req.Accept)
	if !ok {
		return nil, domain.NewError(domain.KindUnacceptableMedia, "no acceptable media type for "+req.Accept).WithOperation("Controller.get").WithContext("uri", req.URL)
	}

	g, pref, err := c.renderGraph(ctx, r, req.Prefer)
	if err != nil {
		return nil, err
	}

	body, err := codec.Serialize(g, mediaType, r.URI)
	if err != nil {
		return nil, domain.WrapError(err, domain.KindBackendFailure, "failed to serialize representation").WithOperation("Controller.get").WithContext("uri", req.URL)
	}
	etag := ComputeETag(body)

	resp := NewResponse(http.StatusOK)
	c.setCommonHeaders(resp, r)
	resp.Headers.Set("Vary", "Accept")
	resp.Headers.Set("ETag", etag)
	resp.Headers.Set("Content-Type", mediaType)
	if pref.Applied() || (pref.Explicit && !r.InteractionModel.IsContainer() && len(r.MembershipResourceFor) > 0) {
		resp.Headers.Set("Preference-Applied", "return=representation")
	}

	if req.IfNoneMatch != "" && ifNoneMatchHit(req.IfNoneMatch, etag) {
		resp.StatusCode = http.StatusNotModified
		resp.Body = nil
		return resp, nil
	}

	if includeBody {
		resp.Body = body
	}
	return resp, nil
}

// renderGraph clones r's stored graph and runs the Calculated-Triple
// Inserter over the clone (spec §4.3), so the stored graph on r itself is
// never mutated with derived triples.
func (c *Controller) renderGraph(ctx context.Context, r *domain.Resource, preferHeader string) (*domain.Graph, domain.Preference, error) {
	pref := domain.ParsePreference(preferHeader)
	g := r.Graph.Clone()

	var members []string
	if r.InteractionModel.IsContainer() {
		m, err := c.store.GetMembershipTriples(ctx, r.URI)
		if err != nil {
			return nil, pref, err
		}
		members = m
	}

	var reverse []domain.MembershipSource
	for _, containerURI := range r.MembershipResourceFor {
		container, err := c.store.FindContainer(ctx, containerURI)
		if err != nil {
			return nil, pref, err
		}
		if container == nil || container.HasMemberRelation == "" {
			continue
		}
		containerMembers, err := c.store.GetMembershipTriples(ctx, containerURI)
		if err != nil {
			return nil, pref, err
		}
		reverse = append(reverse, domain.MembershipSource{
			ContainerURI:      containerURI,
			HasMemberRelation: container.HasMemberRelation,
			Members:           containerMembers,
		})
	}

	domain.InsertCalculatedTriples(g, r, members, pref, reverse)
	return g, pref, nil
}

// put implements PUT (spec §4.4 "PUT").
func (c *Controller) put(ctx context.Context, req *Request) (*Response, error) {
	if !codec.IsSupportedWriteMediaType(req.ContentType) {
		return nil, domain.NewError(domain.KindUnsupportedMedia, "unsupported content type: "+req.ContentType).WithOperation("Controller.put").WithContext("uri", req.URL)
	}

	g, err := codec.Parse(req.Body, req.ContentType, req.URL)
	if err != nil {
		return nil, err
	}

	existing, readErr := c.store.Read(ctx, req.URL)
	if readErr == nil {
		return c.putUpdate(ctx, req, existing, g)
	}
	if domain.KindOf(readErr) != domain.KindNotFound {
		return nil, readErr
	}
	return c.putCreate(ctx, req, g)
}

func (c *Controller) putUpdate(ctx context.Context, req *Request, existing *domain.Resource, g *domain.Graph) (*Response, error) {
	if existing.InteractionModel.IsContainer() {
		resp := NewResponse(http.StatusMethodNotAllowed)
		resp.Headers = make(http.Header)
		resp.Headers.Set("Allow", "GET,HEAD,DELETE,OPTIONS,POST")
		return resp, nil
	}

	if req.IfMatch == "" {
		return nil, domain.NewError(domain.KindPreconditionRequired, "If-Match header required to update an existing resource").WithOperation("Controller.putUpdate").WithContext("uri", req.URL)
	}

	currentGraph, _, err := c.renderGraph(ctx, existing, "")
	if err != nil {
		return nil, err
	}
	currentBody, err := codec.Serialize(currentGraph, req.ContentType, existing.URI)
	if err != nil {
		return nil, domain.WrapError(err, domain.KindBackendFailure, "failed to serialize current representation").WithOperation("Controller.putUpdate").WithContext("uri", req.URL)
	}
	currentETag := ComputeETag(currentBody)
	if !ifMatchSatisfied(req.IfMatch, currentETag) {
		return nil, domain.NewError(domain.KindPreconditionFailed, "If-Match does not match current ETag").WithOperation("Controller.putUpdate").WithContext("uri", req.URL)
	}

	hasMemberRelations := c.hasMemberRelationsFor(ctx, existing)
	domain.StripDerivedTriples(g, existing.URI, hasMemberRelations)

	existing.Update(ctx, g)
	if err := c.store.Update(ctx, existing); err != nil {
		return nil, err
	}

	resp := NewResponse(http.StatusNoContent)
	c.setCommonHeaders(resp, existing)
	return resp, nil
}

func (c *Controller) putCreate(ctx context.Context, req *Request, g *domain.Graph) (*Response, error) {
	if err := c.store.ReserveURI(ctx, req.URL); err != nil {
		return nil, err
	}

	analysis := domain.Analyze(g, req.URL, req.Link, "")
	domain.StripDerivedTriples(g, req.URL, nil)

	r, err := domain.NewResource(ctx, req.URL, g, analysis.Model, analysis.MembershipResource, analysis.HasMemberRelation, analysis.IsMemberOfRelation)
	if err != nil {
		_ = c.store.ReleaseURI(ctx, req.URL)
		return nil, err
	}

	if err := c.store.Update(ctx, r); err != nil {
		_ = c.store.ReleaseURI(ctx, req.URL)
		return nil, err
	}

	resp := NewResponse(http.StatusCreated)
	c.setCommonHeaders(resp, r)
	resp.Headers.Set("Location", req.URL)
	return resp, nil
}

// hasMemberRelationsFor collects the hasMemberRelation IRIs of every
// Direct Container that names r as its membershipResource, the set
// StripDerivedTriples needs to strip computed membership triples from an
// incoming PUT body (spec §4.6).
func (c *Controller) hasMemberRelationsFor(ctx context.Context, r *domain.Resource) []string {
	var relations []string
	for _, containerURI := range r.MembershipResourceFor {
		container, err := c.store.FindContainer(ctx, containerURI)
		if err != nil || container == nil || container.HasMemberRelation == "" {
			continue
		}
		relations = append(relations, container.HasMemberRelation)
	}
	return relations
}

// post implements POST (spec §4.4 "POST").
func (c *Controller) post(ctx context.Context, req *Request) (*Response, error) {
	target, err := c.store.Read(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	if !target.InteractionModel.IsContainer() {
		resp := NewResponse(http.StatusMethodNotAllowed)
		resp.Headers = make(http.Header)
		resp.Headers.Set("Allow", "GET,HEAD,PUT,DELETE,OPTIONS")
		return resp, nil
	}
	if !codec.IsSupportedWriteMediaType(req.ContentType) {
		return nil, domain.NewError(domain.KindUnsupportedMedia, "unsupported content type: "+req.ContentType).WithOperation("Controller.post").WithContext("uri", req.URL)
	}

	newURI, err := c.allocateURI(ctx, target.URI, req.Slug)
	if err != nil {
		return nil, err
	}

	g, err := codec.Parse(req.Body, req.ContentType, newURI)
	if err != nil {
		_ = c.store.ReleaseURI(ctx, newURI)
		return nil, err
	}

	analysis := domain.Analyze(g, newURI, req.Link, "")
	r, err := domain.NewResource(ctx, newURI, g, analysis.Model, analysis.MembershipResource, analysis.HasMemberRelation, analysis.IsMemberOfRelation)
	if err != nil {
		_ = c.store.ReleaseURI(ctx, newURI)
		return nil, err
	}

	if target.IsMemberOfRelation != "" {
		r.Graph.Add(domain.NewIRI(newURI), domain.NewIRI(target.IsMemberOfRelation), domain.NewIRI(target.MembershipResource))
	}
	containmentTriple := domain.NewTriple(domain.NewIRI(target.URI), domain.NewIRI(domain.LDPContains), domain.NewIRI(newURI))
	if err := c.store.InsertData(ctx, target.URI, []*domain.Triple{containmentTriple}); err != nil {
		_ = c.store.ReleaseURI(ctx, newURI)
		return nil, err
	}

	if err := c.store.Update(ctx, r); err != nil {
		_ = c.store.ReleaseURI(ctx, newURI)
		return nil, domain.WrapError(err, domain.KindBackendFailure, "failed to persist new member").WithOperation("Controller.post").WithContext("uri", newURI)
	}

	resp := NewResponse(http.StatusCreated)
	c.setCommonHeaders(resp, r)
	resp.Headers.Set("Location", newURI)
	return resp, nil
}

// allocateURI runs the two-phase reserve loop of spec §4.5, honoring Slug
// and falling back through FallbackURI up to MaxAllocationAttempts times.
func (c *Controller) allocateURI(ctx context.Context, containerURI, slug string) (string, error) {
	if sanitized := domain.SanitizeSlug(slug); sanitized != "" {
		candidate := domain.CandidateURI(containerURI, sanitized)
		if err := c.store.ReserveURI(ctx, candidate); err == nil {
			return candidate, nil
		} else if domain.KindOf(err) != domain.KindConflictURITaken {
			return "", err
		}
	}

	for attempt := 0; attempt < domain.MaxAllocationAttempts; attempt++ {
		candidate := domain.FallbackURI(containerURI, attempt)
		err := c.store.ReserveURI(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if domain.KindOf(err) != domain.KindConflictURITaken {
			return "", err
		}
	}
	return "", domain.NewError(domain.KindBackendFailure, "exhausted uri allocation attempts").WithOperation("Controller.allocateURI").WithContext("container", containerURI)
}

// delete implements DELETE (spec §4.4 "DELETE"): no cascade to members or
// to a Direct Container's membership resource.
func (c *Controller) delete(ctx context.Context, req *Request) (*Response, error) {
	if err := c.store.Remove(ctx, req.URL); err != nil {
		return nil, err
	}
	return NewResponse(http.StatusNoContent), nil
}

// options implements OPTIONS (spec §4.4 "OPTIONS").
func (c *Controller) options(ctx context.Context, req *Request) (*Response, error) {
	r, err := c.store.Read(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	resp := NewResponse(http.StatusOK)
	c.setCommonHeaders(resp, r)
	return resp, nil
}

// setCommonHeaders applies the Link/Allow/Accept-Post headers every
// response carries per spec §4.4's preamble.
func (c *Controller) setCommonHeaders(resp *Response, r *domain.Resource) {
	if resp.Headers == nil {
		resp.Headers = make(http.Header)
	}
	resp.Headers.Add("Link", `<`+domain.LDPResource+`>; rel="type"`)
	resp.Headers.Add("Link", `<`+c.constraintsURL+`>; rel="`+domain.LDPConstrainedBy+`"`)

	if r.InteractionModel.IsContainer() {
		resp.Headers.Add("Link", `<`+r.InteractionModel.TypeIRI()+`>; rel="type"`)
		resp.Headers.Set("Accept-Post", strings.Join(writableMediaTypes(), ", "))
		resp.Headers.Set("Allow", "GET,HEAD,DELETE,OPTIONS,POST")
	} else {
		resp.Headers.Set("Allow", "GET,HEAD,PUT,DELETE,OPTIONS")
	}
}

func writableMediaTypes() []string {
	var out []string
	for _, mt := range codec.SupportedMediaTypes {
		if codec.IsSupportedWriteMediaType(mt) {
			out = append(out, mt)
		}
	}
	return out
}

// ifNoneMatchHit reports whether header (a comma-separated If-None-Match
// list, possibly "*") matches etag.
func ifNoneMatchHit(header, etag string) bool {
	if strings.TrimSpace(header) == "*" {
		return true
	}
	for _, tok := range strings.Split(header, ",") {
		if strings.TrimSpace(tok) == etag {
			return true
		}
	}
	return false
}

// ifMatchSatisfied reports whether header (a comma-separated If-Match
// list, possibly "*") is satisfied by etag.
func ifMatchSatisfied(header, etag string) bool {
	if strings.TrimSpace(header) == "*" {
		return true
	}
	for _, tok := range strings.Split(header, ",") {
		if strings.TrimSpace(tok) == etag {
			return true
		}
	}
	return false
}
