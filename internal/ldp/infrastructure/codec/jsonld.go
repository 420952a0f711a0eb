package codec

import (
	"encoding/json"
	"io"

	"github.com/piprate/json-gold/ld"

	"github.com/akeemphilbert/goro/internal/ldp/domain"
)

// JSONLDMediaType and JSONMediaType are both accepted for the JSON-LD
// syntax per spec §4.1/§6 ("application/ld+json and application/json").
const (
	JSONLDMediaType = "application/ld+json"
	JSONMediaType   = "application/json"
)

// defaultContext is emitted on serialization so ldp:, rdf: and dcterms:
// compact to short names instead of full IRIs, mirroring the Turtle
// serializer's "always emit the ldp: prefix" guarantee (spec §4.1).
var defaultContext = map[string]interface{}{
	"ldp":     domain.NSLDP,
	"rdf":     domain.NSRDF,
	"dcterms": "http://purl.org/dc/terms/",
}

// ParseJSONLD parses a JSON-LD document (or plain JSON treated as JSON-LD)
// into a graph bound to baseURI. Driven by piprate/json-gold's
// JsonLdProcessor.ToRDF, which already walks an expanded JSON-LD document
// into quads; this repo's own N-Quads bridge (codec/nquads.go) then turns
// json-gold's N-Quads text output into a domain.Graph.
func ParseJSONLD(r io.Reader, baseURI string) (*domain.Graph, error) {
	var doc interface{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, domain.WrapError(err, domain.KindBadRequest, "invalid json-ld document").WithOperation("ParseJSONLD")
	}

	opts := ld.NewJsonLdOptions(baseURI)
	opts.Format = "application/nquads"

	processor := ld.NewJsonLdProcessor()
	rdf, err := processor.ToRDF(doc, opts)
	if err != nil {
		return nil, domain.WrapError(err, domain.KindBadRequest, "json-ld to rdf conversion failed").WithOperation("ParseJSONLD")
	}

	nquads, ok := rdf.(string)
	if !ok {
		return nil, domain.NewError(domain.KindBadRequest, "json-ld processor returned an unexpected representation").WithOperation("ParseJSONLD")
	}
	return readNQuads(nquads)
}

// SerializeJSONLD writes g as a compacted JSON-LD document. focus is
// unused: every triple in the graph is serialized regardless of subject.
func SerializeJSONLD(g *domain.Graph, focus string) ([]byte, error) {
	nquads := writeNQuads(g)

	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/nquads"

	processor := ld.NewJsonLdProcessor()
	expanded, err := processor.FromRDF(nquads, opts)
	if err != nil {
		return nil, domain.WrapError(err, domain.KindBackendFailure, "rdf to json-ld conversion failed").WithOperation("SerializeJSONLD")
	}

	compacted, err := processor.Compact(expanded, defaultContext, ld.NewJsonLdOptions(""))
	if err != nil {
		return nil, domain.WrapError(err, domain.KindBackendFailure, "json-ld compaction failed").WithOperation("SerializeJSONLD")
	}

	out, err := json.MarshalIndent(compacted, "", "  ")
	if err != nil {
		return nil, domain.WrapError(err, domain.KindBackendFailure, "json-ld marshaling failed").WithOperation("SerializeJSONLD")
	}
	return out, nil
}
