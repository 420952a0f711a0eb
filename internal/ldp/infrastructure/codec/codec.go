package codec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/akeemphilbert/goro/internal/ldp/domain"
)

// SupportedMediaTypes lists the three request/response RDF syntaxes, in the
// preference order spec §4.4 step 2 names for content negotiation: Turtle,
// JSON-LD/JSON, RDF/XML.
var SupportedMediaTypes = []string{TurtleMediaType, JSONLDMediaType, JSONMediaType, RDFXMLMediaType}

// writableMediaTypes excludes RDF/XML, which spec §4.1/§6 restricts to the
// read (serialize) path only.
var writableMediaTypes = map[string]bool{
	TurtleMediaType: true,
	JSONLDMediaType: true,
	JSONMediaType:   true,
}

// IsSupportedWriteMediaType reports whether contentType (already stripped
// of parameters) may be PUT/POSTed as a request body.
func IsSupportedWriteMediaType(contentType string) bool {
	return writableMediaTypes[contentType]
}

// Parse dispatches to the codec named by mediaType, parsing body into a
// graph bound to baseURI. Returns a *domain.Error of KindBadRequest on
// parse failure or KindUnsupportedMedia for an unrecognized media type,
// per spec §4.1 ("Failure" paragraph).
func Parse(body []byte, mediaType, baseURI string) (*domain.Graph, error) {
	r := bytes.NewReader(body)
	switch mediaType {
	case TurtleMediaType:
		return ParseTurtle(r, baseURI)
	case JSONLDMediaType, JSONMediaType:
		return ParseJSONLD(r, baseURI)
	default:
		return nil, domain.NewError(domain.KindUnsupportedMedia, "unsupported content type: "+mediaType).WithOperation("codec.Parse")
	}
}

// Serialize dispatches to the codec named by mediaType, writing g as that
// syntax. focus is the resource's own URI, passed through to serializers
// that may someday use it to order output; RDF/XML and Turtle ignore it
// beyond subject ordering, which Graph.Subjects() already makes
// deterministic.
func Serialize(g *domain.Graph, mediaType, focus string) ([]byte, error) {
	switch mediaType {
	case TurtleMediaType:
		return SerializeTurtle(g)
	case JSONLDMediaType, JSONMediaType:
		return SerializeJSONLD(g, focus)
	case RDFXMLMediaType:
		return SerializeRDFXML(g)
	default:
		return nil, domain.NewError(domain.KindBackendFailure, "unsupported serialization media type: "+mediaType).WithOperation("codec.Serialize")
	}
}

// NegotiateMediaType picks a response media type from an Accept header,
// preferring Turtle, then JSON-LD/JSON, then RDF/XML (spec §4.4 step 2).
// Returns "", false when nothing in SupportedMediaTypes is acceptable.
func NegotiateMediaType(accept string) (string, bool) {
	if strings.TrimSpace(accept) == "" {
		return TurtleMediaType, true
	}
	ranges := parseAccept(accept)
	best := ""
	bestQ := -1.0
	bestRank := len(SupportedMediaTypes)
	for rank, candidate := range SupportedMediaTypes {
		for _, ar := range ranges {
			if ar.q <= 0 {
				continue
			}
			if !matchesMediaRange(ar.mediaType, candidate) {
				continue
			}
			if ar.q > bestQ || (ar.q == bestQ && rank < bestRank) {
				best, bestQ, bestRank = candidate, ar.q, rank
			}
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

type acceptRange struct {
	mediaType string
	q         float64
}

func parseAccept(header string) []acceptRange {
	var out []acceptRange
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segments := strings.Split(part, ";")
		mediaType := strings.TrimSpace(segments[0])
		q := 1.0
		for _, seg := range segments[1:] {
			seg = strings.TrimSpace(seg)
			if strings.HasPrefix(seg, "q=") {
				var parsed float64
				if _, err := fmt.Sscanf(seg[2:], "%g", &parsed); err == nil {
					q = parsed
				}
			}
		}
		out = append(out, acceptRange{mediaType: mediaType, q: q})
	}
	return out
}

func matchesMediaRange(mediaRange, candidate string) bool {
	if mediaRange == "*/*" {
		return true
	}
	if mediaRange == candidate {
		return true
	}
	candidateType := strings.SplitN(candidate, "/", 2)[0]
	if mediaRange == candidateType+"/*" {
		return true
	}
	return false
}
