package codec

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/akeemphilbert/goro/internal/ldp/domain"
)

// writeNQuads renders g as N-Quads text (default graph only - this repo has
// no named-graph concept), the glue format piprate/json-gold's ToRDF/FromRDF
// are driven through (see codec/jsonld.go): json-gold's own
// NQuadRDFSerializer handles the RDFDataset<->string conversion, but
// RDFDataset is json-gold's internal type, not this repo's domain.Graph, so
// this repo needs its own minimal text bridge between the two - no pack
// library exposes dataset-object access without going through exactly this
// string serializer (see DESIGN.md).
func writeNQuads(g *domain.Graph) string {
	var b strings.Builder
	for _, t := range g.All() {
		fmt.Fprintf(&b, "%s %s %s .\n", t.Subject.String(), t.Predicate.String(), nquadObject(t.Object))
	}
	return b.String()
}

func nquadObject(t domain.Term) string {
	return t.String()
}

// EncodeNQuads renders g as N-Quads text. Exported for backend
// implementations (backend/gorm.go) that persist a resource's own graph
// as text rather than re-parsing it through a JSON-LD context on every
// read.
func EncodeNQuads(g *domain.Graph) (string, error) {
	return writeNQuads(g), nil
}

// DecodeNQuads parses N-Quads text into a graph. Exported counterpart to
// EncodeNQuads.
func DecodeNQuads(text string) (*domain.Graph, error) {
	return readNQuads(text)
}

var nquadLineRe = regexp.MustCompile(`^\s*(<[^>]*>|_:\S+)\s+(<[^>]*>)\s+(.+?)\s*\.\s*$`)
var nquadLiteralRe = regexp.MustCompile(`^"((?:[^"\\]|\\.)*)"(?:@([a-zA-Z0-9-]+)|\^\^<([^>]*)>)?$`)

// readNQuads parses N-Quads text (as produced by json-gold's FromRDF, via
// the serializer at json-gold's application/nquads format) into a graph.
func readNQuads(text string) (*domain.Graph, error) {
	g := domain.NewGraph()
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := nquadLineRe.FindStringSubmatch(line)
		if m == nil {
			return nil, domain.WrapError(fmt.Errorf("malformed n-quads line: %q", line), domain.KindBadRequest, "invalid n-quads").WithOperation("readNQuads")
		}
		s := parseNQuadSubject(m[1])
		p := domain.NewIRI(debracket(m[2]))
		o, err := parseNQuadObject(m[3])
		if err != nil {
			return nil, err
		}
		g.Add(s, p, o)
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.WrapError(err, domain.KindBadRequest, "failed reading n-quads").WithOperation("readNQuads")
	}
	return g, nil
}

func parseNQuadSubject(raw string) domain.Term {
	if strings.HasPrefix(raw, "_:") {
		return domain.NewBlankNode(strings.TrimPrefix(raw, "_:"))
	}
	return domain.NewIRI(debracket(raw))
}

func parseNQuadObject(raw string) (domain.Term, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "_:") {
		return domain.NewBlankNode(strings.TrimPrefix(raw, "_:")), nil
	}
	if strings.HasPrefix(raw, "<") {
		return domain.NewIRI(debracket(raw)), nil
	}
	m := nquadLiteralRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, domain.WrapError(fmt.Errorf("malformed n-quads object: %q", raw), domain.KindBadRequest, "invalid n-quads literal").WithOperation("parseNQuadObject")
	}
	value := unescapeNQuadString(m[1])
	switch {
	case m[2] != "":
		return domain.NewLangLiteral(value, m[2]), nil
	case m[3] != "":
		return domain.NewTypedLiteral(value, m[3]), nil
	default:
		return domain.NewLiteral(value), nil
	}
}

func unescapeNQuadString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
