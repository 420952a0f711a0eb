// Package codec implements the RDF Codec component (spec §4.1): parsing and
// serializing request/response bodies in the three recognized syntaxes into
// and out of the domain's graph model.
package codec

import (
	"fmt"
	"io"
	"sort"
	"strings"

	rdf "github.com/deiu/gon3"

	"github.com/akeemphilbert/goro/internal/ldp/domain"
)

// TurtleMediaType is the canonical media type for the Turtle syntax.
const TurtleMediaType = "text/turtle"

// ParseTurtle parses a Turtle document into a graph bound to baseURI,
// exactly as deiu/rdf2go drives the same deiu/gon3 parser: NewParser(base)
// produces a parser whose IterTriples channel yields gon3 terms, which are
// converted to this package's domain.Term the way rdf2go's rdf2term does.
func ParseTurtle(r io.Reader, baseURI string) (*domain.Graph, error) {
	parsed, err := rdf.NewParser(baseURI).Parse(r)
	if err != nil {
		return nil, domain.WrapError(err, domain.KindBadRequest, "invalid turtle document").WithOperation("ParseTurtle")
	}

	g := domain.NewGraph()
	for t := range parsed.IterTriples() {
		s, err := gon3ToTerm(t.Subject)
		if err != nil {
			return nil, domain.WrapError(err, domain.KindBadRequest, "invalid turtle subject term").WithOperation("ParseTurtle")
		}
		p, err := gon3ToTerm(t.Predicate)
		if err != nil {
			return nil, domain.WrapError(err, domain.KindBadRequest, "invalid turtle predicate term").WithOperation("ParseTurtle")
		}
		o, err := gon3ToTerm(t.Object)
		if err != nil {
			return nil, domain.WrapError(err, domain.KindBadRequest, "invalid turtle object term").WithOperation("ParseTurtle")
		}
		g.Add(s, p, o)
	}
	return g, nil
}

func gon3ToTerm(t rdf.Term) (domain.Term, error) {
	switch v := t.(type) {
	case *rdf.BlankNode:
		return domain.NewBlankNode(v.RawValue()), nil
	case *rdf.Literal:
		switch {
		case len(v.LanguageTag) > 0:
			return domain.NewLangLiteral(v.LexicalForm, v.LanguageTag), nil
		case v.DatatypeIRI != nil && len(v.DatatypeIRI.String()) > 0:
			return domain.NewTypedLiteral(v.LexicalForm, debracket(v.DatatypeIRI.String())), nil
		default:
			return domain.NewLiteral(v.LexicalForm), nil
		}
	case *rdf.IRI:
		return domain.NewIRI(v.RawValue()), nil
	default:
		return nil, fmt.Errorf("unsupported term kind %T", t)
	}
}

func debracket(iri string) string {
	return strings.TrimSuffix(strings.TrimPrefix(iri, "<"), ">")
}

// wellKnownPrefixes is consulted by SerializeTurtle to shorten common
// namespaces; ldp: is always declared per spec §4.1 even if the graph has
// no ldp: terms, so a client always sees the namespace it needs to
// interpret containment/membership triples.
var wellKnownPrefixes = []struct {
	prefix string
	ns     string
}{
	{"ldp", domain.NSLDP},
	{"rdf", domain.NSRDF},
}

// SerializeTurtle writes g as Turtle, grouped by subject with `;`-continued
// predicate-object lists. No pack library serializes Turtle with selectable
// prefixes (rdf2go's own Turtle writer is commented out / unimplemented in
// the pack copy), so this is hand-written; see DESIGN.md.
func SerializeTurtle(g *domain.Graph) ([]byte, error) {
	var b strings.Builder
	for _, p := range wellKnownPrefixes {
		fmt.Fprintf(&b, "@prefix %s: <%s> .\n", p.prefix, p.ns)
	}
	b.WriteString("\n")

	for _, s := range g.Subjects() {
		fmt.Fprintf(&b, "%s\n", subjectTerm(s))
		bySubject := g.Match(s, nil, nil)
		predicates := groupByPredicate(bySubject)
		preds := sortedPredicateKeys(predicates)
		for i, pk := range preds {
			objs := predicates[pk]
			fmt.Fprintf(&b, "    %s %s", shorten(pk), strings.Join(objectTerms(objs), " , "))
			if i == len(preds)-1 {
				b.WriteString(" .\n\n")
			} else {
				b.WriteString(" ;\n")
			}
		}
	}
	return []byte(b.String()), nil
}

func subjectTerm(t domain.Term) string {
	if bn, ok := t.(*domain.BlankNode); ok {
		return bn.String()
	}
	return shorten(t.String())
}

func groupByPredicate(triples []*domain.Triple) map[string][]domain.Term {
	out := make(map[string][]domain.Term)
	for _, t := range triples {
		k := t.Predicate.String()
		out[k] = append(out[k], t.Object)
	}
	return out
}

func sortedPredicateKeys(m map[string][]domain.Term) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func objectTerms(objs []domain.Term) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = shorten(o.String())
	}
	return out
}

// shorten replaces a known namespace prefix inside an N-Triples term
// (<...> or a literal) with prefix:local, for readability; it leaves
// literals and unrecognized IRIs untouched.
func shorten(ntriples string) string {
	if !strings.HasPrefix(ntriples, "<") {
		return ntriples
	}
	iri := debracket(ntriples)
	for _, p := range wellKnownPrefixes {
		if strings.HasPrefix(iri, p.ns) {
			local := strings.TrimPrefix(iri, p.ns)
			if local != "" {
				return p.prefix + ":" + local
			}
		}
	}
	return ntriples
}
