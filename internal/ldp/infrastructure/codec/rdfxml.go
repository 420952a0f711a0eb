package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/akeemphilbert/goro/internal/ldp/domain"
)

// RDFXMLMediaType is the media type for the RDF/XML syntax, read path only
// per spec §4.1/§6 ("application/rdf+xml (RDF/XML, read path only by
// design)").
const RDFXMLMediaType = "application/rdf+xml"

// No example repo or other_examples/ file implements RDF/XML at all (see
// DESIGN.md), so both directions here are hand-written on encoding/xml: a
// rdf:Description-per-subject writer, and a reader that round-trips what
// that writer emits plus the common rdf:about / rdf:resource / plain
// literal / rdf:datatype / xml:lang shapes a client is likely to send.

type rdfXMLDoc struct {
	XMLName      xml.Name          `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# RDF"`
	Descriptions []rdfDescription  `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# Description"`
}

type rdfDescription struct {
	About      string        `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# about,attr"`
	NodeID     string        `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# nodeID,attr"`
	Properties []rdfProperty `xml:",any"`
}

type rdfProperty struct {
	XMLName  xml.Name
	Resource string `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# resource,attr"`
	NodeID   string `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# nodeID,attr"`
	Datatype string `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# datatype,attr"`
	Lang     string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	Value    string `xml:",chardata"`
}

// ParseRDFXML parses an RDF/XML document into a graph bound to baseURI.
func ParseRDFXML(r io.Reader, baseURI string) (*domain.Graph, error) {
	var doc rdfXMLDoc
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, domain.WrapError(err, domain.KindBadRequest, "invalid rdf/xml document").WithOperation("ParseRDFXML")
	}

	g := domain.NewGraph()
	for _, desc := range doc.Descriptions {
		subject := rdfXMLSubjectTerm(desc, baseURI)
		for _, prop := range desc.Properties {
			predicate := domain.NewIRI(prop.XMLName.Space + prop.XMLName.Local)
			object, err := rdfXMLObjectTerm(prop)
			if err != nil {
				return nil, err
			}
			g.Add(subject, predicate, object)
		}
	}
	return g, nil
}

func rdfXMLSubjectTerm(desc rdfDescription, baseURI string) domain.Term {
	switch {
	case desc.NodeID != "":
		return domain.NewBlankNode(desc.NodeID)
	case desc.About != "":
		return domain.NewIRI(resolveAgainst(baseURI, desc.About))
	default:
		return domain.NewIRI(baseURI)
	}
}

func rdfXMLObjectTerm(prop rdfProperty) (domain.Term, error) {
	switch {
	case prop.NodeID != "":
		return domain.NewBlankNode(prop.NodeID), nil
	case prop.Resource != "":
		return domain.NewIRI(prop.Resource), nil
	case prop.Datatype != "":
		return domain.NewTypedLiteral(strings.TrimSpace(prop.Value), prop.Datatype), nil
	case prop.Lang != "":
		return domain.NewLangLiteral(prop.Value, prop.Lang), nil
	default:
		return domain.NewLiteral(prop.Value), nil
	}
}

func resolveAgainst(baseURI, ref string) string {
	if strings.Contains(ref, "://") {
		return ref
	}
	if strings.HasPrefix(ref, "#") {
		return strings.TrimSuffix(baseURI, "/") + ref
	}
	return ContainerBaseJoin(baseURI, ref)
}

// ContainerBaseJoin joins a relative reference onto a base URI the simple
// way this codec needs (no "../" traversal support - RDF/XML documents this
// server round-trips only ever carry same-resource-relative fragments or
// absolute IRIs).
func ContainerBaseJoin(base, ref string) string {
	if strings.HasSuffix(base, "/") {
		return base + ref
	}
	return base + "/" + ref
}

// SerializeRDFXML writes g as RDF/XML, one rdf:Description per subject.
func SerializeRDFXML(g *domain.Graph) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	fmt.Fprintf(&buf, "<rdf:RDF xmlns:rdf=%q xmlns:ldp=%q xmlns:dcterms=%q>\n", domain.NSRDF, domain.NSLDP, "http://purl.org/dc/terms/")

	for _, s := range g.Subjects() {
		writeRDFXMLDescription(&buf, g, s)
	}

	buf.WriteString("</rdf:RDF>\n")
	return buf.Bytes(), nil
}

func writeRDFXMLDescription(buf *bytes.Buffer, g *domain.Graph, subject domain.Term) {
	switch t := subject.(type) {
	case *domain.BlankNode:
		fmt.Fprintf(buf, "  <rdf:Description rdf:nodeID=%q>\n", xmlEscapeAttr(t.ID))
	default:
		fmt.Fprintf(buf, "  <rdf:Description rdf:about=%q>\n", xmlEscapeAttr(subject.RawValue()))
	}

	for _, t := range g.Match(subject, nil, nil) {
		tag := predicateTag(t.Predicate.RawValue())
		switch obj := t.Object.(type) {
		case *domain.IRI:
			fmt.Fprintf(buf, "    <%s rdf:resource=%q/>\n", tag, xmlEscapeAttr(obj.Value))
		case *domain.BlankNode:
			fmt.Fprintf(buf, "    <%s rdf:nodeID=%q/>\n", tag, xmlEscapeAttr(obj.ID))
		case *domain.Literal:
			writeRDFXMLLiteral(buf, tag, obj)
		}
	}
	buf.WriteString("  </rdf:Description>\n")
}

func writeRDFXMLLiteral(buf *bytes.Buffer, tag string, lit *domain.Literal) {
	switch {
	case lit.Datatype != nil:
		fmt.Fprintf(buf, "    <%s rdf:datatype=%q>%s</%s>\n", tag, xmlEscapeAttr(lit.Datatype.Value), xmlEscapeText(lit.Value), tag)
	case lit.Language != "":
		fmt.Fprintf(buf, "    <%s xml:lang=%q>%s</%s>\n", tag, xmlEscapeAttr(lit.Language), xmlEscapeText(lit.Value), tag)
	default:
		fmt.Fprintf(buf, "    <%s>%s</%s>\n", tag, xmlEscapeText(lit.Value), tag)
	}
}

// predicateTag turns a predicate IRI into a qualified element name,
// preferring the ldp:/rdf: prefixes this writer declares and falling back
// to a generic ns0:-style namespace otherwise.
func predicateTag(iri string) string {
	switch {
	case strings.HasPrefix(iri, domain.NSLDP):
		return "ldp:" + strings.TrimPrefix(iri, domain.NSLDP)
	case strings.HasPrefix(iri, domain.NSRDF):
		return "rdf:" + strings.TrimPrefix(iri, domain.NSRDF)
	case strings.HasPrefix(iri, "http://purl.org/dc/terms/"):
		return "dcterms:" + strings.TrimPrefix(iri, "http://purl.org/dc/terms/")
	default:
		return "p:" + xmlNameEscape(iri)
	}
}

// xmlNameEscape makes an arbitrary IRI safe to use as a fallback XML local
// name (no colons, slashes or hashes), for predicates outside the three
// namespaces this writer knows a short prefix for.
func xmlNameEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func xmlEscapeAttr(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

func xmlEscapeText(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
