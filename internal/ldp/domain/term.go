package domain

import (
	"fmt"
	"strings"
)

// Term is the value of a subject, predicate or object: an IRI, a blank node,
// or a literal. Modeled on deiu/rdf2go's Term contract (String/RawValue/Equal)
// so the rest of the graph machinery can treat all three term kinds uniformly.
type Term interface {
	// String returns the N-Triples representation of this term.
	String() string
	// RawValue returns the term's value without syntactic decoration.
	RawValue() string
	// Equal reports whether this term denotes the same value as other.
	Equal(other Term) bool
}

// IRI is an absolute or relative IRI reference.
type IRI struct {
	Value string
}

// NewIRI returns a new IRI term.
func NewIRI(value string) *IRI {
	return &IRI{Value: value}
}

func (t *IRI) String() string    { return fmt.Sprintf("<%s>", t.Value) }
func (t *IRI) RawValue() string  { return t.Value }
func (t *IRI) Equal(o Term) bool {
	other, ok := o.(*IRI)
	return ok && other.Value == t.Value
}

// BlankNode is an RDF blank node, scoped to the document it was parsed from.
type BlankNode struct {
	ID string
}

// NewBlankNode returns a new blank node term with the given label.
func NewBlankNode(id string) *BlankNode {
	return &BlankNode{ID: id}
}

func (t *BlankNode) String() string    { return "_:" + t.ID }
func (t *BlankNode) RawValue() string  { return t.ID }
func (t *BlankNode) Equal(o Term) bool {
	other, ok := o.(*BlankNode)
	return ok && other.ID == t.ID
}

// Literal is a textual value with an optional language tag or datatype IRI.
// Per RDF, Language and Datatype are mutually exclusive except that a
// language-tagged literal's implicit datatype is rdf:langString.
type Literal struct {
	Value    string
	Language string
	Datatype *IRI
}

// NewLiteral returns a plain (xsd:string) literal.
func NewLiteral(value string) *Literal {
	return &Literal{Value: value}
}

// NewLangLiteral returns a language-tagged literal.
func NewLangLiteral(value, lang string) *Literal {
	return &Literal{Value: value, Language: lang}
}

// NewTypedLiteral returns a literal with an explicit datatype IRI.
func NewTypedLiteral(value, datatypeIRI string) *Literal {
	return &Literal{Value: value, Datatype: NewIRI(datatypeIRI)}
}

func (t *Literal) String() string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range t.Value {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	if t.Language != "" {
		b.WriteString("@" + t.Language)
	} else if t.Datatype != nil {
		b.WriteString("^^" + t.Datatype.String())
	}
	return b.String()
}

func (t *Literal) RawValue() string { return t.Value }

func (t *Literal) Equal(o Term) bool {
	other, ok := o.(*Literal)
	if !ok {
		return false
	}
	if t.Value != other.Value || t.Language != other.Language {
		return false
	}
	switch {
	case t.Datatype == nil && other.Datatype == nil:
		return true
	case t.Datatype == nil || other.Datatype == nil:
		return false
	default:
		return t.Datatype.Equal(other.Datatype)
	}
}

// Triple is a single RDF statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewTriple builds a Triple, for callers that construct one outside a
// Graph (e.g. the application layer assembling a Store.InsertData
// argument).
func NewTriple(s, p, o Term) *Triple {
	return &Triple{Subject: s, Predicate: p, Object: o}
}

// key returns a canonical identity string for deduplication (I1: a graph is
// duplicate-free by triple identity, not by pointer identity).
func (t *Triple) key() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String()
}
