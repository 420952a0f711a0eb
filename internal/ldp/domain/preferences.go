package domain

import (
	"regexp"
	"strings"
)

// Preference is the parsed form of a Prefer request header's
// return=representation parameter (spec §4.3).
type Preference struct {
	ReturnRepresentation bool
	Minimal              bool
	IncludeContainment   bool
	OmitContainment      bool
	IncludeMembership    bool
	OmitMembership       bool
	// Explicit records whether the client sent a Prefer header at all,
	// distinct from Minimal/Include/Omit all being false by default - the
	// controller echoes Preference-Applied on a GET of a non-container
	// membership resource whenever it is set (spec §4.3, last paragraph).
	Explicit bool
}

// ParsePreference parses a raw Prefer header value into a Preference. An
// empty header yields the zero value (nothing explicit, nothing minimal).
func ParsePreference(header string) Preference {
	var p Preference
	if strings.TrimSpace(header) == "" {
		return p
	}
	p.Explicit = true

	lower := header
	if strings.Contains(lower, "return=representation") {
		p.ReturnRepresentation = true
	}
	if strings.Contains(lower, "return=minimal") {
		p.Minimal = true
	}

	p.IncludeContainment = tokenPresent(header, "include", LDPPreferContainment)
	p.OmitContainment = tokenPresent(header, "omit", LDPPreferContainment)
	p.IncludeMembership = tokenPresent(header, "include", LDPPreferMembership)
	p.OmitMembership = tokenPresent(header, "omit", LDPPreferMembership)

	if tokenPresent(header, "include", LDPPreferMinimalContainer) || tokenPresent(header, "include", LDPPreferEmptyContainer) {
		p.Minimal = true
	}
	if tokenPresent(header, "omit", LDPPreferMinimalContainer) || tokenPresent(header, "omit", LDPPreferEmptyContainer) {
		p.Minimal = false
	}

	return p
}

// tokenPresent reports whether the named Prefer parameter (include= or
// omit=) lists token among its space-separated values, whether bare or
// inside a quoted list. The only regex-sensitive character inside an LDP
// preference token is '.', which QuoteMeta escapes (spec §4.3).
func tokenPresent(header, param, token string) bool {
	pattern := param + `\s*=\s*"?([^";]*)"?`
	re := regexp.MustCompile(pattern)
	matches := re.FindAllStringSubmatch(header, -1)
	escaped := regexp.QuoteMeta(token)
	tokenRe := regexp.MustCompile(`(^|\s)` + escaped + `(\s|$)`)
	for _, m := range matches {
		if tokenRe.MatchString(" " + m[1] + " ") {
			return true
		}
	}
	return false
}

// ContainmentDecision implements the decision table in spec §4.3 for
// whether containment triples should be emitted.
func (p Preference) ContainmentDecision() bool {
	switch {
	case p.IncludeContainment:
		return true
	case p.OmitContainment:
		return false
	case p.Minimal:
		return false
	default:
		return true
	}
}

// MembershipDecision implements the analogous decision table for
// membership triples (only meaningful when the container declares
// hasMemberRelation).
func (p Preference) MembershipDecision() bool {
	switch {
	case p.IncludeMembership:
		return true
	case p.OmitMembership:
		return false
	case p.Minimal:
		return false
	default:
		return true
	}
}

// Applied reports whether any of the preference tokens this package
// recognizes were honored, which is when the controller must echo back
// Preference-Applied: return=representation (spec §4.3).
func (p Preference) Applied() bool {
	return p.IncludeContainment || p.OmitContainment || p.IncludeMembership || p.OmitMembership || p.Minimal
}

// InsertCalculatedTriples runs the Calculated-Triple Inserter (spec §4.3)
// against a read-path response graph. members is the list of direct
// children returned by the backend for a container; reverse
// is the (possibly empty) set of Direct Containers that name r as their
// MembershipResource, each with its own members and hasMemberRelation,
// supplied by the backend via Resource.MembershipResourceFor plus a lookup
// the caller performs.
func InsertCalculatedTriples(g *Graph, r *Resource, members []string, pref Preference, reverse []MembershipSource) {
	subject := NewIRI(r.URI)

	if r.InteractionModel.IsContainer() && pref.ContainmentDecision() {
		for _, m := range members {
			g.Add(subject, NewIRI(LDPContains), NewIRI(m))
		}
	}

	if r.InteractionModel == DirectContainer && r.HasMemberRelation != "" && pref.MembershipDecision() {
		mr := NewIRI(r.MembershipResource)
		rel := NewIRI(r.HasMemberRelation)
		for _, m := range members {
			g.Add(mr, rel, NewIRI(m))
		}
	}

	if len(reverse) > 0 && pref.MembershipDecision() {
		for _, src := range reverse {
			rel := NewIRI(src.HasMemberRelation)
			for _, m := range src.Members {
				g.Add(subject, rel, NewIRI(m))
			}
		}
	}
}

// MembershipSource describes one Direct Container that names a resource as
// its membership resource, for the membership-reverse block of
// InsertCalculatedTriples.
type MembershipSource struct {
	ContainerURI      string
	HasMemberRelation string
	Members           []string
}
