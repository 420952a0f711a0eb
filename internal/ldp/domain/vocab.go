package domain

// Well-known vocabulary terms used throughout the analyzer, the
// calculated-triple inserter and the HTTP Link headers the controller emits.
const (
	NSLDP = "http://www.w3.org/ns/ldp#"
	NSRDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	RDFType = NSRDF + "type"

	LDPResource        = NSLDP + "Resource"
	LDPRDFSource       = NSLDP + "RDFSource"
	LDPBasicContainer  = NSLDP + "BasicContainer"
	LDPDirectContainer = NSLDP + "DirectContainer"

	LDPContains            = NSLDP + "contains"
	LDPMembershipResource  = NSLDP + "membershipResource"
	LDPHasMemberRelation   = NSLDP + "hasMemberRelation"
	LDPIsMemberOfRelation  = NSLDP + "isMemberOfRelation"

	LDPConstrainedBy = NSLDP + "constrainedBy"

	LDPPreferContainment     = NSLDP + "PreferContainment"
	LDPPreferMembership      = NSLDP + "PreferMembership"
	LDPPreferMinimalContainer = NSLDP + "PreferMinimalContainer"
	LDPPreferEmptyContainer  = NSLDP + "PreferEmptyContainer" // alias of PreferMinimalContainer
)

// InteractionModel classifies a resource per spec.md §3/§4.2.
type InteractionModel string

const (
	RDFSource       InteractionModel = "RDFSource"
	BasicContainer  InteractionModel = "BasicContainer"
	DirectContainer InteractionModel = "DirectContainer"
)

// IsContainer reports whether the model is one of the two container kinds.
func (m InteractionModel) IsContainer() bool {
	return m == BasicContainer || m == DirectContainer
}

// TypeIRI returns the rdf:type object identifying this interaction model,
// or "" for RDFSource (a plain resource has no required type triple).
func (m InteractionModel) TypeIRI() string {
	switch m {
	case BasicContainer:
		return LDPBasicContainer
	case DirectContainer:
		return LDPDirectContainer
	default:
		return ""
	}
}
