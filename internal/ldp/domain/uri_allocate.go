package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
)

// slugCharRe matches characters a sanitized Slug segment is allowed to
// keep (spec §4.5: "reduce s to characters matching [\w\s\-_]").
var slugCharRe = regexp.MustCompile(`[\w\s\-_]`)

// ContainerBase strips any hash and query from a container URI and
// ensures it ends in exactly one trailing slash, the base every new
// member URI is built against.
func ContainerBase(containerURI string) string {
	if i := strings.IndexAny(containerURI, "#?"); i >= 0 {
		containerURI = containerURI[:i]
	}
	if !strings.HasSuffix(containerURI, "/") {
		containerURI += "/"
	}
	return containerURI
}

// SanitizeSlug reduces a client-supplied Slug to the characters spec §4.5
// allows and percent-encodes the result. An empty return means the slug
// was empty or entirely disallowed characters; callers must fall back.
func SanitizeSlug(slug string) string {
	var b strings.Builder
	for _, r := range slug {
		if slugCharRe.MatchString(string(r)) {
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return ""
	}
	return url.PathEscape(cleaned)
}

// CandidateURI builds the URI SanitizeSlug(slug) would occupy under
// container, without reserving it.
func CandidateURI(containerURI, slug string) string {
	return ContainerBase(containerURI) + slug
}

// FallbackURI returns the attempt-th fallback candidate for a new member of
// container when the sanitized slug was empty or already taken (spec
// §4.5). Attempt 0 is the literal "res<current-millis>" the spec names;
// later attempts (spec: "bounded... cap, implementation's choice, >= 3")
// switch to a ksuid suffix, which embeds a seconds timestamp plus 128
// random bits and so stays collision-resistant across the remaining
// retries without reusing the same clock reading.
func FallbackURI(containerURI string, attempt int) string {
	base := ContainerBase(containerURI)
	if attempt == 0 {
		return base + fmt.Sprintf("res%d", time.Now().UnixMilli())
	}
	return base + "res" + ksuid.New().String()
}

// MaxAllocationAttempts bounds the reserve-retry loop (spec §4.5: "a
// reasonable cap ... >= 3").
const MaxAllocationAttempts = 5
