package handlers

import (
	"net/http"

	"github.com/akeemphilbert/goro/internal/ldp/domain"
)

// Errors returned by HealthHandler.Status for a missing id and for the
// "notfound" id.
var (
	ErrInvalidRequest   = domain.NewError(domain.KindBadRequest, "missing id path parameter")
	ErrResourceNotFound = domain.NewError(domain.KindNotFound, "resource not found")
)

// statusForKind is the one place a domain.Kind becomes an HTTP status code,
// mirroring the teacher's handleStorageError dispatch table
// (handlers/errors.go in the original tree mapped Kratos error reasons the
// same way).
func statusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case domain.KindUnacceptableMedia:
		return http.StatusNotAcceptable
	case domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindInvalidLDPPattern:
		return http.StatusConflict
	case domain.KindPreconditionRequired:
		return http.StatusPreconditionRequired
	case domain.KindPreconditionFailed:
		return http.StatusPreconditionFailed
	case domain.KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case domain.KindConflictURITaken:
		return http.StatusConflict
	case domain.KindBackendFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as an LDP-appropriate HTTP response. A *domain.Error
// is mapped through statusForKind with its message as a small JSON problem
// body; anything else (a transport-level failure the controller never saw)
// is an opaque 500, matching the teacher's generic-error branch in
// ErrorHandler.HandleError.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)
	if kind == "" {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + string(kind) + `","message":"` + jsonEscape(err.Error()) + `"}`))
}

func jsonEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			out = append(out, '\\', c)
		case '\n':
			out = append(out, '\\', 'n')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
