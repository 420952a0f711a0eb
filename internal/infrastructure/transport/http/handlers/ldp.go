package handlers

import (
	"net/http"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/gorilla/mux"

	"github.com/akeemphilbert/goro/internal/ldp/application"
)

// ResourcePathVar is the gorilla/mux route variable NewResourceRouter
// captures the resource-local path into; LDPHandler reads it back via
// mux.Vars rather than re-parsing r.URL.Path itself.
const ResourcePathVar = "resource"

// LDPHandler adapts the Resource Controller to net/http, the counterpart to
// the teacher's ResourceHandler/ContainerHandler pair - but since every LDP
// interaction model is dispatched by the one Controller, there is only one
// handler here instead of two.
type LDPHandler struct {
	controller *application.Controller
	baseURL    string
	logger     *log.Helper
}

// NewLDPHandler builds an LDPHandler. baseURL is the scheme+host+context-path
// prefix (e.g. "http://localhost:8080/r") that ServeHTTP prepends to the
// mux-captured path to form the resource's effective absolute URI - the
// Resource Controller and every domain component downstream of it work
// entirely in terms of absolute URIs, never relative paths.
func NewLDPHandler(controller *application.Controller, baseURL string, logger log.Logger) *LDPHandler {
	return &LDPHandler{
		controller: controller,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     log.NewHelper(logger),
	}
}

// ServeHTTP decodes r into an application.Request, runs it through the
// Resource Controller, and copies the resulting Response (or mapped error)
// onto w.
func (h *LDPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resourcePath := strings.TrimPrefix(mux.Vars(r)[ResourcePathVar], "/")
	url := h.baseURL + "/" + resourcePath

	req, err := application.DecodeRequest(r, url)
	if err != nil {
		h.logger.Log(log.LevelWarn, "msg", "failed to decode request", "error", err.Error())
		writeError(w, err)
		return
	}

	resp, err := h.controller.Handle(r.Context(), req)
	if err != nil {
		level := log.LevelWarn
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			level = log.LevelInfo
		}
		h.logger.Log(level, "msg", "ldp request failed", "method", r.Method, "url", url, "error", err.Error())
		writeError(w, err)
		return
	}

	header := w.Header()
	for key, values := range resp.Headers {
		for _, v := range values {
			header.Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}
