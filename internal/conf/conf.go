package conf

import "time"

// Bootstrap is the configuration structure for the application, scanned from
// the Kratos config tree built in cmd/server/main.go (a YAML file source
// overlaid by an LDP_-prefixed environment source).
type Bootstrap struct {
	Server *Server `yaml:"server"`
	LDP    *LDP    `yaml:"ldp"`
}

// Server holds the server configuration
type Server struct {
	HTTP *HTTP `yaml:"http"`
	GRPC *GRPC `yaml:"grpc"`
}

// HTTP holds the HTTP server configuration
type HTTP struct {
	Network         string        `yaml:"network"`
	Addr            string        `yaml:"addr"`
	Timeout         time.Duration `yaml:"timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// GRPC holds the gRPC server configuration
type GRPC struct {
	Network string        `yaml:"network"`
	Addr    string        `yaml:"addr"`
	Timeout time.Duration `yaml:"timeout"`
}

// LDP holds the configuration specific to the LDP protocol core: where
// resources live in the URL space, what absolute base URL they're served
// under, which document the constrainedBy Link header names, and which
// backend persists resources.
type LDP struct {
	// ContextPath is the URL path prefix resources are served under,
	// e.g. "/r". Requests outside this prefix (health checks) never
	// reach the Resource Controller.
	ContextPath string `yaml:"context_path"`
	// BaseURL is the scheme+host this process is reachable at, used to
	// compute a request's effective absolute resource URI (ContextPath
	// is appended to it once, at startup, not per request).
	BaseURL string `yaml:"base_url"`
	// ConstraintsURL is the document the ldp#constrainedBy Link header
	// on every response points at (spec §4.4).
	ConstraintsURL string `yaml:"constraints_url"`
	// Backend selects the domain.Store implementation: "memory" or
	// "gorm". DSN is passed to the chosen gorm driver unmodified.
	Backend *Backend `yaml:"backend"`
}

// Backend selects and configures the domain.Store implementation.
type Backend struct {
	Type   string `yaml:"type"`   // "memory" or "gorm"
	Driver string `yaml:"driver"` // "sqlite" or "postgres", when Type is "gorm"
	DSN    string `yaml:"dsn"`
}
