//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"

	"github.com/akeemphilbert/goro/internal/conf"
	httpServer "github.com/akeemphilbert/goro/internal/infrastructure/transport/http"
	"github.com/akeemphilbert/goro/internal/infrastructure/transport/http/handlers"
	"github.com/akeemphilbert/goro/internal/ldp/application"
	"github.com/akeemphilbert/goro/internal/ldp/infrastructure"
)

// wireApp init kratos application.
func wireApp(*conf.Bootstrap, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(ProviderSet, newAppWithCleanup))
}

// ProviderSet is the provider set for Wire dependency injection. There is no
// gRPC surface: the LDP protocol core is HTTP-only (spec §1's Non-goals),
// so unlike the teacher this set never builds a *grpc.Server.
var ProviderSet = wire.NewSet(
	handlers.ProviderSet,
	application.ProviderSet,
	infrastructure.InfrastructureSet,
	httpServer.NewHTTPServer,
	newConstraintsURL,
	newBaseURL,
	wire.FieldsOf(new(*conf.Bootstrap), "Server", "LDP"),
	wire.FieldsOf(new(*conf.Server), "HTTP", "GRPC"),
)

func newConstraintsURL(c *conf.LDP) string { return c.ConstraintsURL }
func newBaseURL(c *conf.LDP) string        { return c.BaseURL + c.ContextPath }
