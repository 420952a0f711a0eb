package handlers

import "github.com/google/wire"

// ProviderSet is the wire provider set for this package, the counterpart to
// the teacher's handlers.ProviderSet.
var ProviderSet = wire.NewSet(NewHealthHandler, NewLDPHandler)
