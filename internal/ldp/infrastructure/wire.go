package infrastructure

import "github.com/google/wire"

// InfrastructureSet is the wire provider set for this package, the
// counterpart to the teacher's infrastructure.InfrastructureSet.
var InfrastructureSet = wire.NewSet(NewStore)
