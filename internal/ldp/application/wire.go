package application

import "github.com/google/wire"

// ProviderSet is the wire provider set for the application layer, the
// counterpart to the teacher's application.ProviderSet
// (internal/ldp/application exists in the teacher repo purely as this
// kind of wire.NewSet grouping).
var ProviderSet = wire.NewSet(NewController)
