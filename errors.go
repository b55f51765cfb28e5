package entitree

import "errors"

// ErrEntityIDExhausted is returned by Add when the World's 32-bit id space
// is exhausted. It is the only failure mode Add has; ids are never reused
// on wraparound.
var ErrEntityIDExhausted = errors.New("entitree: entity id space exhausted")
