package session

import "errors"

// ErrStoreFull is returned when the store has reached its session cap
// and no expired session could be evicted.
var ErrStoreFull = errors.New("session store is full")
