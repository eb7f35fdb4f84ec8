package model

import "errors"

// ErrNotFound marks an entity absent in the source or target system.
// Absence is expected on the upsert path and not treated as a failure
// by itself.
var ErrNotFound = errors.New("not found")
