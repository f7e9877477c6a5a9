package storage

import "errors"

// ErrSourceUnavailable is returned when the document source cannot be
// listed or read at all: unreachable endpoint, failed authentication,
// or a missing bucket. It is distinct from a successfully listed prefix
// that simply contains zero documents, which is a valid outcome.
var ErrSourceUnavailable = errors.New("document source unavailable")
