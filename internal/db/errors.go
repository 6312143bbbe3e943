package db

import "errors"

// ErrNotFound is returned by every repository when a document does not exist.
// Services check for it with errors.Is and translate it to their own sentinel.
var ErrNotFound = errors.New("document not found")
