package repository

import "errors"

// ErrAlreadyExists is returned from Create when a unique constraint is
// violated. Missing rows are not an error: lookups return an absent result
// and Update/Delete report false.
var ErrAlreadyExists = errors.New("error already exists")
