package domain

import "errors"

// ErrEmptyQuestion is returned when a submitted question is blank.
var ErrEmptyQuestion = errors.New("question is empty")

// ErrGroupNotFound is returned when a group index or id does not exist.
var ErrGroupNotFound = errors.New("group not found")

// ErrItemNotFound is returned when an item index or id does not exist.
var ErrItemNotFound = errors.New("item not found")

// ErrSimplifyInFlight is returned when an item already has a pending simplification.
var ErrSimplifyInFlight = errors.New("simplification already in progress")

// ErrItemUnderstood is returned when simplifying an item the user already understands.
var ErrItemUnderstood = errors.New("item already understood")

// ErrSnapshotNotFound is returned by stores when no snapshot exists for a key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrOracleUnavailable is returned when the completion oracle is not configured.
var ErrOracleUnavailable = errors.New("oracle unavailable")
