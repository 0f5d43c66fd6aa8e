package csvledger

import "errors"

var (
	// ErrMalformed reports CSV text that cannot be parsed, such as an
	// unterminated quoted field. Malformed input is never silently truncated.
	ErrMalformed = errors.New("malformed csv")

	// ErrInvalidKey reports an unusable key column set. It is returned before
	// any filesystem access.
	ErrInvalidKey = errors.New("invalid key columns")

	// ErrIO reports a filesystem failure while reading or writing a ledger.
	ErrIO = errors.New("ledger io")
)
