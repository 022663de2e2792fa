package id

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a ULID string (time-sortable identifier) used to tag
// comparison runs in logs and API responses.
func New() string {
	return ulid.Make().String()
}

// Time returns the creation time encoded in a run id.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()).UTC(), nil
}
