package models

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	// ErrApplicationID is returned when a request targets another skill.
	ErrApplicationID = errors.New("unexpected application id")
	// ErrStaleRequest is returned when a request timestamp is missing, malformed or too old.
	ErrStaleRequest = errors.New("request timestamp out of tolerance")
)

// DefaultTimestampTolerance is the skew the platform allows.
const DefaultTimestampTolerance = 150 * time.Second

// Checker rejects requests not meant for this skill. Zero values disable the
// corresponding check.
type Checker struct {
	ApplicationIDs []string
	Tolerance      time.Duration
	Now            func() time.Time
}

func (c Checker) Check(req Request) error {
	if len(c.ApplicationIDs) > 0 {
		id := req.ApplicationID()
		if !slices.Contains(c.ApplicationIDs, id) {
			return fmt.Errorf("%w: %q", ErrApplicationID, id)
		}
	}

	if c.Tolerance <= 0 {
		return nil
	}

	ts, err := time.Parse(time.RFC3339, req.Request.Timestamp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStaleRequest, err)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	skew := now().Sub(ts)
	if skew < 0 {
		skew = -skew
	}
	if skew > c.Tolerance {
		return fmt.Errorf("%w: skew %s", ErrStaleRequest, skew)
	}
	return nil
}
