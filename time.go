package capcall

import (
	"encoding/json"
	"time"

	"github.com/iov-one/capcall/errors"
)

// UnixTime is a point in time with a precision of one second, such as the
// due date of a capital call. It is stored as a protobuf varint.
type UnixTime int64

// AsUnixTime drops the sub-second part of t.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// ParseUnixTime reads an RFC 3339 timestamp. Fractional seconds are
// accepted and dropped.
func ParseUnixTime(s string) (UnixTime, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "time %q is not RFC 3339", s)
	}
	ut := AsUnixTime(t)
	return ut, ut.Validate()
}

// Time returns t in UTC.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// IsZero is true when no time is set.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Validate rejects times before the Unix epoch.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrapf(errors.ErrInput, "time %d before epoch", int64(t))
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().Format(time.RFC3339)
}

// UnmarshalJSON accepts seconds since the epoch or an RFC 3339 string.
// Genesis files use the string form.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var secs int64
	if err := json.Unmarshal(raw, &secs); err == nil {
		ut := UnixTime(secs)
		if err := ut.Validate(); err != nil {
			return err
		}
		*t = ut
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "time is neither a number nor a string")
	}
	ut, err := ParseUnixTime(s)
	if err != nil {
		return err
	}
	*t = ut
	return nil
}
