package domain

import "fmt"

type SkipReason string

const (
	SkipMalformed   SkipReason = "malformed"
	SkipUnreadable  SkipReason = "unreadable"
	SkipUnavailable SkipReason = "unavailable"
)

// Skip records a record or collection left out of a batch read.
type Skip struct {
	Namespace Namespace
	Key       string
	Reason    SkipReason
	Err       error
}

func (s Skip) String() string {
	if s.Err == nil {
		return fmt.Sprintf("%s/%s: %s", s.Namespace, s.Key, s.Reason)
	}
	return fmt.Sprintf("%s/%s: %s: %v", s.Namespace, s.Key, s.Reason, s.Err)
}
