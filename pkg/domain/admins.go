package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Admin set
// ---------------------------------------------------------------------------

// AdminSet is the set of user IDs exempt from moderation. Loaded once at
// startup, immutable afterwards. Membership grants nothing beyond the
// moderation bypass and the /admin panel button.
type AdminSet map[UserID]struct{}

// NewAdminSet builds a set from explicit IDs.
func NewAdminSet(ids ...UserID) AdminSet {
	s := make(AdminSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether the user is an admin.
func (s AdminSet) Contains(id UserID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of admins.
func (s AdminSet) Len() int { return len(s) }

// ParseAdminList parses a comma-separated ID list ("123, 456"). A non-
// numeric entry fails the whole parse; the caller is expected to log the
// error and fall back to an empty set rather than abort startup.
func ParseAdminList(raw string) (AdminSet, error) {
	s := AdminSet{}
	if strings.TrimSpace(raw) == "" {
		return s, nil
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return AdminSet{}, fmt.Errorf("admin list entry %q is not a numeric id", part)
		}
		s[UserID(id)] = struct{}{}
	}
	return s, nil
}
