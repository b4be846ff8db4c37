// Package etag implements the version/precondition engine: a row's integer
// version is exposed as a quoted ETag and every mutating endpoint must send
// it back in If-Match.
package etag

import (
	"strconv"
	"strings"

	"github.com/newwork/core-api/internal/server/httperr"
)

// ToETag renders a row version as a quoted entity tag, e.g. 3 -> "\"3\"".
func ToETag(version int) string {
	return `"` + strconv.Itoa(version) + `"`
}

// RequireAndParse validates the If-Match header. A missing/blank header
// fails with 428 if_match_required; a header that is not a (possibly
// quoted) base-10 integer fails with 412 bad_if_match.
func RequireAndParse(ifMatch string) (int, error) {
	s := strings.TrimSpace(ifMatch)
	if s == "" {
		return 0, httperr.IfMatchRequired()
	}
	// strip exactly one surrounding quote pair; inner quotes stay and fail Atoi
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, httperr.BadIfMatch()
	}
	return v, nil
}

// AssertMatches runs the full precondition check against the row's current
// version. A parseable but stale value fails with 409 version_mismatch
// carrying the current version so the client can re-read and retry.
func AssertMatches(currentVersion int, ifMatch string) error {
	expected, err := RequireAndParse(ifMatch)
	if err != nil {
		return err
	}
	if expected != currentVersion {
		return &httperr.VersionMismatchError{Current: currentVersion}
	}
	return nil
}
