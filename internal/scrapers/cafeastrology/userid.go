package cafeastrology

import (
	"fmt"
	"strings"
)

// UserId is the identifier the service assigns to a submitted chart.
type UserId string

const userIdMarker = "/synastry.php?&index="

// ExtractUserId finds the id of a submitted chart in the chart page, it is
// only present in the link to the synastry page.
func ExtractUserId(doc string) (UserId, error) {
	start := strings.LastIndex(doc, userIdMarker)
	if start < 0 {
		return "", fmt.Errorf("%w: no %q link", ErrIdentifierNotFound, userIdMarker)
	}
	rest := doc[start+len(userIdMarker):]

	end := strings.Index(rest, "&")
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated %q link", ErrIdentifierNotFound, userIdMarker)
	}
	return ParseUserId(rest[:end])
}

// ParseUserId checks that `value` has the shape of a user id, a non-empty
// string of digits.
func ParseUserId(value string) (UserId, error) {
	if value == "" || strings.IndexFunc(value, isNotDigit) >= 0 {
		return "", fmt.Errorf("%w: %q is not a user id", ErrIdentifierNotFound, value)
	}
	return UserId(value), nil
}

func isNotDigit(r rune) bool {
	return r < '0' || r > '9'
}
