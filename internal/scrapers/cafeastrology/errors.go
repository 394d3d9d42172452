package cafeastrology

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var ErrIdentifierNotFound = errors.New("remote user id not found in chart page")

const maxErrorBody = 512

// TransportError is returned when a request to the service fails or responds
// with anything other than 200.
type TransportError struct {
	Url    string
	Status int
	Reason string
	Body   string
	// Err is set when the request never got a response.
	Err error
}

func (e TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request %s: %s", e.Url, e.Err)
	}
	return fmt.Sprintf("request %s: %s: %s", e.Url, e.Reason, truncateBody(e.Body))
}

// truncateBody cuts body to at most maxErrorBody bytes without splitting a
// rune.
func truncateBody(body string) string {
	if len(body) <= maxErrorBody {
		return body
	}
	end := maxErrorBody
	for end > 0 && !utf8.RuneStart(body[end]) {
		end--
	}
	return body[:end] + "..."
}

func (e TransportError) Unwrap() error {
	return e.Err
}
