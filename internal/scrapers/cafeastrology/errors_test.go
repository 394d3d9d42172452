package cafeastrology

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestTransportErrorBody(t *testing.T) {
	short := TransportError{Url: "u", Reason: "503", Body: "down"}
	require.Equal(t, "request u: 503: down", short.Error())

	// "é" is two bytes, the cut would otherwise land in its middle
	body := strings.Repeat("a", maxErrorBody-1) + "é" + "tail"
	long := TransportError{Url: "u", Reason: "503", Body: body}
	message := long.Error()

	require.True(t, utf8.ValidString(message), "%q", message)
	require.True(t, strings.HasSuffix(message, strings.Repeat("a", maxErrorBody-1)+"..."))
	require.NotContains(t, message, "tail")

	exact := TransportError{Url: "u", Reason: "503", Body: strings.Repeat("b", maxErrorBody+1)}
	require.True(t, strings.HasSuffix(exact.Error(), ": "+strings.Repeat("b", maxErrorBody)+"..."))
}
