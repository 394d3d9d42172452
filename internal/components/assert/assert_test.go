package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type service interface {
	Name() string
}

type client struct{}

func (*client) Name() string { return "client" }

func TestNotNil(t *testing.T) {
	require.Panics(t, func() { NotNil(nil) })

	var typed *client
	var svc service = typed
	require.Panics(t, func() { NotNil(svc) })

	var m map[string]string
	require.Panics(t, func() { NotNil(m) })

	require.NotPanics(t, func() { NotNil(&client{}) })
	require.NotPanics(t, func() { NotNil(struct{}{}) })
	require.NotPanics(t, func() { NotNil(3) })
}

func TestNotEmptyStr(t *testing.T) {
	require.Panics(t, func() { NotEmptyStr("") })
	require.NotPanics(t, func() { NotEmptyStr("x") })
}
