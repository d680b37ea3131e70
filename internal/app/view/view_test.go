package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendhub/internal/app/identity"
	"friendhub/internal/app/store"
	"friendhub/internal/pkg/errs"
	"friendhub/internal/pkg/randx"
)

func newTestController(t *testing.T) (*Controller, *identity.Service) {
	t.Helper()

	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	ident := identity.NewService(st)
	t.Cleanup(ident.Close)

	return NewController(ident), ident
}

func TestCurrent_DefaultsToLogin(t *testing.T) {
	c, _ := newTestController(t)

	assert.Equal(t, ScreenLogin, c.Current())
}

func TestNavigate_SwitchesBetweenLoginAndRegister(t *testing.T) {
	c, _ := newTestController(t)

	require.Nil(t, c.Navigate(ScreenRegister))
	assert.Equal(t, ScreenRegister, c.Current())

	require.Nil(t, c.Navigate(ScreenLogin))
	assert.Equal(t, ScreenLogin, c.Current())
}

func TestNavigate_RejectsUnknownScreen(t *testing.T) {
	c, _ := newTestController(t)

	customErr := c.Navigate(ScreenChat)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrInvalidScreen, customErr.Code)

	customErr = c.Navigate(Screen("settings"))
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrInvalidScreen, customErr.Code)
}

func TestCurrent_SessionPresenceWinsOverSelector(t *testing.T) {
	c, ident := newTestController(t)

	_, customErr := ident.Register("somchai", randx.Avatars[0])
	require.Nil(t, customErr)

	assert.Equal(t, ScreenChat, c.Current())

	// The selector still applies once the session ends.
	require.Nil(t, c.Navigate(ScreenRegister))
	ident.Logout()
	assert.Equal(t, ScreenRegister, c.Current())
}
