/*
Package view implements the screen routing of the application.

The controller holds a two-valued selector (login/register) and derives the current
screen from it and from session presence: an active session always routes to the chat
screen, otherwise the selector decides between login and registration.
*/
package view

import (
	"sync"

	"friendhub/internal/app/identity"
	"friendhub/internal/pkg/errs"
)

// Screen names the three screens of the application.
type Screen string

const (
	ScreenLogin    Screen = "login"
	ScreenRegister Screen = "register"
	ScreenChat     Screen = "chat"
)

// Controller decides which screen is shown.
type Controller struct {
	identity *identity.Service

	mu       sync.RWMutex
	selector Screen
}

// NewController creates a Controller with the login screen selected.
func NewController(ident *identity.Service) *Controller {
	return &Controller{
		identity: ident,
		selector: ScreenLogin,
	}
}

// Current returns the screen to show: chat when a session is active, otherwise the
// selected login or registration screen.
func (c *Controller) Current() Screen {
	if _, ok := c.identity.Current(); ok {
		return ScreenChat
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.selector
}

// Navigate switches the selector between the login and registration screens.
// The chat screen cannot be navigated to directly; it is entered by session presence.
func (c *Controller) Navigate(target Screen) *errs.CustomError {
	if target != ScreenLogin && target != ScreenRegister {
		return errs.NewError(errs.ErrInvalidScreen)
	}

	c.mu.Lock()
	c.selector = target
	c.mu.Unlock()

	return nil
}
