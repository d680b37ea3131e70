package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendhub/internal/app/chat"
	"friendhub/internal/app/identity"
	"friendhub/internal/app/store"
	"friendhub/internal/app/tabs"
	"friendhub/internal/app/view"
	"friendhub/internal/configs"
	"friendhub/internal/pkg/errs"
	"friendhub/internal/pkg/randx"
)

// stubGenerator returns a fixed result for every generation request.
type stubGenerator struct {
	reply string
	err   error
}

func (g *stubGenerator) GenerateText(context.Context, string) (string, error) {
	return g.reply, g.err
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// testApp wires the full application against a temp-dir store and a stub generator.
type testApp struct {
	router http.Handler
	log    *chat.Log
}

func newTestApp(t *testing.T, gen chat.Generator) *testApp {
	t.Helper()

	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	ident := identity.NewService(st)
	t.Cleanup(ident.Close)

	chatLog := chat.NewLog(st, ident, gen)
	t.Cleanup(chatLog.Close)

	hub := tabs.NewHub()
	t.Cleanup(hub.Shutdown)
	t.Cleanup(hub.BindStore(st))

	cfg := &configs.AppConfig{
		Environment:    "development",
		Port:           8080,
		AllowedOrigins: []string{},
		DataDir:        t.TempDir(),
	}

	deps := &AppDeps{
		Config:   cfg,
		Identity: ident,
		Log:      chatLog,
		Hub:      hub,
		View:     view.NewController(ident),
	}

	return &testApp{
		router: Router(deps),
		log:    chatLog,
	}
}

func (a *testApp) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())

	return rec, env
}

func (a *testApp) register(t *testing.T, username string) {
	t.Helper()

	rec, env := a.do(t, http.MethodPost, "/api/auth/register", RegisterInput{
		Username: username,
		Avatar:   randx.Avatars[0],
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 0, env.Code)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, &stubGenerator{})

	rec, env := app.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, env.Code)
}

func TestRegisterLoginFlow(t *testing.T) {
	app := newTestApp(t, &stubGenerator{})

	app.register(t, "somchai")

	// Session reflects the registered user.
	rec, env := app.do(t, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var session struct {
		User *identity.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotNil(t, session.User)
	assert.Equal(t, "somchai", session.User.Username)

	// Duplicate registration conflicts.
	rec, env = app.do(t, http.MethodPost, "/api/auth/register", RegisterInput{
		Username: "somchai",
		Avatar:   randx.Avatars[1],
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, errs.ErrUsernameTaken, env.Code)

	// Logout clears the session.
	rec, _ = app.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, env = app.do(t, http.MethodGet, "/api/session", nil)
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.Nil(t, session.User)

	// Login restores it.
	rec, _ = app.do(t, http.MethodPost, "/api/auth/login", LoginInput{Username: "somchai"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Unknown user cannot log in.
	rec, env = app.do(t, http.MethodPost, "/api/auth/login", LoginInput{Username: "nobody"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errs.ErrUserNotFound, env.Code)
}

func TestListUsers_IncludesAvatarSet(t *testing.T) {
	app := newTestApp(t, &stubGenerator{})
	app.register(t, "somchai")

	rec, env := app.do(t, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Users   []identity.User `json:"users"`
		Avatars []string        `json:"avatars"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.Len(t, payload.Users, 1)
	assert.Equal(t, randx.Avatars, payload.Avatars)
}

func TestViewRouting(t *testing.T) {
	app := newTestApp(t, &stubGenerator{})

	screenOf := func(env envelope) string {
		var payload struct {
			Screen string `json:"screen"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &payload))
		return payload.Screen
	}

	_, env := app.do(t, http.MethodGet, "/api/view", nil)
	assert.Equal(t, "login", screenOf(env))

	rec, env := app.do(t, http.MethodPost, "/api/view/navigate", NavigateInput{Screen: "register"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "register", screenOf(env))

	rec, env = app.do(t, http.MethodPost, "/api/view/navigate", NavigateInput{Screen: "chat"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.ErrInvalidScreen, env.Code)

	// Session presence overrides the selector.
	app.register(t, "somchai")
	_, env = app.do(t, http.MethodGet, "/api/view", nil)
	assert.Equal(t, "chat", screenOf(env))
}

func TestSendMessage_RequiresSession(t *testing.T) {
	app := newTestApp(t, &stubGenerator{})

	rec, env := app.do(t, http.MethodPost, "/api/chat/send", SendMessageInput{Text: "hello everyone"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, errs.ErrSessionRequired, env.Code)
}

func TestChatFlow(t *testing.T) {
	app := newTestApp(t, &stubGenerator{reply: "สบายดีครับ"})
	app.register(t, "somchai")

	messagesOf := func(env envelope) []chat.Message {
		var payload struct {
			Messages []chat.Message `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &payload))
		return payload.Messages
	}

	// The welcome message is seeded before any send.
	_, env := app.do(t, http.MethodGet, "/api/chat/messages", nil)
	require.Len(t, messagesOf(env), 1)

	rec, env := app.do(t, http.MethodPost, "/api/chat/send", SendMessageInput{Text: "how are you?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var sent struct {
		Message chat.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sent))
	assert.Equal(t, "how are you?", sent.Message.Text)

	app.log.Wait()

	_, env = app.do(t, http.MethodGet, "/api/chat/messages", nil)
	messages := messagesOf(env)
	require.Len(t, messages, 3)
	assert.True(t, messages[2].IsAI)
	assert.Equal(t, "สบายดีครับ", messages[2].Text)

	// Empty text is rejected.
	rec, env = app.do(t, http.MethodPost, "/api/chat/send", SendMessageInput{Text: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.ErrEmptyMessage, env.Code)

	// Thinking indicator is idle once the reply resolved.
	_, env = app.do(t, http.MethodGet, "/api/chat/status", nil)
	var status struct {
		Thinking bool `json:"thinking"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.False(t, status.Thinking)

	// Translation round trip for the sent message.
	rec, env = app.do(t, http.MethodPost, "/api/chat/translate", TranslateInput{MessageID: sent.Message.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	var translated struct {
		Message chat.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &translated))
	assert.Equal(t, "สบายดีครับ", translated.Message.Translation)
	assert.True(t, translated.Message.ShowTranslation)

	rec, env = app.do(t, http.MethodPost, "/api/chat/translate", TranslateInput{MessageID: "missing-id"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errs.ErrMessageNotFound, env.Code)

	// Clearing leaves only the confirmation message.
	rec, env = app.do(t, http.MethodPost, "/api/chat/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := messagesOf(env)
	require.Len(t, cleared, 1)
	assert.Equal(t, chat.SystemUserID, cleared[0].UserID)
}

func TestBindJSON_RejectsUnknownFields(t *testing.T) {
	app := newTestApp(t, &stubGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{"username":"x","extra":true}`)))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_RateLimited(t *testing.T) {
	app := newTestApp(t, &stubGenerator{})

	limited := false
	for i := 0; i < RegisterBurst+2; i++ {
		rec, _ := app.do(t, http.MethodPost, "/api/auth/register", RegisterInput{
			Username: fmt.Sprintf("user-%d", i),
			Avatar:   randx.Avatars[0],
		})
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}

	assert.True(t, limited, "register endpoint never rate limited")
}
