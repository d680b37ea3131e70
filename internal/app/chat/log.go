/*
Package chat contains the core logic for the shared chat room: the bounded message log,
the per-message translation state machine, and bot reply generation.

This file defines the Log struct, which owns the ordered, size-bounded message history.
Every mutation is persisted to the record store together with the in-memory update, and
the whole log is overwritten from storage when another context reports a change to the
log record.
*/
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"friendhub/internal/app/gemini"
	"friendhub/internal/app/identity"
	"friendhub/internal/app/store"
	"friendhub/internal/pkg/errs"
	"friendhub/internal/pkg/logx"
)

// historyWindow is the number of recent messages included in a reply prompt.
const historyWindow = 5

// Generator is the external text-generation boundary used for bot replies and
// message translation. One attempt per call; no retries.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Log owns the ordered, capped message history of the single chat room.
type Log struct {
	store    *store.Store
	identity *identity.Service
	gen      Generator

	// mu protects messages.
	mu       sync.Mutex
	messages []Message

	// pending counts in-flight reply generations. The thinking indicator is derived
	// from it instead of a shared boolean, so overlapping replies cannot clear the
	// indicator early.
	pending int32

	// writing counts in-flight record writes by this Log, so its own change
	// notifications can be skipped.
	writing int32

	// onThinking, when set, is invoked after every pending-count change.
	thinkingMu sync.RWMutex
	onThinking func(bool)

	// wg tracks reply-generation goroutines for shutdown.
	wg sync.WaitGroup

	unsubscribe func()
	logger      zerolog.Logger
}

// NewLog loads the persisted message log, seeding it with the welcome message when no
// log exists yet, and subscribes to external log changes.
func NewLog(st *store.Store, ident *identity.Service, gen Generator) *Log {
	logLogger := logx.Logger().With().Str("component", "MessageLog").Logger()

	l := &Log{
		store:    st,
		identity: ident,
		gen:      gen,
		logger:   logLogger,
	}

	if !l.load() {
		l.append(newSystemMessage(welcomeText))
		l.logger.Info().Msg("No persisted log found. Seeded welcome message.")
	}

	l.unsubscribe = st.Subscribe(l.onRecordChanged)

	return l
}

// Close cancels the store subscription and waits for in-flight reply generations.
func (l *Log) Close() {
	if l.unsubscribe != nil {
		l.unsubscribe()
	}

	l.wg.Wait()
}

// Wait blocks until all in-flight reply generations have resolved.
func (l *Log) Wait() {
	l.wg.Wait()
}

// Messages returns a copy of the log in send order.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Message, len(l.messages))
	copy(out, l.messages)

	return out
}

// Thinking reports whether at least one bot reply generation is in flight.
func (l *Log) Thinking() bool {
	return atomic.LoadInt32(&l.pending) > 0
}

// SetThinkingListener registers a callback invoked whenever the thinking state may have
// changed. Used to push the indicator to connected tabs.
func (l *Log) SetThinkingListener(fn func(bool)) {
	l.thinkingMu.Lock()
	l.onThinking = fn
	l.thinkingMu.Unlock()
}

// Send appends a message authored by the active session user and, when the text looks
// like a question or addresses the bot, starts a reply generation attempt. The user's
// message is persisted and visible before the attempt begins. It is rejected without
// mutation when the text is empty after trimming or no session is active.
func (l *Log) Send(text string) (Message, *errs.CustomError) {
	if strings.TrimSpace(text) == "" {
		return Message{}, errs.NewError(errs.ErrEmptyMessage)
	}

	author, ok := l.identity.Current()
	if !ok {
		return Message{}, errs.NewError(errs.ErrSessionRequired)
	}

	msg := newUserMessage(text, author)
	l.append(msg)

	l.logger.Info().
		Str("message_id", msg.ID).
		Str("user_id", msg.UserID).
		Msg("Message sent.")

	if triggersReply(text) {
		l.wg.Add(1)
		go l.generateReply(text)
	}

	return msg, nil
}

// Translate runs the per-message translation state machine:
// untranslated -> translating -> translated, with an independent show/hide toggle once
// translated. A failed or credential-less attempt caches a placeholder and is terminal
// for that message. Returns the updated message, or ErrMessageNotFound when the id is
// not in the log.
func (l *Log) Translate(ctx context.Context, messageID string) (Message, *errs.CustomError) {
	l.mu.Lock()

	idx := l.indexLocked(messageID)
	if idx == -1 {
		l.mu.Unlock()
		return Message{}, errs.NewError(errs.ErrMessageNotFound)
	}

	// Already translated: toggle visibility only, no re-fetch.
	if l.messages[idx].Translation != "" {
		l.messages[idx].ShowTranslation = !l.messages[idx].ShowTranslation
		l.persistLocked()

		msg := l.messages[idx]
		l.mu.Unlock()
		return msg, nil
	}

	l.messages[idx].IsTranslating = true
	l.messages[idx].ShowTranslation = true
	text := l.messages[idx].Text
	l.persistLocked()
	l.mu.Unlock()

	result, err := l.gen.GenerateText(ctx, buildTranslationPrompt(text))

	var translation string
	switch {
	case errors.Is(err, gemini.ErrMissingCredential):
		translation = translationMissingKeyText
	case err != nil:
		l.logger.Error().Err(err).Str("message_id", messageID).Msg("Translation failed.")
		translation = translationFailedText
	default:
		translation = result
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx = l.indexLocked(messageID)
	if idx == -1 {
		// Evicted while the call was in flight.
		return Message{}, errs.NewError(errs.ErrMessageNotFound)
	}

	l.messages[idx].IsTranslating = false
	l.messages[idx].Translation = translation
	l.persistLocked()

	return l.messages[idx], nil
}

// Clear empties the log, removes the persisted record, and immediately appends the
// system confirmation message.
func (l *Log) Clear() {
	l.mu.Lock()
	l.messages = nil

	atomic.AddInt32(&l.writing, 1)
	if err := l.store.Delete(store.RecordLog); err != nil {
		l.logger.Error().Err(err).Msg("Failed to remove persisted log.")
	}
	atomic.AddInt32(&l.writing, -1)
	l.mu.Unlock()

	l.append(newSystemMessage(clearedText))

	l.logger.Info().Msg("Chat log cleared.")
}

// generateReply performs one bot reply attempt for the triggering text.
// The thinking indicator is held for the whole attempt, including the
// missing-credential path, and always released afterwards.
func (l *Log) generateReply(trigger string) {
	defer l.wg.Done()

	l.addPending(1)
	defer l.addPending(-1)

	l.mu.Lock()
	start := len(l.messages) - historyWindow
	if start < 0 {
		start = 0
	}
	history := make([]Message, len(l.messages)-start)
	copy(history, l.messages[start:])
	l.mu.Unlock()

	text, err := l.gen.GenerateText(context.Background(), buildReplyPrompt(history, trigger))

	switch {
	case errors.Is(err, gemini.ErrMissingCredential):
		l.append(newSystemMessage(missingKeyText))
	case err != nil:
		l.logger.Error().Err(err).Msg("Reply generation failed.")
		l.append(newSystemMessage(replyFailedText))
	default:
		l.append(newBotMessage(text))
		l.logger.Info().Msg("Bot reply appended.")
	}
}

// append adds a message, truncates the log to the newest MaxLogSize entries, and
// persists the result.
func (l *Log) append(msg Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, msg)
	if len(l.messages) > MaxLogSize {
		l.messages = l.messages[len(l.messages)-MaxLogSize:]
	}

	l.persistLocked()
}

// indexLocked returns the position of the message with the given id, or -1.
// Caller must hold mu.
func (l *Log) indexLocked(messageID string) int {
	for i := range l.messages {
		if l.messages[i].ID == messageID {
			return i
		}
	}

	return -1
}

// persistLocked writes the log record. Caller must hold mu.
func (l *Log) persistLocked() {
	atomic.AddInt32(&l.writing, 1)
	defer atomic.AddInt32(&l.writing, -1)

	if err := l.store.Put(store.RecordLog, l.messages); err != nil {
		l.logger.Error().Err(err).Msg("Failed to persist message log.")
	}
}

// load reads the persisted log verbatim. It returns false when no log record exists.
func (l *Log) load() bool {
	var messages []Message

	ok, err := l.store.Get(store.RecordLog, &messages)
	if err != nil {
		l.logger.Error().Err(err).Msg("Failed to load message log.")
		return false
	}

	if !ok {
		return false
	}

	l.mu.Lock()
	l.messages = messages
	l.mu.Unlock()

	return true
}

// onRecordChanged replaces the whole in-memory log with the persisted version when
// another context changed the log record (full overwrite, not merge).
func (l *Log) onRecordChanged(rec store.Record) {
	if rec != store.RecordLog {
		return
	}

	if atomic.LoadInt32(&l.writing) > 0 {
		return
	}

	l.mu.Lock()
	var messages []Message
	if ok, err := l.store.Get(store.RecordLog, &messages); err == nil && ok {
		l.messages = messages
	} else {
		l.messages = nil
	}
	l.mu.Unlock()

	l.logger.Debug().Msg("Message log reloaded after external change.")
}

// addPending adjusts the in-flight reply count and notifies the thinking listener.
func (l *Log) addPending(delta int32) {
	active := atomic.AddInt32(&l.pending, delta) > 0

	l.thinkingMu.RLock()
	fn := l.onThinking
	l.thinkingMu.RUnlock()

	if fn != nil {
		fn(active)
	}
}
