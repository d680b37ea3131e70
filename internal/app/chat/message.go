/*
Package chat contains the core logic for the shared chat room: the bounded message log,
the per-message translation state machine, and bot reply generation.

This file defines the Message struct, the fixed bot/system identities, and the prompt
and trigger helpers for the Response Generator.
*/
package chat

import (
	"fmt"
	"strings"
	"time"

	"friendhub/internal/app/identity"
	"friendhub/internal/pkg/randx"
)

// MaxLogSize is the maximum number of messages retained in the log.
// When exceeded, the oldest entries are evicted first.
const MaxLogSize = 100

// Fixed identities for generated and system-authored messages.
const (
	BotUserID   = "ai-bot"
	BotUsername = "Gemini AI"
	BotAvatar   = "https://api.dicebear.com/7.x/bottts/svg?seed=Gemini"
	BotColor    = "#FFFFFF"

	SystemUserID   = "system"
	SystemUsername = "System"
	SystemAvatar   = "https://ui-avatars.com/api/?name=Sys&background=000&color=fff"
	SystemColor    = "#64748b"
)

// fallbackBubbleColor is used for messages whose author has no color recorded.
const fallbackBubbleColor = "#8b5cf6"

// System message texts.
const (
	welcomeText     = "ยินดีต้อนรับสู่ FriendHub! เริ่มต้นสนทนากับเพื่อนของคุณได้เลย ลองถามคำถามเพื่อให้ AI ช่วยตอบ"
	clearedText     = "ล้างประวัติแชทเรียบร้อยแล้ว"
	missingKeyText  = "ขออภัย ไม่พบ API Key สำหรับ Gemini"
	replyFailedText = "Gemini กำลังพักผ่อน (เกิดข้อผิดพลาดในการเชื่อมต่อ)"

	translationMissingKeyText = "Missing API Key"
	translationFailedText     = "Translation failed"
)

// Message represents one entry of the chat log. The authorship fields are a snapshot of
// the author's identity at send time and are never updated afterwards.
type Message struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
	Color     string `json:"color"`
	Timestamp int64  `json:"timestamp"`
	IsAI      bool   `json:"isAi,omitempty"`

	// Translation sub-state. Translation is the cached result, absent until requested.
	// IsTranslating marks an in-flight request; ShowTranslation is the display toggle.
	Translation     string `json:"translation,omitempty"`
	IsTranslating   bool   `json:"isTranslating,omitempty"`
	ShowTranslation bool   `json:"showTranslation,omitempty"`
}

// newUserMessage builds a message snapshotting the author's identity at send time.
func newUserMessage(text string, author identity.User) Message {
	color := author.Color
	if color == "" {
		color = fallbackBubbleColor
	}

	return Message{
		ID:        randx.MessageID(),
		Text:      text,
		UserID:    author.ID,
		Username:  author.Username,
		Avatar:    author.Avatar,
		Color:     color,
		Timestamp: time.Now().UnixMilli(),
	}
}

// newBotMessage builds a bot-authored message with the fixed bot identity.
func newBotMessage(text string) Message {
	return Message{
		ID:        randx.MessageID(),
		Text:      text,
		UserID:    BotUserID,
		Username:  BotUsername,
		Avatar:    BotAvatar,
		Color:     BotColor,
		Timestamp: time.Now().UnixMilli(),
		IsAI:      true,
	}
}

// newSystemMessage builds a system-authored message with the fixed system identity.
func newSystemMessage(text string) Message {
	return Message{
		ID:        randx.MessageID(),
		Text:      text,
		UserID:    SystemUserID,
		Username:  SystemUsername,
		Avatar:    SystemAvatar,
		Color:     SystemColor,
		Timestamp: time.Now().UnixMilli(),
		IsAI:      true,
	}
}

// triggersReply reports whether a sent message should request a bot reply:
// case-insensitive containment of "ai" or "bot", or the trimmed text ending with "?".
func triggersReply(text string) bool {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "ai") || strings.Contains(lower, "bot") {
		return true
	}

	return strings.HasSuffix(strings.TrimSpace(text), "?")
}

// buildReplyPrompt builds the reply-generation prompt from the recent history and the
// triggering message.
func buildReplyPrompt(history []Message, trigger string) string {
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Username, m.Text))
	}

	return fmt.Sprintf(`You are "Gemini Friend", a helpful and fun member of a friend group chat.
Current chat history:
%s

The last message was: "%s"

Reply in Thai (ภาษาไทย) naturally, casually, and briefly like a friend.
Don't be too formal. Use emojis if appropriate.`, strings.Join(lines, "\n"), trigger)
}

// buildTranslationPrompt builds the Thai/English translation prompt for one message.
func buildTranslationPrompt(text string) string {
	return fmt.Sprintf(`Translate the following text into Thai.
If the text is already mostly in Thai, translate it into English.
Keep the tone casual and friendly.
Return ONLY the translated text.

Text to translate: "%s"`, text)
}
