package bot

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ozaibAuday/telegram-admin-bot/internal/db"
	"github.com/ozaibAuday/telegram-admin-bot/internal/repo"
)

// fakeAPI captures outgoing traffic and can fail sends per chat id.
type fakeAPI struct {
	sent      []tgbotapi.Chattable
	requests  []tgbotapi.Chattable
	failChats map[int64]bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if mc, ok := c.(tgbotapi.MessageConfig); ok && f.failChats[mc.ChatID] {
		return tgbotapi.Message{}, errors.New("send failed")
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// texts returns the text of every plain message sent so far.
func (f *fakeAPI) texts() []string {
	var out []string
	for _, c := range f.sent {
		if mc, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, mc.Text)
		}
	}
	return out
}

func (f *fakeAPI) lastText(t *testing.T) string {
	t.Helper()
	texts := f.texts()
	require.NotEmpty(t, texts)
	return texts[len(texts)-1]
}

func (f *fakeAPI) lastEdit(t *testing.T) tgbotapi.EditMessageTextConfig {
	t.Helper()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if ec, ok := f.sent[i].(tgbotapi.EditMessageTextConfig); ok {
			return ec
		}
	}
	t.Fatal("no message edit sent")
	return tgbotapi.EditMessageTextConfig{}
}

func (f *fakeAPI) lastCallbackAnswer(t *testing.T) tgbotapi.CallbackConfig {
	t.Helper()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if cb, ok := f.requests[i].(tgbotapi.CallbackConfig); ok {
			return cb
		}
	}
	t.Fatal("callback not answered")
	return tgbotapi.CallbackConfig{}
}

func newTestBot(t *testing.T, adminIDs ...int64) (*Handler, *fakeAPI, *sql.DB) {
	t.Helper()
	conn, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.EnsureSchema(context.Background(), conn))

	log := zerolog.Nop()
	fake := &fakeAPI{failChats: map[int64]bool{}}
	h := NewHandler(fake, NewAdminSet(adminIDs),
		repo.NewUsers(conn, log), repo.NewActivity(conn, log), log)
	return h, fake, conn
}

func newMessage(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID, UserName: "tester", FirstName: "Test"},
		Chat: &tgbotapi.Chat{ID: userID, Type: "private"},
		Text: text,
	}}
}

func newCallback(userID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:   "cbq",
		From: &tgbotapi.User{ID: userID, UserName: "tester", FirstName: "Test"},
		Data: data,
		Message: &tgbotapi.Message{
			MessageID: 42,
			Chat:      &tgbotapi.Chat{ID: userID, Type: "private"},
		},
	}
}

func activityCount(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM activity_log`).Scan(&n))
	return n
}
