package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/ozaibAuday/telegram-admin-bot/internal/domain"
	"github.com/ozaibAuday/telegram-admin-bot/internal/repo"
)

// Fixed user-facing texts. Validation and authorization failures always
// reply with these exact strings and change no state.
const (
	msgAdminsOnly    = "❌ This command is available to administrators only"
	msgNoPrivileges  = "❌ Insufficient privileges"
	msgInvalidID     = "❌ Invalid user identifier"
	msgUserNotFound  = "❌ User not found"
	msgNoResults     = "❌ No results found"
	msgInternalError = "❌ Something went wrong. Please try again later."
)

// api is the slice of the Telegram client the handler needs.
// *tgbotapi.BotAPI satisfies it.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	api    api
	admins AdminSet

	users    *repo.Users
	activity *repo.Activity

	log zerolog.Logger
}

func NewHandler(api api, admins AdminSet, u *repo.Users, a *repo.Activity, log zerolog.Logger) *Handler {
	return &Handler{api: api, admins: admins, users: u, activity: a, log: log}
}

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		h.HandleCallback(ctx, upd.CallbackQuery)
		return
	}

	if upd.Message == nil || upd.Message.From == nil {
		return
	}

	msg := upd.Message
	if !msg.Chat.IsPrivate() {
		return
	}

	// Ensure registration (idempotent upsert) before anything else.
	role := domain.RoleUser
	if h.admins.Contains(msg.From.ID) {
		role = domain.RoleAdmin
	}
	_, err := h.users.Add(ctx, msg.From.ID,
		optStr(msg.From.UserName), optStr(msg.From.FirstName), optStr(msg.From.LastName), role)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("upsert user")
		h.reply(msg.Chat.ID, msgInternalError)
		return
	}
	h.users.TouchLastActivity(ctx, msg.From.ID)

	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return
	}

	fields := strings.Fields(text)
	cmd := fields[0]
	// strip a @botname suffix so /ban@my_bot still routes
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	args := strings.TrimSpace(strings.TrimPrefix(text, fields[0]))

	if err := h.dispatchCommand(ctx, msg, cmd, args); err != nil {
		h.log.Error().Err(err).Str("command", cmd).Int64("user_id", msg.From.ID).Msg("command failed")
		h.reply(msg.Chat.ID, msgInternalError)
	}
}

// dispatchCommand routes one slash command. Validation, not-found and
// authorization outcomes are handled inside the handlers; only storage
// failures come back here, where they turn into one generic reply.
func (h *Handler) dispatchCommand(ctx context.Context, msg *tgbotapi.Message, cmd, args string) error {
	switch cmd {
	case "/start":
		return h.handleStart(ctx, msg)
	case "/help":
		return h.handleHelp(ctx, msg)
	case "/profile":
		return h.handleProfile(ctx, msg)
	case "/stats":
		return h.handleStats(ctx, msg)
	case "/users":
		return h.handleUsers(ctx, msg)
	case "/search":
		return h.handleSearch(ctx, msg, args)
	case "/ban":
		return h.handleBan(ctx, msg, args)
	case "/unban":
		return h.handleUnban(ctx, msg, args)
	case "/promote":
		return h.handlePromote(ctx, msg, args)
	case "/delete":
		return h.handleDelete(ctx, msg, args)
	case "/logs":
		return h.handleLogs(ctx, msg)
	case "/broadcast":
		return h.handleBroadcast(ctx, msg, args)
	}
	return nil
}

// reply sends plain text, splitting on line boundaries when the text
// exceeds the transport limit.
func (h *Handler) reply(chatID int64, text string) {
	for _, chunk := range splitMessage(text) {
		if _, err := h.api.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			h.log.Error().Err(err).Int64("chat_id", chatID).Msg("send reply")
		}
	}
}

func (h *Handler) replyMarkdown(chatID int64, text string) {
	for _, chunk := range splitMessage(text) {
		m := tgbotapi.NewMessage(chatID, chunk)
		m.ParseMode = tgbotapi.ModeMarkdown
		if _, err := h.api.Send(m); err != nil {
			h.log.Error().Err(err).Int64("chat_id", chatID).Msg("send reply")
		}
	}
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
