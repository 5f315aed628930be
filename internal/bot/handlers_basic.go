package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ozaibAuday/telegram-admin-bot/internal/domain"
)

const adminHelp = `📚 *Commands — administrators:*

👥 /users — list all users
📊 /stats — system statistics
📢 /broadcast <message> — message all users
🔍 /search <query> — find a user
⛔ /ban <id> — ban a user
✅ /unban <id> — unban a user
🔄 /promote <id> — promote a user to admin
📋 /logs — recent activity log
❌ /delete <id> — delete a user`

const userHelp = `📚 *Commands:*

👤 /profile — show your profile
❓ /help — this list`

func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	isAdmin := h.admins.Contains(msg.From.ID)
	h.activity.Record(ctx, msg.From.ID, "/start", "started the bot")

	roleLabel := "👤 user"
	if isAdmin {
		roleLabel = "👨‍💼 administrator"
	}

	text := fmt.Sprintf("🎉 Welcome, %s!\n\nYour role: %s\nYour id: %d\n\nPick an option below:",
		msg.From.FirstName, roleLabel, msg.From.ID)

	m := tgbotapi.NewMessage(msg.Chat.ID, text)
	m.ReplyMarkup = mainMenuKeyboard(isAdmin)
	if _, err := h.api.Send(m); err != nil {
		h.log.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("send start menu")
	}
	return nil
}

func (h *Handler) handleHelp(ctx context.Context, msg *tgbotapi.Message) error {
	h.activity.Record(ctx, msg.From.ID, "/help", "requested help")

	help := userHelp
	if h.admins.Contains(msg.From.ID) {
		help = adminHelp
	}
	h.replyMarkdown(msg.Chat.ID, help)
	return nil
}

func (h *Handler) handleProfile(ctx context.Context, msg *tgbotapi.Message) error {
	h.activity.Record(ctx, msg.From.ID, "/profile", "viewed profile")

	u, err := h.users.Get(ctx, msg.From.ID)
	if errors.Is(err, domain.ErrNotFound) {
		h.reply(msg.Chat.ID, msgUserNotFound)
		return nil
	}
	if err != nil {
		return err
	}

	h.replyMarkdown(msg.Chat.ID, formatProfile(u))
	return nil
}

func (h *Handler) handleStats(ctx context.Context, msg *tgbotapi.Message) error {
	if !h.admins.Contains(msg.From.ID) {
		h.reply(msg.Chat.ID, msgAdminsOnly)
		return nil
	}
	h.activity.Record(ctx, msg.From.ID, "/stats", "viewed statistics")

	stats, err := h.users.Stats(ctx)
	if err != nil {
		return err
	}

	h.replyMarkdown(msg.Chat.ID, formatStats(stats))
	return nil
}
