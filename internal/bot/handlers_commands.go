package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ozaibAuday/telegram-admin-bot/internal/domain"
)

func (h *Handler) handleUsers(ctx context.Context, msg *tgbotapi.Message) error {
	if !h.admins.Contains(msg.From.ID) {
		h.reply(msg.Chat.ID, msgAdminsOnly)
		return nil
	}
	h.activity.Record(ctx, msg.From.ID, "/users", "listed users")

	users, err := h.users.All(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		h.reply(msg.Chat.ID, "📭 No users yet")
		return nil
	}

	h.replyMarkdown(msg.Chat.ID, formatUserList(users))
	return nil
}

func (h *Handler) handleSearch(ctx context.Context, msg *tgbotapi.Message, args string) error {
	if !h.admins.Contains(msg.From.ID) {
		h.reply(msg.Chat.ID, msgAdminsOnly)
		return nil
	}
	query := strings.TrimSpace(args)
	if query == "" {
		h.reply(msg.Chat.ID, "📝 Usage: /search <user id or name>")
		return nil
	}
	h.activity.Record(ctx, msg.From.ID, "/search", "searched for: "+query)

	users, err := h.users.All(ctx)
	if err != nil {
		return err
	}

	var results []domain.User
	for _, u := range users {
		if matchesQuery(u, query) {
			results = append(results, u)
		}
	}
	if len(results) == 0 {
		h.reply(msg.Chat.ID, msgNoResults)
		return nil
	}

	h.replyMarkdown(msg.Chat.ID, formatSearchResults(query, results))
	return nil
}

func (h *Handler) handleBan(ctx context.Context, msg *tgbotapi.Message, args string) error {
	return h.moderate(ctx, msg, args, "/ban", "⛔ Usage: /ban <user id>",
		func(ctx context.Context, id int64) error {
			return h.users.UpdateStatus(ctx, id, domain.StatusBanned)
		},
		func(target domain.User) string {
			return fmt.Sprintf("✅ Banned %s\n🆔 %d", displayName(target), target.UserID)
		})
}

func (h *Handler) handleUnban(ctx context.Context, msg *tgbotapi.Message, args string) error {
	return h.moderate(ctx, msg, args, "/unban", "📝 Usage: /unban <user id>",
		func(ctx context.Context, id int64) error {
			return h.users.UpdateStatus(ctx, id, domain.StatusActive)
		},
		func(target domain.User) string {
			return fmt.Sprintf("✅ Unbanned %s\n🆔 %d", displayName(target), target.UserID)
		})
}

func (h *Handler) handlePromote(ctx context.Context, msg *tgbotapi.Message, args string) error {
	return h.moderate(ctx, msg, args, "/promote", "📝 Usage: /promote <user id>",
		func(ctx context.Context, id int64) error {
			return h.users.UpdateRole(ctx, id, domain.RoleAdmin)
		},
		func(target domain.User) string {
			return fmt.Sprintf("✅ Promoted %s to admin 👨‍💼\n🆔 %d", displayName(target), target.UserID)
		})
}

func (h *Handler) handleDelete(ctx context.Context, msg *tgbotapi.Message, args string) error {
	return h.moderate(ctx, msg, args, "/delete", "📝 Usage: /delete <user id>",
		func(ctx context.Context, id int64) error {
			return h.users.Delete(ctx, id)
		},
		func(target domain.User) string {
			return fmt.Sprintf("✅ Deleted %s\n🆔 %d", displayName(target), target.UserID)
		})
}

// moderate is the shared shape of the four target-id admin commands:
// authorize, parse the id, verify the target exists, apply the change,
// record it, confirm.
func (h *Handler) moderate(ctx context.Context, msg *tgbotapi.Message, args, command, usage string,
	apply func(context.Context, int64) error, confirm func(domain.User) string) error {

	if !h.admins.Contains(msg.From.ID) {
		h.reply(msg.Chat.ID, msgAdminsOnly)
		return nil
	}
	if strings.TrimSpace(args) == "" {
		h.reply(msg.Chat.ID, usage)
		return nil
	}
	targetID, err := strconv.ParseInt(strings.Fields(args)[0], 10, 64)
	if err != nil {
		h.reply(msg.Chat.ID, msgInvalidID)
		return nil
	}

	target, err := h.users.Get(ctx, targetID)
	if errors.Is(err, domain.ErrNotFound) {
		h.reply(msg.Chat.ID, msgUserNotFound)
		return nil
	}
	if err != nil {
		return err
	}

	if err := apply(ctx, targetID); err != nil {
		return err
	}
	h.activity.Record(ctx, msg.From.ID, command, fmt.Sprintf("%s user %d", strings.TrimPrefix(command, "/"), targetID))

	h.reply(msg.Chat.ID, confirm(target))
	return nil
}

func (h *Handler) handleLogs(ctx context.Context, msg *tgbotapi.Message) error {
	if !h.admins.Contains(msg.From.ID) {
		h.reply(msg.Chat.ID, msgAdminsOnly)
		return nil
	}
	h.activity.Record(ctx, msg.From.ID, "/logs", "viewed logs")

	entries, err := h.activity.Recent(ctx, 20)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		h.reply(msg.Chat.ID, "📭 No log entries")
		return nil
	}

	h.replyMarkdown(msg.Chat.ID, formatEntries(entries))
	return nil
}

// handleBroadcast fans the message out to every non-banned user. A
// failed delivery never aborts the loop; successes and failures are
// counted independently and both reported.
func (h *Handler) handleBroadcast(ctx context.Context, msg *tgbotapi.Message, args string) error {
	if !h.admins.Contains(msg.From.ID) {
		h.reply(msg.Chat.ID, msgAdminsOnly)
		return nil
	}
	message := strings.TrimSpace(args)
	if message == "" {
		h.reply(msg.Chat.ID, "📝 Usage: /broadcast <message>")
		return nil
	}
	h.activity.Record(ctx, msg.From.ID, "/broadcast", "sent a broadcast")

	users, err := h.users.All(ctx)
	if err != nil {
		return err
	}

	var success, fail int
	for _, u := range users {
		if u.Status == domain.StatusBanned {
			continue
		}
		if _, err := h.api.Send(tgbotapi.NewMessage(u.UserID, "📢 "+message)); err != nil {
			fail++
			continue
		}
		success++
	}

	h.reply(msg.Chat.ID, fmt.Sprintf("✅ Broadcast done\n📤 Delivered: %d\n❌ Failed: %d", success, fail))
	return nil
}
