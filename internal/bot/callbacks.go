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

type actionKind int

const (
	actionUnknown actionKind = iota
	actionAdminUsers
	actionAdminStats
	actionAdminBroadcast
	actionAdminLogs
	actionAdminSettings
	actionSearchUsers
	actionCleanLogs
	actionUserProfile
	actionUserSupport
	actionBackToMenu
	actionBan
	actionPromote
	actionDelete
)

// callbackAction is a button-press token parsed once at the boundary.
// Ban/promote/delete carry the target user id.
type callbackAction struct {
	kind   actionKind
	target int64
}

func (a callbackAction) adminOnly() bool {
	switch a.kind {
	case actionAdminUsers, actionAdminStats, actionAdminBroadcast,
		actionAdminLogs, actionAdminSettings, actionSearchUsers,
		actionCleanLogs, actionBan, actionPromote, actionDelete:
		return true
	}
	return false
}

func parseCallback(data string) callbackAction {
	switch data {
	case "admin_users":
		return callbackAction{kind: actionAdminUsers}
	case "admin_stats":
		return callbackAction{kind: actionAdminStats}
	case "admin_broadcast":
		return callbackAction{kind: actionAdminBroadcast}
	case "admin_logs":
		return callbackAction{kind: actionAdminLogs}
	case "admin_settings":
		return callbackAction{kind: actionAdminSettings}
	case "search_users":
		return callbackAction{kind: actionSearchUsers}
	case "clean_logs":
		return callbackAction{kind: actionCleanLogs}
	case "user_profile":
		return callbackAction{kind: actionUserProfile}
	case "user_support":
		return callbackAction{kind: actionUserSupport}
	case "back_to_menu":
		return callbackAction{kind: actionBackToMenu}
	}

	for prefix, kind := range map[string]actionKind{
		"ban_":     actionBan,
		"promote_": actionPromote,
		"delete_":  actionDelete,
	} {
		if strings.HasPrefix(data, prefix) {
			id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
			if err != nil {
				return callbackAction{}
			}
			return callbackAction{kind: kind, target: id}
		}
	}
	return callbackAction{}
}

// HandleCallback routes one button press. The query is always answered,
// even when the branch panics; admin-scoped branches each re-check the
// allow-list; an unrecognized token is a transient notice and no state
// change.
func (h *Handler) HandleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Str("data", q.Data).Msg("callback panic")
			h.answerCallback(q.ID, msgInternalError, true)
		}
	}()

	act := parseCallback(q.Data)
	if act.adminOnly() && !h.admins.Contains(q.From.ID) {
		h.answerCallback(q.ID, msgNoPrivileges, true)
		return
	}

	var notice string
	var err error
	switch act.kind {
	case actionAdminUsers:
		err = h.screenAdminUsers(ctx, q)
	case actionAdminStats:
		err = h.screenAdminStats(ctx, q)
	case actionAdminBroadcast:
		h.screenAdminBroadcast(ctx, q)
	case actionAdminLogs:
		err = h.screenAdminLogs(ctx, q)
	case actionAdminSettings:
		h.screenAdminSettings(ctx, q)
	case actionSearchUsers:
		h.screenSearchHint(q)
	case actionCleanLogs:
		notice, err = h.callbackCleanLogs(ctx, q)
	case actionUserProfile:
		notice, err = h.screenUserProfile(ctx, q)
	case actionUserSupport:
		h.screenUserSupport(ctx, q)
	case actionBackToMenu:
		h.screenMainMenu(q)
	case actionBan:
		notice, err = h.callbackModerate(ctx, q, act.target, "ban",
			func(ctx context.Context, id int64) error {
				return h.users.UpdateStatus(ctx, id, domain.StatusBanned)
			}, "✅ Banned %s")
	case actionPromote:
		notice, err = h.callbackModerate(ctx, q, act.target, "promote",
			func(ctx context.Context, id int64) error {
				return h.users.UpdateRole(ctx, id, domain.RoleAdmin)
			}, "✅ Promoted %s to admin")
	case actionDelete:
		notice, err = h.callbackModerate(ctx, q, act.target, "delete",
			func(ctx context.Context, id int64) error {
				return h.users.Delete(ctx, id)
			}, "✅ Deleted %s")
	case actionUnknown:
		h.answerCallback(q.ID, "Unknown action", true)
		return
	}

	if err != nil {
		h.log.Error().Err(err).Str("data", q.Data).Msg("callback failed")
		h.answerCallback(q.ID, msgInternalError, true)
		return
	}
	h.answerCallback(q.ID, notice, false)
}

func (h *Handler) answerCallback(id, text string, alert bool) {
	cb := tgbotapi.NewCallback(id, text)
	if alert {
		cb = tgbotapi.NewCallbackWithAlert(id, text)
	}
	if _, err := h.api.Request(cb); err != nil {
		h.log.Error().Err(err).Msg("answer callback")
	}
}

// editScreen replaces the originating message's text and keyboard.
// Detail screens never send new messages.
func (h *Handler) editScreen(q *tgbotapi.CallbackQuery, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if q.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(q.Message.Chat.ID, q.Message.MessageID, text, kb)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.api.Send(edit); err != nil {
		h.log.Error().Err(err).Msg("edit message")
	}
}

func (h *Handler) screenAdminUsers(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	h.activity.Record(ctx, q.From.ID, "callback", "opened user management")

	users, err := h.users.All(ctx)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("👥 *User management*\n\nTotal users: %d\n\nFull list: /users", len(users))
	h.editScreen(q, text, adminUsersKeyboard())
	return nil
}

func (h *Handler) screenAdminStats(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	h.activity.Record(ctx, q.From.ID, "callback", "viewed statistics")

	stats, err := h.users.Stats(ctx)
	if err != nil {
		return err
	}
	h.editScreen(q, formatStats(stats), refreshKeyboard("admin_stats"))
	return nil
}

func (h *Handler) screenAdminBroadcast(ctx context.Context, q *tgbotapi.CallbackQuery) {
	h.activity.Record(ctx, q.From.ID, "callback", "opened broadcast")

	text := "📢 *Broadcast*\n\nSend a message to every non-banned user:\n`/broadcast your message here`"
	h.editScreen(q, text, backKeyboard())
}

func (h *Handler) screenAdminLogs(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	h.activity.Record(ctx, q.From.ID, "callback", "viewed logs")

	entries, err := h.activity.Recent(ctx, 10)
	if err != nil {
		return err
	}

	text := "📋 *Recent activity*\n\nNo log entries"
	if len(entries) > 0 {
		text = formatEntries(entries)
	}
	h.editScreen(q, text, refreshKeyboard("admin_logs"))
	return nil
}

func (h *Handler) screenAdminSettings(ctx context.Context, q *tgbotapi.CallbackQuery) {
	h.activity.Record(ctx, q.From.ID, "callback", "opened settings")

	text := "⚙️ *Settings*\n\nAvailable actions:\n• clean old activity entries"
	h.editScreen(q, text, settingsKeyboard())
}

func (h *Handler) screenSearchHint(q *tgbotapi.CallbackQuery) {
	text := "🔍 *Search*\n\nUse `/search <user id or name>`"
	h.editScreen(q, text, backKeyboard())
}

func (h *Handler) callbackCleanLogs(ctx context.Context, q *tgbotapi.CallbackQuery) (string, error) {
	removed, err := h.activity.DeleteOlderThan(ctx, 0)
	if err != nil {
		return "", err
	}
	h.activity.Record(ctx, q.From.ID, "callback", "cleaned old activity entries")

	text := fmt.Sprintf("⚙️ *Settings*\n\n🧹 Removed %d old entries", removed)
	h.editScreen(q, text, settingsKeyboard())
	return "🧹 Done", nil
}

func (h *Handler) screenUserProfile(ctx context.Context, q *tgbotapi.CallbackQuery) (string, error) {
	h.activity.Record(ctx, q.From.ID, "callback", "viewed profile")

	u, err := h.users.Get(ctx, q.From.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return msgUserNotFound, nil
	}
	if err != nil {
		return "", err
	}

	h.editScreen(q, formatProfile(u), backKeyboard())
	return "", nil
}

func (h *Handler) screenUserSupport(ctx context.Context, q *tgbotapi.CallbackQuery) {
	h.activity.Record(ctx, q.From.ID, "callback", "opened support")

	text := "📞 *Support*\n\n📧 support@example.com\n💬 @support\\_channel\n⏰ 24/7"
	h.editScreen(q, text, backKeyboard())
}

// screenMainMenu rebuilds the root menu. Admin membership is
// re-evaluated on every invocation, never cached.
func (h *Handler) screenMainMenu(q *tgbotapi.CallbackQuery) {
	isAdmin := h.admins.Contains(q.From.ID)
	h.editScreen(q, "🏠 *Main menu*\n\nPick an option below:", mainMenuKeyboard(isAdmin))
}

func (h *Handler) callbackModerate(ctx context.Context, q *tgbotapi.CallbackQuery, targetID int64,
	command string, apply func(context.Context, int64) error, confirmFmt string) (string, error) {

	target, err := h.users.Get(ctx, targetID)
	if errors.Is(err, domain.ErrNotFound) {
		return msgUserNotFound, nil
	}
	if err != nil {
		return "", err
	}

	if err := apply(ctx, targetID); err != nil {
		return "", err
	}
	h.activity.Record(ctx, q.From.ID, command, fmt.Sprintf("%s user %d", command, targetID))

	return fmt.Sprintf(confirmFmt, displayName(target)), nil
}
