package bot

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozaibAuday/telegram-admin-bot/internal/domain"
)

func TestStartRegistersCallerOnce(t *testing.T) {
	ctx := context.Background()
	h, fake, conn := newTestBot(t)

	h.HandleUpdate(ctx, newMessage(100, "/start"))
	h.HandleUpdate(ctx, newMessage(100, "/start"))

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM users WHERE user_id = 100`).Scan(&n))
	assert.Equal(t, 1, n)

	u, err := h.users.Get(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)

	// greeting carries the root menu
	require.NotEmpty(t, fake.sent)
	assert.Contains(t, fake.lastText(t), "Welcome")
}

func TestStartGivesAdminsAdminRole(t *testing.T) {
	ctx := context.Background()
	h, _, _ := newTestBot(t, 111)

	h.HandleUpdate(ctx, newMessage(111, "/start"))

	u, err := h.users.Get(ctx, 111)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestNonAdminStatsDenied(t *testing.T) {
	ctx := context.Background()
	h, fake, conn := newTestBot(t, 111)

	h.HandleUpdate(ctx, newMessage(333, "/stats"))

	assert.Equal(t, msgAdminsOnly, fake.lastText(t))
	// denial path records nothing
	assert.Equal(t, 0, activityCount(t, conn))
}

func TestNonAdminDeniedForAllAdminCommands(t *testing.T) {
	ctx := context.Background()
	for _, cmd := range []string{"/stats", "/users", "/search x", "/ban 1", "/unban 1", "/promote 1", "/delete 1", "/logs", "/broadcast hi"} {
		h, fake, conn := newTestBot(t, 111)
		h.HandleUpdate(ctx, newMessage(333, cmd))
		assert.Equal(t, msgAdminsOnly, fake.lastText(t), cmd)
		assert.Equal(t, 0, activityCount(t, conn), cmd)
	}
}

func TestAdminBanScenario(t *testing.T) {
	ctx := context.Background()
	h, fake, conn := newTestBot(t, 111)

	// target registers first
	h.HandleUpdate(ctx, newMessage(222, "/start"))

	h.HandleUpdate(ctx, newMessage(111, "/ban 222"))

	assert.Contains(t, fake.lastText(t), "✅ Banned")

	u, err := h.users.Get(ctx, 222)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBanned, u.Status)

	var n int
	require.NoError(t, conn.QueryRow(
		`SELECT COUNT(*) FROM activity_log WHERE command = '/ban'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestUnbanRestoresActive(t *testing.T) {
	ctx := context.Background()
	h, _, _ := newTestBot(t, 111)

	h.HandleUpdate(ctx, newMessage(222, "/start"))
	h.HandleUpdate(ctx, newMessage(111, "/ban 222"))
	h.HandleUpdate(ctx, newMessage(111, "/unban 222"))

	u, err := h.users.Get(ctx, 222)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, u.Status)
}

func TestPromoteSetsAdminRole(t *testing.T) {
	ctx := context.Background()
	h, _, _ := newTestBot(t, 111)

	h.HandleUpdate(ctx, newMessage(222, "/start"))
	h.HandleUpdate(ctx, newMessage(111, "/promote 222"))

	u, err := h.users.Get(ctx, 222)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestDeleteRemovesUser(t *testing.T) {
	ctx := context.Background()
	h, _, _ := newTestBot(t, 111)

	h.HandleUpdate(ctx, newMessage(222, "/start"))
	h.HandleUpdate(ctx, newMessage(111, "/delete 222"))

	_, err := h.users.Get(ctx, 222)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestModerationArgValidation(t *testing.T) {
	ctx := context.Background()
	h, fake, _ := newTestBot(t, 111)

	h.HandleUpdate(ctx, newMessage(111, "/ban abc"))
	assert.Equal(t, msgInvalidID, fake.lastText(t))

	h.HandleUpdate(ctx, newMessage(111, "/ban"))
	assert.Contains(t, fake.lastText(t), "Usage:")

	h.HandleUpdate(ctx, newMessage(111, "/ban 424242"))
	assert.Equal(t, msgUserNotFound, fake.lastText(t))
}

func TestSearchNoResults(t *testing.T) {
	ctx := context.Background()
	h, fake, _ := newTestBot(t, 111)

	h.HandleUpdate(ctx, newMessage(111, "/search 222"))
	assert.Equal(t, msgNoResults, fake.lastText(t))
}

func TestSearchMatchesSubstring(t *testing.T) {
	ctx := context.Background()
	h, fake, _ := newTestBot(t, 111)

	h.HandleUpdate(ctx, newMessage(222, "/start"))
	h.HandleUpdate(ctx, newMessage(111, "/search test"))

	assert.Contains(t, fake.lastText(t), "Search results")
	assert.Contains(t, fake.lastText(t), "222")
}

func TestProfileShowsCaller(t *testing.T) {
	ctx := context.Background()
	h, fake, _ := newTestBot(t)

	h.HandleUpdate(ctx, newMessage(100, "/profile"))

	text := fake.lastText(t)
	assert.Contains(t, text, "profile")
	assert.Contains(t, text, "@tester")
}

func TestHelpIsRoleAppropriate(t *testing.T) {
	ctx := context.Background()
	h, fake, _ := newTestBot(t, 111)

	h.HandleUpdate(ctx, newMessage(333, "/help"))
	assert.NotContains(t, fake.lastText(t), "/broadcast")

	h.HandleUpdate(ctx, newMessage(111, "/help"))
	assert.Contains(t, fake.lastText(t), "/broadcast")
}

func TestBroadcastCountsSuccessesAndFailures(t *testing.T) {
	ctx := context.Background()
	h, fake, _ := newTestBot(t, 999)

	// three users; 11 gets banned, 12 is unreachable
	for _, id := range []int64{10, 11, 12} {
		h.HandleUpdate(ctx, newMessage(id, "/start"))
	}
	h.HandleUpdate(ctx, newMessage(999, "/ban 11"))
	fake.failChats[12] = true

	h.HandleUpdate(ctx, newMessage(999, "/broadcast hello everyone"))

	// non-banned: 10, 12 and the admin; 12 fails
	summary := fake.lastText(t)
	assert.Contains(t, summary, "Delivered: 2")
	assert.Contains(t, summary, "Failed: 1")

	var delivered int
	for _, text := range fake.texts() {
		if strings.HasPrefix(text, "📢 hello everyone") {
			delivered++
		}
	}
	assert.Equal(t, 2, delivered)
}

func TestGroupChatIgnored(t *testing.T) {
	ctx := context.Background()
	h, fake, conn := newTestBot(t)

	upd := newMessage(100, "/start")
	upd.Message.Chat.Type = "group"
	h.HandleUpdate(ctx, upd)

	assert.Empty(t, fake.sent)
	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestLongUserListIsSplit(t *testing.T) {
	ctx := context.Background()
	h, fake, _ := newTestBot(t, 111)

	for i := 0; i < 200; i++ {
		h.HandleUpdate(ctx, newMessage(int64(1000+i), "/start"))
	}
	fake.sent = nil

	h.HandleUpdate(ctx, newMessage(111, "/users"))

	texts := fake.texts()
	require.Greater(t, len(texts), 1)
	for i, text := range texts {
		assert.LessOrEqual(t, len(text), messageLimit, fmt.Sprintf("chunk %d", i))
	}
}
