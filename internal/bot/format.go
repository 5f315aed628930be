package bot

import (
	"fmt"
	"strings"

	"github.com/ozaibAuday/telegram-admin-bot/internal/domain"
)

// messageLimit is the Telegram per-message text cap.
const messageLimit = 4096

// splitMessage splits text into chunks that fit the transport limit,
// breaking on line boundaries so a record is never cut mid-line. A
// single line longer than the limit is hard-split as a last resort.
func splitMessage(text string) []string {
	if len(text) <= messageLimit {
		return []string{text}
	}

	var chunks []string
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		for len(line) > messageLimit {
			if b.Len() > 0 {
				chunks = append(chunks, b.String())
				b.Reset()
			}
			chunks = append(chunks, line[:messageLimit])
			line = line[messageLimit:]
		}
		// +1 for the newline that would join them
		if b.Len() > 0 && b.Len()+1+len(line) > messageLimit {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func displayName(u domain.User) string {
	name := strings.TrimSpace(deref(u.FirstName) + " " + deref(u.LastName))
	if name == "" {
		name = "unknown"
	}
	return name
}

func usernameOrDash(u domain.User) string {
	if un := deref(u.Username); un != "" {
		return "@" + un
	}
	return "—"
}

func formatProfile(u domain.User) string {
	var b strings.Builder
	b.WriteString("👤 *Your profile*\n\n")
	fmt.Fprintf(&b, "📝 Name: %s\n", displayName(u))
	fmt.Fprintf(&b, "🔗 Username: %s\n", usernameOrDash(u))
	fmt.Fprintf(&b, "🎯 Role: %s\n", u.Role)
	fmt.Fprintf(&b, "✅ Status: %s\n", u.Status)
	fmt.Fprintf(&b, "📅 Joined: %s\n", u.JoinedAt.Format("02.01.2006"))
	fmt.Fprintf(&b, "⏰ Last activity: %s\n", u.LastActivity.Format("02.01.2006 15:04"))
	if notes := deref(u.Notes); notes != "" {
		fmt.Fprintf(&b, "📝 Notes: %s\n", notes)
	}
	return b.String()
}

func formatStats(s domain.UserStats) string {
	var b strings.Builder
	b.WriteString("📊 *System statistics*\n\n")
	fmt.Fprintf(&b, "👥 Total users: %d\n", s.Total)
	fmt.Fprintf(&b, "👨‍💼 Admins: %d\n", s.Admins)
	fmt.Fprintf(&b, "👤 Regular users: %d\n", s.Users)
	fmt.Fprintf(&b, "🟢 Active: %d\n", s.Active)
	fmt.Fprintf(&b, "🔴 Banned: %d\n", s.Banned)
	return b.String()
}

func formatUserList(users []domain.User) string {
	var b strings.Builder
	b.WriteString("👥 *Users*\n\n")
	for i, u := range users {
		fmt.Fprintf(&b, "%d. %s\n", i+1, displayName(u))
		fmt.Fprintf(&b, "   🆔 %d | %s\n", u.UserID, usernameOrDash(u))
		fmt.Fprintf(&b, "   🎯 %s | ✅ %s\n\n", u.Role, u.Status)
	}
	return b.String()
}

func formatSearchResults(query string, users []domain.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 *Search results for: %s*\n\n", query)
	for _, u := range users {
		fmt.Fprintf(&b, "👤 %s\n", displayName(u))
		fmt.Fprintf(&b, "🆔 %d | %s\n", u.UserID, usernameOrDash(u))
		fmt.Fprintf(&b, "🎯 %s | ✅ %s\n", u.Role, u.Status)
		fmt.Fprintf(&b, "📅 %s\n\n", u.JoinedAt.Format("02.01.2006"))
	}
	return b.String()
}

func formatEntries(entries []domain.ActivityEntry) string {
	var b strings.Builder
	b.WriteString("📋 *Recent activity*\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "🆔 %d — %s\n", e.UserID, e.Command)
		if e.Description != "" {
			fmt.Fprintf(&b, "📝 %s\n", e.Description)
		}
		fmt.Fprintf(&b, "⏰ %s\n\n", e.Timestamp.Format("02.01.2006 15:04:05"))
	}
	return b.String()
}

// matchesQuery reports whether q is a substring of the user's id,
// username, first or last name. Case-insensitive, matching the
// admin-facing /search contract.
func matchesQuery(u domain.User, q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(fmt.Sprintf("%d", u.UserID), q) {
		return true
	}
	for _, f := range []*string{u.Username, u.FirstName, u.LastName} {
		if f != nil && strings.Contains(strings.ToLower(*f), q) {
			return true
		}
	}
	return false
}
