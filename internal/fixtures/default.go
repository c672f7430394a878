package fixtures

import (
	"time"

	"github.com/noah-isme/chatshell-api/internal/models"
)

const sampleCode = `export default async function Page({ params }) {
  const data = await fetchData();
  return <Content data={data} />;
}`

// Default builds the built-in demo workspace. Message, thread, reply and
// attachment timestamps are relative to now.
func Default(now time.Time) *Dataset {
	iso := func(minutes int) string { return MinutesAgo(now, minutes) }

	users := []models.User{
		{ID: "u1", Name: "Asha", AvatarText: "A", Status: models.UserStatusOnline, Role: "Admin"},
		{ID: "u2", Name: "Ajith", AvatarText: "AJ", Status: models.UserStatusOnline, Role: "Developer"},
		{ID: "u3", Name: "Maya", AvatarText: "M", Status: models.UserStatusAway, Role: "Product"},
		{ID: "u4", Name: "Ops", AvatarText: "O", Status: models.UserStatusOnline, Role: "DevOps"},
		{ID: "u5", Name: "Monitor", AvatarText: "M", Status: models.UserStatusOnline, Role: "Bot"},
		{ID: "u6", Name: "Lead", AvatarText: "L", Status: models.UserStatusOffline, Role: "Lead"},
	}

	return &Dataset{
		Users: users,
		Servers: []models.Server{
			{ID: "swa", Name: "SAHM", IconText: "S"},
			{ID: "discord", Name: "discord", IconText: "B"},
			{ID: "frontend", Name: "Frontend Guild", IconText: "F"},
		},
		Channels: []models.Channel{
			{ID: "general", ServerID: "discord", Name: "general", Kind: models.ChannelKindText, Unread: intPtr(3), IsPinned: true},
			{ID: "product", ServerID: "discord", Name: "product", Kind: models.ChannelKindText},
			{ID: "incidents", ServerID: "discord", Name: "incidents", Kind: models.ChannelKindText, Unread: intPtr(1)},
			{ID: "voice-lobby", ServerID: "discord", Name: "Voice Lobby", Kind: models.ChannelKindVoice, ActiveUsers: intPtr(3)},
			{ID: "team-standup", ServerID: "discord", Name: "Team Standup", Kind: models.ChannelKindVoice, ActiveUsers: intPtr(0)},
			{ID: "alerts", ServerID: "swa", Name: "alerts", Kind: models.ChannelKindText},
			{ID: "releases", ServerID: "swa", Name: "releases", Kind: models.ChannelKindText},
			{ID: "react", ServerID: "frontend", Name: "react", Kind: models.ChannelKindText},
			{ID: "architecture", ServerID: "frontend", Name: "architecture", Kind: models.ChannelKindText},
		},
		Messages: []models.Message{
			{
				ID:        "m1",
				ServerID:  "discord",
				ChannelID: "general",
				Author:    users[0],
				Content:   "Welcome! Post updates here. Keep it short and shippable.",
				CreatedAt: iso(120),
				Reactions: []models.Reaction{{Emoji: "👍", Count: 3}, {Emoji: "🚀", Count: 2}},
				IsPinned:  true,
			},
			{
				ID:        "m2",
				ServerID:  "discord",
				ChannelID: "general",
				Author:    users[1],
				Content:   "Working on a Discord-style SSR UI demo in Next.js. No backend, clean routing.",
				CreatedAt: iso(98),
				IsEdited:  true,
			},
			{
				ID:        "m2b",
				ServerID:  "discord",
				ChannelID: "general",
				Author:    users[1],
				Content:   "Check out this architecture:",
				CreatedAt: iso(97),
				CodeBlock: &models.CodeBlock{Language: "typescript", Code: sampleCode},
			},
			{
				ID:        "m2c",
				ServerID:  "discord",
				ChannelID: "general",
				Author:    users[2],
				Content:   "",
				CreatedAt: iso(95),
				Embed: &models.Embed{
					Title:       "Next.js 15 Released",
					Description: "Async Request APIs, improved caching, and more!",
					Color:       "#0070f3",
					URL:         "https://nextjs.org",
				},
			},
			{
				ID:        "m3",
				ServerID:  "discord",
				ChannelID: "product",
				Author:    users[2],
				Content:   "We should make channel switching feel instant. Skeleton + optimistic UI later.",
				CreatedAt: iso(80),
			},
			{
				ID:        "m4",
				ServerID:  "discord",
				ChannelID: "incidents",
				Author:    users[3],
				Content:   "Incident drill today. Validate routes, loading states, and error boundaries.",
				CreatedAt: iso(35),
			},
			{
				ID:        "m5",
				ServerID:  "swa",
				ChannelID: "alerts",
				Author:    users[4],
				Content:   "Alert: latency spike. Check client rendering and hydration costs.",
				CreatedAt: iso(15),
			},
			{
				ID:        "m6",
				ServerID:  "frontend",
				ChannelID: "architecture",
				Author:    users[5],
				Content:   "Nice: SSR shell + client-only composer. Keep boundaries explicit.",
				CreatedAt: iso(8),
			},
		},
		Threads: []models.Thread{
			{ID: "t1", ServerID: "discord", Title: "Q1 Planning Discussion", Author: users[0], CreatedAt: iso(240), ReplyCount: 12},
			{ID: "t2", ServerID: "discord", Title: "Performance Optimization Ideas", Author: users[1], CreatedAt: iso(180), ReplyCount: 8},
			{ID: "t3", ServerID: "frontend", Title: "React 19 Migration Plan", Author: users[5], CreatedAt: iso(120), ReplyCount: 15},
		},
		ThreadReplies: []models.ThreadReply{
			{ID: "r1", ThreadID: "t1", Author: users[1], Content: "We should focus on SSR performance first.", CreatedAt: iso(230)},
			{ID: "r2", ThreadID: "t1", Author: users[2], Content: "Agreed. Let's measure TTFB and hydration time.", CreatedAt: iso(220)},
			{ID: "r3", ThreadID: "t2", Author: users[0], Content: "Consider lazy loading heavy components.", CreatedAt: iso(170)},
		},
		Attachments: []models.Attachment{
			{ID: "a1", ServerID: "discord", Name: "architecture-diagram.pdf", Size: "2.4 MB", UploadedBy: users[1], UploadedAt: iso(300)},
			{ID: "a2", ServerID: "discord", Name: "performance-report.xlsx", Size: "1.1 MB", UploadedBy: users[2], UploadedAt: iso(200)},
			{ID: "a3", ServerID: "frontend", Name: "component-library.zip", Size: "5.8 MB", UploadedBy: users[5], UploadedAt: iso(150)},
		},
		ActivityMetrics: []models.ActivityMetric{
			{Date: "2024-02-03", Messages: 45, ActiveUsers: 8},
			{Date: "2024-02-04", Messages: 52, ActiveUsers: 10},
			{Date: "2024-02-05", Messages: 38, ActiveUsers: 7},
			{Date: "2024-02-06", Messages: 61, ActiveUsers: 12},
			{Date: "2024-02-07", Messages: 48, ActiveUsers: 9},
			{Date: "2024-02-08", Messages: 55, ActiveUsers: 11},
			{Date: "2024-02-09", Messages: 42, ActiveUsers: 8},
		},
	}
}

func intPtr(v int) *int {
	return &v
}
