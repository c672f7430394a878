package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/chatshell-api/internal/fixtures"
	"github.com/noah-isme/chatshell-api/internal/models"
)

var testNow = time.Date(2024, time.February, 9, 12, 0, 0, 0, time.UTC)

func setupChatTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func seededSQLRepository(t *testing.T, dataset *fixtures.Dataset) ChatRepository {
	t.Helper()
	db := setupChatTestDB(t)
	require.NoError(t, SeedFixtures(context.Background(), db, dataset))
	return NewSQLChatRepository(db)
}

// repositories returns both backends built from the same dataset so every
// contract test runs against each of them.
func repositories(t *testing.T) map[string]ChatRepository {
	t.Helper()
	dataset := fixtures.Default(testNow)
	return map[string]ChatRepository{
		"memory": NewMemoryChatRepository(dataset),
		"sql":    seededSQLRepository(t, dataset),
	}
}

func TestChatRepositoryGetServer(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			server, found, err := repo.GetServer(ctx, "discord")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, "discord", server.ID)
			require.Equal(t, "discord", server.Name)

			_, found, err = repo.GetServer(ctx, "nope")
			require.NoError(t, err)
			require.False(t, found)

			servers, err := repo.ListServers(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"swa", "discord", "frontend"}, serverIDs(servers))
			for _, s := range servers {
				got, found, err := repo.GetServer(ctx, s.ID)
				require.NoError(t, err)
				require.True(t, found)
				require.Equal(t, s.ID, got.ID)
			}
		})
	}
}

func TestChatRepositoryChannels(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			channels, err := repo.ListChannels(ctx, "discord")
			require.NoError(t, err)
			require.Len(t, channels, 5)
			require.Equal(t, []string{"general", "product", "incidents", "voice-lobby", "team-standup"}, channelIDs(channels))

			lobby := channels[3]
			require.Equal(t, models.ChannelKindVoice, lobby.Kind)
			require.Equal(t, "Voice Lobby", lobby.Name)
			require.NotNil(t, lobby.ActiveUsers)
			require.Equal(t, 3, *lobby.ActiveUsers)

			channel, found, err := repo.GetChannel(ctx, "discord", "general")
			require.NoError(t, err)
			require.True(t, found)
			require.True(t, channel.IsPinned)
			require.Equal(t, 3, *channel.Unread)

			_, found, err = repo.GetChannel(ctx, "swa", "general")
			require.NoError(t, err)
			require.False(t, found, "channel id must not resolve under another server")

			empty, err := repo.ListChannels(ctx, "nope")
			require.NoError(t, err)
			require.Empty(t, empty)
		})
	}
}

func TestChatRepositoryMessagesAreChronological(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			messages, err := repo.ListMessages(ctx, "discord", "general")
			require.NoError(t, err)
			require.Len(t, messages, 4)
			require.Equal(t, "m1", messages[0].ID)
			require.Equal(t, "m2c", messages[len(messages)-1].ID)

			for i := 1; i < len(messages); i++ {
				require.LessOrEqual(t, messages[i-1].CreatedAt, messages[i].CreatedAt)
			}
			for _, message := range messages {
				require.Equal(t, "discord", message.ServerID)
				require.Equal(t, "general", message.ChannelID)
			}

			require.Equal(t, []models.Reaction{{Emoji: "👍", Count: 3}, {Emoji: "🚀", Count: 2}}, messages[0].Reactions)
			require.NotNil(t, messages[2].CodeBlock)
			require.Equal(t, "typescript", messages[2].CodeBlock.Language)
			require.NotNil(t, messages[3].Embed)
			require.Equal(t, "https://nextjs.org", messages[3].Embed.URL)
			require.Equal(t, "Asha", messages[0].Author.Name)
		})
	}
}

func TestChatRepositoryNoCrossChannelLeakage(t *testing.T) {
	dataset := fixtures.Default(testNow)
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, channel := range dataset.Channels {
				for _, server := range dataset.Servers {
					messages, err := repo.ListMessages(ctx, server.ID, channel.ID)
					require.NoError(t, err)
					for _, message := range messages {
						require.Equal(t, server.ID, message.ServerID)
						require.Equal(t, channel.ID, message.ChannelID)
					}
				}
			}
		})
	}
}

func TestChatRepositoryPinnedIsSubsetOfMessages(t *testing.T) {
	dataset := fixtures.Default(testNow)
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, channel := range dataset.Channels {
				messages, err := repo.ListMessages(ctx, channel.ServerID, channel.ID)
				require.NoError(t, err)
				pinned, err := repo.ListPinnedMessages(ctx, channel.ServerID, channel.ID)
				require.NoError(t, err)

				var expected []string
				for _, message := range messages {
					if message.IsPinned {
						expected = append(expected, message.ID)
					}
				}
				require.ElementsMatch(t, expected, messageIDs(pinned))
			}

			pinned, err := repo.ListPinnedMessages(ctx, "discord", "general")
			require.NoError(t, err)
			require.Equal(t, []string{"m1"}, messageIDs(pinned))
		})
	}
}

func TestChatRepositoryPinnedKeepsDeclarationOrder(t *testing.T) {
	dataset := fixtures.Default(testNow)
	// Later declared but earlier in time.
	dataset.Messages = append(dataset.Messages, models.Message{
		ID:        "m0",
		ServerID:  "discord",
		ChannelID: "general",
		Author:    dataset.Users[3],
		Content:   "pinned late",
		CreatedAt: fixtures.MinutesAgo(testNow, 500),
		IsPinned:  true,
	})

	backends := map[string]ChatRepository{
		"memory": NewMemoryChatRepository(dataset),
		"sql":    seededSQLRepository(t, dataset),
	}
	for name, repo := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			pinned, err := repo.ListPinnedMessages(ctx, "discord", "general")
			require.NoError(t, err)
			require.Equal(t, []string{"m1", "m0"}, messageIDs(pinned))

			messages, err := repo.ListMessages(ctx, "discord", "general")
			require.NoError(t, err)
			require.Equal(t, "m0", messages[0].ID)
		})
	}
}

func TestChatRepositoryOrdersByTimestampText(t *testing.T) {
	// Declared in time order; offsets make text order differ from time order:
	// 10:00+05:00 is 05:00Z yet sorts after both Z stamps.
	stamps := []string{"2024-02-09T10:00:00+05:00", "2024-02-09T06:00:00Z", "2024-02-09T05:30:00Z"}

	dataset := fixtures.Default(testNow)
	for i, stamp := range stamps {
		suffix := string(rune('1' + i))
		dataset.Messages = append(dataset.Messages, models.Message{
			ID:        "x" + suffix,
			ServerID:  "swa",
			ChannelID: "releases",
			Author:    dataset.Users[0],
			Content:   "release note " + suffix,
			CreatedAt: stamp,
		})
		dataset.ThreadReplies = append(dataset.ThreadReplies, models.ThreadReply{
			ID:        "y" + suffix,
			ThreadID:  "t3",
			Author:    dataset.Users[1],
			Content:   "reply " + suffix,
			CreatedAt: stamp,
		})
	}

	backends := map[string]ChatRepository{
		"memory": NewMemoryChatRepository(dataset),
		"sql":    seededSQLRepository(t, dataset),
	}
	for name, repo := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			messages, err := repo.ListMessages(ctx, "swa", "releases")
			require.NoError(t, err)
			require.Equal(t, []string{"x3", "x2", "x1"}, messageIDs(messages))

			replies, err := repo.ListThreadReplies(ctx, "t3")
			require.NoError(t, err)
			require.Equal(t, []string{"y3", "y2", "y1"}, replyIDs(replies))
		})
	}
}

func TestChatRepositoryThreads(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			thread, found, err := repo.GetThread(ctx, "t1")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, "Q1 Planning Discussion", thread.Title)
			require.Equal(t, 12, thread.ReplyCount)
			require.Equal(t, "Asha", thread.Author.Name)

			replies, err := repo.ListThreadReplies(ctx, "t1")
			require.NoError(t, err)
			require.Equal(t, []string{"r1", "r2"}, replyIDs(replies))
			for i := 1; i < len(replies); i++ {
				require.LessOrEqual(t, replies[i-1].CreatedAt, replies[i].CreatedAt)
			}
			for _, reply := range replies {
				require.Equal(t, "t1", reply.ThreadID)
			}

			_, found, err = repo.GetThread(ctx, "t404")
			require.NoError(t, err)
			require.False(t, found)

			threads, err := repo.ListThreads(ctx, "discord")
			require.NoError(t, err)
			require.Len(t, threads, 2)
			require.Equal(t, "t1", threads[0].ID)
			require.Equal(t, "t2", threads[1].ID)
		})
	}
}

func TestChatRepositoryAttachmentsAndGlobalCollections(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			attachments, err := repo.ListAttachments(ctx, "frontend")
			require.NoError(t, err)
			require.Len(t, attachments, 1)
			require.Equal(t, "a3", attachments[0].ID)
			require.Equal(t, "component-library.zip", attachments[0].Name)
			require.Equal(t, "Lead", attachments[0].UploadedBy.Name)

			swa, err := repo.ListActivityMetrics(ctx, "swa")
			require.NoError(t, err)
			discord, err := repo.ListActivityMetrics(ctx, "discord")
			require.NoError(t, err)
			require.Len(t, swa, 7)
			require.Equal(t, swa, discord, "metrics are not filtered by server")

			users, err := repo.ListUsers(ctx, "frontend")
			require.NoError(t, err)
			require.Len(t, users, 6, "users are not filtered by server")

			user, found, err := repo.GetUser(ctx, "u3")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, models.UserStatusAway, user.Status)

			_, found, err = repo.GetUser(ctx, "ghost")
			require.NoError(t, err)
			require.False(t, found)
		})
	}
}

func TestChatRepositoryIsIdempotent(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := repo.ListMessages(ctx, "discord", "general")
			require.NoError(t, err)
			second, err := repo.ListMessages(ctx, "discord", "general")
			require.NoError(t, err)
			require.Equal(t, first, second)

			firstThreads, err := repo.ListThreads(ctx, "discord")
			require.NoError(t, err)
			secondThreads, err := repo.ListThreads(ctx, "discord")
			require.NoError(t, err)
			require.Equal(t, firstThreads, secondThreads)
		})
	}
}

func TestMemoryChatRepositoryReturnsCopies(t *testing.T) {
	dataset := fixtures.Default(testNow)
	repo := NewMemoryChatRepository(dataset)
	ctx := context.Background()

	messages, err := repo.ListMessages(ctx, "discord", "general")
	require.NoError(t, err)
	messages[0].Content = "tampered"
	messages[0].Reactions[0].Count = 99

	channels, err := repo.ListChannels(ctx, "discord")
	require.NoError(t, err)
	*channels[0].Unread = 42

	again, err := repo.ListMessages(ctx, "discord", "general")
	require.NoError(t, err)
	require.Equal(t, "Welcome! Post updates here. Keep it short and shippable.", again[0].Content)
	require.Equal(t, 3, again[0].Reactions[0].Count)

	channel, _, err := repo.GetChannel(ctx, "discord", "general")
	require.NoError(t, err)
	require.Equal(t, 3, *channel.Unread)
}

func TestSQLAndMemoryRepositoriesAgree(t *testing.T) {
	dataset := fixtures.Default(testNow)
	memory := NewMemoryChatRepository(dataset)
	sql := seededSQLRepository(t, dataset)
	ctx := context.Background()

	for _, channel := range dataset.Channels {
		want, err := memory.ListMessages(ctx, channel.ServerID, channel.ID)
		require.NoError(t, err)
		got, err := sql.ListMessages(ctx, channel.ServerID, channel.ID)
		require.NoError(t, err)
		require.Equal(t, want, got, "messages for %s/%s", channel.ServerID, channel.ID)
	}
	for _, server := range dataset.Servers {
		wantChannels, err := memory.ListChannels(ctx, server.ID)
		require.NoError(t, err)
		gotChannels, err := sql.ListChannels(ctx, server.ID)
		require.NoError(t, err)
		require.Equal(t, wantChannels, gotChannels)

		wantAttachments, err := memory.ListAttachments(ctx, server.ID)
		require.NoError(t, err)
		gotAttachments, err := sql.ListAttachments(ctx, server.ID)
		require.NoError(t, err)
		require.Equal(t, wantAttachments, gotAttachments)
	}
}

func TestSeedFixturesIsRepeatable(t *testing.T) {
	db := setupChatTestDB(t)
	dataset := fixtures.Default(testNow)
	ctx := context.Background()

	require.NoError(t, SeedFixtures(ctx, db, dataset))
	require.NoError(t, SeedFixtures(ctx, db, dataset))

	var count int64
	require.NoError(t, db.Model(&models.MessageRecord{}).Count(&count).Error)
	require.Equal(t, int64(len(dataset.Messages)), count)
}

func TestSeedFixturesRejectsInvalidDataset(t *testing.T) {
	db := setupChatTestDB(t)
	dataset := fixtures.Default(testNow)
	dataset.Threads[0].ServerID = "missing"

	err := SeedFixtures(context.Background(), db, dataset)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown server")
}

func serverIDs(servers []models.Server) []string {
	ids := make([]string, 0, len(servers))
	for _, s := range servers {
		ids = append(ids, s.ID)
	}
	return ids
}

func channelIDs(channels []models.Channel) []string {
	ids := make([]string, 0, len(channels))
	for _, c := range channels {
		ids = append(ids, c.ID)
	}
	return ids
}

func messageIDs(messages []models.Message) []string {
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	return ids
}

func replyIDs(replies []models.ThreadReply) []string {
	ids := make([]string, 0, len(replies))
	for _, r := range replies {
		ids = append(ids, r.ID)
	}
	return ids
}
