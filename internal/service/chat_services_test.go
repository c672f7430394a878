package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/chatshell-api/internal/dto"
	"github.com/noah-isme/chatshell-api/internal/fixtures"
	"github.com/noah-isme/chatshell-api/internal/middleware"
	"github.com/noah-isme/chatshell-api/internal/models"
	"github.com/noah-isme/chatshell-api/internal/repository"
)

var serviceNow = time.Date(2024, time.February, 9, 12, 0, 0, 0, time.UTC)

func fixtureRepo() repository.ChatRepository {
	return repository.NewMemoryChatRepository(fixtures.Default(serviceNow))
}

func fixedClock() time.Time { return serviceNow }

type failingRepo struct {
	repository.ChatRepository
	err error
}

func (f failingRepo) ListMessages(context.Context, string, string) ([]models.Message, error) {
	return nil, f.err
}

func (f failingRepo) ListServers(context.Context) ([]models.Server, error) {
	return nil, f.err
}

func TestWorkspaceServiceLayout(t *testing.T) {
	svc := NewWorkspaceService(fixtureRepo(), zerolog.Nop())

	layout, err := svc.GetLayout(context.Background(), dto.LayoutRequest{
		ServerID:        "discord",
		ActiveChannelID: "general",
		ActivePath:      "/servers/discord/channels/product",
	})
	require.NoError(t, err)

	require.Equal(t, "discord", layout.Server.ID)
	require.Len(t, layout.Servers, 3)
	for _, server := range layout.Servers {
		require.Equal(t, server.ID == "discord", server.Active)
	}

	require.Len(t, layout.TextChannels, 3)
	require.Len(t, layout.VoiceChannels, 2)

	general := layout.TextChannels[0]
	require.True(t, general.Active)
	require.Equal(t, 3, general.UnreadBadge)
	require.Equal(t, "/servers/discord/channels/general", general.Href)
	require.Zero(t, layout.TextChannels[1].UnreadBadge, "no badge without unread count")

	require.Equal(t, 3, layout.VoiceChannels[0].ActiveUsersBadge)
	require.Zero(t, layout.VoiceChannels[1].ActiveUsersBadge, "zero active users shows no badge")
	require.Empty(t, layout.VoiceChannels[0].Href)

	require.Len(t, layout.Tabs, 6)
	require.Equal(t, "Channels", layout.Tabs[0].Label)
	require.Equal(t, "/servers/discord/channels/general", layout.Tabs[0].Href)
	require.True(t, layout.Tabs[0].Active)
	for _, tab := range layout.Tabs[1:] {
		require.False(t, tab.Active, tab.Label)
	}
}

func TestWorkspaceServiceLayoutUnknownServer(t *testing.T) {
	svc := NewWorkspaceService(fixtureRepo(), zerolog.Nop())

	_, err := svc.GetLayout(context.Background(), dto.LayoutRequest{ServerID: "nope"})
	require.ErrorIs(t, err, ErrNotFound)

	var notFoundErr *NotFoundError
	require.True(t, errors.As(err, &notFoundErr))
	require.Equal(t, "server", notFoundErr.Resource)
	require.Equal(t, "nope", notFoundErr.ID)
}

func TestBuildTabsMatchesSectionBoundaries(t *testing.T) {
	tabs := buildTabs("swa", "/servers/swa/threads/t1")
	active := map[string]bool{}
	for _, tab := range tabs {
		active[tab.Label] = tab.Active
	}
	require.True(t, active["Threads"])
	require.False(t, active["Channels"])

	tabs = buildTabs("swa", "/servers/swa/filesystem")
	for _, tab := range tabs {
		require.False(t, tab.Active, tab.Label)
	}

	tabs = buildTabs("swa", "")
	for _, tab := range tabs {
		require.False(t, tab.Active, tab.Label)
	}
}

func TestWorkspaceServiceSettings(t *testing.T) {
	svc := NewWorkspaceService(fixtureRepo(), zerolog.Nop())

	settings, err := svc.GetSettings(context.Background(), "frontend")
	require.NoError(t, err)
	require.Equal(t, "Frontend Guild", settings.ServerName)
	require.Len(t, settings.Notifications, 2)
	require.True(t, settings.Notifications[0].Enabled)
	require.False(t, settings.Notifications[1].Enabled)
	require.Contains(t, settings.PrivacyNotice, "No actual settings are persisted")

	_, err = svc.GetSettings(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWorkspaceServiceWrapsRepositoryErrors(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewWorkspaceService(failingRepo{ChatRepository: fixtureRepo(), err: boom}, zerolog.Nop())

	_, err := svc.ListServers(context.Background())
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestChannelServiceView(t *testing.T) {
	svc := NewChannelService(fixtureRepo(), zerolog.Nop()).(*channelService)
	svc.presenter = newPresenter(fixedClock)

	view, err := svc.GetChannelView(context.Background(), "discord", "general")
	require.NoError(t, err)
	require.False(t, view.Empty)
	require.True(t, view.Channel.Active)
	require.Len(t, view.Messages, 4)
	require.Equal(t, "m1", view.Messages[0].ID)
	require.Equal(t, "10:00 AM", view.Messages[0].DisplayTime)
	require.Equal(t, "m2c", view.Messages[3].ID)
	require.Equal(t, "https://nextjs.org", view.Messages[3].Embed.URL)
	require.Equal(t, "typescript", view.Messages[2].CodeBlock.Language)
	require.Len(t, view.Pinned, 1)
	require.Equal(t, "m1", view.Pinned[0].ID)

	empty, err := svc.GetChannelView(context.Background(), "swa", "releases")
	require.NoError(t, err)
	require.True(t, empty.Empty)
	require.NotNil(t, empty.Messages)
	require.Empty(t, empty.Messages)
}

func TestChannelServiceNotFound(t *testing.T) {
	svc := NewChannelService(fixtureRepo(), zerolog.Nop())

	_, err := svc.GetChannelView(context.Background(), "swa", "general")
	require.ErrorIs(t, err, ErrNotFound)
	var notFoundErr *NotFoundError
	require.True(t, errors.As(err, &notFoundErr))
	require.Equal(t, "channel", notFoundErr.Resource)

	_, err = svc.ListMessages(context.Background(), "nope", "general")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ListChannels(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestChannelServiceRepositoryFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	svc := NewChannelService(failingRepo{ChatRepository: fixtureRepo(), err: boom}, zerolog.Nop())

	_, err := svc.ListMessages(context.Background(), "discord", "general")
	require.ErrorIs(t, err, boom)
}

func TestChannelServiceLogsCorrelationID(t *testing.T) {
	var logs bytes.Buffer
	boom := errors.New("disk on fire")
	svc := NewChannelService(failingRepo{ChatRepository: fixtureRepo(), err: boom}, zerolog.New(&logs))

	ctx := middleware.ContextWithCorrelation(context.Background(), "corr-123")
	_, err := svc.ListMessages(ctx, "discord", "general")
	require.ErrorIs(t, err, boom)

	require.Contains(t, logs.String(), `"correlation_id":"corr-123"`)
	require.Contains(t, logs.String(), `"component":"channel_service"`)
}

func TestChannelServiceReturnsStoredText(t *testing.T) {
	dataset := fixtures.Default(serviceNow)
	dataset.Messages[0].Content = "Let's compare: a < b && c > d"
	dataset.Messages[3].Embed.URL = "javascript:alert(1)"
	dataset.Messages[3].Embed.Title = "Tips & Tricks"

	svc := NewChannelService(repository.NewMemoryChatRepository(dataset), zerolog.Nop()).(*channelService)
	svc.presenter = newPresenter(fixedClock)

	messages, err := svc.ListMessages(context.Background(), "discord", "general")
	require.NoError(t, err)
	require.Equal(t, "Let's compare: a < b && c > d", messages[0].Content)
	require.Empty(t, messages[3].Embed.URL)
	require.Equal(t, "Tips & Tricks", messages[3].Embed.Title)
}

func TestThreadServiceReturnsStoredReplyText(t *testing.T) {
	svc := NewThreadService(fixtureRepo(), zerolog.Nop())

	detail, err := svc.GetThread(context.Background(), "discord", "t1")
	require.NoError(t, err)
	require.Len(t, detail.Replies, 2)
	require.Equal(t, "Agreed. Let's measure TTFB and hydration time.", detail.Replies[1].Content)
}

func TestPresenterDisplayTime(t *testing.T) {
	p := newPresenter(fixedClock)

	require.Equal(t, "11:45 AM", p.displayTime("2024-02-09T11:45:00.000Z"))
	require.Equal(t, "02/08, 11:45 PM", p.displayTime("2024-02-08T23:45:00.000Z"))
	require.Equal(t, "not-a-time", p.displayTime("not-a-time"))
	require.Equal(t, "2/9/2024", formatTimestamp("2024-02-09T08:00:00.000Z", dateLayout))
	require.Equal(t, "Feb 3", metricLabel("2024-02-03"))
}

func TestMemberService(t *testing.T) {
	svc := NewMemberService(fixtureRepo(), zerolog.Nop())

	members, err := svc.ListMembers(context.Background(), "swa")
	require.NoError(t, err)
	require.Len(t, members, 6)
	require.Equal(t, "Asha", members[0].Name)
	require.Equal(t, "Admin", members[0].Role)

	_, err = svc.ListMembers(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)

	dm, err := svc.GetDirectMessage(context.Background(), "u3")
	require.NoError(t, err)
	require.Equal(t, "Maya", dm.User.Name)
	require.Equal(t, "away", dm.User.Status)
	require.Equal(t, "This is the beginning of your direct message history with Maya.", dm.Intro)
	require.Equal(t, "Message Maya", dm.Placeholder)

	_, err = svc.GetDirectMessage(context.Background(), "u404")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestThreadService(t *testing.T) {
	svc := NewThreadService(fixtureRepo(), zerolog.Nop())

	threads, err := svc.ListThreads(context.Background(), "discord")
	require.NoError(t, err)
	require.Len(t, threads, 2)
	require.Equal(t, "/servers/discord/threads/t1", threads[0].Href)
	require.Equal(t, "2/9/2024", threads[0].DisplayDate)

	detail, err := svc.GetThread(context.Background(), "discord", "t1")
	require.NoError(t, err)
	require.Equal(t, "Q1 Planning Discussion", detail.Thread.Title)
	require.Equal(t, 12, detail.Thread.ReplyCount)
	require.Len(t, detail.Replies, 2)
	require.Equal(t, "r1", detail.Replies[0].ID)
	require.Equal(t, "r2", detail.Replies[1].ID)
	require.Equal(t, "8:10:00 AM", detail.Replies[0].DisplayTime)

	// Threads resolve by id alone, so t3 is reachable through another server.
	crossServer, err := svc.GetThread(context.Background(), "swa", "t3")
	require.NoError(t, err)
	require.Equal(t, "frontend", crossServer.Thread.ServerID)

	_, err = svc.GetThread(context.Background(), "discord", "t404")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetThread(context.Background(), "nope", "t1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileService(t *testing.T) {
	svc := NewFileService(fixtureRepo(), zerolog.Nop())

	files, err := svc.ListAttachments(context.Background(), "frontend")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "a3", files[0].ID)
	require.Equal(t, "component-library.zip", files[0].Name)
	require.Equal(t, "5.8 MB", files[0].Size)
	require.Equal(t, "Lead", files[0].UploadedBy.Name)

	none, err := svc.ListAttachments(context.Background(), "swa")
	require.NoError(t, err)
	require.Empty(t, none)

	_, err = svc.ListAttachments(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}
