package repository

import (
	"context"
	"sort"

	"github.com/noah-isme/chatshell-api/internal/fixtures"
	"github.com/noah-isme/chatshell-api/internal/models"
)

type memoryChatRepository struct {
	data *fixtures.Dataset
}

// NewMemoryChatRepository serves lookups straight from an immutable dataset.
// Results are copies; callers may modify them freely.
func NewMemoryChatRepository(dataset *fixtures.Dataset) ChatRepository {
	if dataset == nil {
		dataset = &fixtures.Dataset{}
	}
	return &memoryChatRepository{data: dataset}
}

func (r *memoryChatRepository) ListServers(context.Context) ([]models.Server, error) {
	return append([]models.Server{}, r.data.Servers...), nil
}

func (r *memoryChatRepository) GetServer(_ context.Context, id string) (models.Server, bool, error) {
	for _, server := range r.data.Servers {
		if server.ID == id {
			return server, true, nil
		}
	}
	return models.Server{}, false, nil
}

func (r *memoryChatRepository) ListChannels(_ context.Context, serverID string) ([]models.Channel, error) {
	channels := []models.Channel{}
	for _, channel := range r.data.Channels {
		if channel.ServerID == serverID {
			channels = append(channels, channel.Clone())
		}
	}
	return channels, nil
}

func (r *memoryChatRepository) GetChannel(_ context.Context, serverID, channelID string) (models.Channel, bool, error) {
	for _, channel := range r.data.Channels {
		if channel.ServerID == serverID && channel.ID == channelID {
			return channel.Clone(), true, nil
		}
	}
	return models.Channel{}, false, nil
}

func (r *memoryChatRepository) ListMessages(_ context.Context, serverID, channelID string) ([]models.Message, error) {
	messages := r.filterMessages(serverID, channelID, false)
	sortMessages(messages)
	return messages, nil
}

func (r *memoryChatRepository) ListPinnedMessages(_ context.Context, serverID, channelID string) ([]models.Message, error) {
	return r.filterMessages(serverID, channelID, true), nil
}

func (r *memoryChatRepository) ListUsers(context.Context, string) ([]models.User, error) {
	return append([]models.User{}, r.data.Users...), nil
}

func (r *memoryChatRepository) GetUser(_ context.Context, id string) (models.User, bool, error) {
	for _, user := range r.data.Users {
		if user.ID == id {
			return user, true, nil
		}
	}
	return models.User{}, false, nil
}

func (r *memoryChatRepository) ListThreads(_ context.Context, serverID string) ([]models.Thread, error) {
	threads := []models.Thread{}
	for _, thread := range r.data.Threads {
		if thread.ServerID == serverID {
			threads = append(threads, thread)
		}
	}
	return threads, nil
}

func (r *memoryChatRepository) GetThread(_ context.Context, id string) (models.Thread, bool, error) {
	for _, thread := range r.data.Threads {
		if thread.ID == id {
			return thread, true, nil
		}
	}
	return models.Thread{}, false, nil
}

func (r *memoryChatRepository) ListThreadReplies(_ context.Context, threadID string) ([]models.ThreadReply, error) {
	replies := []models.ThreadReply{}
	for _, reply := range r.data.ThreadReplies {
		if reply.ThreadID == threadID {
			replies = append(replies, reply)
		}
	}
	sortReplies(replies)
	return replies, nil
}

func (r *memoryChatRepository) ListAttachments(_ context.Context, serverID string) ([]models.Attachment, error) {
	attachments := []models.Attachment{}
	for _, attachment := range r.data.Attachments {
		if attachment.ServerID == serverID {
			attachments = append(attachments, attachment)
		}
	}
	return attachments, nil
}

func (r *memoryChatRepository) ListActivityMetrics(context.Context, string) ([]models.ActivityMetric, error) {
	return append([]models.ActivityMetric{}, r.data.ActivityMetrics...), nil
}

func (r *memoryChatRepository) filterMessages(serverID, channelID string, pinnedOnly bool) []models.Message {
	messages := []models.Message{}
	for _, message := range r.data.Messages {
		if message.ServerID != serverID || message.ChannelID != channelID {
			continue
		}
		if pinnedOnly && !message.IsPinned {
			continue
		}
		messages = append(messages, message.Clone())
	}
	return messages
}

// Timestamps are compared as strings, not parsed instants. Both agree for
// fixture data because every timestamp is UTC with millisecond precision.
func sortMessages(messages []models.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt < messages[j].CreatedAt
	})
}

func sortReplies(replies []models.ThreadReply) {
	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].CreatedAt < replies[j].CreatedAt
	})
}
