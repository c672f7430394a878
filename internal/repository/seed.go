package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/chatshell-api/internal/fixtures"
	"github.com/noah-isme/chatshell-api/internal/models"
)

// SeedFixtures migrates the fixture tables and replaces their contents with the
// dataset inside a single transaction. Seeding the same dataset twice leaves
// the tables unchanged.
func SeedFixtures(ctx context.Context, db *gorm.DB, dataset *fixtures.Dataset) error {
	if db == nil {
		return fmt.Errorf("seed fixtures: database is nil")
	}
	if err := dataset.Validate(); err != nil {
		return err
	}
	if err := db.WithContext(ctx).AutoMigrate(models.FixtureTables()...); err != nil {
		return fmt.Errorf("seed fixtures: migrate: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range models.FixtureTables() {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
				return fmt.Errorf("seed fixtures: clear: %w", err)
			}
		}

		records, err := fixtureRecords(dataset)
		if err != nil {
			return err
		}
		for _, batch := range records {
			if err := tx.CreateInBatches(batch, 100).Error; err != nil {
				return fmt.Errorf("seed fixtures: insert: %w", err)
			}
		}
		return nil
	})
}

func fixtureRecords(dataset *fixtures.Dataset) ([]interface{}, error) {
	var batches []interface{}

	servers := make([]models.ServerRecord, 0, len(dataset.Servers))
	for i, server := range dataset.Servers {
		servers = append(servers, models.ServerRecord{ID: server.ID, Position: i, Name: server.Name, IconText: server.IconText})
	}

	users := make([]models.UserRecord, 0, len(dataset.Users))
	for i, user := range dataset.Users {
		users = append(users, models.UserRecord{
			ID:         user.ID,
			Position:   i,
			Name:       user.Name,
			AvatarText: user.AvatarText,
			Status:     string(user.Status),
			Role:       user.Role,
		})
	}

	channels := make([]models.ChannelRecord, 0, len(dataset.Channels))
	for i, channel := range dataset.Channels {
		channel = channel.Clone()
		channels = append(channels, models.ChannelRecord{
			ServerID:    channel.ServerID,
			ID:          channel.ID,
			Position:    i,
			Name:        channel.Name,
			Kind:        string(channel.Kind),
			Unread:      channel.Unread,
			IsPinned:    channel.IsPinned,
			ActiveUsers: channel.ActiveUsers,
		})
	}

	messages := make([]models.MessageRecord, 0, len(dataset.Messages))
	for i, message := range dataset.Messages {
		reactions, err := encodeJSON(message.Reactions)
		if err != nil {
			return nil, fmt.Errorf("seed fixtures: message %q: %w", message.ID, err)
		}
		embed, err := encodeJSON(message.Embed)
		if err != nil {
			return nil, fmt.Errorf("seed fixtures: message %q: %w", message.ID, err)
		}
		codeBlock, err := encodeJSON(message.CodeBlock)
		if err != nil {
			return nil, fmt.Errorf("seed fixtures: message %q: %w", message.ID, err)
		}
		messages = append(messages, models.MessageRecord{
			ID:        message.ID,
			Position:  i,
			ServerID:  message.ServerID,
			ChannelID: message.ChannelID,
			AuthorID:  message.Author.ID,
			Content:   message.Content,
			Timestamp: message.CreatedAt,
			Reactions: reactions,
			IsPinned:  message.IsPinned,
			IsEdited:  message.IsEdited,
			Embed:     embed,
			CodeBlock: codeBlock,
		})
	}

	threads := make([]models.ThreadRecord, 0, len(dataset.Threads))
	for i, thread := range dataset.Threads {
		threads = append(threads, models.ThreadRecord{
			ID:         thread.ID,
			Position:   i,
			ServerID:   thread.ServerID,
			Title:      thread.Title,
			AuthorID:   thread.Author.ID,
			Timestamp:  thread.CreatedAt,
			ReplyCount: thread.ReplyCount,
		})
	}

	replies := make([]models.ThreadReplyRecord, 0, len(dataset.ThreadReplies))
	for i, reply := range dataset.ThreadReplies {
		replies = append(replies, models.ThreadReplyRecord{
			ID:        reply.ID,
			Position:  i,
			ThreadID:  reply.ThreadID,
			AuthorID:  reply.Author.ID,
			Content:   reply.Content,
			Timestamp: reply.CreatedAt,
		})
	}

	attachments := make([]models.AttachmentRecord, 0, len(dataset.Attachments))
	for i, attachment := range dataset.Attachments {
		attachments = append(attachments, models.AttachmentRecord{
			ID:         attachment.ID,
			Position:   i,
			ServerID:   attachment.ServerID,
			Name:       attachment.Name,
			Size:       attachment.Size,
			UploaderID: attachment.UploadedBy.ID,
			UploadedAt: attachment.UploadedAt,
		})
	}

	metrics := make([]models.ActivityMetricRecord, 0, len(dataset.ActivityMetrics))
	for i, metric := range dataset.ActivityMetrics {
		metrics = append(metrics, models.ActivityMetricRecord{
			Date:        metric.Date,
			Position:    i,
			Messages:    metric.Messages,
			ActiveUsers: metric.ActiveUsers,
		})
	}

	for _, batch := range []interface{}{&servers, &users, &channels, &messages, &threads, &replies, &attachments, &metrics} {
		if isEmptyBatch(batch) {
			continue
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

func isEmptyBatch(batch interface{}) bool {
	switch b := batch.(type) {
	case *[]models.ServerRecord:
		return len(*b) == 0
	case *[]models.UserRecord:
		return len(*b) == 0
	case *[]models.ChannelRecord:
		return len(*b) == 0
	case *[]models.MessageRecord:
		return len(*b) == 0
	case *[]models.ThreadRecord:
		return len(*b) == 0
	case *[]models.ThreadReplyRecord:
		return len(*b) == 0
	case *[]models.AttachmentRecord:
		return len(*b) == 0
	case *[]models.ActivityMetricRecord:
		return len(*b) == 0
	default:
		return true
	}
}
