package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/chatshell-api/internal/models"
)

// ChatRepository exposes read-only lookups over the chat fixture set. Absence
// is reported through the found flag; errors only come from a storage backend.
type ChatRepository interface {
	ListServers(ctx context.Context) ([]models.Server, error)
	GetServer(ctx context.Context, id string) (models.Server, bool, error)
	ListChannels(ctx context.Context, serverID string) ([]models.Channel, error)
	GetChannel(ctx context.Context, serverID, channelID string) (models.Channel, bool, error)
	ListMessages(ctx context.Context, serverID, channelID string) ([]models.Message, error)
	ListPinnedMessages(ctx context.Context, serverID, channelID string) ([]models.Message, error)
	// ListUsers returns every user; membership is not tracked per server.
	ListUsers(ctx context.Context, serverID string) ([]models.User, error)
	GetUser(ctx context.Context, id string) (models.User, bool, error)
	ListThreads(ctx context.Context, serverID string) ([]models.Thread, error)
	GetThread(ctx context.Context, id string) (models.Thread, bool, error)
	ListThreadReplies(ctx context.Context, threadID string) ([]models.ThreadReply, error)
	ListAttachments(ctx context.Context, serverID string) ([]models.Attachment, error)
	// ListActivityMetrics returns the global series; metrics are not server scoped.
	ListActivityMetrics(ctx context.Context, serverID string) ([]models.ActivityMetric, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewSQLChatRepository constructs a chat repository backed by GORM. The tables
// must have been populated with SeedFixtures.
func NewSQLChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) ListServers(ctx context.Context) ([]models.Server, error) {
	var records []models.ServerRecord
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	servers := make([]models.Server, 0, len(records))
	for _, record := range records {
		servers = append(servers, serverFromRecord(record))
	}
	return servers, nil
}

func (r *chatRepository) GetServer(ctx context.Context, id string) (models.Server, bool, error) {
	var record models.ServerRecord
	found, err := first(r.db.WithContext(ctx).Where("id = ?", id), &record)
	if err != nil || !found {
		return models.Server{}, false, err
	}
	return serverFromRecord(record), true, nil
}

func (r *chatRepository) ListChannels(ctx context.Context, serverID string) ([]models.Channel, error) {
	var records []models.ChannelRecord
	if err := r.db.WithContext(ctx).Where("server_id = ?", serverID).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	channels := make([]models.Channel, 0, len(records))
	for _, record := range records {
		channels = append(channels, channelFromRecord(record))
	}
	return channels, nil
}

func (r *chatRepository) GetChannel(ctx context.Context, serverID, channelID string) (models.Channel, bool, error) {
	var record models.ChannelRecord
	found, err := first(r.db.WithContext(ctx).Where("server_id = ? AND id = ?", serverID, channelID), &record)
	if err != nil || !found {
		return models.Channel{}, false, err
	}
	return channelFromRecord(record), true, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, serverID, channelID string) ([]models.Message, error) {
	messages, err := r.messages(ctx, r.db.WithContext(ctx).Where("server_id = ? AND channel_id = ?", serverID, channelID))
	if err != nil {
		return nil, err
	}
	sortMessages(messages)
	return messages, nil
}

func (r *chatRepository) ListPinnedMessages(ctx context.Context, serverID, channelID string) ([]models.Message, error) {
	return r.messages(ctx, r.db.WithContext(ctx).Where("server_id = ? AND channel_id = ? AND is_pinned = ?", serverID, channelID, true))
}

func (r *chatRepository) ListUsers(ctx context.Context, _ string) ([]models.User, error) {
	var records []models.UserRecord
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(records))
	for _, record := range records {
		users = append(users, userFromRecord(record))
	}
	return users, nil
}

func (r *chatRepository) GetUser(ctx context.Context, id string) (models.User, bool, error) {
	var record models.UserRecord
	found, err := first(r.db.WithContext(ctx).Where("id = ?", id), &record)
	if err != nil || !found {
		return models.User{}, false, err
	}
	return userFromRecord(record), true, nil
}

func (r *chatRepository) ListThreads(ctx context.Context, serverID string) ([]models.Thread, error) {
	var records []models.ThreadRecord
	if err := r.db.WithContext(ctx).Where("server_id = ?", serverID).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	users, err := r.userIndex(ctx)
	if err != nil {
		return nil, err
	}
	threads := make([]models.Thread, 0, len(records))
	for _, record := range records {
		thread, err := threadFromRecord(record, users)
		if err != nil {
			return nil, err
		}
		threads = append(threads, thread)
	}
	return threads, nil
}

func (r *chatRepository) GetThread(ctx context.Context, id string) (models.Thread, bool, error) {
	var record models.ThreadRecord
	found, err := first(r.db.WithContext(ctx).Where("id = ?", id), &record)
	if err != nil || !found {
		return models.Thread{}, false, err
	}
	users, err := r.userIndex(ctx)
	if err != nil {
		return models.Thread{}, false, err
	}
	thread, err := threadFromRecord(record, users)
	if err != nil {
		return models.Thread{}, false, err
	}
	return thread, true, nil
}

func (r *chatRepository) ListThreadReplies(ctx context.Context, threadID string) ([]models.ThreadReply, error) {
	var records []models.ThreadReplyRecord
	if err := r.db.WithContext(ctx).Where("thread_id = ?", threadID).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	users, err := r.userIndex(ctx)
	if err != nil {
		return nil, err
	}
	replies := make([]models.ThreadReply, 0, len(records))
	for _, record := range records {
		author, err := lookupUser(users, record.AuthorID, "thread reply", record.ID)
		if err != nil {
			return nil, err
		}
		replies = append(replies, models.ThreadReply{
			ID:        record.ID,
			ThreadID:  record.ThreadID,
			Author:    author,
			Content:   record.Content,
			CreatedAt: record.Timestamp,
		})
	}
	sortReplies(replies)
	return replies, nil
}

func (r *chatRepository) ListAttachments(ctx context.Context, serverID string) ([]models.Attachment, error) {
	var records []models.AttachmentRecord
	if err := r.db.WithContext(ctx).Where("server_id = ?", serverID).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	users, err := r.userIndex(ctx)
	if err != nil {
		return nil, err
	}
	attachments := make([]models.Attachment, 0, len(records))
	for _, record := range records {
		uploader, err := lookupUser(users, record.UploaderID, "attachment", record.ID)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, models.Attachment{
			ID:         record.ID,
			ServerID:   record.ServerID,
			Name:       record.Name,
			Size:       record.Size,
			UploadedBy: uploader,
			UploadedAt: record.UploadedAt,
		})
	}
	return attachments, nil
}

func (r *chatRepository) ListActivityMetrics(ctx context.Context, _ string) ([]models.ActivityMetric, error) {
	var records []models.ActivityMetricRecord
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	metrics := make([]models.ActivityMetric, 0, len(records))
	for _, record := range records {
		metrics = append(metrics, models.ActivityMetric{
			Date:        record.Date,
			Messages:    record.Messages,
			ActiveUsers: record.ActiveUsers,
		})
	}
	return metrics, nil
}

func (r *chatRepository) messages(ctx context.Context, query *gorm.DB) ([]models.Message, error) {
	var records []models.MessageRecord
	if err := query.Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	users, err := r.userIndex(ctx)
	if err != nil {
		return nil, err
	}
	messages := make([]models.Message, 0, len(records))
	for _, record := range records {
		message, err := messageFromRecord(record, users)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (r *chatRepository) userIndex(ctx context.Context) (map[string]models.User, error) {
	var records []models.UserRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	users := make(map[string]models.User, len(records))
	for _, record := range records {
		users[record.ID] = userFromRecord(record)
	}
	return users, nil
}

func first(query *gorm.DB, dest interface{}) (bool, error) {
	err := query.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func lookupUser(users map[string]models.User, id, owner, ownerID string) (models.User, error) {
	user, ok := users[id]
	if !ok {
		return models.User{}, fmt.Errorf("%s %q references missing user %q", owner, ownerID, id)
	}
	return user, nil
}

func serverFromRecord(record models.ServerRecord) models.Server {
	return models.Server{ID: record.ID, Name: record.Name, IconText: record.IconText}
}

func channelFromRecord(record models.ChannelRecord) models.Channel {
	return models.Channel{
		ID:          record.ID,
		ServerID:    record.ServerID,
		Name:        record.Name,
		Kind:        models.ChannelKind(record.Kind),
		Unread:      record.Unread,
		IsPinned:    record.IsPinned,
		ActiveUsers: record.ActiveUsers,
	}
}

func userFromRecord(record models.UserRecord) models.User {
	return models.User{
		ID:         record.ID,
		Name:       record.Name,
		AvatarText: record.AvatarText,
		Status:     models.UserStatus(record.Status),
		Role:       record.Role,
	}
}

func threadFromRecord(record models.ThreadRecord, users map[string]models.User) (models.Thread, error) {
	author, err := lookupUser(users, record.AuthorID, "thread", record.ID)
	if err != nil {
		return models.Thread{}, err
	}
	return models.Thread{
		ID:         record.ID,
		ServerID:   record.ServerID,
		Title:      record.Title,
		Author:     author,
		CreatedAt:  record.Timestamp,
		ReplyCount: record.ReplyCount,
	}, nil
}

func messageFromRecord(record models.MessageRecord, users map[string]models.User) (models.Message, error) {
	author, err := lookupUser(users, record.AuthorID, "message", record.ID)
	if err != nil {
		return models.Message{}, err
	}
	message := models.Message{
		ID:        record.ID,
		ServerID:  record.ServerID,
		ChannelID: record.ChannelID,
		Author:    author,
		Content:   record.Content,
		CreatedAt: record.Timestamp,
		IsPinned:  record.IsPinned,
		IsEdited:  record.IsEdited,
	}
	if err := decodeJSON(record.Reactions, &message.Reactions); err != nil {
		return models.Message{}, fmt.Errorf("message %q reactions: %w", record.ID, err)
	}
	if err := decodeJSON(record.Embed, &message.Embed); err != nil {
		return models.Message{}, fmt.Errorf("message %q embed: %w", record.ID, err)
	}
	if err := decodeJSON(record.CodeBlock, &message.CodeBlock); err != nil {
		return models.Message{}, fmt.Errorf("message %q code block: %w", record.ID, err)
	}
	return message, nil
}

func decodeJSON(raw datatypes.JSON, dest interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func encodeJSON(value interface{}) (datatypes.JSON, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(payload), nil
}
