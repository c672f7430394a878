package service

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/noah-isme/chatshell-api/internal/dto"
	"github.com/noah-isme/chatshell-api/internal/models"
)

const (
	todayTimeLayout   = "3:04 PM"
	olderTimeLayout   = "01/02, 3:04 PM"
	replyTimeLayout   = "3:04:05 PM"
	dateLayout        = "1/2/2006"
	metricDateLayout  = "2006-01-02"
	metricLabelLayout = "Jan 2"

	// A timeline bar is full at this many messages per day.
	timelineFullScale = 70
)

// presenter turns entities into view-models. Display strings are rendered in
// UTC against the injected clock.
type presenter struct {
	now func() time.Time
}

func newPresenter(now func() time.Time) presenter {
	if now == nil {
		now = time.Now
	}
	return presenter{now: now}
}

func serverHref(serverID string) string {
	return fmt.Sprintf("/servers/%s/channels/general", serverID)
}

func toServerResponse(server models.Server) dto.ServerResponse {
	return dto.ServerResponse{
		ID:       server.ID,
		Name:     server.Name,
		IconText: server.IconText,
		Href:     serverHref(server.ID),
	}
}

func toChannelResponse(channel models.Channel, activeChannelID string) dto.ChannelResponse {
	response := dto.ChannelResponse{
		ID:          channel.ID,
		ServerID:    channel.ServerID,
		Name:        channel.Name,
		Kind:        string(channel.Kind),
		IsPinned:    channel.IsPinned,
		Unread:      channel.Unread,
		ActiveUsers: channel.ActiveUsers,
	}
	if channel.Kind == models.ChannelKindText {
		response.Href = fmt.Sprintf("/servers/%s/channels/%s", channel.ServerID, channel.ID)
		response.Active = activeChannelID != "" && channel.ID == activeChannelID
		if channel.Unread != nil && *channel.Unread > 0 {
			response.UnreadBadge = *channel.Unread
		}
	}
	if channel.Kind == models.ChannelKindVoice && channel.ActiveUsers != nil && *channel.ActiveUsers > 0 {
		response.ActiveUsersBadge = *channel.ActiveUsers
	}
	return response
}

func toUserResponse(user models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		AvatarText: user.AvatarText,
		Status:     string(user.Status),
		Role:       user.Role,
	}
}

func (p presenter) message(message models.Message) dto.MessageResponse {
	response := dto.MessageResponse{
		ID:          message.ID,
		ServerID:    message.ServerID,
		ChannelID:   message.ChannelID,
		Author:      toUserResponse(message.Author),
		Content:     message.Content,
		CreatedAt:   message.CreatedAt,
		DisplayTime: p.displayTime(message.CreatedAt),
		IsPinned:    message.IsPinned,
		IsEdited:    message.IsEdited,
	}
	for _, reaction := range message.Reactions {
		response.Reactions = append(response.Reactions, dto.ReactionResponse{Emoji: reaction.Emoji, Count: reaction.Count})
	}
	if message.Embed != nil {
		response.Embed = &dto.EmbedResponse{
			Title:       message.Embed.Title,
			Description: message.Embed.Description,
			Color:       message.Embed.Color,
			URL:         safeURL(message.Embed.URL),
		}
	}
	if message.CodeBlock != nil {
		response.CodeBlock = &dto.CodeBlockResponse{
			Language: message.CodeBlock.Language,
			Code:     message.CodeBlock.Code,
		}
	}
	return response
}

func (p presenter) messages(messages []models.Message) []dto.MessageResponse {
	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, p.message(message))
	}
	return responses
}

func (p presenter) thread(thread models.Thread) dto.ThreadResponse {
	return dto.ThreadResponse{
		ID:          thread.ID,
		ServerID:    thread.ServerID,
		Title:       thread.Title,
		Author:      toUserResponse(thread.Author),
		CreatedAt:   thread.CreatedAt,
		DisplayDate: formatTimestamp(thread.CreatedAt, dateLayout),
		ReplyCount:  thread.ReplyCount,
		Href:        fmt.Sprintf("/servers/%s/threads/%s", thread.ServerID, thread.ID),
	}
}

func (p presenter) reply(reply models.ThreadReply) dto.ThreadReplyResponse {
	return dto.ThreadReplyResponse{
		ID:          reply.ID,
		ThreadID:    reply.ThreadID,
		Author:      toUserResponse(reply.Author),
		Content:     reply.Content,
		CreatedAt:   reply.CreatedAt,
		DisplayTime: formatTimestamp(reply.CreatedAt, replyTimeLayout),
	}
}

func toAttachmentResponse(attachment models.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:          attachment.ID,
		ServerID:    attachment.ServerID,
		Name:        attachment.Name,
		Size:        attachment.Size,
		UploadedBy:  toUserResponse(attachment.UploadedBy),
		UploadedAt:  attachment.UploadedAt,
		DisplayDate: formatTimestamp(attachment.UploadedAt, dateLayout),
	}
}

// displayTime shows only the clock for timestamps on the current day.
func (p presenter) displayTime(value string) string {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return value
	}
	t = t.UTC()
	now := p.now().UTC()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format(todayTimeLayout)
	}
	return t.Format(olderTimeLayout)
}

func formatTimestamp(value, layout string) string {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return value
	}
	return t.UTC().Format(layout)
}

func metricLabel(date string) string {
	t, err := time.Parse(metricDateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(metricLabelLayout)
}

func barWidth(messages int) float64 {
	width := float64(messages) / timelineFullScale * 100
	if width > 100 {
		width = 100
	}
	if width < 0 {
		width = 0
	}
	return math.Round(width*100) / 100
}

func safeURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return parsed.String()
	default:
		return ""
	}
}
