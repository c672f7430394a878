package dto

// ServerResponse serializes a server.
type ServerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IconText string `json:"icon_text"`
	Href     string `json:"href"`
}

// RailServerResponse is a server entry in the server rail.
type RailServerResponse struct {
	ServerResponse
	Active bool `json:"active"`
}

// ChannelResponse serializes a channel for the sidebar. Badges are only set
// when there is something to show.
type ChannelResponse struct {
	ID               string `json:"id"`
	ServerID         string `json:"server_id"`
	Name             string `json:"name"`
	Kind             string `json:"kind"`
	Href             string `json:"href,omitempty"`
	IsPinned         bool   `json:"is_pinned"`
	Unread           *int   `json:"unread,omitempty"`
	ActiveUsers      *int   `json:"active_users,omitempty"`
	UnreadBadge      int    `json:"unread_badge,omitempty"`
	ActiveUsersBadge int    `json:"active_users_badge,omitempty"`
	Active           bool   `json:"active"`
}

// TabResponse is one entry of the top navigation.
type TabResponse struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// LayoutResponse carries everything the server shell renders around a page.
type LayoutResponse struct {
	Servers       []RailServerResponse `json:"servers"`
	Server        ServerResponse       `json:"server"`
	TextChannels  []ChannelResponse    `json:"text_channels"`
	VoiceChannels []ChannelResponse    `json:"voice_channels"`
	Tabs          []TabResponse        `json:"tabs"`
}

// LayoutRequest captures the optional navigation state of the caller.
type LayoutRequest struct {
	ServerID        string
	ActiveChannelID string
	ActivePath      string
}

// NotificationSetting is a toggle on the settings page.
type NotificationSetting struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// SettingsResponse serializes the server settings page.
type SettingsResponse struct {
	ServerID      string                `json:"server_id"`
	ServerName    string                `json:"server_name"`
	Notifications []NotificationSetting `json:"notifications"`
	PrivacyNotice string                `json:"privacy_notice"`
}

// UserResponse serializes a member profile.
type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AvatarText string `json:"avatar_text"`
	Status     string `json:"status"`
	Role       string `json:"role,omitempty"`
}

// ReactionResponse serializes an emoji reaction.
type ReactionResponse struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// EmbedResponse serializes a link preview.
type EmbedResponse struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	URL         string `json:"url,omitempty"`
}

// CodeBlockResponse serializes a code snippet.
type CodeBlockResponse struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// MessageResponse serializes a chat message.
type MessageResponse struct {
	ID          string             `json:"id"`
	ServerID    string             `json:"server_id"`
	ChannelID   string             `json:"channel_id"`
	Author      UserResponse       `json:"author"`
	Content     string             `json:"content"`
	CreatedAt   string             `json:"created_at"`
	DisplayTime string             `json:"display_time"`
	Reactions   []ReactionResponse `json:"reactions,omitempty"`
	IsPinned    bool               `json:"is_pinned"`
	IsEdited    bool               `json:"is_edited"`
	Embed       *EmbedResponse     `json:"embed,omitempty"`
	CodeBlock   *CodeBlockResponse `json:"code_block,omitempty"`
}

// ChannelViewResponse is the message pane of a channel.
type ChannelViewResponse struct {
	Channel  ChannelResponse   `json:"channel"`
	Messages []MessageResponse `json:"messages"`
	Pinned   []MessageResponse `json:"pinned"`
	Empty    bool              `json:"empty"`
}

// DirectMessageResponse is the direct-message placeholder for a user.
type DirectMessageResponse struct {
	User        UserResponse `json:"user"`
	Intro       string       `json:"intro"`
	Notice      string       `json:"notice"`
	Placeholder string       `json:"placeholder"`
}

// ThreadResponse serializes a thread summary.
type ThreadResponse struct {
	ID          string       `json:"id"`
	ServerID    string       `json:"server_id"`
	Title       string       `json:"title"`
	Author      UserResponse `json:"author"`
	CreatedAt   string       `json:"created_at"`
	DisplayDate string       `json:"display_date"`
	ReplyCount  int          `json:"reply_count"`
	Href        string       `json:"href"`
}

// ThreadReplyResponse serializes a reply inside a thread.
type ThreadReplyResponse struct {
	ID          string       `json:"id"`
	ThreadID    string       `json:"thread_id"`
	Author      UserResponse `json:"author"`
	Content     string       `json:"content"`
	CreatedAt   string       `json:"created_at"`
	DisplayTime string       `json:"display_time"`
}

// ThreadDetailResponse is a thread with its replies.
type ThreadDetailResponse struct {
	Thread  ThreadResponse        `json:"thread"`
	Replies []ThreadReplyResponse `json:"replies"`
}

// AttachmentResponse serializes a shared file.
type AttachmentResponse struct {
	ID          string       `json:"id"`
	ServerID    string       `json:"server_id"`
	Name        string       `json:"name"`
	Size        string       `json:"size"`
	UploadedBy  UserResponse `json:"uploaded_by"`
	UploadedAt  string       `json:"uploaded_at"`
	DisplayDate string       `json:"display_date"`
}

// ActivityPoint is one row of the insights timeline.
type ActivityPoint struct {
	Date        string  `json:"date"`
	Label       string  `json:"label"`
	Messages    int     `json:"messages"`
	ActiveUsers int     `json:"active_users"`
	BarWidthPct float64 `json:"bar_width_pct"`
}

// InsightsResponse aggregates the activity series of a server.
type InsightsResponse struct {
	ServerID         string          `json:"server_id"`
	TotalMessages    int             `json:"total_messages"`
	AvgDailyMessages int             `json:"avg_daily_messages"`
	PeakActiveUsers  int             `json:"peak_active_users"`
	Timeline         []ActivityPoint `json:"timeline"`
	CacheHit         bool            `json:"cache_hit"`
}

// VitalRequest is a web-vitals sample reported by a browser.
type VitalRequest struct {
	Name   string   `json:"name" validate:"required,oneof=LCP FID CLS FCP TTFB INP"`
	Value  *float64 `json:"value" validate:"required,gte=0"`
	ID     string   `json:"id" validate:"required,max=128"`
	Rating string   `json:"rating" validate:"omitempty,oneof=good needs-improvement poor"`
}

// VitalResponse echoes the accepted sample with its resolved rating.
type VitalResponse struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	ID        string  `json:"id"`
	Rating    string  `json:"rating"`
	Published bool    `json:"published"`
}
