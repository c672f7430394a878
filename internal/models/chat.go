package models

// ChannelKind distinguishes text channels from voice channels.
type ChannelKind string

const (
	ChannelKindText  ChannelKind = "text"
	ChannelKindVoice ChannelKind = "voice"
)

// Valid reports whether the kind is one of the known channel kinds.
func (k ChannelKind) Valid() bool {
	return k == ChannelKindText || k == ChannelKindVoice
}

// UserStatus is the presence state shown next to a user.
type UserStatus string

const (
	UserStatusOnline  UserStatus = "online"
	UserStatusAway    UserStatus = "away"
	UserStatusOffline UserStatus = "offline"
)

// Valid reports whether the status is one of the known presence states.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusOnline, UserStatusAway, UserStatusOffline:
		return true
	default:
		return false
	}
}

// Server is a top-level community shown in the server rail.
type Server struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IconText string `json:"icon_text"`
}

// Channel belongs to exactly one server.
type Channel struct {
	ID          string      `json:"id"`
	ServerID    string      `json:"server_id"`
	Name        string      `json:"name"`
	Kind        ChannelKind `json:"kind"`
	Unread      *int        `json:"unread,omitempty"`
	IsPinned    bool        `json:"is_pinned"`
	ActiveUsers *int        `json:"active_users,omitempty"`
}

// Clone returns a copy that shares no pointers with c.
func (c Channel) Clone() Channel {
	c.Unread = cloneInt(c.Unread)
	c.ActiveUsers = cloneInt(c.ActiveUsers)
	return c
}

// User is a member profile referenced as author or uploader.
type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	AvatarText string     `json:"avatar_text"`
	Status     UserStatus `json:"status"`
	Role       string     `json:"role,omitempty"`
}

// Reaction is an aggregated emoji count on a message.
type Reaction struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// Embed is a link preview attached to a message.
type Embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	URL         string `json:"url,omitempty"`
}

// CodeBlock is a fenced snippet attached to a message.
type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// Message is a chat line posted in a channel. CreatedAt is an ISO-8601 string
// and is compared as a string when ordering.
type Message struct {
	ID        string     `json:"id"`
	ServerID  string     `json:"server_id"`
	ChannelID string     `json:"channel_id"`
	Author    User       `json:"author"`
	Content   string     `json:"content"`
	CreatedAt string     `json:"created_at"`
	Reactions []Reaction `json:"reactions,omitempty"`
	IsPinned  bool       `json:"is_pinned"`
	IsEdited  bool       `json:"is_edited"`
	Embed     *Embed     `json:"embed,omitempty"`
	CodeBlock *CodeBlock `json:"code_block,omitempty"`
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	if m.Reactions != nil {
		m.Reactions = append([]Reaction(nil), m.Reactions...)
	}
	if m.Embed != nil {
		embed := *m.Embed
		m.Embed = &embed
	}
	if m.CodeBlock != nil {
		block := *m.CodeBlock
		m.CodeBlock = &block
	}
	return m
}

// Thread is a long-running discussion scoped to a server.
type Thread struct {
	ID         string `json:"id"`
	ServerID   string `json:"server_id"`
	Title      string `json:"title"`
	Author     User   `json:"author"`
	CreatedAt  string `json:"created_at"`
	ReplyCount int    `json:"reply_count"`
}

// ThreadReply is a single answer inside a thread.
type ThreadReply struct {
	ID        string `json:"id"`
	ThreadID  string `json:"thread_id"`
	Author    User   `json:"author"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Attachment is a file shared in a server.
type Attachment struct {
	ID         string `json:"id"`
	ServerID   string `json:"server_id"`
	Name       string `json:"name"`
	Size       string `json:"size"`
	UploadedBy User   `json:"uploaded_by"`
	UploadedAt string `json:"uploaded_at"`
}

// ActivityMetric is one day of the activity time series.
type ActivityMetric struct {
	Date        string `json:"date"`
	Messages    int    `json:"messages"`
	ActiveUsers int    `json:"active_users"`
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}
