package models

import "gorm.io/datatypes"

// The record types below are the relational shape of the fixture set. Position
// keeps the declaration order of the literals; timestamps stay text so that
// ordering matches the in-memory store byte for byte.

// ServerRecord is the persisted form of Server.
type ServerRecord struct {
	ID       string `gorm:"primaryKey;size:64"`
	Position int    `gorm:"index;not null"`
	Name     string `gorm:"size:128;not null"`
	IconText string `gorm:"size:16"`
}

// TableName overrides the gorm default.
func (ServerRecord) TableName() string { return "servers" }

// ChannelRecord is the persisted form of Channel. Channel ids are only unique
// within a server.
type ChannelRecord struct {
	ServerID    string `gorm:"primaryKey;size:64"`
	ID          string `gorm:"primaryKey;size:64"`
	Position    int    `gorm:"index;not null"`
	Name        string `gorm:"size:128;not null"`
	Kind        string `gorm:"size:16;not null"`
	Unread      *int
	IsPinned    bool `gorm:"not null;default:false"`
	ActiveUsers *int
}

// TableName overrides the gorm default.
func (ChannelRecord) TableName() string { return "channels" }

// UserRecord is the persisted form of User.
type UserRecord struct {
	ID         string `gorm:"primaryKey;size:64"`
	Position   int    `gorm:"index;not null"`
	Name       string `gorm:"size:128;not null"`
	AvatarText string `gorm:"size:16"`
	Status     string `gorm:"size:16;not null"`
	Role       string `gorm:"size:64"`
}

// TableName overrides the gorm default.
func (UserRecord) TableName() string { return "users" }

// MessageRecord is the persisted form of Message. Reactions, embed and code
// block are stored as JSON documents.
type MessageRecord struct {
	ID        string         `gorm:"primaryKey;size:64"`
	Position  int            `gorm:"index;not null"`
	ServerID  string         `gorm:"size:64;index:idx_messages_channel"`
	ChannelID string         `gorm:"size:64;index:idx_messages_channel"`
	AuthorID  string         `gorm:"size:64;not null"`
	Content   string         `gorm:"type:text"`
	Timestamp string         `gorm:"column:created_at;size:40;not null"`
	Reactions datatypes.JSON `gorm:"type:json"`
	IsPinned  bool           `gorm:"not null;default:false"`
	IsEdited  bool           `gorm:"not null;default:false"`
	Embed     datatypes.JSON `gorm:"type:json"`
	CodeBlock datatypes.JSON `gorm:"type:json"`
}

// TableName overrides the gorm default.
func (MessageRecord) TableName() string { return "messages" }

// ThreadRecord is the persisted form of Thread.
type ThreadRecord struct {
	ID         string `gorm:"primaryKey;size:64"`
	Position   int    `gorm:"index;not null"`
	ServerID   string `gorm:"size:64;index"`
	Title      string `gorm:"size:255;not null"`
	AuthorID   string `gorm:"size:64;not null"`
	Timestamp  string `gorm:"column:created_at;size:40;not null"`
	ReplyCount int    `gorm:"not null;default:0"`
}

// TableName overrides the gorm default.
func (ThreadRecord) TableName() string { return "threads" }

// ThreadReplyRecord is the persisted form of ThreadReply.
type ThreadReplyRecord struct {
	ID        string `gorm:"primaryKey;size:64"`
	Position  int    `gorm:"index;not null"`
	ThreadID  string `gorm:"size:64;index"`
	AuthorID  string `gorm:"size:64;not null"`
	Content   string `gorm:"type:text"`
	Timestamp string `gorm:"column:created_at;size:40;not null"`
}

// TableName overrides the gorm default.
func (ThreadReplyRecord) TableName() string { return "thread_replies" }

// AttachmentRecord is the persisted form of Attachment.
type AttachmentRecord struct {
	ID         string `gorm:"primaryKey;size:64"`
	Position   int    `gorm:"index;not null"`
	ServerID   string `gorm:"size:64;index"`
	Name       string `gorm:"size:255;not null"`
	Size       string `gorm:"size:32"`
	UploaderID string `gorm:"size:64;not null"`
	UploadedAt string `gorm:"size:40;not null"`
}

// TableName overrides the gorm default.
func (AttachmentRecord) TableName() string { return "attachments" }

// ActivityMetricRecord is the persisted form of ActivityMetric.
type ActivityMetricRecord struct {
	Date        string `gorm:"primaryKey;size:10"`
	Position    int    `gorm:"index;not null"`
	Messages    int    `gorm:"not null"`
	ActiveUsers int    `gorm:"not null"`
}

// TableName overrides the gorm default.
func (ActivityMetricRecord) TableName() string { return "activity_metrics" }

// FixtureTables lists every record type for AutoMigrate.
func FixtureTables() []interface{} {
	return []interface{}{
		&ServerRecord{},
		&ChannelRecord{},
		&UserRecord{},
		&MessageRecord{},
		&ThreadRecord{},
		&ThreadReplyRecord{},
		&AttachmentRecord{},
		&ActivityMetricRecord{},
	}
}
