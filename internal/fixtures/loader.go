package fixtures

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/microcosm-cc/bluemonday"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/noah-isme/chatshell-api/internal/models"
)

//go:embed schema.json
var schemaSource string

var fileSchema = jsonschema.MustCompileString("chatshell://fixtures.schema.json", schemaSource)

var markupPolicy = bluemonday.StrictPolicy()

// plainText strips markup from user-supplied text while keeping characters
// such as quotes and ampersands as written. Passes repeat until the text is
// stable so that entity-encoded tags cannot survive a single unescape.
func plainText(value string) string {
	for i := 0; i < 4; i++ {
		cleaned := html.UnescapeString(markupPolicy.Sanitize(value))
		if cleaned == value {
			break
		}
		value = cleaned
	}
	return value
}

func plainEmbed(embed *models.Embed) *models.Embed {
	if embed == nil {
		return nil
	}
	cleaned := *embed
	cleaned.Title = plainText(embed.Title)
	cleaned.Description = plainText(embed.Description)
	return &cleaned
}

type fileDocument struct {
	Servers         []fileServer  `json:"servers"`
	Users           []fileUser    `json:"users"`
	Channels        []fileChannel `json:"channels"`
	Messages        []fileMessage `json:"messages"`
	Threads         []fileThread  `json:"threads"`
	ThreadReplies   []fileReply   `json:"threadReplies"`
	Attachments     []fileAttach  `json:"attachments"`
	ActivityMetrics []fileMetric  `json:"activityMetrics"`
}

type fileServer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IconText string `json:"iconText"`
}

type fileUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AvatarText string `json:"avatarText"`
	Status     string `json:"status"`
	Role       string `json:"role"`
}

type fileChannel struct {
	ID          string `json:"id"`
	ServerID    string `json:"serverId"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Unread      *int   `json:"unread"`
	IsPinned    bool   `json:"isPinned"`
	ActiveUsers *int   `json:"activeUsers"`
}

type fileMessage struct {
	ID         string            `json:"id"`
	ServerID   string            `json:"serverId"`
	ChannelID  string            `json:"channelId"`
	AuthorID   string            `json:"authorId"`
	Content    string            `json:"content"`
	CreatedAt  string            `json:"createdAt"`
	MinutesAgo *int              `json:"minutesAgo"`
	Reactions  []models.Reaction `json:"reactions"`
	IsPinned   bool              `json:"isPinned"`
	IsEdited   bool              `json:"isEdited"`
	Embed      *models.Embed     `json:"embed"`
	CodeBlock  *models.CodeBlock `json:"codeBlock"`
}

type fileThread struct {
	ID         string `json:"id"`
	ServerID   string `json:"serverId"`
	Title      string `json:"title"`
	AuthorID   string `json:"authorId"`
	CreatedAt  string `json:"createdAt"`
	MinutesAgo *int   `json:"minutesAgo"`
	ReplyCount int    `json:"replyCount"`
}

type fileReply struct {
	ID         string `json:"id"`
	ThreadID   string `json:"threadId"`
	AuthorID   string `json:"authorId"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
	MinutesAgo *int   `json:"minutesAgo"`
}

type fileAttach struct {
	ID           string `json:"id"`
	ServerID     string `json:"serverId"`
	Name         string `json:"name"`
	Size         string `json:"size"`
	UploadedByID string `json:"uploadedById"`
	UploadedAt   string `json:"uploadedAt"`
	MinutesAgo   *int   `json:"minutesAgo"`
}

type fileMetric struct {
	Date        string `json:"date"`
	Messages    int    `json:"messages"`
	ActiveUsers int    `json:"activeUsers"`
}

// LoadFile reads a fixture set from a JSON document on disk. Relative
// timestamps (minutesAgo) are resolved against now.
func LoadFile(path string, now time.Time) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", path, err)
	}
	return Parse(data, now)
}

// Parse decodes, schema-checks and validates a fixture document. Markup is
// stripped from message, embed, thread and reply text.
func Parse(data []byte, now time.Time) (*Dataset, error) {
	if !isText(mimetype.Detect(data)) {
		return nil, fmt.Errorf("fixtures: expected a JSON document, detected %s", mimetype.Detect(data).String())
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fixtures: decode: %w", err)
	}
	if err := fileSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("fixtures: schema: %w", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fixtures: decode: %w", err)
	}

	dataset, err := doc.build(now)
	if err != nil {
		return nil, err
	}
	if err := dataset.Validate(); err != nil {
		return nil, err
	}
	return dataset, nil
}

func isText(detected *mimetype.MIME) bool {
	for m := detected; m != nil; m = m.Parent() {
		if m.Is("application/json") || m.Is("text/plain") {
			return true
		}
	}
	return false
}

func (doc fileDocument) build(now time.Time) (*Dataset, error) {
	dataset := &Dataset{}

	users := make(map[string]models.User, len(doc.Users))
	for _, u := range doc.Users {
		user := models.User{
			ID:         u.ID,
			Name:       u.Name,
			AvatarText: u.AvatarText,
			Status:     models.UserStatus(u.Status),
			Role:       u.Role,
		}
		users[user.ID] = user
		dataset.Users = append(dataset.Users, user)
	}

	author := func(owner, id, userID string) (models.User, error) {
		user, ok := users[userID]
		if !ok {
			return models.User{}, fmt.Errorf("fixtures: %s %q references unknown user %q", owner, id, userID)
		}
		return user, nil
	}
	stamp := func(absolute string, minutesAgo *int) string {
		if absolute != "" {
			return absolute
		}
		if minutesAgo != nil {
			return MinutesAgo(now, *minutesAgo)
		}
		return ""
	}

	for _, s := range doc.Servers {
		dataset.Servers = append(dataset.Servers, models.Server{ID: s.ID, Name: s.Name, IconText: s.IconText})
	}

	for _, c := range doc.Channels {
		dataset.Channels = append(dataset.Channels, models.Channel{
			ID:          c.ID,
			ServerID:    c.ServerID,
			Name:        c.Name,
			Kind:        models.ChannelKind(c.Kind),
			Unread:      c.Unread,
			IsPinned:    c.IsPinned,
			ActiveUsers: c.ActiveUsers,
		})
	}

	for _, m := range doc.Messages {
		user, err := author("message", m.ID, m.AuthorID)
		if err != nil {
			return nil, err
		}
		dataset.Messages = append(dataset.Messages, models.Message{
			ID:        m.ID,
			ServerID:  m.ServerID,
			ChannelID: m.ChannelID,
			Author:    user,
			Content:   plainText(m.Content),
			CreatedAt: stamp(m.CreatedAt, m.MinutesAgo),
			Reactions: m.Reactions,
			IsPinned:  m.IsPinned,
			IsEdited:  m.IsEdited,
			Embed:     plainEmbed(m.Embed),
			CodeBlock: m.CodeBlock,
		})
	}

	for _, t := range doc.Threads {
		user, err := author("thread", t.ID, t.AuthorID)
		if err != nil {
			return nil, err
		}
		dataset.Threads = append(dataset.Threads, models.Thread{
			ID:         t.ID,
			ServerID:   t.ServerID,
			Title:      plainText(t.Title),
			Author:     user,
			CreatedAt:  stamp(t.CreatedAt, t.MinutesAgo),
			ReplyCount: t.ReplyCount,
		})
	}

	for _, r := range doc.ThreadReplies {
		user, err := author("thread reply", r.ID, r.AuthorID)
		if err != nil {
			return nil, err
		}
		dataset.ThreadReplies = append(dataset.ThreadReplies, models.ThreadReply{
			ID:        r.ID,
			ThreadID:  r.ThreadID,
			Author:    user,
			Content:   plainText(r.Content),
			CreatedAt: stamp(r.CreatedAt, r.MinutesAgo),
		})
	}

	for _, a := range doc.Attachments {
		user, err := author("attachment", a.ID, a.UploadedByID)
		if err != nil {
			return nil, err
		}
		dataset.Attachments = append(dataset.Attachments, models.Attachment{
			ID:         a.ID,
			ServerID:   a.ServerID,
			Name:       a.Name,
			Size:       a.Size,
			UploadedBy: user,
			UploadedAt: stamp(a.UploadedAt, a.MinutesAgo),
		})
	}

	for _, metric := range doc.ActivityMetrics {
		dataset.ActivityMetrics = append(dataset.ActivityMetrics, models.ActivityMetric{
			Date:        metric.Date,
			Messages:    metric.Messages,
			ActiveUsers: metric.ActiveUsers,
		})
	}

	return dataset, nil
}
