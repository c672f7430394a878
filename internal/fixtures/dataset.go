package fixtures

import (
	"errors"
	"fmt"
	"time"

	"github.com/noah-isme/chatshell-api/internal/models"
)

// TimestampLayout is the ISO-8601 shape of every fixture timestamp: UTC with
// millisecond precision and a literal Z suffix.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Dataset holds the complete fixture set. It must not be modified once it has
// been handed to a repository.
type Dataset struct {
	Servers         []models.Server
	Channels        []models.Channel
	Users           []models.User
	Messages        []models.Message
	Threads         []models.Thread
	ThreadReplies   []models.ThreadReply
	Attachments     []models.Attachment
	ActivityMetrics []models.ActivityMetric
}

// Timestamp formats t the way fixture timestamps are stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// MinutesAgo returns the fixture timestamp for now minus the given minutes.
func MinutesAgo(now time.Time, minutes int) string {
	return Timestamp(now.Add(-time.Duration(minutes) * time.Minute))
}

// Validate checks identifier uniqueness, enum values, timestamp shape and that
// every reference resolves. All violations are reported together.
func (d *Dataset) Validate() error {
	if d == nil {
		return errors.New("fixtures: dataset is nil")
	}

	var errs []error
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	servers := make(map[string]struct{}, len(d.Servers))
	for _, server := range d.Servers {
		if server.ID == "" {
			add("server with empty id")
			continue
		}
		if _, dup := servers[server.ID]; dup {
			add("duplicate server id %q", server.ID)
		}
		servers[server.ID] = struct{}{}
	}

	users := make(map[string]models.User, len(d.Users))
	for _, user := range d.Users {
		if user.ID == "" {
			add("user with empty id")
			continue
		}
		if _, dup := users[user.ID]; dup {
			add("duplicate user id %q", user.ID)
		}
		if !user.Status.Valid() {
			add("user %q has unknown status %q", user.ID, user.Status)
		}
		users[user.ID] = user
	}

	checkAuthor := func(owner, id string, author models.User) {
		known, ok := users[author.ID]
		if !ok {
			add("%s %q references unknown user %q", owner, id, author.ID)
			return
		}
		if known != author {
			add("%s %q carries a stale copy of user %q", owner, id, author.ID)
		}
	}
	checkTimestamp := func(owner, id, value string) {
		if _, err := time.Parse(time.RFC3339Nano, value); err != nil {
			add("%s %q has invalid timestamp %q", owner, id, value)
		}
	}

	type channelKey struct{ server, channel string }
	channels := make(map[channelKey]struct{}, len(d.Channels))
	for _, channel := range d.Channels {
		if _, ok := servers[channel.ServerID]; !ok {
			add("channel %q references unknown server %q", channel.ID, channel.ServerID)
		}
		key := channelKey{channel.ServerID, channel.ID}
		if _, dup := channels[key]; dup {
			add("duplicate channel %q in server %q", channel.ID, channel.ServerID)
		}
		if !channel.Kind.Valid() {
			add("channel %q has unknown kind %q", channel.ID, channel.Kind)
		}
		channels[key] = struct{}{}
	}

	messageIDs := make(map[string]struct{}, len(d.Messages))
	for _, message := range d.Messages {
		if _, dup := messageIDs[message.ID]; dup {
			add("duplicate message id %q", message.ID)
		}
		messageIDs[message.ID] = struct{}{}
		if _, ok := channels[channelKey{message.ServerID, message.ChannelID}]; !ok {
			add("message %q references unknown channel %q in server %q", message.ID, message.ChannelID, message.ServerID)
		}
		checkAuthor("message", message.ID, message.Author)
		checkTimestamp("message", message.ID, message.CreatedAt)
	}

	threads := make(map[string]struct{}, len(d.Threads))
	for _, thread := range d.Threads {
		if _, dup := threads[thread.ID]; dup {
			add("duplicate thread id %q", thread.ID)
		}
		threads[thread.ID] = struct{}{}
		if _, ok := servers[thread.ServerID]; !ok {
			add("thread %q references unknown server %q", thread.ID, thread.ServerID)
		}
		checkAuthor("thread", thread.ID, thread.Author)
		checkTimestamp("thread", thread.ID, thread.CreatedAt)
	}

	replyIDs := make(map[string]struct{}, len(d.ThreadReplies))
	for _, reply := range d.ThreadReplies {
		if _, dup := replyIDs[reply.ID]; dup {
			add("duplicate thread reply id %q", reply.ID)
		}
		replyIDs[reply.ID] = struct{}{}
		if _, ok := threads[reply.ThreadID]; !ok {
			add("thread reply %q references unknown thread %q", reply.ID, reply.ThreadID)
		}
		checkAuthor("thread reply", reply.ID, reply.Author)
		checkTimestamp("thread reply", reply.ID, reply.CreatedAt)
	}

	attachmentIDs := make(map[string]struct{}, len(d.Attachments))
	for _, attachment := range d.Attachments {
		if _, dup := attachmentIDs[attachment.ID]; dup {
			add("duplicate attachment id %q", attachment.ID)
		}
		attachmentIDs[attachment.ID] = struct{}{}
		if _, ok := servers[attachment.ServerID]; !ok {
			add("attachment %q references unknown server %q", attachment.ID, attachment.ServerID)
		}
		checkAuthor("attachment", attachment.ID, attachment.UploadedBy)
		checkTimestamp("attachment", attachment.ID, attachment.UploadedAt)
	}

	dates := make(map[string]struct{}, len(d.ActivityMetrics))
	for _, metric := range d.ActivityMetrics {
		if _, dup := dates[metric.Date]; dup {
			add("duplicate activity metric date %q", metric.Date)
		}
		dates[metric.Date] = struct{}{}
		if _, err := time.Parse("2006-01-02", metric.Date); err != nil {
			add("activity metric has invalid date %q", metric.Date)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("fixtures: invalid dataset: %w", errors.Join(errs...))
	}
	return nil
}
