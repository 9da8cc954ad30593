package domain

import (
	"strings"
	"time"
)

// TaskNotificationMarker is the phrase the Tasks integration adds to every
// lifecycle notification it posts.
const TaskNotificationMarker = "via Tasks"

// threadTaskSegment is the index of the task ID in spaces/<space>/threads/<task>.
const threadTaskSegment = 3

// EventKind is a task lifecycle event signalled by a notification.
type EventKind string

const (
	EventCreated   EventKind = "CREATED"
	EventAssigned  EventKind = "ASSIGNED"
	EventCompleted EventKind = "COMPLETED"
	EventDeleted   EventKind = "DELETED"
	EventReopened  EventKind = "REOPENED"
)

// eventPhrases lists the notification phrases in matching priority order.
var eventPhrases = []struct {
	phrase string
	kind   EventKind
}{
	{"Created", EventCreated},
	{"Assigned", EventAssigned},
	{"Completed", EventCompleted},
	{"Deleted", EventDeleted},
	{"Re-opened", EventReopened},
}

// AllEventKinds returns the event kinds in matching priority order.
func AllEventKinds() []EventKind {
	kinds := make([]EventKind, 0, len(eventPhrases))
	for _, p := range eventPhrases {
		kinds = append(kinds, p.kind)
	}
	return kinds
}

// Event is a lifecycle event extracted from one notification message.
type Event struct {
	Time        time.Time // createTime of the message
	TaskID      string
	Kind        EventKind
	Assignee    string // Mentioned name; valid only if HasAssignee
	Seq         int    // Arrival index within the batch
	HasAssignee bool
}

// Classifier recognizes task notifications by their marker phrase.
type Classifier struct {
	Marker string // Empty means TaskNotificationMarker
}

// DefaultClassifier returns a Classifier for the standard marker.
func DefaultClassifier() Classifier {
	return Classifier{Marker: TaskNotificationMarker}
}

// IsNotification reports whether text carries the notification marker.
func (c Classifier) IsNotification(text string) bool {
	marker := c.Marker
	if marker == "" {
		marker = TaskNotificationMarker
	}
	return strings.Contains(text, marker)
}

// Classify extracts the lifecycle event encoded by msg.
// It returns (nil, nil) for messages that are not task notifications.
// A notification whose thread name carries no task ID is an error.
func (c Classifier) Classify(msg Message) (*Event, error) {
	if !c.IsNotification(msg.Text) {
		return nil, nil
	}

	kind, ok := matchKind(msg.Text)
	if !ok {
		return nil, nil
	}

	taskID, err := TaskIDFromThread(msg.ThreadName())
	if err != nil {
		return nil, err
	}

	assignee, hasAssignee := ExtractMention(msg.Text)
	return &Event{
		TaskID:      taskID,
		Kind:        kind,
		Assignee:    assignee,
		HasAssignee: hasAssignee,
		Time:        msg.CreateTime,
	}, nil
}

func matchKind(text string) (EventKind, bool) {
	for _, p := range eventPhrases {
		if strings.Contains(text, p.phrase) {
			return p.kind, true
		}
	}
	return "", false
}

// TaskIDFromThread returns the task segment of spaces/<space>/threads/<task>.
func TaskIDFromThread(threadName string) (string, error) {
	segments := strings.Split(threadName, "/")
	if threadName == "" || len(segments) <= threadTaskSegment || segments[threadTaskSegment] == "" {
		n := len(segments)
		if threadName == "" {
			n = 0
		}
		return "", &MalformedThreadError{ThreadName: threadName, Segments: n}
	}
	return segments[threadTaskSegment], nil
}

// ExtractMention returns the name of the first @name(...) mention in text.
// Anything from the first " to" on is dropped, so "assigned to @Name to Space"
// yields "Name".
func ExtractMention(text string) (string, bool) {
	_, after, found := strings.Cut(text, "@")
	if !found {
		return "", false
	}
	if name, _, ok := strings.Cut(after, "("); ok {
		after = name
	}
	name, _, _ := strings.Cut(after, " to")
	return strings.TrimSpace(name), true
}
