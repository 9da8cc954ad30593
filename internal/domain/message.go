package domain

import "time"

// Message is a chat message as delivered by the messaging backend.
// The core only reads it.
type Message struct {
	CreateTime time.Time `json:"createTime" yaml:"createTime"`
	Sender     *Sender   `json:"sender,omitempty" yaml:"sender,omitempty"`
	Thread     *Thread   `json:"thread,omitempty" yaml:"thread,omitempty"`
	Name       string    `json:"name,omitempty" yaml:"name,omitempty"` // spaces/<space>/messages/<id>
	Text       string    `json:"text,omitempty" yaml:"text,omitempty"`
}

// Sender identifies the author of a message.
type Sender struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"` // users/<id>
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"` // HUMAN or BOT
}

// Thread groups the messages of one task notification thread.
type Thread struct {
	Name string `json:"name" yaml:"name"` // spaces/<space>/threads/<task>
}

// ThreadName returns the thread name, or "" when the message has no thread.
func (m Message) ThreadName() string {
	if m.Thread == nil {
		return ""
	}
	return m.Thread.Name
}

// SenderDisplayName returns the sender display name, or "" when absent.
func (m Message) SenderDisplayName() string {
	if m.Sender == nil {
		return ""
	}
	return m.Sender.DisplayName
}
