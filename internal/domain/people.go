package domain

import (
	"slices"
	"strings"
)

// CollectPeople gathers the people seen in a batch of messages: every sender
// display name plus every name mentioned in a task notification.
// The result is sorted and free of duplicates and empty names.
func (c Classifier) CollectPeople(messages []Message) []string {
	seen := make(map[string]struct{})
	for _, msg := range messages {
		if name := strings.TrimSpace(msg.SenderDisplayName()); name != "" {
			seen[name] = struct{}{}
		}
		if !c.IsNotification(msg.Text) {
			continue
		}
		if name, ok := ExtractMention(msg.Text); ok && name != "" {
			seen[name] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// MergePeople merges name lists into one sorted list without duplicates.
func MergePeople(lists ...[]string) []string {
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, name := range list {
			if name = strings.TrimSpace(name); name != "" {
				seen[name] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	result := make([]string, 0, len(set))
	for k := range set {
		result = append(result, k)
	}
	slices.Sort(result)
	return result
}
