package usecase

import (
	"time"

	"github.com/runoshun/chat-tasks/internal/domain"
)

var may2024 = domain.DateRange{
	Start: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
}

func at(day, hour int) time.Time {
	return time.Date(2024, 5, day, hour, 0, 0, 0, time.UTC)
}

func groupSpace(id, display string) domain.Space {
	return domain.Space{Name: "spaces/" + id, DisplayName: display, SpaceType: domain.SpaceTypeSpace}
}

// notification builds a task notification for task in space.
func notification(space, task, text string, ts time.Time) domain.Message {
	return domain.Message{
		Name:       space + "/messages/" + task + ts.Format("0215"),
		Text:       text + " via Tasks",
		CreateTime: ts,
		Thread:     &domain.Thread{Name: space + "/threads/" + task + "/x"},
		Sender:     &domain.Sender{Name: "users/bot", DisplayName: "Tasks", Type: "BOT"},
	}
}

func chatMessage(sender, displayName, text string, ts time.Time) domain.Message {
	return domain.Message{
		Text:       text,
		CreateTime: ts,
		Sender:     &domain.Sender{Name: sender, DisplayName: displayName, Type: "HUMAN"},
	}
}
