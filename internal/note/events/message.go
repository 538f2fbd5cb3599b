package events

import (
	"github.com/AlibekovAA/dh-notes/internal/note/domain"
	"github.com/AlibekovAA/dh-notes/internal/note/dto"
)

type Message struct {
	Type string    `json:"type"`
	ID   int64     `json:"id"`
	Note *dto.Note `json:"note,omitempty"`
}

func messageFromEvent(e domain.Event) Message {
	msg := Message{Type: string(e.Type), ID: int64(e.ID)}
	if e.Note != nil {
		n := dto.FromNote(*e.Note)
		msg.Note = &n
	}
	return msg
}
