package dto

import (
	"github.com/AlibekovAA/dh-notes/internal/common/constants"
	"github.com/AlibekovAA/dh-notes/internal/note/domain"
)

type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Note struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
}

type Page struct {
	Content       []Note `json:"content"`
	Number        int    `json:"number"`
	Size          int    `json:"size"`
	TotalElements int64  `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
}

func (r NoteRequest) ToDomain() domain.Note {
	return domain.NewNote(r.Title, r.Content)
}

func FromNote(n domain.Note) Note {
	out := Note{
		ID:        int64(n.ID),
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt.Format(constants.TimestampLayout),
	}
	if n.UpdatedAt != nil {
		formatted := n.UpdatedAt.Format(constants.TimestampLayout)
		out.UpdatedAt = &formatted
	}
	return out
}

func FromNotes(notes []domain.Note) []Note {
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, FromNote(n))
	}
	return out
}

func FromPage(p domain.Page) Page {
	return Page{
		Content:       FromNotes(p.Content),
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}
