package domain

import (
	"math"
	"time"
)

type ID int64

// Note is an immutable value. Use the With* methods to derive modified copies.
type Note struct {
	ID        ID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewNote(title, content string) Note {
	return Note{Title: title, Content: content}
}

func (n Note) WithID(id ID) Note {
	n.ID = id
	return n
}

func (n Note) WithTitle(title string) Note {
	n.Title = title
	return n
}

func (n Note) WithContent(content string) Note {
	n.Content = content
	return n
}

func (n Note) WithCreatedAt(t time.Time) Note {
	n.CreatedAt = t
	return n
}

// Touched returns a copy with UpdatedAt set to t.
func (n Note) Touched(t time.Time) Note {
	n.UpdatedAt = &t
	return n
}

func (n Note) IsPersisted() bool {
	return n.ID > 0
}

type Page struct {
	Content       []Note
	Number        int
	Size          int
	TotalElements int64
	TotalPages    int
}

func NewPage(content []Note, number, size int, total int64) Page {
	if content == nil {
		content = []Note{}
	}
	pages := 0
	if size > 0 {
		pages = int(total / int64(size))
		if total%int64(size) != 0 {
			pages++
		}
	}
	return Page{
		Content:       content,
		Number:        number,
		Size:          size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// PageOffset returns the index of the first element of the given page. ok is
// false when page or size is out of range or page*size does not fit in an int;
// such a page is past any real result set.
func PageOffset(page, size int) (offset int, ok bool) {
	if page < 0 || size <= 0 {
		return 0, false
	}
	if page > 0 && size > math.MaxInt/page {
		return 0, false
	}
	return page * size, true
}

func EmptyPage(number, size int) Page {
	return NewPage(nil, number, size, 0)
}

func (p Page) IsEmpty() bool {
	return len(p.Content) == 0
}
