package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
	"github.com/AlibekovAA/dh-notes/internal/note/domain"
)

type noteFields struct {
	Title   string `validate:"notblank,max=100"`
	Content string `validate:"notblank,max=1000"`
}

type NoteValidator struct {
	validate *validator.Validate
}

func NewNoteValidator() *NoteValidator {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validateNotBlank)
	return &NoteValidator{validate: v}
}

// Validate checks that title and content are non-blank after trimming and
// within their length limits in characters.
func (nv *NoteValidator) Validate(note domain.Note) error {
	err := nv.validate.Struct(noteFields{Title: note.Title, Content: note.Content})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return commonerrors.ErrNoteValidation.WithCause(err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "notblank":
			msgs = append(msgs, fmt.Sprintf("%s must not be blank", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return commonerrors.ErrNoteValidation.WithMessage(strings.Join(msgs, "; "))
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
