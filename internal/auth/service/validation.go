package service

import (
	"strings"
	"unicode/utf8"

	"github.com/AlibekovAA/dh-notes/internal/common/constants"
	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
)

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return commonerrors.ErrCredentialsValidation.WithMessage("username must not be blank")
	}
	if utf8.RuneCountInString(username) > constants.UsernameMaxLength {
		return commonerrors.ErrCredentialsValidation.WithMessage("username is too long")
	}
	if password == "" {
		return commonerrors.ErrCredentialsValidation.WithMessage("password must not be empty")
	}
	// bcrypt ignores everything past 72 bytes.
	if len(password) > constants.PasswordMaxBytes {
		return commonerrors.ErrCredentialsValidation.WithMessage("password is too long")
	}
	return nil
}
