package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrDuplicateDate    = errors.New("an entry already exists for this date")
	ErrTodoNotFound     = errors.New("todo not found")
	ErrMediaNotFound    = errors.New("media not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrNoQuotes         = errors.New("no quotes available")
	ErrBuddyExists      = errors.New("buddy request already sent")
	ErrRequestNotFound  = errors.New("request not found")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
