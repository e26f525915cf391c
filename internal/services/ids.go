package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/example/sidedish/internal/apperr"
	"github.com/example/sidedish/internal/models"
)

// newUserID returns prefix followed by the millisecond timestamp (omitted
// when at is zero), with a numeric suffix appended if that id is taken.
func newUserID(users []models.User, prefix string, at time.Time) string {
	base := prefix
	if !at.IsZero() {
		base += strconv.FormatInt(at.UnixMilli(), 10)
	}
	id := base
	for n := 2; models.FindUserByID(users, id) >= 0; n++ {
		id = base + "_" + strconv.Itoa(n)
	}
	return id
}

// wrapStoreError passes classified errors through and hides storage
// failures behind msg.
func wrapStoreError(err error, msg string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperr.Internal(msg, err)
}
