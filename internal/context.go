package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextUserKey ctxKey = "authUser"

// AuthUser is the authenticated principal stored in the request context by the
// auth middleware. EmployeeID is the linked employee-directory row, which is
// what the leave engine keys on; ID is the login account.
type AuthUser struct {
	ID          int64
	EmployeeID  int64
	Email       string
	Name        string
	Permissions []string
}

func UserFromContext(ctx context.Context) (*AuthUser, bool) {
	if ctx == nil {
		return nil, false
	}
	user, ok := ctx.Value(ContextUserKey).(*AuthUser)
	return user, ok && user != nil
}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, ContextUserKey, user)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
