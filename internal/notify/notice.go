package notify

import (
	"context"
	"errors"
)

// RoleStaff addresses every clinic staff account.
const RoleStaff = "staff"

// Notice is one message about an appointment, addressed either to a user
// (UserID, Email) or to a role.
type Notice struct {
	UserID uint   `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	Email  string `json:"-"`

	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`

	AppointmentID uint   `json:"appointment_id"`
	ActionURL     string `json:"action_url"`
}

type Sink interface {
	Deliver(ctx context.Context, n Notice) error
}

type SinkFunc func(ctx context.Context, n Notice) error

func (f SinkFunc) Deliver(ctx context.Context, n Notice) error { return f(ctx, n) }

// Multi delivers to every sink and joins their errors.
type Multi []Sink

func (m Multi) Deliver(ctx context.Context, n Notice) error {
	var errs []error
	for _, s := range m {
		if err := s.Deliver(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
