// Package checkin admits attendees at the door.  A scanned code moves a
// registration from unchecked to checked-in exactly once; every other
// outcome is reported as a Result instead of an error.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spott-events/spott/internal/clock"
	"github.com/spott-events/spott/internal/model"
	"github.com/spott-events/spott/internal/repository"
)

// Messages reported to the scanner.
const (
	MsgSuccess        = "Check-in successful"
	MsgAlreadyChecked = "Already checked in"
	MsgNotFound       = "Registration not found"
	MsgNotOrganizer   = "You are not the organizer of this event"
)

// Result is the outcome of one scan.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Store performs the atomic transition.  CheckIn returns
// repository.ErrRegistrationNotFound for unknown codes and
// repository.ErrAlreadyCheckedIn (with the stored registration) for
// repeat scans.
type Store interface {
	CheckIn(ctx context.Context, code string, at time.Time) (*model.Registration, error)
	EventOwnerByCode(ctx context.Context, code string) (uint64, error)
}

// Notifier hears about committed check-ins.  It must not fail the scan.
type Notifier interface {
	AttendeeCheckedIn(ctx context.Context, reg *model.Registration)
}

// Service runs check-ins.
type Service struct {
	store    Store
	clock    clock.Clock
	notifier Notifier
}

// NewService wires a Service.  notifier may be nil.
func NewService(store Store, clk clock.Clock, notifier Notifier) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{store: store, clock: clk, notifier: notifier}
}

// CheckIn admits the holder of code.  The returned error is non-nil only
// for infrastructure failures; not-found and repeat scans are Results.
func (s *Service) CheckIn(ctx context.Context, code string) (Result, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Result{Success: false, Message: MsgNotFound}, nil
	}
	// The transition must not be abandoned half-way once started.
	reg, err := s.store.CheckIn(context.WithoutCancel(ctx), code, s.clock.Now())
	switch {
	case errors.Is(err, repository.ErrRegistrationNotFound):
		return Result{Success: false, Message: MsgNotFound}, nil
	case errors.Is(err, repository.ErrAlreadyCheckedIn):
		return Result{Success: false, Message: MsgAlreadyChecked}, nil
	case err != nil:
		return Result{}, fmt.Errorf("check in: %w", err)
	}
	if s.notifier != nil {
		s.notifier.AttendeeCheckedIn(ctx, reg)
	}
	return Result{Success: true, Message: MsgSuccess}, nil
}

// CheckInAs is CheckIn restricted to the organizer of the event the code
// admits to.
func (s *Service) CheckInAs(ctx context.Context, organizerID uint64, code string) (Result, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Result{Success: false, Message: MsgNotFound}, nil
	}
	owner, err := s.store.EventOwnerByCode(ctx, code)
	if errors.Is(err, repository.ErrRegistrationNotFound) {
		return Result{Success: false, Message: MsgNotFound}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("check in: resolve organizer: %w", err)
	}
	if owner != organizerID {
		return Result{Success: false, Message: MsgNotOrganizer}, nil
	}
	return s.CheckIn(ctx, code)
}
