// Package booking implements one appointment-booking dialog: collect
// customer details, pick a date, pick a slot from the live snapshot for that
// date, validate locally, submit. One Workflow instance owns one dialog's
// state exclusively; a confirmed workflow is spent.
package booking

import (
	"context"
	"sync"
	"time"

	"github.com/cidcomitra/mitra-api/internal/models"
	"github.com/cidcomitra/mitra-api/internal/validation"
	apperrors "github.com/cidcomitra/mitra-api/pkg/errors"
	"github.com/cidcomitra/mitra-api/pkg/logger"
	"go.uber.org/zap"
)

// State is the workflow's position in the booking dialog.
type State string

const (
	StateCollectingDetails State = "collecting_details"
	StateSubmittingBooking State = "submitting_booking"
	StateBookingConfirmed  State = "booking_confirmed"
)

// SlotResolver answers (service, date) availability queries. The answer is a
// snapshot, not a hold.
type SlotResolver interface {
	GetAvailableSlots(ctx context.Context, serviceID int64, date string) ([]models.AvailableSlot, error)
}

// Submitter commits a booking request. The backend behind it is the sole
// authority on double-booking.
type Submitter interface {
	CreateAppointment(ctx context.Context, req *models.BookingRequest) (*models.BookingResponse, error)
}

// Workflow drives one booking dialog through
// CollectingDetails -> SubmittingBooking -> BookingConfirmed.
// Any submission failure returns to CollectingDetails with the entered
// values preserved.
type Workflow struct {
	mu         sync.Mutex
	resolver   SlotResolver
	submitter  Submitter
	state      State
	request    models.BookingRequest
	slots      []models.AvailableSlot
	slotsErr   error
	generation uint64
	submitErr  string
	nowFn      func() time.Time
}

// NewWorkflow creates a fresh booking dialog for one service.
func NewWorkflow(serviceID int64, resolver SlotResolver, submitter Submitter) *Workflow {
	return &Workflow{
		resolver:  resolver,
		submitter: submitter,
		state:     StateCollectingDetails,
		request:   models.BookingRequest{ServiceID: serviceID},
		nowFn:     time.Now,
	}
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Request returns a copy of the entered form values.
func (w *Workflow) Request() models.BookingRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.request
}

// Slots returns the latest slot snapshot for the selected date.
func (w *Workflow) Slots() []models.AvailableSlot {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.AvailableSlot, len(w.slots))
	copy(out, w.slots)
	return out
}

// SlotsFailed reports whether the last slot query failed. A failed query is
// a retryable state distinct from a valid empty snapshot.
func (w *Workflow) SlotsFailed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slotsErr != nil
}

// SubmitError returns the user-visible message from the last failed
// submission, or "".
func (w *Workflow) SubmitError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitErr
}

// SetName sets the customer name.
func (w *Workflow) SetName(name string) error { return w.setField(func() { w.request.Name = name }) }

// SetEmail sets the customer email.
func (w *Workflow) SetEmail(email string) error {
	return w.setField(func() { w.request.Email = email })
}

// SetPhone sets the customer phone.
func (w *Workflow) SetPhone(phone string) error {
	return w.setField(func() { w.request.Phone = phone })
}

// SetMessage sets the optional free-text message.
func (w *Workflow) SetMessage(message string) error {
	return w.setField(func() { w.request.Message = message })
}

func (w *Workflow) setField(apply func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireCollecting(); err != nil {
		return err
	}
	apply()
	return nil
}

// SelectDate records a new appointment date, clears any previously chosen
// time (stale times are never valid for a new date), and queries the
// resolver for that date's slots. If the user selects again before this
// query returns, the late response is discarded on arrival - superseded,
// not queued.
func (w *Workflow) SelectDate(ctx context.Context, date string) ([]models.AvailableSlot, error) {
	w.mu.Lock()
	if err := w.requireCollecting(); err != nil {
		w.mu.Unlock()
		return nil, err
	}

	w.request.AppointmentDate = date
	w.request.AppointmentTime = ""
	w.slots = nil
	w.slotsErr = nil
	w.generation++
	generation := w.generation
	serviceID := w.request.ServiceID
	w.mu.Unlock()

	slots, err := w.resolver.GetAvailableSlots(ctx, serviceID, date)

	w.mu.Lock()
	defer w.mu.Unlock()

	if generation != w.generation {
		logger.Debug("Discarding superseded slot response",
			zap.Int64("service_id", serviceID),
			zap.String("date", date))
		return nil, ErrSuperseded
	}

	if err != nil {
		// Keep the time cleared and mark the snapshot failed; the caller
		// offers a retry, never a stale slot list.
		w.slots = nil
		w.slotsErr = err
		return nil, err
	}

	w.slots = slots
	return slots, nil
}

// RetrySlots re-runs the last slot query after a failure. There is nothing
// to retry before a date has been selected.
func (w *Workflow) RetrySlots(ctx context.Context) ([]models.AvailableSlot, error) {
	w.mu.Lock()
	date := w.request.AppointmentDate
	w.mu.Unlock()
	if date == "" {
		return nil, apperrors.InvalidInputError("appointment_date", "no date selected")
	}
	return w.SelectDate(ctx, date)
}

// SelectTime picks a slot start time. Only times present in the latest
// snapshot are accepted; anything else fails locally.
func (w *Workflow) SelectTime(t string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireCollecting(); err != nil {
		return err
	}
	if msg := validation.SlotTime(t, w.slots); msg != "" {
		return apperrors.InvalidInputError("appointment_time", msg)
	}
	w.request.AppointmentTime = t
	return nil
}

// Validate runs the full local rule set against the current field values
// and the latest slot snapshot, from scratch.
func (w *Workflow) Validate() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return validation.BookingRequest(&w.request, w.slots, w.nowFn())
}

// Submit validates and commits the booking. The transition into
// SubmittingBooking is guarded by full local validation; nothing is sent
// while any required field is invalid. A backend conflict (slot lost to a
// faster submitter) returns the dialog to CollectingDetails with the time
// cleared and a user-visible message; all other entered values survive.
func (w *Workflow) Submit(ctx context.Context) (*models.BookingResponse, error) {
	w.mu.Lock()
	if err := w.requireCollecting(); err != nil {
		w.mu.Unlock()
		return nil, err
	}

	if errs := validation.BookingRequest(&w.request, w.slots, w.nowFn()); len(errs) > 0 {
		w.mu.Unlock()
		return nil, &ValidationFailedError{Fields: errs}
	}

	w.state = StateSubmittingBooking
	w.submitErr = ""
	req := w.request
	w.mu.Unlock()

	resp, err := w.submitter.CreateAppointment(ctx, &req)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.state = StateCollectingDetails
		w.submitErr = apperrors.Message(err)
		if apperrors.Is(err, apperrors.ErrConflict) {
			// The snapshot lied by the time we submitted; force a re-pick.
			w.request.AppointmentTime = ""
			logger.Info("Booking lost slot race",
				zap.Int64("service_id", req.ServiceID),
				zap.String("date", req.AppointmentDate),
				zap.String("time", req.AppointmentTime))
		}
		return nil, err
	}

	w.state = StateBookingConfirmed
	logger.Info("Booking confirmed",
		zap.Int64("service_id", req.ServiceID),
		zap.String("date", req.AppointmentDate),
		zap.String("time", req.AppointmentTime))
	return resp, nil
}

func (w *Workflow) requireCollecting() error {
	switch w.state {
	case StateBookingConfirmed:
		return ErrConfirmed
	case StateCollectingDetails:
		return nil
	default:
		return ErrNotCollecting
	}
}
