package portal

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"eduportal/internal/store"
)

// FeedbackCategories lists the accepted categories in form order.
var FeedbackCategories = []string{"academic", "infrastructure", "library", "hostel", "canteen", "sports", "other"}

// ErrSubmitting is returned when a submission is already in flight.
var ErrSubmitting = errors.New("feedback submission already in progress")

// FeedbackInput is the user-entered part of a feedback row.
type FeedbackInput struct {
	Category string `form:"category" json:"category" validate:"required,oneof=academic infrastructure library hostel canteen sports other"`
	Subject  string `form:"subject" json:"subject" validate:"required,max=100"`
	Message  string `form:"message" json:"message" validate:"required,max=1000"`
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field of an input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid feedback: " + strings.Join(parts, "; ")
}

// Map returns the field messages keyed by field name.
func (e *ValidationError) Map() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Message
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate trims the input and checks it.
func (in *FeedbackInput) Validate() error {
	in.Category = strings.TrimSpace(in.Category)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}

// FormState is where a feedback form is in its submit cycle.
type FormState int

const (
	FormIdle FormState = iota
	FormSubmitting
	FormCleared
	FormFailed
)

// FeedbackForm is the view state of the feedback form.
type FeedbackForm struct {
	Input  FeedbackInput
	State  FormState
	Errors map[string]string
}

// Submitting reports whether the form should be disabled.
func (f *FeedbackForm) Submitting() bool { return f.State == FormSubmitting }

// Begin moves the form into the submitting state.
func (f *FeedbackForm) Begin() error {
	if f.State == FormSubmitting {
		return ErrSubmitting
	}
	f.State = FormSubmitting
	f.Errors = nil
	return nil
}

// Finish settles the form. Success clears every field; failure keeps them.
func (f *FeedbackForm) Finish(err error) {
	if err == nil {
		f.Input = FeedbackInput{}
		f.State = FormCleared
		return
	}
	f.State = FormFailed
	var ve *ValidationError
	if errors.As(err, &ve) {
		f.Errors = ve.Map()
	}
}

// FeedbackService inserts feedback rows for the signed-in student.
type FeedbackService struct {
	backend store.Backend
	log     *zap.Logger
	observe func(error)

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewFeedbackService creates a service writing to backend. observe may be nil.
func NewFeedbackService(backend store.Backend, log *zap.Logger, observe func(error)) *FeedbackService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedbackService{
		backend:  backend,
		log:      log,
		observe:  observe,
		inflight: make(map[string]struct{}),
	}
}

// Submit validates the form and inserts one feedback row owned by userID.
// Only one submission per user runs at a time; a concurrent call gets
// ErrSubmitting and leaves the form untouched. The insert outlives ctx once
// started.
func (s *FeedbackService) Submit(ctx context.Context, userID string, form *FeedbackForm) error {
	if err := form.Begin(); err != nil {
		return err
	}
	if !s.acquire(userID) {
		form.State = FormIdle
		return ErrSubmitting
	}
	defer s.release(userID)

	err := s.insert(ctx, userID, &form.Input)
	form.Finish(err)
	return err
}

func (s *FeedbackService) insert(ctx context.Context, userID string, in *FeedbackInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	err := s.backend.Insert(context.WithoutCancel(ctx), TableFeedback, store.Row{
		"user_id":  userID,
		"category": in.Category,
		"subject":  in.Subject,
		"message":  in.Message,
	})
	if s.observe != nil {
		s.observe(err)
	}
	if err != nil {
		s.log.Error("feedback insert failed", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (s *FeedbackService) acquire(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[userID]; busy {
		return false
	}
	s.inflight[userID] = struct{}{}
	return true
}

func (s *FeedbackService) release(userID string) {
	s.mu.Lock()
	delete(s.inflight, userID)
	s.mu.Unlock()
}
