package authform

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pratik-mahalle/horizon/internal/domain/auth"
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
	"github.com/pratik-mahalle/horizon/internal/pkg/metrics"
)

// Option configures a Controller
type Option func(*Controller)

// WithErrorPolicy sets how remote failures are shown
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// WithLogger sets the controller's logger
func WithLogger(log *logger.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.logger = log
		}
	}
}

type subscriber struct {
	id uint64
	fn func(View)
}

// Controller owns the auth form's values, field errors and submitting flag
type Controller struct {
	schema     *Schema
	dispatcher Dispatcher
	policy     ErrorPolicy
	logger     *logger.Logger

	inFlight atomic.Int32

	mu          sync.Mutex
	state       State
	values      Values
	errors      FieldErrors
	newUser     *auth.User
	message     string
	subscribers []subscriber
	nextSubID   uint64
}

// New binds the schema for mode and seeds empty email and password values
func New(mode auth.Mode, dispatcher Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		schema:     BuildSchema(mode),
		dispatcher: dispatcher,
		policy:     ErrorPolicySwallow,
		logger:     logger.Discard(),
		state:      StateIdle,
		values: Values{
			FieldEmail:    "",
			FieldPassword: "",
		},
		errors: FieldErrors{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the form mode
func (c *Controller) Mode() auth.Mode {
	return c.schema.Mode()
}

// Schema returns the bound schema
func (c *Controller) Schema() *Schema {
	return c.schema
}

// Submitting reports whether a remote call is in flight
func (c *Controller) Submitting() bool {
	return c.inFlight.Load() > 0
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Values returns a copy of the current field values
func (c *Controller) Values() Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values.Clone()
}

// SetValue binds one field's input
func (c *Controller) SetValue(name, value string) {
	c.update(func() {
		c.values[name] = value
	})
}

// View returns a snapshot of the controller state
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Page renders the current state into a page model
func (c *Controller) Page() Page {
	return Present(c.View())
}

// Subscribe registers fn to receive a snapshot on every change. The
// returned function removes the subscription.
func (c *Controller) Subscribe(fn func(View)) func() {
	c.mu.Lock()
	c.nextSubID++
	id := c.nextSubID
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subscribers {
			if s.id == id {
				c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

// ValidateAndSubmit validates values against the schema and, when they
// pass, dispatches the request. Remote failures never surface as errors.
func (c *Controller) ValidateAndSubmit(ctx context.Context, values Values) Outcome {
	c.update(func() {
		for k, v := range values {
			c.values[k] = v
		}
		c.state = StateValidating
		c.message = ""
	})

	req, errs := c.schema.Parse(c.Values())
	if len(errs) > 0 {
		for _, field := range errs.Fields() {
			metrics.RecordValidationFailure(string(c.Mode()), field)
		}
		c.update(func() {
			c.state = StateIdle
			c.errors = errs
		})
		return Outcome{State: StateIdle, Errors: errs}
	}

	return c.submit(ctx, req)
}

func (c *Controller) submit(ctx context.Context, req auth.Request) (out Outcome) {
	c.inFlight.Add(1)
	metrics.SubmissionStarted()
	c.update(func() {
		c.errors = FieldErrors{}
		c.state = StateSubmitting
	})

	result := Result{Kind: ResultFailed}
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithFields(map[string]interface{}{
				"mode":  c.Mode(),
				"panic": fmt.Sprint(r),
			}).Error("Auth form submission panicked")
			result = Result{Kind: ResultFailed}
		}
		c.inFlight.Add(-1)
		metrics.SubmissionFinished()
		out = c.settle(result)
	}()

	result = c.dispatcher.Submit(ctx, req)
	return out
}

func (c *Controller) settle(result Result) Outcome {
	var state State
	c.update(func() {
		switch result.Kind {
		case ResultNavigated:
			c.state = StateSuccess
		case ResultCreated:
			c.state = StateSuccess
			c.newUser = result.User
		case ResultEmpty:
			c.state = StateIdle
		default:
			if c.policy == ErrorPolicyGeneric {
				c.state = StateErrorShown
				c.message = GenericFailureMessage
			} else {
				c.state = StateIdle
			}
		}
		state = c.state
	})

	return Outcome{State: state, Errors: FieldErrors{}, Result: &result}
}

// update applies fn under the lock and notifies subscribers afterwards
func (c *Controller) update(fn func()) {
	c.mu.Lock()
	fn()
	view := c.viewLocked()
	subs := make([]subscriber, len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(view)
	}
}

func (c *Controller) viewLocked() View {
	errs := make(FieldErrors, len(c.errors))
	for k, v := range c.errors {
		errs[k] = v
	}
	return View{
		Mode:       c.schema.Mode(),
		State:      c.state,
		Values:     c.values.Clone(),
		Errors:     errs,
		Submitting: c.inFlight.Load() > 0,
		NewUser:    c.newUser,
		Message:    c.message,
	}
}
