package authform

import (
	"fmt"

	"github.com/pratik-mahalle/horizon/internal/domain/auth"
)

// State is the controller's position in the submit cycle
type State int

// Controller states
const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSuccess
	StateErrorShown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateErrorShown:
		return "error-shown"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state by name in JSON responses
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrorPolicy decides what the user sees when the identity provider fails
type ErrorPolicy string

// Error policies
const (
	// ErrorPolicySwallow logs remote failures and shows nothing
	ErrorPolicySwallow ErrorPolicy = "swallow"
	// ErrorPolicyGeneric shows GenericFailureMessage on remote failures
	ErrorPolicyGeneric ErrorPolicy = "generic"
)

// GenericFailureMessage is shown under ErrorPolicyGeneric
const GenericFailureMessage = "Authentication failed"

// ParseErrorPolicy converts a config value into an ErrorPolicy
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch ErrorPolicy(s) {
	case "", ErrorPolicySwallow:
		return ErrorPolicySwallow, nil
	case ErrorPolicyGeneric:
		return ErrorPolicyGeneric, nil
	default:
		return "", fmt.Errorf("unknown auth error policy %q", s)
	}
}

// View is a snapshot of the controller state
type View struct {
	Mode       auth.Mode
	State      State
	Values     Values
	Errors     FieldErrors
	Submitting bool
	// NewUser is set once an account has been created and the link step is due
	NewUser *auth.User
	Message string
}

// Outcome is what ValidateAndSubmit reports back to the shell
type Outcome struct {
	State  State
	Errors FieldErrors
	// Result is nil when validation blocked the submission
	Result *Result
}

// Submitted reports whether the request reached the dispatcher
func (o Outcome) Submitted() bool {
	return o.Result != nil
}
