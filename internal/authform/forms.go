package authform

import (
	"sort"
	"strings"

	"github.com/pratik-mahalle/horizon/internal/domain/auth"
)

// Form field keys. They double as json names, HTML input names and CLI prompt keys.
const (
	FieldFirstName        = "firstName"
	FieldLastName         = "lastName"
	FieldAddress          = "address"
	FieldCity             = "city"
	FieldState            = "state"
	FieldPostalCode       = "postalCode"
	FieldDateOfBirth      = "dateOfBirth"
	FieldNationalIDNumber = "nationalIdNumber"
	FieldEmail            = "email"
	FieldPassword         = "password"
)

// Values holds raw field input keyed by field name
type Values map[string]string

// Get returns the value for name, or "" when unset
func (v Values) Get(name string) string {
	return v[name]
}

// Clone returns a copy of v
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// FieldErrors maps a field name to its first failing message
type FieldErrors map[string]string

// Has reports whether name failed validation
func (e FieldErrors) Has(name string) bool {
	_, ok := e[name]
	return ok
}

// Fields returns the failing field names in sorted order
func (e FieldErrors) Fields() []string {
	out := make([]string, 0, len(e))
	for name := range e {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SignInForm is the validated shape of a sign-in submission
type SignInForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SignUpForm is the validated shape of a sign-up submission
type SignUpForm struct {
	FirstName        string `json:"firstName" validate:"required,min=3"`
	LastName         string `json:"lastName" validate:"required,min=3"`
	Address          string `json:"address" validate:"required,max=50"`
	City             string `json:"city" validate:"required,min=2"`
	State            string `json:"state" validate:"required,min=2"`
	PostalCode       string `json:"postalCode" validate:"required,min=3,max=6"`
	DateOfBirth      string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	NationalIDNumber string `json:"nationalIdNumber" validate:"required,len=12"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
}

func signInFormFrom(v Values) SignInForm {
	return SignInForm{
		Email:    v.Get(FieldEmail),
		Password: v.Get(FieldPassword),
	}
}

func (f SignInForm) request() auth.Request {
	return auth.SignIn{Credentials: auth.Credentials{
		Email:    f.Email,
		Password: f.Password,
	}}
}

func signUpFormFrom(v Values) SignUpForm {
	return SignUpForm{
		FirstName:        v.Get(FieldFirstName),
		LastName:         v.Get(FieldLastName),
		Address:          v.Get(FieldAddress),
		City:             v.Get(FieldCity),
		State:            v.Get(FieldState),
		PostalCode:       v.Get(FieldPostalCode),
		DateOfBirth:      v.Get(FieldDateOfBirth),
		NationalIDNumber: v.Get(FieldNationalIDNumber),
		Email:            v.Get(FieldEmail),
		Password:         v.Get(FieldPassword),
	}
}

func (f SignUpForm) request() auth.Request {
	return auth.SignUp{Profile: auth.Profile{
		FirstName:        f.FirstName,
		LastName:         f.LastName,
		Address:          f.Address,
		City:             f.City,
		State:            f.State,
		PostalCode:       f.PostalCode,
		DateOfBirth:      f.DateOfBirth,
		NationalIDNumber: f.NationalIDNumber,
		Email:            f.Email,
		Password:         f.Password,
	}}
}

// normalize trims surrounding whitespace from every field that allows it
func normalize(values Values, fields []Field) Values {
	out := make(Values, len(fields))
	for _, f := range fields {
		v := values.Get(f.Name)
		if f.Trim {
			v = strings.TrimSpace(v)
		}
		out[f.Name] = v
	}
	return out
}
