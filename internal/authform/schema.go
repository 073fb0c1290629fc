package authform

import (
	"github.com/pratik-mahalle/horizon/internal/domain/auth"
	"github.com/pratik-mahalle/horizon/internal/pkg/validator"
)

// Field describes one input of the auth form
type Field struct {
	Name        string
	Label       string
	Placeholder string
	InputType   string
	Trim        bool
	// Messages overrides the generated message for a validation tag
	Messages map[string]string
}

var (
	signUpFields = []Field{
		{Name: FieldFirstName, Label: "First Name", Placeholder: "Enter Your First Name", InputType: "text", Trim: true},
		{Name: FieldLastName, Label: "Last Name", Placeholder: "Enter Your Last Name", InputType: "text", Trim: true},
		{Name: FieldAddress, Label: "Address", Placeholder: "Enter Your Address", InputType: "text", Trim: true},
		{Name: FieldCity, Label: "City", Placeholder: "Enter Your City", InputType: "text", Trim: true},
		{Name: FieldState, Label: "State", Placeholder: "State", InputType: "text", Trim: true},
		{Name: FieldPostalCode, Label: "Postal Code", Placeholder: "ex. 422001", InputType: "text", Trim: true},
		{Name: FieldDateOfBirth, Label: "Date of Birth", Placeholder: "YYYY-MM-DD", InputType: "date", Trim: true},
		{Name: FieldNationalIDNumber, Label: "National ID Number", Placeholder: "Enter Your National ID Number", InputType: "text", Trim: true},
	}

	credentialFields = []Field{
		{Name: FieldEmail, Label: "Email", Placeholder: "Enter Your Email", InputType: "email", Trim: true},
		{
			Name:        FieldPassword,
			Label:       "Password",
			Placeholder: "Enter Your Password",
			InputType:   "password",
			Messages:    map[string]string{"min": "Password must be at least 6 characters"},
		},
	}
)

// Schema is the validation rule set for one form mode
type Schema struct {
	mode      auth.Mode
	fields    []Field
	validator *validator.Validator
}

// BuildSchema returns the rule set for mode. Every mode other than sign-in
// gets the sign-up rules.
func BuildSchema(mode auth.Mode) *Schema {
	s := &Schema{
		mode:      auth.ModeSignUp,
		validator: validator.Default(),
	}

	if mode == auth.ModeSignIn {
		s.mode = auth.ModeSignIn
		s.fields = append(s.fields, credentialFields...)
		return s
	}

	s.fields = append(s.fields, signUpFields...)
	s.fields = append(s.fields, credentialFields...)
	return s
}

// Mode returns the mode the schema was built for
func (s *Schema) Mode() auth.Mode {
	return s.mode
}

// Fields returns the fields in render order
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a field by name
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Has reports whether the schema knows the field
func (s *Schema) Has(name string) bool {
	_, ok := s.Field(name)
	return ok
}

// Validate checks values and returns the failing fields
func (s *Schema) Validate(values Values) FieldErrors {
	_, errs := s.Parse(values)
	return errs
}

// Parse validates values and builds the matching request variant.
// Values for fields outside the schema are ignored.
func (s *Schema) Parse(values Values) (auth.Request, FieldErrors) {
	clean := normalize(values, s.fields)

	if s.mode == auth.ModeSignIn {
		form := signInFormFrom(clean)
		if errs := s.check(form); len(errs) > 0 {
			return nil, errs
		}
		return form.request(), nil
	}

	form := signUpFormFrom(clean)
	if errs := s.check(form); len(errs) > 0 {
		return nil, errs
	}
	return form.request(), nil
}

func (s *Schema) check(form interface{}) FieldErrors {
	verrs := s.validator.Validate(form)
	if len(verrs) == 0 {
		return nil
	}

	errs := make(FieldErrors, len(verrs))
	for _, ve := range verrs {
		if errs.Has(ve.Field) {
			continue
		}
		errs[ve.Field] = s.message(ve)
	}
	return errs
}

func (s *Schema) message(ve validator.ValidationError) string {
	f, ok := s.Field(ve.Field)
	if !ok {
		return ve.Message
	}
	if msg, ok := f.Messages[ve.Tag]; ok {
		return msg
	}
	return validator.MessageFor(f.Label, ve.Tag, ve.Param)
}
