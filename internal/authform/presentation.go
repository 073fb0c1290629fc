package authform

import "github.com/pratik-mahalle/horizon/internal/domain/auth"

// LoadingLabel replaces the submit label while a call is in flight
const LoadingLabel = "Loading..."

// FieldView is one rendered input
type FieldView struct {
	Field
	Value string
	Error string
}

// Footer is the link that toggles between sign-in and sign-up
type Footer struct {
	Prompt   string
	LinkText string
	Href     string
}

// Page is a render-agnostic model of the auth form
type Page struct {
	Mode     auth.Mode
	Title    string
	Subtitle string
	// ShowForm is false once an account exists and the link step is shown
	ShowForm       bool
	Fields         []FieldView
	SubmitLabel    string
	SubmitDisabled bool
	Loading        bool
	Message        string
	Footer         Footer
	NewUser        *auth.User
}

// Present builds the page model for a controller snapshot.
// Password values are never echoed back.
func Present(v View) Page {
	schema := BuildSchema(v.Mode)

	p := Page{
		Mode:           schema.Mode(),
		Title:          "Sign Up",
		Subtitle:       "Please Enter Your Details",
		ShowForm:       v.NewUser == nil,
		SubmitLabel:    "Sign up",
		SubmitDisabled: v.Submitting,
		Loading:        v.Submitting,
		Message:        v.Message,
		NewUser:        v.NewUser,
		Footer: Footer{
			Prompt:   "Already Have an account?",
			LinkText: "Sign In",
			Href:     auth.ModeSignIn.Route(),
		},
	}

	if schema.Mode() == auth.ModeSignIn {
		p.Title = "Sign In"
		p.SubmitLabel = "Sign in"
		p.Footer = Footer{
			Prompt:   "Don't have an account?",
			LinkText: "Sign Up",
			Href:     auth.ModeSignUp.Route(),
		}
	}

	if v.NewUser != nil {
		p.Title = "Link Account"
		p.Subtitle = "Link Your account to get started"
		return p
	}

	if v.Submitting {
		p.SubmitLabel = LoadingLabel
	}

	for _, f := range schema.Fields() {
		fv := FieldView{Field: f, Error: v.Errors[f.Name]}
		if f.Name != FieldPassword {
			fv.Value = v.Values.Get(f.Name)
		}
		p.Fields = append(p.Fields, fv)
	}

	return p
}
