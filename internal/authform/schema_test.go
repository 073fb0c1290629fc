package authform

import (
	"strings"
	"testing"

	"github.com/pratik-mahalle/horizon/internal/domain/auth"
	"github.com/pratik-mahalle/horizon/internal/testutil"
)

func validSignUp() Values {
	return Values(testutil.ValidSignUpValues())
}

func TestBuildSchema_Fields(t *testing.T) {
	tests := []struct {
		name       string
		mode       auth.Mode
		wantMode   auth.Mode
		wantFields []string
	}{
		{
			name:       "sign-in has credentials only",
			mode:       auth.ModeSignIn,
			wantMode:   auth.ModeSignIn,
			wantFields: []string{FieldEmail, FieldPassword},
		},
		{
			name:     "sign-up has the full profile",
			mode:     auth.ModeSignUp,
			wantMode: auth.ModeSignUp,
			wantFields: []string{
				FieldFirstName, FieldLastName, FieldAddress, FieldCity, FieldState,
				FieldPostalCode, FieldDateOfBirth, FieldNationalIDNumber, FieldEmail, FieldPassword,
			},
		},
		{
			name:       "unknown mode gets sign-up rules",
			mode:       auth.Mode("register"),
			wantMode:   auth.ModeSignUp,
			wantFields: []string{FieldFirstName},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := BuildSchema(tt.mode)
			if s.Mode() != tt.wantMode {
				t.Errorf("Mode() = %v, want %v", s.Mode(), tt.wantMode)
			}
			fields := s.Fields()
			for i, name := range tt.wantFields {
				if fields[i].Name != name {
					t.Errorf("Fields()[%d] = %v, want %v", i, fields[i].Name, name)
				}
			}
		})
	}
}

func TestBuildSchema_Deterministic(t *testing.T) {
	a := BuildSchema(auth.ModeSignUp)
	b := BuildSchema(auth.ModeSignUp)

	bad := validSignUp()
	bad[FieldCity] = "X"

	if len(a.Fields()) != len(b.Fields()) {
		t.Fatal("schemas for the same mode have different field counts")
	}
	if a.Validate(bad)[FieldCity] != b.Validate(bad)[FieldCity] {
		t.Error("schemas for the same mode produce different messages")
	}
}

func TestSchema_SignInIgnoresSignUpFields(t *testing.T) {
	s := BuildSchema(auth.ModeSignIn)

	values := Values{
		FieldEmail:      "a@b.com",
		FieldPassword:   "secret1",
		FieldPostalCode: "1",
		FieldFirstName:  "",
	}

	req, errs := s.Parse(values)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v, want none", errs)
	}

	signIn, ok := req.(auth.SignIn)
	if !ok {
		t.Fatalf("Parse() request = %T, want auth.SignIn", req)
	}
	want := auth.Credentials{Email: "a@b.com", Password: "secret1"}
	if signIn.Credentials != want {
		t.Errorf("Credentials = %+v, want %+v", signIn.Credentials, want)
	}
}

func TestSchema_SignUpEmptyFieldReportsOnlyThatField(t *testing.T) {
	s := BuildSchema(auth.ModeSignUp)

	for _, f := range s.Fields() {
		t.Run(f.Name, func(t *testing.T) {
			values := validSignUp()
			values[f.Name] = ""

			req, errs := s.Parse(values)
			if req != nil {
				t.Errorf("Parse() request = %v, want nil", req)
			}
			if len(errs) != 1 {
				t.Fatalf("Parse() errors = %v, want exactly one", errs)
			}
			if !errs.Has(f.Name) {
				t.Errorf("Parse() errors = %v, want error on %s", errs, f.Name)
			}
		})
	}
}

func TestSchema_NationalIDNumberLength(t *testing.T) {
	s := BuildSchema(auth.ModeSignUp)

	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "12345678901", wantErr: true},
		{value: "123456789012", wantErr: false},
		{value: "1234567890123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			values := validSignUp()
			values[FieldNationalIDNumber] = tt.value

			errs := s.Validate(values)
			if errs.Has(FieldNationalIDNumber) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.value, errs[FieldNationalIDNumber], tt.wantErr)
			}
		})
	}
}

func TestSchema_PostalCodeLength(t *testing.T) {
	s := BuildSchema(auth.ModeSignUp)

	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "12", wantErr: true},
		{value: "123", wantErr: false},
		{value: "123456", wantErr: false},
		{value: "1234567", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			values := validSignUp()
			values[FieldPostalCode] = tt.value

			errs := s.Validate(values)
			if errs.Has(FieldPostalCode) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.value, errs[FieldPostalCode], tt.wantErr)
			}
		})
	}
}

func TestSchema_FieldRules(t *testing.T) {
	s := BuildSchema(auth.ModeSignUp)

	tests := []struct {
		name    string
		field   string
		value   string
		wantMsg string
	}{
		{"short first name", FieldFirstName, "Al", "First Name must be at least 3 characters long"},
		{"short last name", FieldLastName, "Ng", "Last Name must be at least 3 characters long"},
		{"long address", FieldAddress, strings.Repeat("a", 51), "Address must be at most 50 characters long"},
		{"short city", FieldCity, "N", "City must be at least 2 characters long"},
		{"short state", FieldState, "M", "State must be at least 2 characters long"},
		{"bad date", FieldDateOfBirth, "12/04/1999", "Date of Birth must be a valid date (YYYY-MM-DD)"},
		{"bad email", FieldEmail, "not-an-email", "Email must be a valid email address"},
		{"short password", FieldPassword, "12345", "Password must be at least 6 characters"},
		{"missing email", FieldEmail, "", "Email is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := validSignUp()
			values[tt.field] = tt.value

			errs := s.Validate(values)
			if got := errs[tt.field]; got != tt.wantMsg {
				t.Errorf("Validate() %s = %q, want %q", tt.field, got, tt.wantMsg)
			}
		})
	}
}

func TestSchema_AddressAtLimitPasses(t *testing.T) {
	values := validSignUp()
	values[FieldAddress] = strings.Repeat("a", 50)

	if errs := BuildSchema(auth.ModeSignUp).Validate(values); len(errs) != 0 {
		t.Errorf("Validate() errors = %v, want none", errs)
	}
}

func TestSchema_LengthsCountCharacters(t *testing.T) {
	values := validSignUp()
	values[FieldFirstName] = "Zoë"

	if errs := BuildSchema(auth.ModeSignUp).Validate(values); errs.Has(FieldFirstName) {
		t.Errorf("Validate() firstName error = %v, want none", errs[FieldFirstName])
	}
}

func TestSchema_TrimsAllButPassword(t *testing.T) {
	s := BuildSchema(auth.ModeSignUp)

	values := validSignUp()
	values[FieldEmail] = "  ishaan@example.com "
	values[FieldPostalCode] = " 422001 "
	values[FieldPassword] = " secret1 "

	req, errs := s.Parse(values)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}

	profile := req.(auth.SignUp).Profile
	if profile.Email != "ishaan@example.com" {
		t.Errorf("Email = %q, want trimmed", profile.Email)
	}
	if profile.PostalCode != "422001" {
		t.Errorf("PostalCode = %q, want trimmed", profile.PostalCode)
	}
	if profile.Password != " secret1 " {
		t.Errorf("Password = %q, want untouched", profile.Password)
	}

	values[FieldCity] = "   "
	if errs := s.Validate(values); !errs.Has(FieldCity) {
		t.Error("Validate() accepted a whitespace-only city")
	}
}

func TestSchema_ParseSignUpProfile(t *testing.T) {
	req, errs := BuildSchema(auth.ModeSignUp).Parse(validSignUp())
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}

	signUp, ok := req.(auth.SignUp)
	if !ok {
		t.Fatalf("Parse() request = %T, want auth.SignUp", req)
	}
	p := signUp.Profile
	if p.FirstName != "Ishaan" || p.NationalIDNumber != "123412341234" || p.DateOfBirth != "1999-04-12" {
		t.Errorf("Profile = %+v", p)
	}
	if p.Credentials() != (auth.Credentials{Email: "ishaan@example.com", Password: "secret1"}) {
		t.Errorf("Profile.Credentials() = %+v", p.Credentials())
	}
}
