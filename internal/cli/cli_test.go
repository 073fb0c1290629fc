package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/pratik-mahalle/horizon/internal/authform"
	"github.com/pratik-mahalle/horizon/internal/domain/auth"
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
	"github.com/pratik-mahalle/horizon/internal/testutil"
)

type harness struct {
	t        *testing.T
	identity *testutil.MockIdentity
	cfg      string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	viper.Reset()
	orig := newIdentity
	h := &harness{
		t:        t,
		identity: testutil.NewMockIdentity(),
		cfg:      filepath.Join(t.TempDir(), "config.yaml"),
	}
	newIdentity = func(string, string, *logger.Logger) identityClient { return h.identity }
	t.Cleanup(func() {
		newIdentity = orig
		viper.Reset()
	})

	h.identity.AddUser(&auth.User{Email: "a@b.com", FirstName: "Ada", LastName: "Lovelace"}, "secret1")
	return h
}

func (h *harness) run(stdin string, args ...string) (string, string, error) {
	h.t.Helper()

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetArgs(append(args, "--config", h.cfg, "--no-color"))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func (h *harness) storedConfig() string {
	h.t.Helper()
	b, err := os.ReadFile(h.cfg)
	if err != nil {
		return ""
	}
	return string(b)
}

func TestSignIn_Flags(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("", "auth", "sign-in", "--email", "a@b.com", "--password", "secret1")
	if err != nil {
		t.Fatalf("sign-in error = %v", err)
	}

	for _, want := range []string{"Sign In", "Welcome, Ada"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := viper.GetString("auth.token"); got != "session-user-1" {
		t.Errorf("auth.token = %q, want session-user-1", got)
	}
	if !strings.Contains(h.storedConfig(), "session-user-1") {
		t.Error("session was not written to the config file")
	}
}

func TestSignIn_Prompts(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("a@b.com\nsecret1\n", "auth", "sign-in")
	if err != nil {
		t.Fatalf("sign-in error = %v", err)
	}
	if !strings.Contains(out, "Email (Enter Your Email): ") {
		t.Errorf("email prompt missing:\n%s", out)
	}
	if got := h.identity.AuthCalls; len(got) != 1 || got[0].Email != "a@b.com" || got[0].Password != "secret1" {
		t.Errorf("AuthCalls = %+v", got)
	}
}

func TestSignIn_RepromptsInvalidFields(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run(" not-an-email \nsecret1\na@b.com\n", "auth", "sign-in")
	if err != nil {
		t.Fatalf("sign-in error = %v", err)
	}
	if !strings.Contains(out, "Email must be a valid email address") {
		t.Errorf("inline error missing:\n%s", out)
	}
	if h.identity.AuthCallCount() != 1 {
		t.Errorf("AuthCallCount() = %d, want 1", h.identity.AuthCallCount())
	}
}

func TestSignIn_GivesUpOnEndOfInput(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("bad\n", "auth", "sign-in")
	if err == nil {
		t.Fatal("expected an error when input runs out")
	}
	if h.identity.AuthCallCount() != 0 {
		t.Errorf("AuthCallCount() = %d, want 0", h.identity.AuthCallCount())
	}
}

func TestSignIn_ProviderFailure(t *testing.T) {
	tests := []struct {
		name        string
		policy      string
		wantMessage bool
	}{
		{"swallowed", "swallow", false},
		{"generic", "generic", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.identity.AuthError = errors.New("503 upstream")

			if _, _, err := h.run("", "config", "set", "error_policy", tt.policy); err != nil {
				t.Fatalf("config set error = %v", err)
			}

			out, errOut, err := h.run("", "auth", "sign-in", "--email", "a@b.com", "--password", "secret1")
			if !errors.Is(err, ErrNotSignedIn) {
				t.Fatalf("sign-in error = %v, want ErrNotSignedIn", err)
			}
			if got := strings.Contains(errOut, authform.GenericFailureMessage); got != tt.wantMessage {
				t.Errorf("generic message shown = %v, want %v (stderr %q)", got, tt.wantMessage, errOut)
			}
			if strings.Contains(out+errOut, "503 upstream") {
				t.Error("provider error leaked to the user")
			}
			if viper.GetString("auth.token") != "" {
				t.Error("a session was stored after a failed sign-in")
			}
		})
	}
}

func TestSignUp_ShowsLinkStep(t *testing.T) {
	h := newHarness(t)

	args := []string{"auth", "sign-up"}
	for name, v := range testutil.ValidSignUpValues() {
		args = append(args, "--"+flagName(name), v)
	}

	out, _, err := h.run("", args...)
	if err != nil {
		t.Fatalf("sign-up error = %v", err)
	}
	for _, want := range []string{"Sign Up", "Link Account", "Welcome, Ishaan. Your account is ready."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if h.identity.CreateCallCount() != 1 || h.identity.AuthCallCount() != 0 {
		t.Errorf("calls = create %d auth %d, want 1 and 0", h.identity.CreateCallCount(), h.identity.AuthCallCount())
	}
	if viper.GetString("auth.token") != "" {
		t.Error("sign-up must not store a session")
	}
}

func TestSignOut(t *testing.T) {
	h := newHarness(t)

	if _, _, err := h.run("", "auth", "sign-out"); err == nil || !strings.Contains(err.Error(), "not signed in") {
		t.Fatalf("sign-out without session error = %v", err)
	}

	if _, _, err := h.run("", "auth", "sign-in", "--email", "a@b.com", "--password", "secret1"); err != nil {
		t.Fatalf("sign-in error = %v", err)
	}
	out, _, err := h.run("", "auth", "sign-out")
	if err != nil {
		t.Fatalf("sign-out error = %v", err)
	}

	if !strings.Contains(out, "Signed out") {
		t.Errorf("output = %q", out)
	}
	if len(h.identity.SignOutCalls) != 1 || h.identity.SignOutCalls[0] != "session-user-1" {
		t.Errorf("SignOutCalls = %v", h.identity.SignOutCalls)
	}
	if strings.Contains(h.storedConfig(), "session-user-1") {
		t.Error("token still stored after sign-out")
	}
}

func TestWhoami(t *testing.T) {
	h := newHarness(t)

	if _, _, err := h.run("", "auth", "sign-in", "--email", "a@b.com", "--password", "secret1"); err != nil {
		t.Fatalf("sign-in error = %v", err)
	}

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"table", "table", "Ada Lovelace"},
		{"json", "json", `"email": "a@b.com"`},
		{"yaml", "yaml", "email: a@b.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := h.run("", "auth", "whoami", "-o", tt.format)
			if err != nil {
				t.Fatalf("whoami error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	h := newHarness(t)
	h.identity.PingError = errors.New("connection refused")

	out, _, err := h.run("", "status", "-o", "json")
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	if !strings.Contains(out, `"identity": "unreachable"`) || !strings.Contains(out, `"session": "signed out"`) {
		t.Errorf("status = %s", out)
	}
}

func TestConfigList_MasksSecrets(t *testing.T) {
	h := newHarness(t)

	if _, _, err := h.run("", "config", "set", "api_key", "pk_live_123"); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	if _, _, err := h.run("", "config", "set", "error_policy", "loud"); err == nil {
		t.Error("expected an unknown error policy to be rejected")
	}

	out, _, err := h.run("", "config", "list")
	if err != nil {
		t.Fatalf("config list error = %v", err)
	}
	if strings.Contains(out, "pk_live_123") || !strings.Contains(out, "api_key: (hidden)") {
		t.Errorf("config list = %s", out)
	}
}

func TestFlagName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"email", "email"},
		{"firstName", "first-name"},
		{"nationalIdNumber", "national-id-number"},
		{"dateOfBirth", "date-of-birth"},
	}

	for _, tt := range tests {
		if got := flagName(tt.in); got != tt.want {
			t.Errorf("flagName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadingIndicator(t *testing.T) {
	var buf bytes.Buffer
	show := loadingIndicator(&buf)

	show(authform.View{Submitting: true})
	show(authform.View{Submitting: true})
	if got := strings.Count(buf.String(), authform.LoadingLabel); got != 1 {
		t.Errorf("loading label printed %d times, want 1", got)
	}

	show(authform.View{Submitting: false})
	if !strings.HasSuffix(buf.String(), "\r\033[K") {
		t.Errorf("indicator not cleared: %q", buf.String())
	}
}
