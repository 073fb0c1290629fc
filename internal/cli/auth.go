package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/pratik-mahalle/horizon/internal/authform"
	"github.com/pratik-mahalle/horizon/internal/domain/auth"
	"github.com/pratik-mahalle/horizon/internal/web"
)

// maxFormAttempts bounds how often invalid input is re-prompted
const maxFormAttempts = 3

// ErrNotSignedIn is returned when a form submission ends without a session
// or account. Its cause has already been logged.
var ErrNotSignedIn = errors.New("not signed in")

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(newAuthFormCmd(auth.ModeSignIn))
	cmd.AddCommand(newAuthFormCmd(auth.ModeSignUp))
	cmd.AddCommand(newAuthSignOutCmd())
	cmd.AddCommand(newAuthWhoamiCmd())

	return cmd
}

// newAuthFormCmd builds sign-in or sign-up. Every form field gets a flag;
// missing fields are prompted for.
func newAuthFormCmd(mode auth.Mode) *cobra.Command {
	schema := authform.BuildSchema(mode)
	flagValues := make(map[string]*string, len(schema.Fields()))

	cmd := &cobra.Command{
		Use:   string(mode),
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			preset := authform.Values{}
			for name, v := range flagValues {
				if *v != "" {
					preset[name] = *v
				}
			}
			return runAuthForm(cmd, mode, preset)
		},
	}

	if mode == auth.ModeSignIn {
		cmd.Aliases = []string{"login"}
	} else {
		cmd.Short = "Create a Horizon account"
		cmd.Aliases = []string{"register"}
	}

	for _, f := range schema.Fields() {
		flagValues[f.Name] = cmd.Flags().String(flagName(f.Name), "", strings.ToLower(f.Label))
	}

	return cmd
}

// flagName turns a field name like postalCode into postal-code
func flagName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func runAuthForm(cmd *cobra.Command, mode auth.Mode, preset authform.Values) error {
	policy, err := errorPolicy()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sessions := &sessionRecorder{identityClient: identity}
	nav := &cliNavigator{sessions: sessions, out: out}
	ctrl := authform.New(mode,
		authform.NewSubmitter(sessions, nav, cliLogger),
		authform.WithErrorPolicy(policy),
		authform.WithLogger(cliLogger),
	)
	unsubscribe := ctrl.Subscribe(loadingIndicator(cmd.ErrOrStderr()))
	defer unsubscribe()

	page := ctrl.Page()
	fmt.Fprintln(out, titleText(page.Title))
	fmt.Fprintln(out, dimText(page.Subtitle))

	p := newPrompter(cmd.InOrStdin(), out)
	values := preset.Clone()

	var outcome authform.Outcome
	for attempt := 1; ; attempt++ {
		for _, f := range ctrl.Page().Fields {
			if f.Error != "" {
				fmt.Fprintln(out, errorText(f.Error))
			} else if values.Get(f.Name) != "" {
				continue
			}
			v, err := p.field(f)
			if err != nil {
				return err
			}
			values[f.Name] = v
		}

		outcome = ctrl.ValidateAndSubmit(commandContext(cmd), values)
		if outcome.Submitted() {
			break
		}
		if attempt == maxFormAttempts {
			return fmt.Errorf("too many invalid attempts")
		}
	}

	switch outcome.Result.Kind {
	case authform.ResultNavigated:
		return nav.err
	case authform.ResultCreated:
		page = ctrl.Page()
		fmt.Fprintln(out, titleText(page.Title))
		fmt.Fprintln(out, dimText(page.Subtitle))
		fmt.Fprintf(out, "Welcome, %s. Your account is ready.\n", page.NewUser.DisplayName())
		fmt.Fprintln(out, "Run 'horizon auth sign-in' to continue.")
		return nil
	default:
		if msg := ctrl.View().Message; msg != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), errorText(msg))
		}
		return ErrNotSignedIn
	}
}

func newAuthSignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sign-out",
		Aliases: []string{"logout"},
		Short:   "End the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := sessionToken()
			if err != nil {
				return err
			}

			if err := identity.SignOut(commandContext(cmd), token); err != nil {
				cliLogger.WithError(err).Warn("Remote sign-out failed, clearing local session")
			}

			clearSession()
			if err := writeConfig(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), successText("Signed out"))
			return nil
		},
	}
}

func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := sessionToken()
			if err != nil {
				return err
			}

			user, err := identity.CurrentUser(commandContext(cmd), token)
			if err != nil {
				return fmt.Errorf("failed to get user info: %w", err)
			}

			out := cmd.OutOrStdout()
			if getOutputFormat() != "table" {
				return printOutput(out, user)
			}

			t := NewTable(out, "ID", "EMAIL", "NAME")
			t.AddRow(user.ID, user.Email, strings.TrimSpace(user.FirstName+" "+user.LastName))
			t.Render()
			return nil
		},
	}
}

// sessionRecorder remembers the last session handed out by Authenticate
type sessionRecorder struct {
	identityClient

	mu   sync.Mutex
	last *auth.Session
}

func (r *sessionRecorder) Authenticate(ctx context.Context, c auth.Credentials) (*auth.Session, error) {
	s, err := r.identityClient.Authenticate(ctx, c)
	r.mu.Lock()
	r.last = s
	r.mu.Unlock()
	return s, err
}

func (r *sessionRecorder) session() *auth.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// cliNavigator stores the session and shows the home greeting in place of
// a route change
type cliNavigator struct {
	sessions *sessionRecorder
	out      io.Writer
	err      error
}

func (n *cliNavigator) Navigate(ctx context.Context, route string) {
	s := n.sessions.session()
	if s == nil {
		return
	}

	viper.Set("auth.token", s.Token)
	if !s.ExpiresAt.IsZero() {
		viper.Set("auth.expires_at", s.ExpiresAt.Format(time.RFC3339))
	}
	if s.User != nil {
		viper.Set("auth.email", s.User.Email)
		viper.Set("auth.first_name", s.User.FirstName)
	}
	if err := writeConfig(); err != nil {
		n.err = fmt.Errorf("failed to save session: %w", err)
		return
	}

	cliLogger.With("route", route).Debug("Signed in")
	fmt.Fprintln(n.out, successText("Welcome, "+s.User.DisplayName()))
	fmt.Fprintln(n.out, dimText(web.HomeSubtext))
}

func clearSession() {
	for _, key := range []string{"auth.token", "auth.expires_at", "auth.email", "auth.first_name"} {
		viper.Set(key, "")
	}
}

// loadingIndicator prints the loading label when a submission starts and
// clears it once the flag drops
func loadingIndicator(w io.Writer) func(authform.View) {
	var mu sync.Mutex
	shown := false
	return func(v authform.View) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case v.Submitting && !shown:
			fmt.Fprint(w, dimText(authform.LoadingLabel))
			shown = true
		case !v.Submitting && shown:
			fmt.Fprint(w, "\r\033[K")
			shown = false
		}
	}
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
	// fd is the terminal behind in, or -1 when input is piped
	fd int
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &prompter{in: bufio.NewReader(in), out: out, fd: fd}
}

func (p *prompter) field(f authform.FieldView) (string, error) {
	label := fmt.Sprintf("%s (%s): ", f.Label, f.Placeholder)
	if f.InputType == "password" {
		return p.password(label)
	}
	return p.input(label)
}

func (p *prompter) input(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *prompter) password(label string) (string, error) {
	if p.fd < 0 {
		return p.input(label)
	}
	fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
