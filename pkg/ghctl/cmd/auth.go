package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telekom/ghlogin/pkg/ghctl/output"
	"github.com/telekom/ghlogin/pkg/ghctl/prompt"
	"github.com/telekom/ghlogin/pkg/login"
)

func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with GitHub hosts",
	}
	cmd.AddCommand(
		newAuthLoginCommand(),
		newAuthStatusCommand(),
		newAuthLogoutCommand(),
	)
	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var (
		username  string
		withToken bool
		web       bool
		device    bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a password, a token, the browser or a device code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if countTrue(withToken, web, device) > 1 {
				return errors.New("--with-token, --web and --device are mutually exclusive")
			}
			ctx := cmd.Context()

			var user *login.SessionUser
			var t *target
			switch {
			case web:
				t, user, err = loginWeb(ctx, rt)
			case device:
				t, user, err = loginDevice(ctx, rt)
			case withToken:
				t, user, err = loginToken(ctx, rt)
			default:
				t, user, err = loginPassword(ctx, rt, username)
			}
			if err != nil {
				return err
			}
			return writeLoginResult(rt, t, user)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username for password login")
	cmd.Flags().BoolVar(&withToken, "with-token", false, "Read a personal access token from standard input")
	cmd.Flags().BoolVar(&web, "web", false, "Log in through the browser")
	cmd.Flags().BoolVar(&device, "device", false, "Log in with a device code")
	return cmd
}

func loginPassword(ctx context.Context, rt *runtimeState, username string) (*target, *login.SessionUser, error) {
	t, err := rt.buildTarget()
	if err != nil {
		return nil, nil, err
	}
	if username == "" {
		if rt.nonInteractive {
			return nil, nil, fmt.Errorf("--username: %w", prompt.ErrInteractionDisabled)
		}
		if username, err = rt.Prompter().Line(fmt.Sprintf("Username for %s: ", t.addr.Title())); err != nil {
			return nil, nil, err
		}
	}
	if rt.nonInteractive {
		return nil, nil, fmt.Errorf("password: %w", prompt.ErrInteractionDisabled)
	}
	password, err := rt.Prompter().Secret(fmt.Sprintf("Password for %s@%s: ", username, t.addr.Title()))
	if err != nil {
		return nil, nil, err
	}
	user, err := t.manager.Login(ctx, t.addr, t.client, username, password)
	return t, user, err
}

func loginToken(ctx context.Context, rt *runtimeState) (*target, *login.SessionUser, error) {
	t, err := rt.buildTarget()
	if err != nil {
		return nil, nil, err
	}
	token, err := rt.Prompter().Secret("Token: ")
	if err != nil {
		return nil, nil, err
	}
	user, err := t.manager.LoginWithToken(ctx, t.addr, t.client, token)
	return t, user, err
}

func loginWeb(ctx context.Context, rt *runtimeState) (*target, *login.SessionUser, error) {
	listener, err := login.NewCallbackListener(rt.cfg.Application.CallbackAddress)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = listener.Close()
	}()
	t, err := rt.buildTarget(login.WithOAuthListener(listener))
	if err != nil {
		return nil, nil, err
	}
	open := func(url string) error {
		_, _ = fmt.Fprintf(rt.ErrWriter(), "Open the following URL in your browser:\n%s\n", url)
		if rt.noBrowser || rt.openBrowser == nil {
			return nil
		}
		return rt.openBrowser(url)
	}
	user, err := t.manager.LoginViaOAuth(ctx, t.addr, t.client, open)
	return t, user, err
}

func loginDevice(ctx context.Context, rt *runtimeState) (*target, *login.SessionUser, error) {
	t, err := rt.buildTarget()
	if err != nil {
		return nil, nil, err
	}
	notify := func(p login.DevicePrompt) {
		_, _ = fmt.Fprintf(rt.ErrWriter(), "Visit %s and enter code: %s\n", p.VerificationURI, p.UserCode)
		if !rt.noBrowser && rt.openBrowser != nil {
			_ = rt.openBrowser(p.VerificationURI)
		}
	}
	user, err := t.manager.LoginViaDevice(ctx, t.addr, t.client, notify)
	return t, user, err
}

func writeLoginResult(rt *runtimeState, t *target, user *login.SessionUser) error {
	format, err := rt.OutputFormat()
	if err != nil {
		return err
	}
	status := sessionStatus(rt, t, user)
	if format == output.FormatTable || format == output.FormatWide {
		_, _ = fmt.Fprintf(rt.Writer(), "Logged in to %s as %s\n", status.Host, status.Login)
		return nil
	}
	return output.WriteObject(rt.Writer(), format, status)
}

func newAuthStatusCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Verify the stored credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			format, err := rt.OutputFormat()
			if err != nil {
				return err
			}

			var targets []*target
			if all {
				for i := range rt.cfg.Hosts {
					_, addr, err := rt.cfg.ResolveHost(rt.cfg.Hosts[i].Name)
					if err != nil {
						return err
					}
					t, err := rt.buildTargetFor(&rt.cfg.Hosts[i], addr)
					if err != nil {
						return err
					}
					targets = append(targets, t)
				}
			} else {
				t, err := rt.buildTarget()
				if err != nil {
					return err
				}
				targets = append(targets, t)
			}

			statuses := make([]output.HostStatus, 0, len(targets))
			for _, t := range targets {
				statuses = append(statuses, checkStatus(cmd.Context(), rt, t))
			}
			return output.WriteStatus(rt.Writer(), format, statuses)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Check every configured host")
	return cmd
}

func checkStatus(ctx context.Context, rt *runtimeState, t *target) output.HostStatus {
	status := output.HostStatus{Host: t.addr.Title(), URL: t.addr.WebURL(), Storage: rt.TokenStorage()}
	_, ok, err := t.store.Load(t.addr)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	if !ok {
		return status
	}
	user, err := t.manager.LoginFromCache(ctx, t.addr, t.client)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	return sessionStatus(rt, t, user)
}

func sessionStatus(rt *runtimeState, t *target, user *login.SessionUser) output.HostStatus {
	return output.HostStatus{
		Host:     t.addr.Title(),
		URL:      t.addr.WebURL(),
		LoggedIn: true,
		Login:    user.User.Login,
		Name:     user.User.Name,
		Storage:  rt.TokenStorage(),
		Scopes:   user.Scopes,
	}
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			t, err := rt.buildTarget()
			if err != nil {
				return err
			}
			if err := t.manager.Logout(cmd.Context(), t.addr, t.client); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Logged out of %s\n", t.addr.Title())
			return nil
		},
	}
}

func countTrue(values ...bool) int {
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}
