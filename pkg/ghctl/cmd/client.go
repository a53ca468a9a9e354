package cmd

import (
	"net/http"
	"os"
	"time"

	"github.com/telekom/ghlogin/pkg/ghapi"
	"github.com/telekom/ghlogin/pkg/ghctl/config"
	"github.com/telekom/ghlogin/pkg/hostaddress"
	"github.com/telekom/ghlogin/pkg/keychain"
	"github.com/telekom/ghlogin/pkg/login"
	"github.com/telekom/ghlogin/pkg/version"
)

const defaultTimeout = 30 * time.Second

// target is everything a command needs to talk to one host.
type target struct {
	hostCfg *config.Host
	addr    hostaddress.HostAddress
	store   keychain.Store
	client  *ghapi.Client
	manager *login.Manager
}

func (rt *runtimeState) timeout() (time.Duration, error) {
	timeout, err := config.ParseDuration(rt.cfg.Settings.Timeout)
	if err != nil {
		return 0, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return timeout, nil
}

func buildClient(rt *runtimeState, hostCfg *config.Host, addr hostaddress.HostAddress, store keychain.Store) (*ghapi.Client, error) {
	timeout, err := rt.timeout()
	if err != nil {
		return nil, err
	}
	settings := rt.cfg.Settings
	return ghapi.New(
		ghapi.WithHost(addr),
		ghapi.WithKeychain(store),
		ghapi.WithTimeout(timeout),
		ghapi.WithTLSConfig(hostCfg.CAFile, hostCfg.InsecureSkipTLSVerify),
		ghapi.WithRateLimit(settings.RateLimit, settings.RateBurst),
		ghapi.WithLogger(rt.logger()),
	)
}

// oauthHTTPClient carries the host's TLS settings to the OAuth endpoints.
func oauthHTTPClient(hostCfg *config.Host, timeout time.Duration) (*http.Client, error) {
	tlsConfig, err := ghapi.LoadTLSConfig(hostCfg.CAFile, hostCfg.InsecureSkipTLSVerify)
	if err != nil {
		return nil, err
	}
	return &http.Client{Transport: &http.Transport{TLSClientConfig: tlsConfig}, Timeout: timeout}, nil
}

func (rt *runtimeState) loginConfig(addr hostaddress.HostAddress) (login.Config, error) {
	app := rt.cfg.Application
	clientID := app.ClientID
	if env := os.Getenv("GHLOGIN_CLIENT_ID"); env != "" {
		clientID = env
	}
	secret, err := config.ResolveClientSecret(app.ClientSecret, app.ClientSecretEnv, app.ClientSecretFile)
	if err != nil {
		return login.Config{}, err
	}
	identity, err := config.BuildIdentity(app.NoteTemplate, config.NoteData{
		App:     version.ApplicationName,
		Version: version.Version,
		Host:    addr.Title(),
	})
	if err != nil {
		return login.Config{}, err
	}
	verifyDelay, err := config.ParseDuration(rt.cfg.Settings.VerifyDelay)
	if err != nil {
		return login.Config{}, err
	}
	return login.Config{
		ClientID:                 clientID,
		ClientSecret:             secret,
		Note:                     identity.Note,
		Fingerprint:              identity.Fingerprint,
		Scopes:                   app.Scopes,
		MinimumScopes:            app.MinimumScopes,
		MaxAuthorizationAttempts: rt.cfg.Settings.MaxAuthorizationAttempts,
		VerifyAttempts:           rt.cfg.Settings.VerifyAttempts,
		VerifyDelay:              verifyDelay,
	}, nil
}

func (rt *runtimeState) buildTarget(opts ...login.Option) (*target, error) {
	hostCfg, addr, err := rt.ResolveHost()
	if err != nil {
		return nil, err
	}
	return rt.buildTargetFor(hostCfg, addr, opts...)
}

func (rt *runtimeState) buildTargetFor(hostCfg *config.Host, addr hostaddress.HostAddress, opts ...login.Option) (*target, error) {
	store, err := rt.Store()
	if err != nil {
		return nil, err
	}
	client, err := buildClient(rt, hostCfg, addr, store)
	if err != nil {
		return nil, err
	}
	loginCfg, err := rt.loginConfig(addr)
	if err != nil {
		return nil, err
	}
	timeout, err := rt.timeout()
	if err != nil {
		return nil, err
	}
	httpClient, err := oauthHTTPClient(hostCfg, timeout)
	if err != nil {
		return nil, err
	}
	opts = append([]login.Option{
		login.WithLogger(rt.logger()),
		login.WithHTTPClient(httpClient),
	}, opts...)
	manager, err := login.NewManager(store, rt.TwoFactorHandler(), loginCfg, opts...)
	if err != nil {
		return nil, err
	}
	return &target{hostCfg: hostCfg, addr: addr, store: store, client: client, manager: manager}, nil
}
