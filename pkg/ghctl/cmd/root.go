package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/telekom/ghlogin/pkg/ghctl/config"
	"github.com/telekom/ghlogin/pkg/ghctl/output"
	"github.com/telekom/ghlogin/pkg/ghctl/prompt"
	"github.com/telekom/ghlogin/pkg/hostaddress"
	"github.com/telekom/ghlogin/pkg/keychain"
	"github.com/telekom/ghlogin/pkg/login"
	"github.com/telekom/ghlogin/pkg/metrics"
	"github.com/telekom/ghlogin/pkg/system"
)

type Config struct {
	ConfigPath   string
	OutputWriter io.Writer
	ErrorWriter  io.Writer
	Input        io.Reader
	// Keychain replaces the storage selected by --token-storage
	Keychain    keychain.Store
	OpenBrowser func(url string) error
}

type runtimeState struct {
	configPath           string
	cfg                  *config.Config
	hostOverride         string
	outputFormat         string
	tokenStorageOverride string
	metricsTextfile      string
	nonInteractive       bool
	noBrowser            bool
	verbose              bool
	writer               io.Writer
	errWriter            io.Writer
	input                io.Reader
	prompter             *prompt.Prompter
	keychain             keychain.Store
	openBrowser          func(url string) error
	log                  *zap.SugaredLogger
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{
		ConfigPath:   config.DefaultConfigPath(),
		OutputWriter: os.Stdout,
		ErrorWriter:  os.Stderr,
		Input:        os.Stdin,
		OpenBrowser:  login.OpenBrowser,
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	root, _ := newRootCommand(cfg)
	return root
}

// Execute runs the command line and writes the metrics textfile, if one was
// requested, whether or not the command succeeded.
func Execute(ctx context.Context, cfg Config, args []string) error {
	root, rt := newRootCommand(cfg)
	root.SetArgs(args)
	err := root.ExecuteContext(context.WithValue(ctx, runtimeKey{}, rt))
	if rt.metricsTextfile != "" {
		if writeErr := metrics.WriteTextfile(rt.metricsTextfile); writeErr != nil {
			return errors.Join(err, writeErr)
		}
	}
	return err
}

func newRootCommand(cfg Config) (*cobra.Command, *runtimeState) {
	rt := &runtimeState{
		configPath:  cfg.ConfigPath,
		writer:      cfg.OutputWriter,
		errWriter:   cfg.ErrorWriter,
		input:       cfg.Input,
		keychain:    cfg.Keychain,
		openBrowser: cfg.OpenBrowser,
	}

	root := &cobra.Command{
		Use:           "ghlogin",
		Short:         "Log in to GitHub and GitHub Enterprise hosts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.errWriter == nil {
				rt.errWriter = os.Stderr
			}
			if rt.input == nil {
				rt.input = os.Stdin
			}
			if rt.configPath == "" {
				rt.configPath = config.DefaultConfigPath()
			}
			if rt.hostOverride == "" {
				rt.hostOverride = os.Getenv("GHLOGIN_HOST")
			}
			if rt.outputFormat == "" {
				rt.outputFormat = os.Getenv("GHLOGIN_OUTPUT")
			}
			if rt.tokenStorageOverride == "" {
				rt.tokenStorageOverride = os.Getenv("GHLOGIN_TOKEN_STORAGE")
			}
			if !rt.nonInteractive {
				rt.nonInteractive = strings.EqualFold(os.Getenv("GHLOGIN_NON_INTERACTIVE"), "true")
			}
			if !rt.noBrowser {
				rt.noBrowser = strings.EqualFold(os.Getenv("GHLOGIN_NO_BROWSER"), "true")
			}
			if !rt.verbose {
				rt.verbose = strings.EqualFold(os.Getenv("GHLOGIN_VERBOSE"), "true")
			}
			rt.log = system.NewLogger(rt.verbose, rt.errWriter)
			zap.ReplaceGlobals(rt.log.Desugar())

			if cmd.Name() == "init" && cmd.Parent() != nil && cmd.Parent().Name() == "config" {
				return nil
			}
			if cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			return rt.EnsureConfigLoaded()
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", rt.configPath, "Path to config file")
	root.PersistentFlags().StringVar(&rt.hostOverride, "host", "", "Host name from the config or server URL")
	root.PersistentFlags().StringVarP(&rt.outputFormat, "output", "o", "", "Output format: table, wide, json, yaml")
	root.PersistentFlags().StringVar(&rt.tokenStorageOverride, "token-storage", "", "Credential storage backend: keychain, file or memory")
	root.PersistentFlags().StringVar(&rt.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file on exit")
	root.PersistentFlags().BoolVar(&rt.nonInteractive, "non-interactive", false, "Fail instead of prompting")
	root.PersistentFlags().BoolVar(&rt.noBrowser, "no-browser", false, "Print URLs instead of opening a browser")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Enable debug logging")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewAuthCommand(),
		NewConfigCommand(),
		NewCompletionCommand(),
		NewVersionCommand(),
	)

	return root, rt
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

// EnsureConfigLoaded falls back to the default config when the file does not exist.
func (rt *runtimeState) EnsureConfigLoaded() error {
	if rt.cfg != nil {
		return nil
	}
	cfg, err := config.Load(rt.configPathValue())
	if errors.Is(err, os.ErrNotExist) {
		rt.logger().Debugw("Config file not found, using defaults", "path", rt.configPathValue())
		defaults := config.DefaultConfig()
		rt.cfg = &defaults
		return nil
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	rt.cfg = cfg
	return nil
}

func (rt *runtimeState) OutputFormat() (output.Format, error) {
	if rt.outputFormat != "" {
		return output.ParseFormat(rt.outputFormat)
	}
	if rt.cfg != nil && rt.cfg.Settings.OutputFormat != "" {
		return output.ParseFormat(rt.cfg.Settings.OutputFormat)
	}
	return output.FormatTable, nil
}

func (rt *runtimeState) TokenStorage() string {
	if rt.tokenStorageOverride != "" {
		return rt.tokenStorageOverride
	}
	if rt.cfg != nil && rt.cfg.Settings.TokenStorage != "" {
		return rt.cfg.Settings.TokenStorage
	}
	return keychain.StorageKeychain
}

func (rt *runtimeState) Store() (keychain.Store, error) {
	if rt.keychain != nil {
		return rt.keychain, nil
	}
	path := config.DefaultCredentialPath()
	if rt.cfg != nil && rt.cfg.Settings.CredentialFile != "" {
		path = rt.cfg.Settings.CredentialFile
	}
	store, err := keychain.New(rt.TokenStorage(), path)
	if err != nil {
		return nil, err
	}
	rt.keychain = store
	return store, nil
}

func (rt *runtimeState) ResolveHost() (*config.Host, hostaddress.HostAddress, error) {
	if rt.cfg == nil {
		return nil, hostaddress.HostAddress{}, errors.New("config not loaded")
	}
	return rt.cfg.ResolveHost(rt.hostOverride)
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) ErrWriter() io.Writer {
	if rt.errWriter != nil {
		return rt.errWriter
	}
	return os.Stderr
}

func (rt *runtimeState) Prompter() *prompt.Prompter {
	if rt.prompter != nil {
		return rt.prompter
	}
	if f, ok := rt.input.(*os.File); ok {
		rt.prompter = prompt.NewTerminal(f, rt.ErrWriter())
	} else {
		rt.prompter = prompt.New(rt.input, rt.ErrWriter())
	}
	return rt.prompter
}

func (rt *runtimeState) TwoFactorHandler() login.TwoFactorChallengeHandler {
	if rt.nonInteractive {
		return prompt.NonInteractive{}
	}
	return prompt.NewTwoFactorHandler(rt.Prompter())
}

func (rt *runtimeState) logger() *zap.SugaredLogger {
	if rt.log != nil {
		return rt.log
	}
	return zap.S()
}

func (rt *runtimeState) configPathValue() string {
	if rt.configPath == "" {
		return config.DefaultConfigPath()
	}
	return rt.configPath
}
