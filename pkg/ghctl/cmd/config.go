package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telekom/ghlogin/pkg/ghctl/config"
	"github.com/telekom/ghlogin/pkg/ghctl/output"
	"github.com/telekom/ghlogin/pkg/hostaddress"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ghlogin configuration",
	}

	cmd.AddCommand(
		newConfigInitCommand(),
		newConfigViewCommand(),
		newConfigGetHostsCommand(),
		newConfigAddHostCommand(),
		newConfigUseHostCommand(),
	)

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		clientID        string
		clientSecretEnv string
		hostName        string
		hostURL         string
		tokenStorage    string
		force           bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a ghlogin config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			path := rt.configPathValue()
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("config already exists: %s", path)
				}
			}
			cfg := config.DefaultConfig()
			cfg.Application.ClientID = clientID
			if clientSecretEnv != "" {
				cfg.Application.ClientSecretEnv = clientSecretEnv
			}
			if tokenStorage != "" {
				cfg.Settings.TokenStorage = tokenStorage
			}
			if hostURL != "" {
				if _, err := hostaddress.Create(hostURL); err != nil {
					return err
				}
				if hostName == "" {
					hostName = hostURL
				}
				cfg.AddHost(config.Host{Name: hostName, URL: hostURL})
				cfg.CurrentHost = hostName
			}
			if err := config.Save(path, &cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Initialized config at %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth application client ID")
	cmd.Flags().StringVar(&clientSecretEnv, "client-secret-env", "", "Environment variable holding the client secret")
	cmd.Flags().StringVar(&hostName, "host-name", "", "Name of an additional host to make current")
	cmd.Flags().StringVar(&hostURL, "host-url", "", "URL of an additional host to make current")
	cmd.Flags().StringVar(&tokenStorage, "storage", "", "Credential storage backend: keychain, file or memory")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")

	_ = cmd.MarkFlagRequired("client-id")
	return cmd
}

func newConfigViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			format, err := rt.OutputFormat()
			if err != nil {
				return err
			}
			if format != output.FormatJSON {
				format = output.FormatYAML
			}
			return output.WriteObject(rt.Writer(), format, rt.cfg)
		},
	}
}

func newConfigGetHostsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get-hosts",
		Short: "List configured hosts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			current := rt.cfg.CurrentHostOrDefault()
			for _, host := range rt.cfg.Hosts {
				marker := " "
				if host.Name == current {
					marker = "*"
				}
				_, _ = fmt.Fprintf(rt.Writer(), "%s %s\t%s\n", marker, host.Name, host.URL)
			}
			return nil
		},
	}
}

func newConfigAddHostCommand() *cobra.Command {
	var (
		caFile   string
		insecure bool
		use      bool
	)

	cmd := &cobra.Command{
		Use:   "add-host NAME URL",
		Short: "Add or replace a host",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			name, url := args[0], args[1]
			if _, err := hostaddress.Create(url); err != nil {
				return err
			}
			rt.cfg.AddHost(config.Host{Name: name, URL: url, CAFile: caFile, InsecureSkipTLSVerify: insecure})
			if use {
				rt.cfg.CurrentHost = name
			}
			if err := config.Save(rt.configPathValue(), rt.cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Host %s saved\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&caFile, "ca-file", "", "CA bundle for the host")
	cmd.Flags().BoolVar(&insecure, "insecure-skip-tls-verify", false, "Skip TLS verification")
	cmd.Flags().BoolVar(&use, "use", false, "Make this the current host")
	return cmd
}

func newConfigUseHostCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use-host NAME",
		Short: "Set the current host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if _, err := rt.cfg.FindHost(args[0]); err != nil {
				return err
			}
			rt.cfg.CurrentHost = args[0]
			if err := config.Save(rt.configPathValue(), rt.cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Switched to host %s\n", args[0])
			return nil
		},
	}
}
