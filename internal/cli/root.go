// Package cli implements the escl command.
package cli

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andaru/escl/client"
	"github.com/andaru/escl/internal/config"
	"github.com/andaru/escl/transport"
)

// app is the state shared by every command of one invocation.
type app struct {
	configPath string
	url        string
	jsonOutput bool
	logLevel   string
	insecure   bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand returns the escl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "escl",
		Short: "Scan from eSCL (AirScan) scanners",
		Long: `escl discovers eSCL scanners on the local network, shows their
capabilities and status, and runs scan jobs.

Scan options come from named profiles in the configuration file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", config.DefaultPath(), "configuration file")
	f.StringVarP(&a.url, "url", "u", "", "scanner base URL, such as http://192.168.1.20/eSCL/")
	f.BoolVar(&a.jsonOutput, "json", false, "output in JSON format")
	f.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.BoolVar(&a.insecure, "insecure", false, "accept any TLS certificate from the scanner")

	root.AddCommand(
		a.discoverCommand(),
		a.capabilitiesCommand(),
		a.statusCommand(),
		a.scanCommand(),
		a.profilesCommand(),
	)
	return root
}

// Execute runs the root command. An interrupt cancels the running
// operation, and a running scan job is cancelled on the scanner.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		cancel()
		os.Exit(1)
	}
}

func (a *app) init(logOut io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if v := os.Getenv("ESCL_LOG_LEVEL"); v != "" && a.logLevel == "" {
		cfg.Logging.Level = v
	}
	h, err := cfg.Logging.Handler(logOut)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(h)
	return nil
}

// client returns a protocol client for the --url flag or the configured
// scanner.
func (a *app) client() (*client.Client, error) {
	url := a.url
	if url == "" {
		url = a.cfg.Scanner.URL
	}
	if url == "" {
		return nil, errors.New("no scanner: use --url or set scanner.url in the configuration (see escl discover)")
	}
	timeout, err := a.cfg.Timeout()
	if err != nil {
		return nil, err
	}
	tc := transport.Config{RequestTimeout: timeout}
	if a.insecure {
		tc.TLS = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // scanners use self-signed certificates
	}
	return client.New(url,
		client.WithLogger(a.logger),
		client.WithUserAgent(a.cfg.Scanner.UserAgent),
		client.WithTransportConfig(tc),
	)
}

// output prints v as JSON if --json is set, or calls text otherwise.
func (a *app) output(w io.Writer, v any, text func(io.Writer)) error {
	if !a.jsonOutput {
		text(w)
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
