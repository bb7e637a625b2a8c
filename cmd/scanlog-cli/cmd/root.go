package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"scanlog/internal/bootstrap"
	"scanlog/internal/config"
)

var (
	dbPath    string
	remoteURL string
	token     string
	timeout   time.Duration
	logLevel  string

	rt *bootstrap.Runtime
)

var rootCmd = &cobra.Command{
	Use:   "scanlog-cli",
	Short: "CLI for the scanlog QR scan history",
	Long: `scanlog-cli records decoded QR/barcode text, keeps a local scan history
and backs it up to a remote document host.

Decoded text is read line by line from stdin or a file, so any scanner
that acts as a keyboard or any decoder that prints to stdout can feed it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		rt, err = bootstrap.Open(cfg)
		return err
	},
}

// Execute runs the root command and closes the runtime on every exit path
func Execute() {
	os.Exit(run())
}

func run() int {
	err := rootCmd.Execute()
	if rt != nil {
		if cerr := rt.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func init() {
	config.LoadDotEnv()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dbPath, "db", "", "path to the history database (env SCANLOG_DB)")
	flags.StringVar(&remoteURL, "remote", "", "document host base URL (env SCANLOG_REMOTE_URL)")
	flags.StringVar(&token, "token", "", "access token for this run, not stored (env SCANLOG_TOKEN)")
	flags.DurationVar(&timeout, "timeout", 0, "remote request timeout (env SCANLOG_TIMEOUT)")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (env SCANLOG_LOG_LEVEL)")
}

// loadConfig reads the environment and applies the flags that were set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = config.ExpandHome(dbPath)
	}
	if flags.Changed("remote") {
		cfg.RemoteURL = remoteURL
	}
	if flags.Changed("token") {
		cfg.Token = token
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetRuntime returns the initialized runtime
func GetRuntime() *bootstrap.Runtime {
	return rt
}
