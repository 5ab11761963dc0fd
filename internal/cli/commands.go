package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tansive/commitproof/internal/common/apperrors"
	"github.com/tansive/commitproof/internal/common/logtrace"
	"github.com/tansive/commitproof/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// Global flags
	jsonOutput bool
	configFile string
	logLevel   string

	// cfg is loaded before any subcommand runs
	cfg *config.ConfigParam
)

// ErrAlreadyHandled marks an error whose message has already been printed.
var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var warnLabel = color.New(color.FgYellow)
var errorLabel = color.New(color.FgRed)

// DefaultConfigFile is the name of the config file looked up in the user config dir
const DefaultConfigFile = "config.toml"

// newRootCmd builds the command tree. Flags are bound to the package-level
// variables above and reset to their defaults every time the tree is built.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "commitproof [command] [flags]",
		Short: "Produce and check commit authenticity proofs and one-time codes",
		Long: `commitproof signs the hash of the latest commit with the submitter's RSA key,
seals the signature with the verifier's RSA key and prints both for submission.
It also derives time-based one-time codes from a hex seed file.

Examples:
  # Prove the latest commit in the current repository
  commitproof prove --signing-key student_private.pem --sealing-key instructor_public.pem

  # Check a proof as the verifier
  commitproof verify --in proof.txt --opening-key instructor_private.pem --verifying-key student_public.pem

  # Print the current one-time code
  commitproof code --seed /data/seed.txt`,
		PersistentPreRunE: preRunHandlePersistents,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file (TOML or YAML)")
	root.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	root.PersistentFlags().StringVarP(&logLevel, "log-level", "", "", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newProveCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newCodeCmd())
	return root
}

// Execute runs the command tree and exits with the code of the returned error.
// This is called by main.main().
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	if !errors.Is(err, ErrAlreadyHandled) {
		if jsonOutput {
			printJSON(stdout, map[string]any{
				"error":     errorMessage(err),
				"exit_code": apperrors.ExitCodeOf(err),
			})
		} else {
			errorLabel.Fprintf(stderr, "Error: %s\n", errorMessage(err))
		}
	}
	return apperrors.ExitCodeOf(err)
}

// errorMessage expands application errors that carry their cause.
func errorMessage(err error) string {
	if ae, ok := err.(apperrors.Error); ok {
		return ae.ErrorAll()
	}
	return err.Error()
}

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/commitproof on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "commitproof", DefaultConfigFile), nil
}

// preRunHandlePersistents loads configuration and sets up logging before command execution.
// A missing default config file is not an error; an explicit --config must exist.
func preRunHandlePersistents(cmd *cobra.Command, args []string) error {
	file := configFile
	if file == "" {
		if p, err := GetDefaultConfigPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				file = p
			}
		}
	}

	c, err := config.Load(file)
	if err != nil {
		return apperrors.ErrInvalidInput.MsgErr("unable to load configuration: "+err.Error(), err)
	}
	cfg = c

	name := c.LogLevel
	if logLevel != "" {
		name = logLevel
	}
	level, err := logtrace.ParseLevel(name)
	if err != nil {
		return err
	}
	logtrace.InitLoggerTo(cmd.ErrOrStderr(), level)
	log.Debug().Str("config_file", file).Msg("configuration loaded")
	return nil
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of commitproof",
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				printJSON(cmd.OutOrStdout(), map[string]string{
					"version": getCLIVersion(),
				})
			} else {
				cmd.Printf("commitproof %s\n", getCLIVersion())
			}
		},
	}
}

// printJSON prints the given value as indented JSON
func printJSON(w io.Writer, data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(jsonData))
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v0.1.0"
}
