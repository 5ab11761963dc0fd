package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tansive/commitproof/internal/codelog"
	"github.com/tansive/commitproof/internal/common/apperrors"
	"github.com/tansive/commitproof/internal/otp"
)

// ErrCodeMismatch is returned by code --check when the code does not match.
var ErrCodeMismatch = apperrors.New("code does not match").SetExitCode(apperrors.ExitGeneric)

// newCodeCmd creates the code command
func newCodeCmd() *cobra.Command {
	var (
		seedPath string
		at       int64
		check    string
		skew     uint
	)

	cmd := &cobra.Command{
		Use:   "code [flags]",
		Short: "Print or check the current one-time code",
		Long: `Reads the hex seed file and prints the time-based one-time code for the current
30 second step, in the same line format the code logger writes. A missing seed file
is reported as a warning and is not an error.

Examples:
  commitproof code --seed /data/seed.txt
  commitproof code --at 59
  commitproof code --check 287082 --skew 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seedPath == "" {
				seedPath = cfg.Code.SeedPath
			}
			deriver, err := otp.NewDeriver(otp.Options{
				Period:    cfg.Code.Period,
				Digits:    cfg.Code.Digits,
				Algorithm: cfg.Code.Algorithm,
			})
			if err != nil {
				return err
			}

			now := time.Now
			if cmd.Flags().Changed("at") {
				if at < 0 {
					return otp.ErrBeforeEpoch.Msg(fmt.Sprintf("--at %d is before the Unix epoch", at))
				}
				fixed := time.Unix(at, 0).UTC()
				now = func() time.Time { return fixed }
			}
			source := otp.FileSeedSource{Path: seedPath}

			if check != "" || jsonOutput {
				seed, err := source.ReadSeed(cmd.Context())
				if err != nil {
					return skipIfMissing(cmd, err)
				}
				if check != "" {
					return checkCode(cmd, deriver, check, seed, now(), skew)
				}
				code, err := deriver.Derive(seed, now())
				if err != nil {
					return err
				}
				printJSON(cmd.OutOrStdout(), map[string]any{
					"code":        code.Code,
					"valid_from":  code.ValidFrom.Format(time.RFC3339),
					"valid_until": code.ValidUntil.Format(time.RFC3339),
				})
				return nil
			}

			runner := codelog.Runner{
				Source:  source,
				Sink:    &codelog.WriterSink{W: cmd.OutOrStdout()},
				Deriver: deriver,
				Now:     now,
			}
			// RunOnce logs skipped runs itself
			res := runner.RunOnce(cmd.Context())
			if res.Class == codelog.ClassFailed {
				return res.Err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&seedPath, "seed", "s", "", "Hex seed file (default: code.seed_path)")
	cmd.Flags().Int64VarP(&at, "at", "", 0, "Derive for this Unix time instead of now")
	cmd.Flags().StringVarP(&check, "check", "", "", "Check this code instead of printing one")
	cmd.Flags().UintVarP(&skew, "skew", "", 0, "Steps of clock skew accepted by --check")
	return cmd
}

// skipIfMissing turns a missing seed into a warning for paths that bypass the runner.
func skipIfMissing(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrMissingResource) {
		warnLabel.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		return nil
	}
	return err
}

func checkCode(cmd *cobra.Command, d *otp.Deriver, code, seed string, t time.Time, skew uint) error {
	ok, err := d.Validate(code, seed, t, skew)
	if err != nil {
		return err
	}
	if jsonOutput {
		printJSON(cmd.OutOrStdout(), map[string]bool{"valid": ok})
		if !ok {
			return fmt.Errorf("%w: %w", ErrAlreadyHandled, ErrCodeMismatch)
		}
		return nil
	}
	if !ok {
		return ErrCodeMismatch
	}
	okLabel.Fprintln(cmd.OutOrStdout(), "Code is valid")
	return nil
}
