package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tansive/commitproof/internal/proof"
	"github.com/tansive/commitproof/internal/proof/pemkeys"
)

// newVerifyCmd creates the verify command
func newVerifyCmd() *cobra.Command {
	var (
		inFile       string
		openingKey   string
		verifyingKey string
	)

	cmd := &cobra.Command{
		Use:   "verify [flags]",
		Short: "Open a sealed proof and verify its signature",
		Long: `Reads a proof in the text layout printed by 'prove' (or its JSON form),
opens the sealed signature with the verifier's private key and verifies it against
the submitter's public key.

Examples:
  commitproof verify --in proof.txt --opening-key instructor_private.pem --verifying-key student_public.pem
  commitproof prove | commitproof verify --opening-key instructor_private.pem --verifying-key student_public.pem`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if openingKey == "" {
				openingKey = cfg.Proof.OpeningKeyPath
			}
			if verifyingKey == "" {
				verifyingKey = cfg.Proof.VerifyingKeyPath
			}

			data, err := readInput(cmd, inFile)
			if err != nil {
				return err
			}
			artifact, err := parseProof(data)
			if err != nil {
				return err
			}

			opener, err := pemkeys.LoadOpeningKey(openingKey)
			if err != nil {
				return err
			}
			defer opener.Discard()

			verifier, err := pemkeys.LoadVerifyingKey(verifyingKey)
			if err != nil {
				return err
			}

			if err := artifact.Check(opener, verifier); err != nil {
				return err
			}

			if jsonOutput {
				printJSON(cmd.OutOrStdout(), map[string]any{
					"commit_hash": artifact.CommitHash,
					"verified":    true,
				})
				return nil
			}
			okLabel.Fprintf(cmd.OutOrStdout(), "Signature verified for commit %s\n", artifact.CommitHash)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inFile, "in", "i", "-", "Proof file, or - for stdin")
	cmd.Flags().StringVarP(&openingKey, "opening-key", "", "", "Verifier private key PEM")
	cmd.Flags().StringVarP(&verifyingKey, "verifying-key", "", "", "Submitter public key PEM")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read proof: %w", err)
	}
	return b, nil
}

// parseProof accepts either the JSON form or the text layout.
func parseProof(data []byte) (*proof.ProofArtifact, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return proof.ParseArtifactJSON(trimmed)
	}
	return proof.ParseArtifact(string(data))
}
