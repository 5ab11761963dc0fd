package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tansive/commitproof/internal/proof"
	"github.com/tansive/commitproof/internal/proof/pemkeys"
	"github.com/tansive/commitproof/internal/vcs"
)

// newProveCmd creates the prove command
func newProveCmd() *cobra.Command {
	var (
		commit     string
		repoDir    string
		signingKey string
		sealingKey string
		outFile    string
	)

	cmd := &cobra.Command{
		Use:   "prove [flags]",
		Short: "Sign and seal the hash of the latest commit",
		Long: `Signs the latest commit hash with the submitter's private key (RSA-PSS, SHA-256),
seals the signature with the verifier's public key (RSA-OAEP, SHA-256) and prints
the commit hash together with the base64 sealed signature.

Key paths default to the values in the configuration file.

Examples:
  # Prove HEAD of the repository in the current directory
  commitproof prove

  # Prove a specific commit and write the proof to a file
  commitproof prove --commit 3f786850e387550fdab836ed7e6dc881de23001b --out proof.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if repoDir == "" {
				repoDir = cfg.Proof.RepoDir
			}
			if signingKey == "" {
				signingKey = cfg.Proof.SigningKeyPath
			}
			if sealingKey == "" {
				sealingKey = cfg.Proof.SealingKeyPath
			}

			id, err := resolveCommit(cmd, commit, repoDir)
			if err != nil {
				return err
			}

			signer, err := pemkeys.LoadSigningKey(signingKey)
			if err != nil {
				return err
			}
			defer signer.Discard()

			sealer, err := pemkeys.LoadSealingKey(sealingKey)
			if err != nil {
				return err
			}

			artifact, err := proof.Produce(id, signer, sealer)
			if err != nil {
				return err
			}
			log.Debug().Str("commit", id.String()).Stringer("sealing_key", sealer).Msg("proof produced")

			var out []byte
			if jsonOutput {
				if out, err = artifact.JSON(); err != nil {
					return err
				}
				out = append(out, '\n')
			} else {
				out = []byte(artifact.Format())
			}

			if outFile != "" && outFile != "-" {
				if err := os.WriteFile(outFile, out, 0644); err != nil {
					return fmt.Errorf("unable to write proof: %w", err)
				}
				okLabel.Fprintf(cmd.ErrOrStderr(), "Proof written to %s\n", outFile)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&commit, "commit", "c", "", "Commit hash to prove (default: latest commit in --repo)")
	cmd.Flags().StringVarP(&repoDir, "repo", "r", "", "Repository directory")
	cmd.Flags().StringVarP(&signingKey, "signing-key", "", "", "Submitter private key PEM")
	cmd.Flags().StringVarP(&sealingKey, "sealing-key", "", "", "Verifier public key PEM")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the proof to a file instead of stdout")
	return cmd
}

// resolveCommit uses the explicit hash when given and asks git otherwise.
func resolveCommit(cmd *cobra.Command, commit, repoDir string) (proof.CommitIdentifier, error) {
	if commit != "" {
		return proof.ParseCommitIdentifier(commit)
	}
	return vcs.Git{Dir: repoDir}.HeadCommit(cmd.Context())
}
