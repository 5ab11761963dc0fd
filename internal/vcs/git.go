// Package vcs reads the commit to be proven from git history.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tansive/commitproof/internal/common/apperrors"
	"github.com/tansive/commitproof/internal/proof"
)

var (
	ErrGitNotFound = apperrors.ErrMissingResource.New("git executable not found")
	ErrGitFailed   = apperrors.New("git command failed").SetExitCode(apperrors.ExitGeneric)
)

// Git runs the git binary in Dir. An empty Dir uses the working directory.
type Git struct {
	Dir    string
	Binary string // defaults to "git" on PATH
}

// HeadCommit returns the hash of the latest commit, as printed by
// `git log -1 --format=%H`, validated as a CommitIdentifier.
func (g Git) HeadCommit(ctx context.Context) (proof.CommitIdentifier, error) {
	out, err := g.run(ctx, "log", "-1", "--format=%H")
	if err != nil {
		return "", err
	}
	c, err := proof.ParseCommitIdentifier(out)
	if err != nil {
		return "", fmt.Errorf("unexpected commit hash %q: %w", out, err)
	}
	return c, nil
}

func (g Git) run(ctx context.Context, args ...string) (string, error) {
	bin := g.Binary
	if bin == "" {
		bin = "git"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", ErrGitNotFound.Err(err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = g.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", ErrGitFailed.Msg(fmt.Sprintf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String())))
		}
		return "", ErrGitFailed.Err(err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
