package otp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/tansive/commitproof/internal/common/apperrors"
)

var (
	ErrSeedNotFound = apperrors.ErrMissingResource.New("seed file not found")
	ErrSeedEmpty    = apperrors.ErrMissingResource.New("seed file is empty")
)

// SeedSource supplies the hex seed. Implementations must read fresh on every
// call; the seed may be rotated or removed between calls.
type SeedSource interface {
	ReadSeed(ctx context.Context) (string, error)
}

// FileSeedSource reads a single whitespace-trimmed hex string from a file.
type FileSeedSource struct {
	Path string
}

// ReadSeed opens the file directly instead of checking for it first, so a
// file removed in between reports ErrSeedNotFound like one that never existed.
func (s FileSeedSource) ReadSeed(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrSeedNotFound.Msg("seed file not found: " + s.Path)
		}
		return "", fmt.Errorf("reading seed file %s: %w", s.Path, err)
	}
	seed := strings.TrimSpace(string(b))
	if seed == "" {
		return "", ErrSeedEmpty.Msg("seed file is empty: " + s.Path)
	}
	return seed, nil
}

// StaticSeedSource returns a fixed seed. Used for tests and one-off derivations.
type StaticSeedSource string

func (s StaticSeedSource) ReadSeed(ctx context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrSeedEmpty
	}
	return string(s), nil
}
