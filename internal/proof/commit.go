package proof

import (
	"fmt"
	"regexp"
	"strings"
)

// CommitIdentifierLength is the length of a SHA-1 commit hash in hex.
const CommitIdentifierLength = 40

var commitPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// CommitIdentifier is a full 40-character lowercase hex commit hash.
type CommitIdentifier string

// ParseCommitIdentifier trims surrounding whitespace and validates s.
// Uppercase hex is rejected rather than folded, since the signed bytes are the text itself.
func ParseCommitIdentifier(s string) (CommitIdentifier, error) {
	c := CommitIdentifier(strings.TrimSpace(s))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate reports whether c is a well-formed commit hash.
func (c CommitIdentifier) Validate() error {
	if len(c) != CommitIdentifierLength {
		return ErrInvalidCommit.Msg(fmt.Sprintf("commit hash must be %d characters, got %d", CommitIdentifierLength, len(c)))
	}
	if !commitPattern.MatchString(string(c)) {
		return ErrInvalidCommit.Msg("commit hash must contain only lowercase hex characters")
	}
	return nil
}

// Bytes returns the ASCII bytes of the hash text. These are the bytes that get signed.
func (c CommitIdentifier) Bytes() []byte {
	return []byte(c)
}

func (c CommitIdentifier) String() string {
	return string(c)
}
