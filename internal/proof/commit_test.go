package proof

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/commitproof/internal/common/apperrors"
)

func TestParseCommitIdentifier(t *testing.T) {
	valid := "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b"

	tests := []struct {
		name    string
		input   string
		want    CommitIdentifier
		wantErr bool
	}{
		{name: "valid", input: valid, want: CommitIdentifier(valid)},
		{name: "trailing newline from git", input: valid + "\n", want: CommitIdentifier(valid)},
		{name: "39 chars", input: valid[:39], wantErr: true},
		{name: "41 chars", input: valid + "a", wantErr: true},
		{name: "uppercase", input: strings.ToUpper(valid), wantErr: true},
		{name: "non hex", input: "g" + valid[1:], wantErr: true},
		{name: "0x prefix", input: "0x" + valid[2:], wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommitIdentifier(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCommit)
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommitIdentifierBytesAreText(t *testing.T) {
	c := CommitIdentifier("9f86d081884c7d659a2feaa0c55ad015a3bf4f1b")
	assert.Len(t, c.Bytes(), 40)
	assert.Equal(t, []byte("9f86d081884c7d659a2feaa0c55ad015a3bf4f1b"), c.Bytes())
}
