package proof

import (
	"crypto/rsa"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/commitproof/internal/common/apperrors"
)

func TestProduceAndCheck(t *testing.T) {
	keys := newTestKeys(t)
	commit := randomCommit(t)

	a, err := Produce(commit, keys.signing, keys.sealing)
	require.NoError(t, err)
	assert.Equal(t, commit, a.CommitHash)

	sealed, err := Decode(a.EncryptedSignature)
	require.NoError(t, err)
	assert.Len(t, sealed, keys.sealing.Size())

	require.NoError(t, a.Check(keys.opening, keys.verifying))
}

func TestProduceEmitsNothingOnFailure(t *testing.T) {
	keys := newTestKeys(t)
	small, err := NewSealingKey(&rsaKey(t, 2048).PublicKey)
	require.NoError(t, err)

	a, err := Produce(randomCommit(t), keys.signing, small)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, apperrors.ErrPayloadTooLarge)

	a, err = Produce("deadbeef", keys.signing, keys.sealing)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrInvalidCommit)

	// keys swapped: the private key is refused on the sealing side
	a, err = Produce(randomCommit(t), keys.sealing, keys.signing)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrWrongKeyRole)
}

func TestCheckDetectsForeignSubmitter(t *testing.T) {
	keys := newTestKeys(t)
	a, err := Produce(randomCommit(t), keys.signing, keys.sealing)
	require.NoError(t, err)

	other, err := NewVerifyingKey(&rsaKey(t, 3072).PublicKey)
	require.NoError(t, err)
	assert.ErrorIs(t, a.Check(keys.opening, other), ErrSignatureMismatch)

	a.CommitHash = randomCommit(t)
	assert.ErrorIs(t, a.Check(keys.opening, keys.verifying), ErrSignatureMismatch)
}

func TestFormatLayout(t *testing.T) {
	a := &ProofArtifact{
		CommitHash:         "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b",
		EncryptedSignature: "AQI=",
	}
	want := "Commit Hash:\n9f86d081884c7d659a2feaa0c55ad015a3bf4f1b\n\nEncrypted Signature (Base64):\nAQI=\n"
	assert.Equal(t, want, a.Format())
}

func TestParseArtifact(t *testing.T) {
	keys := newTestKeys(t)
	a, err := Produce(randomCommit(t), keys.signing, keys.sealing)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		got, err := ParseArtifact(a.Format())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	})

	t.Run("crlf", func(t *testing.T) {
		got, err := ParseArtifact(strings.ReplaceAll(a.Format(), "\n", "\r\n"))
		require.NoError(t, err)
		assert.Equal(t, a, got)
	})

	t.Run("inline values", func(t *testing.T) {
		text := CommitHashLabel + " " + string(a.CommitHash) + "\n" + EncryptedSignatureLabel + " " + a.EncryptedSignature
		got, err := ParseArtifact(text)
		require.NoError(t, err)
		assert.Equal(t, a, got)
	})

	t.Run("json", func(t *testing.T) {
		b, err := a.JSON()
		require.NoError(t, err)
		assert.Contains(t, string(b), `"commit_hash"`)
		got, err := ParseArtifactJSON(b)
		require.NoError(t, err)
		assert.Equal(t, a, got)
		require.NoError(t, got.Check(keys.opening, keys.verifying))
	})
}

func TestParseArtifactErrors(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"no signature":   "Commit Hash:\n9f86d081884c7d659a2feaa0c55ad015a3bf4f1b\n",
		"no commit":      "Encrypted Signature (Base64):\nAQI=\n",
		"leading junk":   "hello\nCommit Hash:\n9f86d081884c7d659a2feaa0c55ad015a3bf4f1b\n",
		"bad commit":     "Commit Hash:\nxyz\n\nEncrypted Signature (Base64):\nAQI=\n",
		"uppercase hash": "Commit Hash:\n9F86D081884C7D659A2FEAA0C55AD015A3BF4F1B\n\nEncrypted Signature (Base64):\nAQI=\n",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseArtifact(text)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestKeyMaterialString(t *testing.T) {
	priv := rsaKey(t, 2048)
	k, err := NewSigningKey(priv)
	require.NoError(t, err)
	assert.Equal(t, "rsa-2048(signing-private)", k.String())
	assert.NotContains(t, k.String(), priv.D.String()[:16])

	_, err = NewSealingKey((*rsa.PublicKey)(nil))
	assert.ErrorIs(t, err, ErrMissingKey)
}
