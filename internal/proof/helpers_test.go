package proof

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Key generation dominates test time, so each size is generated once per run.
var (
	keyMu    sync.Mutex
	keyCache = map[int]*rsa.PrivateKey{}
)

func rsaKey(t *testing.T, bits int) *rsa.PrivateKey {
	t.Helper()
	keyMu.Lock()
	defer keyMu.Unlock()
	if k, ok := keyCache[bits]; ok {
		return k
	}
	k, err := rsa.GenerateKey(rand.Reader, bits)
	require.NoError(t, err)
	keyCache[bits] = k
	return k
}

type testKeys struct {
	signing   *KeyMaterial
	verifying *KeyMaterial
	sealing   *KeyMaterial
	opening   *KeyMaterial
}

// newTestKeys returns a 2048-bit submitter pair and a 3072-bit verifier pair.
func newTestKeys(t *testing.T) testKeys {
	t.Helper()
	submitter := rsaKey(t, 2048)
	verifier := rsaKey(t, 3072)

	var (
		k   testKeys
		err error
	)
	k.signing, err = NewSigningKey(submitter)
	require.NoError(t, err)
	k.verifying, err = NewVerifyingKey(&submitter.PublicKey)
	require.NoError(t, err)
	k.sealing, err = NewSealingKey(&verifier.PublicKey)
	require.NoError(t, err)
	k.opening, err = NewOpeningKey(verifier)
	require.NoError(t, err)
	return k
}

func randomCommit(t *testing.T) CommitIdentifier {
	t.Helper()
	b := make([]byte, 20)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return CommitIdentifier(hex.EncodeToString(b))
}
