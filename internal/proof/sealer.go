package proof

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
)

// SealedSignature is a Signature encrypted with RSAES-OAEP for the verifier.
type SealedSignature []byte

// Capacity returns the largest plaintext, in bytes, that Seal accepts for key.
// It is k - 2*32 - 2 for a k-byte modulus with SHA-256 OAEP, or 0 if the key
// is too small to seal anything.
func Capacity(key *KeyMaterial) int {
	c := key.Size() - 2*sha256.Size - 2
	if c < 0 {
		return 0
	}
	return c
}

// Seal encrypts plaintext with key, which must be a RoleSealingPublic key.
// The OAEP label is empty. Plaintexts above Capacity(key) fail with a
// payload-too-large error; the key sizes have to be fixed by the operator.
func Seal(plaintext Signature, key *KeyMaterial) (SealedSignature, error) {
	if err := key.require(RoleSealingPublic); err != nil {
		return nil, err
	}
	if len(plaintext) == 0 {
		return nil, ErrEmptyPayload.Msg("nothing to seal")
	}
	if n, c := len(plaintext), Capacity(key); n > c {
		return nil, ErrSignatureTooLarge.Msg(fmt.Sprintf("signature is %d bytes but a %d-bit sealing key holds at most %d", n, key.Bits(), c))
	}

	ct, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, key.pub, plaintext, nil)
	if err != nil {
		return nil, ErrSealFailed.Err(err)
	}
	return ct, nil
}

// Open decrypts sealed with key, which must be a RoleSealingPrivate key.
func Open(sealed SealedSignature, key *KeyMaterial) (Signature, error) {
	if err := key.require(RoleSealingPrivate); err != nil {
		return nil, err
	}
	if len(sealed) != key.Size() {
		return nil, ErrOpenFailed.Msg(fmt.Sprintf("sealed signature is %d bytes, expected %d", len(sealed), key.Size()))
	}

	pt, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, key.priv, sealed, nil)
	if err != nil {
		return nil, ErrOpenFailed.Err(err)
	}
	return pt, nil
}
