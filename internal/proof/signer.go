package proof

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
)

// Signature is a raw RSASSA-PSS signature, as long as the signing key's modulus.
type Signature []byte

// pssOptions selects the largest salt the key allows when signing. On verify,
// PSSSaltLengthAuto detects the salt length, so signatures made with a
// hash-length salt by other tools verify as well.
var pssOptions = &rsa.PSSOptions{
	SaltLength: rsa.PSSSaltLengthAuto,
	Hash:       crypto.SHA256,
}

// Sign produces a signature over the textual commit hash with key, which must
// be a RoleSigningPrivate key. The salt is random, so repeated calls over the
// same message return different bytes that all verify.
func Sign(message CommitIdentifier, key *KeyMaterial) (Signature, error) {
	if err := message.Validate(); err != nil {
		return nil, err
	}
	if err := key.require(RoleSigningPrivate); err != nil {
		return nil, err
	}

	digest := sha256.Sum256(message.Bytes())
	sig, err := rsa.SignPSS(rand.Reader, key.priv, crypto.SHA256, digest[:], pssOptions)
	if err != nil {
		return nil, ErrSignFailed.Err(err)
	}
	return sig, nil
}

// Verify checks sig over the textual commit hash against key, which must be a
// RoleVerifyingPublic key.
func Verify(message CommitIdentifier, sig Signature, key *KeyMaterial) error {
	if err := message.Validate(); err != nil {
		return err
	}
	if err := key.require(RoleVerifyingPublic); err != nil {
		return err
	}

	digest := sha256.Sum256(message.Bytes())
	if err := rsa.VerifyPSS(key.pub, crypto.SHA256, digest[:], sig, pssOptions); err != nil {
		return ErrSignatureMismatch.Err(err)
	}
	return nil
}
