// Package pemkeys loads RSA keys from PEM files and tags them with the role
// they are allowed to play in the proof pipeline.
package pemkeys

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tansive/commitproof/internal/common/apperrors"
	"github.com/tansive/commitproof/internal/proof"
)

// PEM block types.
const (
	CertificatePEMBlockType = "CERTIFICATE"
	pemPKCS1PrivateKey      = "RSA PRIVATE KEY"
	pemPKCS8PrivateKey      = "PRIVATE KEY"
	pemEncryptedPrivateKey  = "ENCRYPTED PRIVATE KEY"
	pemPKIXPublicKey        = "PUBLIC KEY"
	pemPKCS1PublicKey       = "RSA PUBLIC KEY"
)

var (
	ErrKeyFileNotFound = apperrors.ErrMissingResource.New("key file not found")
	ErrNoRSAKey        = apperrors.ErrInvalidInput.New("no RSA key found in PEM data")
	ErrEncryptedKey    = apperrors.ErrInvalidInput.New("encrypted private keys are not supported")
)

// ParseRSAPrivateKeyPEM scans concatenated PEM data and returns the first RSA
// private key found in a PKCS#1 or PKCS#8 block.
func ParseRSAPrivateKeyPEM(pemBytes []byte) (*rsa.PrivateKey, error) {
	var lastErr error
	for len(pemBytes) > 0 {
		block, rest := pem.Decode(pemBytes)
		if block == nil {
			break
		}
		if block.Type == pemEncryptedPrivateKey || block.Headers["Proc-Type"] != "" {
			return nil, ErrEncryptedKey
		}
		switch block.Type {
		case pemPKCS1PrivateKey:
			k, err := x509.ParsePKCS1PrivateKey(block.Bytes)
			if err == nil {
				return k, nil
			}
			lastErr = err
		case pemPKCS8PrivateKey:
			anyKey, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				lastErr = err
				break
			}
			if k, ok := anyKey.(*rsa.PrivateKey); ok {
				return k, nil
			}
			lastErr = fmt.Errorf("PKCS#8 key is %T, not RSA", anyKey)
		}
		pemBytes = rest
	}
	if lastErr != nil {
		return nil, ErrNoRSAKey.Err(lastErr)
	}
	return nil, ErrNoRSAKey.Msg("no RSA private key found in PEM data")
}

// ParseRSAPublicKeyPEM scans concatenated PEM data and returns the first RSA
// public key found in a PKIX or PKCS#1 public key block or an X.509
// certificate. The certificate itself is not validated.
func ParseRSAPublicKeyPEM(pemBytes []byte) (*rsa.PublicKey, error) {
	var lastErr error
	for len(pemBytes) > 0 {
		block, rest := pem.Decode(pemBytes)
		if block == nil {
			break
		}
		switch block.Type {
		case pemPKIXPublicKey:
			k, err := x509.ParsePKIXPublicKey(block.Bytes)
			if err != nil {
				lastErr = err
				break
			}
			if pk, ok := k.(*rsa.PublicKey); ok {
				return pk, nil
			}
			lastErr = fmt.Errorf("PKIX key is %T, not RSA", k)
		case pemPKCS1PublicKey:
			pk, err := x509.ParsePKCS1PublicKey(block.Bytes)
			if err == nil {
				return pk, nil
			}
			lastErr = err
		case CertificatePEMBlockType:
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				lastErr = err
				break
			}
			if pk, ok := cert.PublicKey.(*rsa.PublicKey); ok {
				return pk, nil
			}
			lastErr = fmt.Errorf("certificate key is %T, not RSA", cert.PublicKey)
		}
		pemBytes = rest
	}
	if lastErr != nil {
		return nil, ErrNoRSAKey.Err(lastErr)
	}
	return nil, ErrNoRSAKey.Msg("no RSA public key found in PEM data")
}

// LoadSigningKey reads the submitter's private key.
func LoadSigningKey(path string) (*proof.KeyMaterial, error) {
	priv, err := loadPrivate(path)
	if err != nil {
		return nil, err
	}
	return proof.NewSigningKey(priv)
}

// LoadOpeningKey reads the verifier's private key.
func LoadOpeningKey(path string) (*proof.KeyMaterial, error) {
	priv, err := loadPrivate(path)
	if err != nil {
		return nil, err
	}
	return proof.NewOpeningKey(priv)
}

// LoadSealingKey reads the verifier's public key. Private key PEM is refused
// so a private key can never end up on the sealing side by accident.
func LoadSealingKey(path string) (*proof.KeyMaterial, error) {
	pub, err := loadPublic(path)
	if err != nil {
		return nil, err
	}
	return proof.NewSealingKey(pub)
}

// LoadVerifyingKey reads the submitter's public key.
func LoadVerifyingKey(path string) (*proof.KeyMaterial, error) {
	pub, err := loadPublic(path)
	if err != nil {
		return nil, err
	}
	return proof.NewVerifyingKey(pub)
}

// EncodePublicKey renders pub as a PKIX "PUBLIC KEY" PEM block.
func EncodePublicKey(pub *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemPKIXPublicKey, Bytes: der}), nil
}

func loadPrivate(path string) (*rsa.PrivateKey, error) {
	b, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	priv, err := ParseRSAPrivateKeyPEM(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return priv, nil
}

func loadPublic(path string) (*rsa.PublicKey, error) {
	b, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	pub, err := ParseRSAPublicKeyPEM(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pub, nil
}

func readKeyFile(path string) ([]byte, error) {
	if path == "" {
		return nil, proof.ErrMissingKey.Msg("key path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrKeyFileNotFound.Msg("key file not found: " + path)
		}
		return nil, fmt.Errorf("reading key file %s: %w", path, err)
	}
	return b, nil
}
