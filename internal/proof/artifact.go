package proof

import (
	"bufio"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Labels of the two-block text layout exchanged with the verifier.
const (
	CommitHashLabel         = "Commit Hash:"
	EncryptedSignatureLabel = "Encrypted Signature (Base64):"
)

// ProofArtifact is the shareable result of the proof pipeline.
type ProofArtifact struct {
	CommitHash         CommitIdentifier `json:"commit_hash"`
	EncryptedSignature string           `json:"encrypted_signature"`
}

// Produce signs commit with signingKey, seals the signature for sealingKey
// and encodes it. Either both steps succeed or no artifact is returned.
func Produce(commit CommitIdentifier, signingKey, sealingKey *KeyMaterial) (*ProofArtifact, error) {
	sig, err := Sign(commit, signingKey)
	if err != nil {
		return nil, err
	}
	sealed, err := Seal(sig, sealingKey)
	if err != nil {
		return nil, err
	}
	return &ProofArtifact{
		CommitHash:         commit,
		EncryptedSignature: Encode(sealed),
	}, nil
}

// Check opens the artifact with the verifier's private key and verifies the
// recovered signature against the submitter's public key.
func (a *ProofArtifact) Check(openingKey, verifyingKey *KeyMaterial) error {
	if err := a.CommitHash.Validate(); err != nil {
		return err
	}
	sealed, err := Decode(a.EncryptedSignature)
	if err != nil {
		return err
	}
	sig, err := Open(sealed, openingKey)
	if err != nil {
		return err
	}
	return Verify(a.CommitHash, sig, verifyingKey)
}

// Format renders the artifact in the two-block text layout:
//
//	Commit Hash:
//	<hash>
//
//	Encrypted Signature (Base64):
//	<base64>
func (a *ProofArtifact) Format() string {
	var b strings.Builder
	b.WriteString(CommitHashLabel + "\n")
	b.WriteString(string(a.CommitHash) + "\n")
	b.WriteString("\n")
	b.WriteString(EncryptedSignatureLabel + "\n")
	b.WriteString(a.EncryptedSignature + "\n")
	return b.String()
}

// JSON renders the artifact as a JSON object.
func (a *ProofArtifact) JSON() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// ParseArtifact reads the text layout produced by Format. Blank lines, CRLF
// line endings and a value on the same line as its label are accepted.
func ParseArtifact(text string) (*ProofArtifact, error) {
	var (
		commit, sig string
		current     *string
	)
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, CommitHashLabel):
			current = &commit
			line = strings.TrimSpace(strings.TrimPrefix(line, CommitHashLabel))
		case strings.HasPrefix(line, EncryptedSignatureLabel):
			current = &sig
			line = strings.TrimSpace(strings.TrimPrefix(line, EncryptedSignatureLabel))
		}
		if line == "" {
			continue
		}
		if current == nil {
			return nil, ErrMalformedArtifact.Msg("content before the commit hash label")
		}
		*current += line
	}
	if err := scanner.Err(); err != nil {
		return nil, ErrMalformedArtifact.Err(err)
	}
	if commit == "" {
		return nil, ErrMalformedArtifact.Msg("missing commit hash")
	}
	if sig == "" {
		return nil, ErrMalformedArtifact.Msg("missing encrypted signature")
	}
	c, err := ParseCommitIdentifier(commit)
	if err != nil {
		return nil, err
	}
	return &ProofArtifact{CommitHash: c, EncryptedSignature: sig}, nil
}

// ParseArtifactJSON reads the JSON form produced by JSON.
func ParseArtifactJSON(data []byte) (*ProofArtifact, error) {
	var a ProofArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, ErrMalformedArtifact.Err(err)
	}
	if err := a.CommitHash.Validate(); err != nil {
		return nil, err
	}
	if a.EncryptedSignature == "" {
		return nil, ErrMalformedArtifact.Msg("missing encrypted signature")
	}
	return &a, nil
}
