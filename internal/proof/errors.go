package proof

import "github.com/tansive/commitproof/internal/common/apperrors"

var (
	ErrInvalidCommit     = apperrors.ErrInvalidInput.New("invalid commit hash")
	ErrWrongKeyRole      = apperrors.ErrInvalidInput.New("wrong key role")
	ErrMissingKey        = apperrors.ErrInvalidInput.New("missing key")
	ErrMalformedEncoding = apperrors.ErrInvalidInput.New("malformed base64")
	ErrMalformedArtifact = apperrors.ErrInvalidInput.New("malformed proof artifact")
	ErrEmptyPayload      = apperrors.ErrInvalidInput.New("empty payload")
	ErrSignFailed        = apperrors.ErrCryptoOperation.New("unable to sign commit hash")
	ErrSignatureMismatch = apperrors.ErrCryptoOperation.New("signature verification failed")
	ErrSealFailed        = apperrors.ErrCryptoOperation.New("unable to seal signature")
	ErrOpenFailed        = apperrors.ErrCryptoOperation.New("unable to open sealed signature")
	ErrSignatureTooLarge = apperrors.ErrPayloadTooLarge.New("signature exceeds sealing key capacity")
)
