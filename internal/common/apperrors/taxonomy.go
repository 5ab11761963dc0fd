package apperrors

// Exit codes used by the command line tools.
const (
	ExitGeneric         = 1
	ExitInvalidInput    = 2
	ExitCryptoOperation = 3
	ExitPayloadTooLarge = 4
	ExitMissingResource = 5
)

// Error classes shared by the proof and code pipelines. Concrete errors are
// derived from these with New, Msg or Err so errors.Is matches the class.
var (
	// ErrInvalidInput is a caller bug: malformed commit hash, wrong key role,
	// malformed base64 or malformed seed. Never retried.
	ErrInvalidInput = New("invalid input").SetExitCode(ExitInvalidInput)

	// ErrInvalidSeed is the invalid-input class for shared secrets.
	ErrInvalidSeed = ErrInvalidInput.New("invalid seed")

	// ErrCryptoOperation means the underlying primitive rejected the keys or input.
	ErrCryptoOperation = New("crypto operation failed").SetExitCode(ExitCryptoOperation).SetExpandError(true)

	// ErrPayloadTooLarge means the signature does not fit the sealing key's OAEP capacity.
	ErrPayloadTooLarge = New("payload too large").SetExitCode(ExitPayloadTooLarge)

	// ErrMissingResource means an external resource (seed file) is absent or empty.
	ErrMissingResource = New("missing resource").SetExitCode(ExitMissingResource)
)
