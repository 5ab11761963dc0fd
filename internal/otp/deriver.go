package otp

import (
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	potp "github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/tansive/commitproof/internal/common/apperrors"
)

// RFC 6238 defaults.
const (
	DefaultPeriod    = 30
	DefaultDigits    = 6
	DefaultAlgorithm = "SHA1"
)

var (
	ErrInvalidSeed    = apperrors.ErrInvalidSeed
	ErrInvalidOptions = apperrors.ErrInvalidInput.New("invalid code options")
	ErrDeriveFailed   = apperrors.ErrCryptoOperation.New("unable to derive code")
	ErrBeforeEpoch    = apperrors.ErrInvalidInput.New("time is before the Unix epoch")
)

// Options selects the code parameters. Zero values take the RFC defaults.
type Options struct {
	Period    uint   // step length in seconds
	Digits    int    // 6 or 8
	Algorithm string // SHA1, SHA256 or SHA512
}

// OneTimeCode is a derived code and the step it is valid for.
type OneTimeCode struct {
	Code       string
	Counter    uint64
	ValidFrom  time.Time
	ValidUntil time.Time
}

func (c OneTimeCode) String() string {
	return c.Code
}

// Deriver produces codes for a fixed set of Options.
type Deriver struct {
	opts totp.ValidateOpts
}

// NewDeriver validates opts and returns a Deriver for them.
func NewDeriver(opts Options) (*Deriver, error) {
	if opts.Period == 0 {
		opts.Period = DefaultPeriod
	}
	if opts.Digits == 0 {
		opts.Digits = DefaultDigits
	}
	if opts.Algorithm == "" {
		opts.Algorithm = DefaultAlgorithm
	}

	var digits potp.Digits
	switch opts.Digits {
	case 6:
		digits = potp.DigitsSix
	case 8:
		digits = potp.DigitsEight
	default:
		return nil, ErrInvalidOptions.Msg(fmt.Sprintf("digits must be 6 or 8, got %d", opts.Digits))
	}

	var alg potp.Algorithm
	switch strings.ToUpper(strings.ReplaceAll(opts.Algorithm, "-", "")) {
	case "SHA1":
		alg = potp.AlgorithmSHA1
	case "SHA256":
		alg = potp.AlgorithmSHA256
	case "SHA512":
		alg = potp.AlgorithmSHA512
	default:
		return nil, ErrInvalidOptions.Msg(fmt.Sprintf("unsupported algorithm %q", opts.Algorithm))
	}

	return &Deriver{opts: totp.ValidateOpts{
		Period:    opts.Period,
		Digits:    digits,
		Algorithm: alg,
	}}, nil
}

var defaultDeriver = &Deriver{opts: totp.ValidateOpts{
	Period:    DefaultPeriod,
	Digits:    potp.DigitsSix,
	Algorithm: potp.AlgorithmSHA1,
}}

// DeriveCode derives the RFC-default code (SHA-1, 6 digits, 30s) for t.
func DeriveCode(secretHex string, t time.Time) (OneTimeCode, error) {
	return defaultDeriver.Derive(secretHex, t)
}

// Derive computes the code for the step containing t. Times before the Unix
// epoch have no step and are rejected.
func (d *Deriver) Derive(secretHex string, t time.Time) (OneTimeCode, error) {
	if err := checkEpoch(t); err != nil {
		return OneTimeCode{}, err
	}
	secret, err := seedToBase32(secretHex)
	if err != nil {
		return OneTimeCode{}, err
	}
	code, err := totp.GenerateCodeCustom(secret, t, d.opts)
	if err != nil {
		return OneTimeCode{}, ErrDeriveFailed.Err(err)
	}

	period := int64(d.opts.Period)
	counter := t.Unix() / period
	from := time.Unix(counter*period, 0).UTC()
	return OneTimeCode{
		Code:       code,
		Counter:    uint64(counter),
		ValidFrom:  from,
		ValidUntil: from.Add(time.Duration(period) * time.Second),
	}, nil
}

// Validate reports whether code matches the step containing t, or one of
// skew steps on either side.
func (d *Deriver) Validate(code, secretHex string, t time.Time, skew uint) (bool, error) {
	if err := checkEpoch(t); err != nil {
		return false, err
	}
	secret, err := seedToBase32(secretHex)
	if err != nil {
		return false, err
	}
	opts := d.opts
	opts.Skew = skew
	ok, err := totp.ValidateCustom(code, secret, t, opts)
	if err != nil {
		// a malformed passcode is a mismatch, not a failure
		if err == potp.ErrValidateInputInvalidLength {
			return false, nil
		}
		return false, ErrDeriveFailed.Err(err)
	}
	return ok, nil
}

// Digits returns the configured code width.
func (d *Deriver) Digits() int {
	return d.opts.Digits.Length()
}

// Period returns the configured step length.
func (d *Deriver) Period() time.Duration {
	return time.Duration(d.opts.Period) * time.Second
}

func checkEpoch(t time.Time) error {
	if t.Unix() < 0 {
		return ErrBeforeEpoch.Msg(fmt.Sprintf("time %s is before the Unix epoch", t.UTC().Format(time.RFC3339)))
	}
	return nil
}

// seedToBase32 decodes the hex seed to raw bytes and re-encodes it the way the
// totp package expects its shared secret.
func seedToBase32(secretHex string) (string, error) {
	s := strings.TrimSpace(secretHex)
	if s == "" {
		return "", ErrInvalidSeed.Msg("seed is empty")
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return "", ErrInvalidSeed.Msg("seed is not valid hexadecimal")
	}
	return base32.StdEncoding.EncodeToString(raw), nil
}
