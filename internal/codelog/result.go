package codelog

import (
	"errors"

	"github.com/tansive/commitproof/internal/common/apperrors"
)

// Class tells the scheduler what to do with the outcome of one run.
type Class int

const (
	// ClassOK means a code was derived and written.
	ClassOK Class = iota
	// ClassSkipped means the seed was missing or empty. Expected, keep going.
	ClassSkipped
	// ClassFailed means derivation or the sink failed. Keep going, but report loudly.
	ClassFailed
)

func (c Class) String() string {
	switch c {
	case ClassOK:
		return "ok"
	case ClassSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result is the outcome of one run.
type Result struct {
	Line  string // the line written to the sink, empty unless ClassOK
	Class Class
	Err   error
}

// Classify maps an error from the code pipeline to its Class.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassOK
	case errors.Is(err, apperrors.ErrMissingResource):
		return ClassSkipped
	default:
		return ClassFailed
	}
}
