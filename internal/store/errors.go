package store

import "github.com/pkg/errors"

// ErrGraphInvariant is returned by Builder.Finalize when a derived
// invariant does not hold. This is the fatal GraphInvariant error kind:
// fatal, the preprocessor aborts and serving never starts. It is never
// meant to be recovered from mid-query.
var ErrGraphInvariant = errors.New("graph invariant violated")

func invariantf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrGraphInvariant, format, args...)
}
