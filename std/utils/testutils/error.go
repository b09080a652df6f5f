package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testT *testing.T

// SetT binds the helpers below to the running test.
func SetT(t *testing.T) {
	testT = t
}

func NoErr[T any](v T, err error) T {
	require.NoError(testT, err)
	return v
}

func Err[T any](_ T, err error) error {
	require.Error(testT, err)
	return err
}

// ErrAs requires err to wrap an error of type E and returns it.
func ErrAs[E error](err error) E {
	var target E
	require.ErrorAs(testT, err, &target)
	return target
}
