package storage

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"io with path", IOError(OpReadBinary, "a/b.bin", fs.ErrNotExist), "storage: read_binary a/b.bin: file does not exist"},
		{"invalid argument", InvalidArgument(OpSaveBinary, "x", "data must not be empty"), "storage: save_binary x: data must not be empty"},
		{"no path", &Error{Op: OpList, Kind: ErrIO}, "storage: list: io failure"},
		{"bare", &Error{Op: OpStat}, "storage: stat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorMatchesKindAndCause(t *testing.T) {
	err := IOError(OpDeleteOne, "x", context.Canceled)

	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrInvalidArgument)
	assert.False(t, IsInvalidArgument(err))

	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, OpDeleteOne, se.Op)
	assert.Equal(t, "x", se.Path)
}

func TestInvalidArgumentFormats(t *testing.T) {
	err := InvalidArgument(OpBuildArchive, "out.zip", "source %d: malformed path %q", 2, " ")

	assert.True(t, IsInvalidArgument(err))
	assert.Contains(t, err.Error(), `source 2: malformed path " "`)
}

func TestWrappedErrorStillClassified(t *testing.T) {
	err := errors.Join(errors.New("outer"), InvalidArgument(OpStat, "p", "bad"))
	assert.True(t, IsInvalidArgument(err))
}
