package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateCursor(t *testing.T) {
	err := DuplicateCursor("c1")

	assert.True(t, IsDuplicateCursor(err))
	assert.True(t, IsProtocolViolation(err))
	assert.False(t, IsPageLimitExceeded(err))
	assert.False(t, IsTransportError(err))

	data, ok := err.Data().(*PaginationErrorData)
	require.True(t, ok)
	assert.Equal(t, "c1", data.Cursor)
	assert.Contains(t, err.Error(), `"c1"`)
}

func TestPageLimitExceeded(t *testing.T) {
	err := PageLimitExceeded(10000)

	assert.True(t, IsPageLimitExceeded(err))
	assert.True(t, IsProtocolViolation(err))
	assert.False(t, IsDuplicateCursor(err))

	data, ok := err.Data().(*PaginationErrorData)
	require.True(t, ok)
	assert.Equal(t, 10000, data.PageLimit)
}

func TestTransportErrorPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := TransportError(cause, "tools/list")

	assert.True(t, IsTransportError(err))
	assert.False(t, IsProtocolViolation(err))
	assert.ErrorIs(t, err, cause)
}

func TestAsMCPErrorThroughWrapping(t *testing.T) {
	inner := DuplicateCursor("c2")
	wrapped := fmt.Errorf("traversal aborted: %w", inner)

	mcpErr, ok := AsMCPError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeDuplicateCursor, mcpErr.Code())
	assert.True(t, IsDuplicateCursor(wrapped))
}

func TestWithDetail(t *testing.T) {
	err := PageLimitExceeded(5).WithDetail("while listing prompts")
	assert.Contains(t, err.Error(), "while listing prompts")

	// The original error must not be mutated.
	base := DuplicateCursor("x")
	_ = base.WithDetail("extra")
	assert.NotContains(t, base.Error(), "extra")
}
