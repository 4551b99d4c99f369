package paginate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcperrors "github.com/cursorsafe/mcp-client-go/pkg/errors"
)

func TestGuardAdmitsDistinctCursors(t *testing.T) {
	guard := NewGuard(100)

	for i := 0; i < 100; i++ {
		require.NoError(t, guard.Admit(fmt.Sprintf("c%d", i)))
	}
	assert.Equal(t, 100, guard.Admitted())
}

func TestGuardRejectsDuplicate(t *testing.T) {
	guard := NewGuard(10)

	require.NoError(t, guard.Admit("c1"))
	err := guard.Admit("c1")
	require.Error(t, err)
	assert.True(t, mcperrors.IsDuplicateCursor(err))
}

func TestGuardEnforcesLimitAtExactBoundary(t *testing.T) {
	guard := NewGuard(3)

	require.NoError(t, guard.Admit("c1"))
	require.NoError(t, guard.Admit("c2"))
	require.NoError(t, guard.Admit("c3"))

	err := guard.Admit("c4")
	require.Error(t, err)
	assert.True(t, mcperrors.IsPageLimitExceeded(err))
}

func TestGuardLimitBoundsDuplicatesToo(t *testing.T) {
	// The counter increments on every admission attempt, so a server
	// alternating a handful of cursors still hits the limit rather than
	// producing duplicate errors forever.
	guard := NewGuard(2)

	require.NoError(t, guard.Admit("c1"))
	require.NoError(t, guard.Admit("c2"))

	err := guard.Admit("c1")
	require.Error(t, err)
	assert.True(t, mcperrors.IsPageLimitExceeded(err), "limit is checked before the duplicate")
}

func TestGuardDefaultLimit(t *testing.T) {
	guard := NewGuard(0)
	assert.Equal(t, DefaultMaxPages, guard.max)
}
