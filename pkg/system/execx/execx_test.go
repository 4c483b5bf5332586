//go:build linux

package execx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	res := OS().Run(context.Background(), "echo", "hello")
	require.True(t, res.IsSuccess())
	assert.Equal(t, "hello\n", res.Value())
}

func TestRun_MissingBinary(t *testing.T) {
	res := OS().Run(context.Background(), "definitely-not-a-binary-9f2c")
	assert.True(t, res.IsFailure())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := OS().Run(ctx, "sleep", "5")
	assert.True(t, res.IsFailure())
}
