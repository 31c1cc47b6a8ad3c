package limits

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRecursionFailsAtBound(t *testing.T) {
	l := New(1000, 3, 10)
	assert.NoError(t, l.CheckRecursion(0))
	assert.NoError(t, l.CheckRecursion(2))
	assert.Error(t, l.CheckRecursion(3))
}

func TestCheckRecursionZeroMaxAlwaysFails(t *testing.T) {
	l := New(1000, 0, 10)
	assert.Error(t, l.CheckRecursion(0))
}

func TestCheckImportsFailsAtBound(t *testing.T) {
	l := New(1000, 10, 3)
	assert.NoError(t, l.CheckImports(2))
	assert.Error(t, l.CheckImports(3))
}

func TestUpdateLimitsAppliesPartial(t *testing.T) {
	l := New(1000, 10, 10)
	newMax := 2
	l.UpdateLimits(Partial{MaxRecursionDepth: &newMax})
	assert.Equal(t, 2, l.MaxRecursionDepth())
	assert.Equal(t, 1000, l.TimeoutMs())
}

func TestExecuteWithTimeoutZeroBoundAlwaysFails(t *testing.T) {
	_, err := ExecuteWithTimeout(context.Background(), 0, func(ctx context.Context) (map[string]interface{}, error) {
		return map[string]interface{}{"ok": true}, nil
	})
	require.Error(t, err)
}

func TestExecuteWithTimeoutReturnsProducerResultWhenFast(t *testing.T) {
	result, err := ExecuteWithTimeout(context.Background(), 1000, func(ctx context.Context) (map[string]interface{}, error) {
		return map[string]interface{}{"ok": true}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, true, result["ok"])
}

func TestExecuteWithTimeoutFiresOnSlowProducer(t *testing.T) {
	_, err := ExecuteWithTimeout(context.Background(), 20, func(ctx context.Context) (map[string]interface{}, error) {
		select {
		case <-time.After(500 * time.Millisecond):
			return map[string]interface{}{}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout after 20ms")
}
