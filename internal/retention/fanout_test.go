package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleRunsEveryAction(t *testing.T) {
	boom := errors.New("boom")

	outcomes := Settle(context.Background(),
		Action{Name: "ok", Run: func(context.Context) error { return nil }},
		Action{Name: "fails", Run: func(context.Context) error { return boom }},
		Action{Name: "panics", Run: func(context.Context) error { panic("pipe burst") }},
		Action{Name: "also-ok", Run: func(context.Context) error { return nil }},
	)

	require.Len(t, outcomes, 4)
	assert.Equal(t, "ok", outcomes[0].Name)
	assert.NoError(t, outcomes[0].Err)
	assert.ErrorIs(t, outcomes[1].Err, boom)
	require.Error(t, outcomes[2].Err)
	assert.Contains(t, outcomes[2].Err.Error(), "pipe burst")
	assert.NoError(t, outcomes[3].Err)
}

func TestSettleDoesNotCancelSiblings(t *testing.T) {
	slowDone := false

	outcomes := Settle(context.Background(),
		Action{Name: "fast-fail", Run: func(context.Context) error { return errors.New("instant") }},
		Action{Name: "slow", Run: func(context.Context) error {
			time.Sleep(50 * time.Millisecond)
			slowDone = true
			return nil
		}},
	)

	assert.True(t, slowDone)
	assert.NoError(t, outcomes[1].Err)
}

func TestSettleEmpty(t *testing.T) {
	assert.Empty(t, Settle(context.Background()))
}
