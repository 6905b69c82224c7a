package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestAdvanceOnlyMovesForward(t *testing.T) {
	control := NewControl()
	require.Equal(t, PhaseRunning, control.Phase())

	require.True(t, control.Advance(PhaseStopUpload))
	require.Equal(t, PhaseStopUpload, control.Phase())

	require.False(t, control.Advance(PhaseStopGameplay))
	require.False(t, control.Advance(PhaseStopUpload))
	require.Equal(t, PhaseStopUpload, control.Phase())

	require.True(t, control.Reached(PhaseStopGameplay))
	require.False(t, control.Reached(PhaseStopRender))
}

func TestWaitReturnsOnceReached(t *testing.T) {
	control := NewControl()

	go func() {
		time.Sleep(5 * time.Millisecond)
		control.Shutdown()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, control.Wait(ctx, PhaseStopRender, time.Millisecond))
	require.Equal(t, PhaseStopRender, control.Phase())
}

func TestWaitHonorsContext(t *testing.T) {
	control := NewControl()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := control.Wait(ctx, PhaseStopGameplay, time.Millisecond)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestPhaseString(t *testing.T) {
	require.Equal(t, "PhaseStopRender", PhaseStopRender.String())
	require.Equal(t, "unknown", Phase(42).String())
}
