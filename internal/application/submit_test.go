package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatorDefaults(t *testing.T) {
	sim := NewSimulator()
	assert.Equal(t, DefaultSubmitDelay, sim.Delay())
}

func TestSimulatorWaitsForDelay(t *testing.T) {
	sim := NewSimulator(WithDelay(20 * time.Millisecond))
	start := time.Now()
	res, err := sim.Submit(context.Background(), Draft{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Regexp(t, `^APP-\d{6}$`, res.ApplicationRef)
}

func TestSimulatorHonoursContext(t *testing.T) {
	sim := NewSimulator(WithDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sim.Submit(ctx, Draft{})
	assert.True(t, errors.Is(err, ErrSubmissionFailed))
}

func TestSimulatorFailureInjection(t *testing.T) {
	sim := NewSimulator(WithDelay(0))
	sim.FailWith(errors.New("boom"))
	_, err := sim.Submit(context.Background(), Draft{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Contains(t, err.Error(), "boom")

	sim.FailWith(nil)
	_, err = sim.Submit(context.Background(), Draft{})
	assert.NoError(t, err)
}
