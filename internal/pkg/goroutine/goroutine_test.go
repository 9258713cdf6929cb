package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManager_GoCollectsErrors(t *testing.T) {
	m := NewManager(4)
	errBoom := errors.New("boom")

	m.Go(context.Background(), func(context.Context) error { return nil })
	m.Go(context.Background(), func(context.Context) error { return errBoom })

	assert.ErrorIs(t, m.Wait(), errBoom)
}

func TestManager_RecoversPanic(t *testing.T) {
	m := NewManager(1)
	assert.True(t, m.Go(context.Background(), func(context.Context) error { panic("kaboom") }))

	err := m.Wait()
	assert.ErrorIs(t, err, ErrPanic)
	assert.ErrorContains(t, err, "kaboom")
}

func TestManager_SkipsAfterWait(t *testing.T) {
	m := NewManager(1)
	assert.NoError(t, m.Wait())

	var ran atomic.Bool
	scheduled := m.Go(context.Background(), func(context.Context) error {
		ran.Store(true)
		return nil
	})
	assert.False(t, scheduled)
	assert.False(t, ran.Load())
}

func TestManager_DropsWhenFull(t *testing.T) {
	m := NewManager(1)
	release := make(chan struct{})

	assert.True(t, m.Go(context.Background(), func(context.Context) error {
		<-release
		return nil
	}))
	assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))

	close(release)
	assert.NoError(t, m.Wait())
}

func TestManager_EverySurvivesPanic(t *testing.T) {
	m := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())

	var runs atomic.Int32
	m.Every(ctx, "purge", 5*time.Millisecond, func(context.Context) error {
		if runs.Add(1) == 1 {
			panic("first run")
		}
		return nil
	})

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, m.Wait())
}

func TestManager_Every(t *testing.T) {
	m := NewManager(2)
	ctx, cancel := context.WithCancel(context.Background())

	var runs atomic.Int32
	m.Every(ctx, "purge", 5*time.Millisecond, func(context.Context) error {
		if runs.Add(1) == 2 {
			return errors.New("transient")
		}
		return nil
	})

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, m.Wait())
}

func TestManager_EveryDisabled(t *testing.T) {
	m := NewManager(1)

	var runs atomic.Int32
	m.Every(context.Background(), "purge", 0, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	assert.NoError(t, m.Wait())
	assert.Zero(t, runs.Load())
}
