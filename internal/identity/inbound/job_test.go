package inbound

import (
	"context"
	"testing"

	"github.com/shandysiswandi/notekeep/internal/pkg/config"
	"github.com/shandysiswandi/notekeep/internal/pkg/goroutine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterJob(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  identity:\n    otp_purge_interval_minutes: 0\n"))
		require.NoError(t, err)

		uc := &MockUsecase{}
		m := goroutine.NewManager(1)
		RegisterJob(context.Background(), cfg, m, uc)

		assert.NoError(t, m.Wait())
		uc.AssertNotCalled(t, "PurgeExpiredOTP")
	})

	t.Run("stops with context", func(t *testing.T) {
		cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  identity:\n    otp_purge_interval_minutes: 5\n"))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		m := goroutine.NewManager(1)
		RegisterJob(ctx, cfg, m, &MockUsecase{})

		cancel()
		assert.NoError(t, m.Wait())
	})
}
