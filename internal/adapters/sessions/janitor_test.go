package sessions_test

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/catalyst/internal/adapters/sessions"
	"go.trai.ch/catalyst/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestJanitor_SweepsOnInterval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockSessionStore(ctrl)
		log := mocks.NewMockLogger(ctrl)

		store.EXPECT().Prune(time.Hour).Return([]string{"a", "b"}, nil)
		store.EXPECT().Prune(time.Hour).Return(nil, nil).Times(2)
		log.EXPECT().Info("pruned 2 expired session(s)")

		j := sessions.NewJanitor(store, log, time.Hour, time.Minute)
		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- j.Run(ctx) }()

		time.Sleep(2*time.Minute + time.Second)
		synctest.Wait()
		cancel()

		require.NoError(t, <-done)
		assert.Equal(t, 2, j.Pruned())
		assert.False(t, j.LastSweep().IsZero())
	})
}

func TestJanitor_LogsPruneErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	log := mocks.NewMockLogger(ctrl)
	boom := errors.New("permission denied")

	store.EXPECT().Prune(time.Hour).Return(nil, boom)
	log.EXPECT().Error(boom)

	ids := sessions.NewJanitor(store, log, time.Hour, time.Minute).Sweep()
	assert.Empty(t, ids)
}

func TestJanitor_Disabled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockSessionStore(ctrl)

		j := sessions.NewJanitor(store, mocks.NewMockLogger(ctrl), 0, time.Minute)
		assert.False(t, j.Enabled())

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- j.Run(ctx) }()

		time.Sleep(time.Hour)
		synctest.Wait()
		cancel()
		require.NoError(t, <-done)
	})
}
