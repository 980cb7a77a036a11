package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sessionservice "github.com/joonhok/docuguide/backend/internal/service/session"
)

func TestRegistryCreateAndGet(t *testing.T) {
	reg := sessionservice.NewRegistry(&fakeGateway{}, time.Minute, 3, zap.NewNop())

	sess := reg.Create(context.Background(), housingDoc())
	require.NotEmpty(t, sess.ID)

	got, ok := reg.Get(sess.ID)
	require.True(t, ok)
	require.Same(t, sess, got)

	_, ok = reg.Get("missing")
	require.False(t, ok)
}

func TestRegistryDeleteClosesSession(t *testing.T) {
	reg := sessionservice.NewRegistry(&fakeGateway{}, time.Minute, 3, zap.NewNop())
	sess := reg.Create(context.Background(), housingDoc())

	reg.Delete(sess.ID)

	require.True(t, sess.Closed())
	_, ok := reg.Get(sess.ID)
	require.False(t, ok)
}

func TestRegistryExpiresIdleSessions(t *testing.T) {
	reg := sessionservice.NewRegistry(&fakeGateway{}, 20*time.Millisecond, 3, zap.NewNop())
	sess := reg.Create(context.Background(), housingDoc())

	time.Sleep(60 * time.Millisecond)

	_, ok := reg.Get(sess.ID)
	require.False(t, ok)
}
