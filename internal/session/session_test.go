package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/config"
	"github.com/MarioMihret/Auto-Clicker-Mouse-for-Desktop/internal/session"
)

func newManager() *session.Manager {
	return session.NewManager(config.Default().Browser, zap.NewNop())
}

func TestCreateRejectsMismatchedLocations(t *testing.T) {
	m := newManager()

	// 2 locations for 3 sessions fails before anything is launched.
	_, err := m.Create(context.Background(), 3, session.KindChrome, true, []string{"a", "b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrInvalidArgument)
}

func TestCreateSkipsUnsupportedKinds(t *testing.T) {
	m := newManager()

	handles, err := m.Create(context.Background(), 2, session.KindFirefox, true, nil)
	require.NoError(t, err)
	assert.Empty(t, handles, "unsupported engines are skipped, not fatal")
}
