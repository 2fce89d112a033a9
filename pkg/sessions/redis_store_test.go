package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "session:abc", sessionKey("abc"))
}

func TestRedisStore_UnreachableServerIsAnError(t *testing.T) {
	t.Parallel()

	// Nothing listens on port 1, so every call fails fast.
	store := NewRedisStore("127.0.0.1:1", "", 0)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := store.Get(ctx, "abc")
	require.Error(t, err)

	_, err = store.Create(ctx, "user-1", time.Hour)
	require.Error(t, err)
}
