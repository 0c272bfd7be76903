package core

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestWithConnID(t *testing.T) {
	ctx := WithConnID(context.Background(), "conn-1")
	require.Equal(t, "conn-1", GetConnID(ctx))
}

func TestGetConnID_NoID(t *testing.T) {
	require.Empty(t, GetConnID(context.Background()))
}

func TestNewConnID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewConnID()
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestWithNewConnID(t *testing.T) {
	ctx, id := WithNewConnID(context.Background())
	require.NotEmpty(t, id)
	require.Equal(t, id, GetConnID(ctx))
}
