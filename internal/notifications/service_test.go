package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForUserNewestFirstAndCapped(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	svc.Now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
	ctx := context.Background()

	for i = 0; i < userListLimit+5; i++ {
		_, err := svc.Create(ctx, Draft{UserID: "u1", Title: "t", Message: "m"})
		require.NoError(t, err)
	}
	got, err := svc.ForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, userListLimit)
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))
	assert.True(t, got[0].CreatedAt.Equal(base.Add(time.Duration(userListLimit+4)*time.Minute)))
}

func TestCreateRejectsBlankFields(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	_, err := svc.Create(context.Background(), Draft{UserID: "u1", Title: "  ", Message: "m"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMarkReadKeepsFirstReadTime(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return first }
	n, err := svc.Create(context.Background(), Draft{UserID: "u1", Title: "t", Message: "m"})
	require.NoError(t, err)

	_, err = svc.MarkRead(context.Background(), n.ID)
	require.NoError(t, err)
	svc.Now = func() time.Time { return first.Add(time.Hour) }
	got, err := svc.MarkRead(context.Background(), n.ID)
	require.NoError(t, err)
	assert.True(t, got.ReadAt.Equal(first))

	_, err = svc.MarkRead(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
