package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("projects/p1.png")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	key, parsedExpiry, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "projects/p1.png", key)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Millisecond*10)
	token, _, err := signer.Generate("projects/p1.png")
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 20)

	_, _, err = signer.Parse(token)
	require.Error(t, err)
}

func TestSignedURLSignerTamperedToken(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("projects/p1.png")
	require.NoError(t, err)

	_, _, err = signer.Parse(token + "x")
	require.Error(t, err)
}

func TestLocalStorePutGetDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), NewSignedURLSigner("secret", time.Hour), "/api/v1/files")
	require.NoError(t, err)

	ctx := context.Background()
	url, err := store.Put(ctx, "achievements/alice-1.png", []byte("img"), "image/png")
	require.NoError(t, err)
	require.Contains(t, url, "/api/v1/files/")

	data, err := store.Get(ctx, "achievements/alice-1.png")
	require.NoError(t, err)
	require.Equal(t, []byte("img"), data)

	require.NoError(t, store.Delete(ctx, "achievements/alice-1.png"))
	_, err = store.Get(ctx, "achievements/alice-1.png")
	require.Error(t, err)
}
