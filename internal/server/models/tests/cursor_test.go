package tests

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/server/models"
)

func TestCursor_EncodeDecode(t *testing.T) {
	c := models.Cursor{CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 123456000, time.UTC), ID: uuid.New()}

	got, err := models.DecodeCursor(c.Encode())
	require.NoError(t, err)
	require.True(t, c.CreatedAt.Equal(got.CreatedAt))
	require.Equal(t, c.ID, got.ID)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	bad := []string{
		"!!!",
		base64.RawURLEncoding.EncodeToString([]byte("no-separator")),
		base64.RawURLEncoding.EncodeToString([]byte("abc:" + uuid.NewString())),
		base64.RawURLEncoding.EncodeToString([]byte("123:not-a-uuid")),
	}
	for _, s := range bad {
		_, err := models.DecodeCursor(s)
		require.Error(t, err, s)
	}
}
