package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Minute)

	token, err := m.CreateToken(42)
	require.NoError(t, err)

	id, err := m.GetIdFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestManager_RejectsForeignAndExpired(t *testing.T) {
	m := NewManager("secret", time.Minute)

	other, err := NewManager("other", time.Minute).CreateToken(1)
	require.NoError(t, err)

	_, err = m.GetIdFromToken(other)
	invalid := &InvalidTokenError{}
	assert.True(t, errors.As(err, &invalid))

	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := m.CreateToken(1)
	require.NoError(t, err)

	_, err = NewManager("secret", time.Minute).GetIdFromToken(expired)
	assert.True(t, errors.As(err, &invalid))

	_, err = m.GetIdFromToken("garbage")
	assert.True(t, errors.As(err, &invalid))
}
