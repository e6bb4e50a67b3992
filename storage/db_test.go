package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemDBRoundTrip(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	require.NoError(t, db.Put([]byte("alpha"), []byte{1, 2, 3}))

	got, err := db.Get([]byte("alpha"))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got)

	ok, err := db.Has([]byte("alpha"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemDBMissingKey(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	_, err := db.Get([]byte("missing"))
	require.True(t, errors.Is(err, ErrKeyNotFound))

	ok, err := db.Has([]byte("missing"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemDBCopiesValues(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	value := []byte{7}
	require.NoError(t, db.Put([]byte("k"), value))
	value[0] = 9

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte{7}, got)
}
