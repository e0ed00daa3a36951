package storage

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("certificates/2024-2025/abc.html", []byte("<html></html>"))
	require.NoError(t, err)
	assert.Equal(t, "certificates/2024-2025/abc.html", name)

	data, err := store.Read(name)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	file, err := store.Open(name)
	require.NoError(t, err)
	streamed, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, data, streamed)

	require.NoError(t, store.Delete(name))
	_, err = store.Read(name)
	assert.Error(t, err)
	assert.NoError(t, store.Delete(name))
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../secret", "a/../../secret", "/etc/passwd"} {
		_, err := store.Save(name, []byte("x"))
		assert.ErrorIs(t, err, ErrOutsideRoot, name)
	}
}
