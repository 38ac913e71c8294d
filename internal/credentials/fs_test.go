package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dvcrn/cronofy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deeply", "nested", "credentials.json")

	require.NoError(t, InitFile(path, cronofy.Credentials{ClientID: "cid", ClientSecret: "secret"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, dirInfo.IsDir())
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())

	c, err := NewFSStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "cid", c.ClientID)
	assert.Empty(t, c.AccessToken)
}

func TestFSStoreSaveTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, InitFile(path, cronofy.Credentials{
		ClientID:     "cid",
		ClientSecret: "secret",
		AccessToken:  "old-at",
		RefreshToken: "old-rt",
	}))

	store := NewFSStore(path)
	require.NoError(t, store.SaveTokens("new-at", "new-rt"))

	c, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cronofy.Credentials{
		ClientID:     "cid",
		ClientSecret: "secret",
		AccessToken:  "new-at",
		RefreshToken: "new-rt",
	}, *c)
}

func TestFSStoreErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFSStore(filepath.Join(dir, "missing.json")).Load()
	assert.ErrorContains(t, err, "failed to read credentials file")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0600))
	_, err = NewFSStore(bad).Load()
	assert.ErrorContains(t, err, "failed to parse credentials file")

	partial := filepath.Join(dir, "partial.json")
	require.NoError(t, os.WriteFile(partial, []byte(`{"client_id":"cid"}`), 0600))
	_, err = NewFSStore(partial).Load()
	assert.ErrorContains(t, err, "missing client_id or client_secret")
	assert.Error(t, NewFSStore(partial).SaveTokens("a", "b"))
}

func TestFSStoreAsTokenStore(t *testing.T) {
	var _ cronofy.TokenStore = NewFSStore("unused")
}
