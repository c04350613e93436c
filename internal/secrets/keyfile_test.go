package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	blob, err := EncryptCredential("api-key-abc-123", "correct horse")
	require.NoError(t, err)

	got, err := DecryptCredential(blob, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "api-key-abc-123", got)
}

func TestDecryptWrongPassword(t *testing.T) {
	blob, err := EncryptCredential("api-key-abc-123", "correct horse")
	require.NoError(t, err)

	_, err = DecryptCredential(blob, "battery staple")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decryption failed")
}

func TestEncryptRejectsEmptyInputs(t *testing.T) {
	_, err := EncryptCredential("", "pw")
	require.Error(t, err)

	_, err = EncryptCredential("key", "")
	require.Error(t, err)
}

func TestDecryptRejectsUnknownVersion(t *testing.T) {
	_, err := DecryptCredential([]byte(`{"version": 9, "salt": "", "nonce": "", "ciphertext": ""}`), "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported version")
}

func TestLoadAPIKeyPrefersRawKey(t *testing.T) {
	key, err := LoadAPIKey(KeySource{RawKey: "raw-key", EncryptedKeyPath: "/does/not/exist"})
	require.NoError(t, err)
	assert.Equal(t, "raw-key", key)
}

func TestLoadAPIKeyFromEncryptedFile(t *testing.T) {
	blob, err := EncryptCredential("file-key", "pw")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, blob, 0o600))

	key, err := LoadAPIKey(KeySource{EncryptedKeyPath: path, KeyPassword: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "file-key", key)
}

func TestLoadAPIKeyNoSource(t *testing.T) {
	_, err := LoadAPIKey(KeySource{})
	require.Error(t, err)
}
