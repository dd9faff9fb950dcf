// Package secrets keeps planner API keys out of the plain-text config file.
// Keys live in a per-user file (0600) sealed with AES-GCM under a key derived
// from the machine and user. That is obfuscation, not an OS keychain; the
// point is that a casual `cat` of the config directory reveals nothing.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNotFound is returned by Get when no key is stored for the provider.
var ErrNotFound = errors.New("secrets: key not found")

const keyFileName = "keys.json"

// Set stores or replaces the API key for a provider.
func Set(provider, apiKey string) error {
	provider = normalize(provider)
	if provider == "" {
		return errors.New("secrets: provider required")
	}
	path, err := keyFilePath()
	if err != nil {
		return err
	}
	keys := readKeyFile(path)
	sealed, err := seal([]byte(apiKey))
	if err != nil {
		return err
	}
	keys[provider] = base64.StdEncoding.EncodeToString(sealed)
	return writeKeyFile(path, keys)
}

// Get returns the stored API key for a provider, or ErrNotFound.
func Get(provider string) (string, error) {
	provider = normalize(provider)
	if provider == "" {
		return "", errors.New("secrets: provider required")
	}
	path, err := keyFilePath()
	if err != nil {
		return "", err
	}
	encoded, ok := readKeyFile(path)[provider]
	if !ok {
		return "", ErrNotFound
	}
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("secrets: corrupt entry for %s: %w", provider, err)
	}
	plain, err := open(sealed)
	if err != nil {
		return "", fmt.Errorf("secrets: unseal %s: %w", provider, err)
	}
	return string(plain), nil
}

// Delete removes the stored key for a provider. Absent keys are a no-op.
func Delete(provider string) error {
	provider = normalize(provider)
	if provider == "" {
		return errors.New("secrets: provider required")
	}
	path, err := keyFilePath()
	if err != nil {
		return err
	}
	keys := readKeyFile(path)
	if _, ok := keys[provider]; !ok {
		return nil
	}
	delete(keys, provider)
	return writeKeyFile(path, keys)
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func keyFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "northstar")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, keyFileName), nil
}

// readKeyFile returns the provider map, empty on any read problem. A missing
// or corrupt file behaves like an empty store rather than blocking startup.
func readKeyFile(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		return map[string]string{}
	}
	var keys map[string]string
	if err := json.Unmarshal(data, &keys); err != nil || keys == nil {
		return map[string]string{}
	}
	return keys
}

func writeKeyFile(path string, keys map[string]string) error {
	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func derivedKey() []byte {
	seed := fmt.Sprintf("northstar-%s-%s", runtime.GOOS, os.Getenv("USER"))
	sum := sha256.Sum256([]byte(seed))
	return sum[:]
}

func seal(plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(derivedKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func open(sealed []byte) ([]byte, error) {
	block, err := aes.NewCipher(derivedKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	return gcm.Open(nil, sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():], nil)
}
