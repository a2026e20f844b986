package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
)

// The pepper is a server-side secret mixed into every password before
// hashing. It lives in a file outside the database, so a leaked database
// alone is not enough to mount an offline attack.
var (
	pepper     string
	pepperFile string
)

// SetPepperPath configures where the pepper file lives. Call once during
// application startup, before any hashing happens.
func SetPepperPath(path string) {
	pepperFile = path
}

// GetPepper returns the loaded pepper, loading or generating it on first
// use. Failure to obtain a pepper is unrecoverable.
func GetPepper() string {
	if pepper != "" {
		return pepper
	}

	loaded, err := loadOrCreatePepper()
	if err != nil {
		slog.Error("failed to load or create pepper", slog.Any("err", err))
		os.Exit(1)
	}
	pepper = loaded
	return pepper
}

func loadOrCreatePepper() (string, error) {
	pepperFile = filepath.Clean(pepperFile)
	if err := os.MkdirAll(filepath.Dir(pepperFile), 0750); err != nil {
		return "", err
	}

	if data, err := os.ReadFile(pepperFile); err == nil {
		return string(data), nil
	} else if !os.IsNotExist(err) {
		return "", err
	}

	raw := make([]byte, argonKeyLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	fresh := base64.RawURLEncoding.EncodeToString(raw)

	if err := os.WriteFile(pepperFile, []byte(fresh), 0600); err != nil {
		return "", err
	}
	return fresh, nil
}
