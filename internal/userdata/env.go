package userdata

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvEntry represents a single key-value pair from a .env file.
type EnvEntry struct {
	Key   string
	Value string
}

// ListEnvFiles discovers all .env files under the home directory.
// Returns shared env files (from env/) and server-specific files
// (from servers/*/tokens.env).
func ListEnvFiles() (shared []string, serverSpecific []string, err error) {
	envDir, err := GetEnvDir()
	if err != nil {
		return nil, nil, err
	}
	if entries, readErr := os.ReadDir(envDir); readErr == nil {
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".env") {
				shared = append(shared, filepath.Join(envDir, e.Name()))
			}
		}
	}

	serversDir, err := GetServersRoot()
	if err != nil {
		return nil, nil, err
	}
	_ = filepath.WalkDir(serversDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // skip errors
		}
		if !d.IsDir() && d.Name() == TokensEnvFile {
			serverSpecific = append(serverSpecific, path)
		}
		return nil
	})

	return shared, serverSpecific, nil
}

// ResolveEnvTarget resolves a target string to a .env file path.
// A target matching an added server name maps to servers/<name>/tokens.env;
// anything else is treated as a vendor name (-> env/<target>.env).
func ResolveEnvTarget(target string) (string, error) {
	serversDir, err := GetServersRoot()
	if err != nil {
		return "", err
	}
	if info, statErr := os.Stat(filepath.Join(serversDir, target)); statErr == nil && info.IsDir() {
		return filepath.Join(serversDir, target, TokensEnvFile), nil
	}
	return GetVendorEnvPath(target)
}

// ParseEnvFile reads a .env file and returns key-value entries.
// It skips blank lines and lines starting with #.
func ParseEnvFile(path string) ([]EnvEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening env file %s: %w", path, err)
	}
	defer f.Close()

	var entries []EnvEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		entries = append(entries, EnvEntry{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return entries, nil
}

// ApplyEnvFile loads a .env file into the process environment. Variables
// already set in the environment win over file values.
func ApplyEnvFile(path string) error {
	entries, err := ParseEnvFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if _, set := os.LookupEnv(e.Key); set {
			continue
		}
		if err := os.Setenv(e.Key, e.Value); err != nil {
			return fmt.Errorf("setting %s: %w", e.Key, err)
		}
	}
	return nil
}

// sensitivePatterns are substrings that indicate a value should be redacted.
var sensitivePatterns = []string{"TOKEN", "SECRET", "PASSWORD", "KEY", "CREDENTIAL"}

// RedactValue returns a redacted version of value if the key name contains
// a sensitive pattern (case-insensitive substring match).
// Values with 4+ chars show the first 4 chars + "***".
// Values with fewer than 4 chars are fully redacted as "***".
func RedactValue(key, value string) string {
	upper := strings.ToUpper(key)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(upper, pattern) {
			if len(value) >= 4 {
				return value[:4] + "***"
			}
			return "***"
		}
	}
	return value
}
