package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/braid-labs/braid/internal/branding"
)

// Directory and file name constants for the home directory convention.
const (
	ServersDir     = "servers"
	RegistryDir    = "registry"
	EnvDir         = "env"
	StateDir       = "state"
	DefaultEnvFile = "default.env"
	TokensEnvFile  = "tokens.env"
)

// Permission constants.
const (
	DirPermSecure  os.FileMode = 0700
	FilePermSecure os.FileMode = 0600
	DirPermNormal  os.FileMode = 0755
)

// Root returns the home directory root. It checks the BRAID_HOME
// environment variable first, then falls back to ~/.braid.
func Root() (string, error) {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir()), nil
}

// GetServersRoot returns the directory holding added server templates.
// It checks the BRAID_SERVERS environment variable first, then falls
// back to ~/.braid/servers.
func GetServersRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("SERVERS")); v != "" {
		return v, nil
	}
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ServersDir), nil
}

// GetRegistryRoot returns the user-local registry source directory.
// It checks the BRAID_REGISTRY environment variable first, then falls
// back to ~/.braid/registry.
func GetRegistryRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("REGISTRY")); v != "" {
		return v, nil
	}
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, RegistryDir), nil
}

// GetEnvDir returns the path to the env/ directory.
func GetEnvDir() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, EnvDir), nil
}

// GetStateDir returns the path to the state/ directory, used for
// generated compose files and deploy records.
func GetStateDir() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, StateDir), nil
}

// GetDefaultEnvPath returns the path to env/default.env.
func GetDefaultEnvPath() (string, error) {
	envDir, err := GetEnvDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(envDir, DefaultEnvFile), nil
}

// GetVendorEnvPath returns the path to a vendor-specific .env file.
// For example, GetVendorEnvPath("xero") returns "<root>/env/xero.env".
func GetVendorEnvPath(vendor string) (string, error) {
	envDir, err := GetEnvDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(envDir, vendor+".env"), nil
}

// GetComposePath returns the path of the generated compose file under
// state/.
func GetComposePath() (string, error) {
	stateDir, err := GetStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(stateDir, "docker-compose.yaml"), nil
}
