package userdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Default content for env/default.env.
const defaultEnvContent = `# Shared environment variables passed to all servers.
LOG_LEVEL=info
`

// InitGlobal creates the full home directory structure with proper
// permissions. It prints progress messages to w. Existing items are
// skipped with a message.
func InitGlobal(w io.Writer) error {
	root, err := Root()
	if err != nil {
		return err
	}

	if err := ensureDir(w, root, DirPermNormal); err != nil {
		return err
	}

	// Added server templates.
	serversDir, err := GetServersRoot()
	if err != nil {
		return err
	}
	if err := ensureDir(w, serversDir, DirPermNormal); err != nil {
		return err
	}

	// User-local registry source.
	registryDir, err := GetRegistryRoot()
	if err != nil {
		return err
	}
	if err := ensureDir(w, registryDir, DirPermNormal); err != nil {
		return err
	}

	// Token env files hold secrets, keep them private.
	envDir := filepath.Join(root, EnvDir)
	if err := ensureDir(w, envDir, DirPermSecure); err != nil {
		return err
	}
	defaultEnv := filepath.Join(envDir, DefaultEnvFile)
	if err := ensureFile(w, defaultEnv, defaultEnvContent, FilePermSecure); err != nil {
		return err
	}

	// Generated compose files and deploy records.
	stateDir := filepath.Join(root, StateDir)
	if err := ensureDir(w, stateDir, DirPermNormal); err != nil {
		return err
	}

	return nil
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(w io.Writer, path string, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	// MkdirAll may not apply exact perms if parent dirs needed creation.
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}

// ensureFile creates a file with content if it doesn't exist.
func ensureFile(w io.Writer, path, content string, perm os.FileMode) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
		return nil
	}

	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}
