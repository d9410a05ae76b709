package registry

import (
	"fmt"
	"os"
	"path/filepath"
)

// excludedNames are files/directories excluded when a template is copied.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
	"__pycache__":  true,
}

// AddServer copies a resolved server template directory to the added root.
func AddServer(resolved *ResolvedServer, addedRoot string) error {
	dst := filepath.Join(addedRoot, resolved.Name)

	// Remove existing copy to ensure a clean state.
	if _, err := os.Stat(dst); err == nil {
		if err := os.RemoveAll(dst); err != nil {
			return fmt.Errorf("removing existing server at %s: %w", dst, err)
		}
	}

	if err := copyDir(resolved.SourceDir, dst); err != nil {
		return fmt.Errorf("copying %s to %s: %w", resolved.SourceDir, dst, err)
	}

	return nil
}

// RemoveServer removes an added server directory.
func RemoveServer(name string, addedRoot string) error {
	dir := filepath.Join(addedRoot, name)

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("server %s is not added", name)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing %s: %w", dir, err)
	}

	return nil
}

// ListAdded returns the names of servers present under the added root,
// sorted by directory order.
func ListAdded(addedRoot string) ([]string, error) {
	entries, err := os.ReadDir(addedRoot)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", addedRoot, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// copyDir recursively copies src to dst, excluding entries in excludedNames.
func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if excludedNames[entry.Name()] {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else if entry.Type().IsRegular() {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
		// Skip symlinks and other special files during copy.
	}

	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, srcInfo.Mode())
}
