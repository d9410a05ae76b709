package userdata

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/braid-labs/braid/internal/branding"
	"github.com/braid-labs/braid/internal/registry"
)

// CheckHome validates the home directory structure and permissions.
// When fix is true, it attempts to repair issues.
func CheckHome(w io.Writer, fix bool) error {
	root, err := Root()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Home directory check:")

	if _, statErr := os.Stat(root); os.IsNotExist(statErr) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", root)
		if fix {
			fmt.Fprintln(w, "  [FIX ] Running init...")
			if initErr := InitGlobal(w); initErr != nil {
				return fmt.Errorf("auto-fix init: %w", initErr)
			}
		} else {
			fmt.Fprintf(w, "         Run '%s init' to create\n", branding.CLIName())
		}
		return nil
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", root)

	checkDirExists(w, filepath.Join(root, ServersDir), fix)
	checkDirExists(w, filepath.Join(root, RegistryDir), fix)
	checkDirWithPerm(w, filepath.Join(root, EnvDir), DirPermSecure, fix)
	checkDirExists(w, filepath.Join(root, StateDir), fix)
	checkEnvFilePerms(w, filepath.Join(root, EnvDir), fix)

	return nil
}

// CheckDocker reports whether docker is available on PATH. The compose
// and up commands need it; everything else works without.
func CheckDocker(w io.Writer) {
	fmt.Fprintln(w, "Docker check:")
	path, err := exec.LookPath("docker")
	if err != nil {
		fmt.Fprintln(w, "  [WARN] docker not found on PATH (compose and up will not work)")
		return
	}
	fmt.Fprintf(w, "  [ OK ] docker at %s\n", path)
}

// CheckTokens parses every added server manifest and reports declared
// tokens missing from the environment.
func CheckTokens(w io.Writer, sources []registry.Source) error {
	serversDir, err := GetServersRoot()
	if err != nil {
		return err
	}

	names, err := registry.ListAdded(serversDir)
	if err != nil {
		return fmt.Errorf("listing added servers: %w", err)
	}

	fmt.Fprintln(w, "Token check:")
	if len(names) == 0 {
		fmt.Fprintln(w, "  [ OK ] no servers added yet")
		return nil
	}

	missing := 0
	for _, name := range names {
		resolved, err := registry.ResolveServer(name, sources)
		if err != nil {
			fmt.Fprintf(w, "  [WARN] %s: %v\n", name, err)
			continue
		}
		for _, tok := range resolved.Manifest.Tokens {
			if _, set := os.LookupEnv(tok.Name); set {
				fmt.Fprintf(w, "  [ OK ] %s (%s)\n", tok.Name, name)
				continue
			}
			if tok.Required {
				missing++
				fmt.Fprintf(w, "  [MISS] %s required by %s is not set\n", tok.Name, name)
			} else {
				fmt.Fprintf(w, "  [WARN] %s used by %s is not set (optional)\n", tok.Name, name)
			}
		}
	}

	if missing > 0 {
		fmt.Fprintf(w, "\n  %d required token(s) missing. Set them in env/%s or the shell.\n", missing, DefaultEnvFile)
	}
	return nil
}

func checkDirWithPerm(w io.Writer, path string, expectedPerm os.FileMode, fix bool) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", path)
		if fix {
			if mkErr := os.MkdirAll(path, expectedPerm); mkErr != nil {
				fmt.Fprintf(w, "  [FAIL] Could not create %s: %v\n", path, mkErr)
				return
			}
			os.Chmod(path, expectedPerm)
			fmt.Fprintf(w, "  [FIX ] Created %s with %o\n", path, expectedPerm)
		}
		return
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return
	}

	actualPerm := info.Mode().Perm()
	if actualPerm != expectedPerm {
		fmt.Fprintf(w, "  [WARN] %s has permissions %o (expected %o)\n", path, actualPerm, expectedPerm)
		if fix {
			if chErr := os.Chmod(path, expectedPerm); chErr != nil {
				fmt.Fprintf(w, "  [FAIL] Could not fix permissions on %s: %v\n", path, chErr)
				return
			}
			fmt.Fprintf(w, "  [FIX ] Fixed permissions on %s to %o\n", path, expectedPerm)
		}
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s (permissions %o)\n", path, actualPerm)
}

func checkDirExists(w io.Writer, path string, fix bool) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", path)
		if fix {
			if mkErr := os.MkdirAll(path, DirPermNormal); mkErr != nil {
				fmt.Fprintf(w, "  [FAIL] Could not create %s: %v\n", path, mkErr)
				return
			}
			fmt.Fprintf(w, "  [FIX ] Created %s\n", path)
		}
		return
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return
	}
	if !info.IsDir() {
		fmt.Fprintf(w, "  [WARN] %s exists but is not a directory\n", path)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", path)
}

func checkEnvFilePerms(w io.Writer, envDir string, fix bool) {
	entries, err := os.ReadDir(envDir)
	if err != nil {
		return // env dir may not exist, already reported
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".env") {
			continue
		}
		path := filepath.Join(envDir, e.Name())
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		perm := info.Mode().Perm()
		if perm != FilePermSecure {
			fmt.Fprintf(w, "  [WARN] %s has permissions %o (expected %o)\n", path, perm, FilePermSecure)
			if fix {
				if chErr := os.Chmod(path, FilePermSecure); chErr != nil {
					fmt.Fprintf(w, "  [FAIL] Could not fix permissions on %s: %v\n", path, chErr)
					continue
				}
				fmt.Fprintf(w, "  [FIX ] Fixed permissions on %s to %o\n", path, FilePermSecure)
			}
		}
	}
}
