package updater

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		current, latest string
		want            int
	}{
		{"1.0.0", "1.0.1", -1},
		{"v1.0.0", "1.0.0", 0},
		{"2.1.0", "v2.0.9", 1},
		{"0.9.0", "1.0.0-rc.1", -1},
	}
	for _, tt := range tests {
		got, err := CompareVersions(tt.current, tt.latest)
		if err != nil {
			t.Errorf("CompareVersions(%s, %s): %v", tt.current, tt.latest, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CompareVersions(%s, %s) = %d, want %d", tt.current, tt.latest, got, tt.want)
		}
	}
}

func TestCompareVersionsInvalid(t *testing.T) {
	if _, err := CompareVersions("not-a-version", "1.0.0"); err == nil {
		t.Error("expected error for invalid version")
	}
}

func TestIsUpdateAvailable(t *testing.T) {
	avail, err := IsUpdateAvailable("1.0.0", "1.2.0")
	if err != nil {
		t.Fatal(err)
	}
	if !avail {
		t.Error("1.2.0 should be an update over 1.0.0")
	}

	avail, err = IsUpdateAvailable("1.2.0", "1.2.0")
	if err != nil {
		t.Fatal(err)
	}
	if avail {
		t.Error("same version is not an update")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()

	loaded, err := LoadCache(dir)
	if err != nil {
		t.Fatalf("LoadCache on empty dir: %v", err)
	}
	if loaded != nil {
		t.Error("expected nil cache on first run")
	}

	cache := &VersionCache{
		LatestVersion:   "v1.2.0",
		CurrentVersion:  "v1.0.0",
		CheckedAt:       time.Now(),
		UpdateAvailable: true,
	}
	if err := SaveCache(dir, cache); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}

	loaded, err = LoadCache(dir)
	if err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if loaded == nil || loaded.LatestVersion != "v1.2.0" || !loaded.UpdateAvailable {
		t.Errorf("loaded cache = %+v", loaded)
	}
}

func TestIsCacheStale(t *testing.T) {
	if !IsCacheStale(nil, DefaultCacheMaxAge) {
		t.Error("nil cache should be stale")
	}
	fresh := &VersionCache{CheckedAt: time.Now()}
	if IsCacheStale(fresh, DefaultCacheMaxAge) {
		t.Error("fresh cache should not be stale")
	}
	old := &VersionCache{CheckedAt: time.Now().Add(-25 * time.Hour)}
	if !IsCacheStale(old, DefaultCacheMaxAge) {
		t.Error("25h old cache should be stale")
	}
}

func TestSelectAssetForPlatform(t *testing.T) {
	assets := []Asset{
		{Name: "checksums.txt"},
		{Name: ArchiveName()},
		{Name: "braid_plan9_mips.tar.gz"},
	}

	asset, err := SelectAssetForPlatform(assets)
	if err != nil {
		t.Fatalf("SelectAssetForPlatform: %v", err)
	}
	if asset.Name != ArchiveName() {
		t.Errorf("selected %s, want %s", asset.Name, ArchiveName())
	}
}

func TestSelectAssetForPlatformMissing(t *testing.T) {
	if _, err := SelectAssetForPlatform([]Asset{{Name: "checksums.txt"}}); err == nil {
		t.Error("expected error when no platform asset exists")
	}
}

func TestCheckLatestVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/braid-labs/braid/releases/latest" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"tag_name":"v1.3.0","assets":[{"name":"checksums.txt","browser_download_url":"http://x/checksums.txt"}]}`)
	}))
	defer srv.Close()

	u := New("v1.0.0", WithHTTPClient(srv.Client()), WithAPIBase(srv.URL))
	release, err := u.CheckLatestVersion()
	if err != nil {
		t.Fatalf("CheckLatestVersion: %v", err)
	}
	if release.Version != "v1.3.0" {
		t.Errorf("Version = %q", release.Version)
	}
	if len(release.Assets) != 1 {
		t.Errorf("Assets = %v", release.Assets)
	}
}

func TestCheckSpecificVersionNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	u := New("v1.0.0", WithHTTPClient(srv.Client()), WithAPIBase(srv.URL))
	if _, err := u.CheckSpecificVersion("9.9.9"); err == nil {
		t.Error("expected error for missing release")
	}
}

func TestVerifyChecksum(t *testing.T) {
	archive := []byte("archive-bytes")
	sum := sha256.Sum256(archive)

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "pkg.tar.gz")
	if err := os.WriteFile(archivePath, archive, 0644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s  pkg.tar.gz\n", hex.EncodeToString(sum[:]))
	}))
	defer srv.Close()

	release := &Release{Assets: []Asset{{Name: "checksums.txt", DownloadURL: srv.URL}}}

	u := New("v1.0.0", WithHTTPClient(srv.Client()))
	if err := u.VerifyChecksum(release, archivePath); err != nil {
		t.Errorf("VerifyChecksum: %v", err)
	}

	// Corrupt the archive and expect a mismatch.
	if err := os.WriteFile(archivePath, []byte("tampered"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := u.VerifyChecksum(release, archivePath); err == nil {
		t.Error("expected checksum mismatch")
	}
}

func TestReplaceBinaryWindowsRefused(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("windows-only behavior")
	}
	if err := ReplaceBinary("/tmp/new", "/tmp/cur"); err == nil {
		t.Error("expected error on windows")
	}
}
