package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestName(t *testing.T) {
	if Name != "vxs" {
		t.Errorf("Expected Name to be %q, got %q", "vxs", Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version() != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version())
	}
}

func TestEnvVar(t *testing.T) {
	want := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(Prefix())) + "_DATA"
	if got := EnvVar("data"); got != want {
		t.Errorf("EnvVar(data) = %q, want %q", got, want)
	}
}

func TestDataPath(t *testing.T) {
	sep := string(os.PathListSeparator)

	t.Setenv(EnvVar("data"), strings.Join([]string{"env.yaml", "", "flag.yaml"}, sep))

	got := DataPath("flag.yaml", "other.yaml")

	for _, p := range []string{"flag.yaml", "other.yaml", "env.yaml"} {
		if !slices.Contains(got, p) {
			t.Errorf("DataPath missing %q: %v", p, got)
		}
	}

	seen := make(map[string]int)
	for _, p := range got {
		seen[p]++
	}

	if diff := cmp.Diff(1, seen["flag.yaml"]); diff != "" {
		t.Errorf("flag.yaml occurrences (-want +got):\n%s", diff)
	}

	if slices.Contains(got, "") {
		t.Errorf("DataPath contains empty entry: %v", got)
	}
}

func TestDirs(t *testing.T) {
	for name, dir := range map[string]string{
		"config": ConfigDir(),
		"cache":  CacheDir(),
	} {
		if filepath.Base(dir) != Prefix() {
			t.Errorf("%s dir %q does not end in %q", name, dir, Prefix())
		}
	}
}
