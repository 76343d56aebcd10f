package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestNATSURL returns the NATS URL for integration tests.
func TestNATSURL() string {
	if url := os.Getenv("TEST_NATS_URL"); url != "" {
		return url
	}
	return "nats://localhost:4222"
}

// RequireIntegration skips the test unless integration tests are
// enabled.
func RequireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("skipping integration test (set INTEGRATION_TEST=1 to run)")
	}
}

// GoldenFile reads a golden file from testdata/.
func GoldenFile(t *testing.T, name string) []byte {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden file %s: %v", path, err)
	}
	return data
}

// AssertGolden compares data against a golden file. With
// UPDATE_GOLDEN=1 it rewrites the golden file instead.
func AssertGolden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name)
	if os.Getenv("UPDATE_GOLDEN") == "1" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create testdata dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("write golden file %s: %v", path, err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	want := GoldenFile(t, name)
	if string(got) != string(want) {
		t.Errorf("golden file mismatch for %s:\n--- want ---\n%s\n--- got ---\n%s",
			name, string(want), string(got))
	}
}
