package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redactyl/anonymizer/internal/types"
)

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	p := DefaultPath(dir)
	if p != filepath.Join(dir, ".anonymizer-mappings.json") {
		t.Fatalf("unexpected default path: %s", p)
	}

	// first load: empty table plus the not-exist error
	ms, err := LoadMappings(p)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if ms == nil || len(ms) != 0 {
		t.Fatalf("expected empty table, got %v", ms)
	}

	want := []types.PseudonymMapping{
		{PIIHash: "abc", Type: types.EntityPerson, Label: "Person 001", FirstSeenAt: time.Unix(10, 0).UTC()},
		{PIIHash: "def", Type: types.EntityEmail, Label: "user001@example.com", FirstSeenAt: time.Unix(20, 0).UTC()},
	}
	if err := SaveMappings(p, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	st, err := os.Stat(p)
	if err != nil {
		t.Fatalf("mapping file not written: %v", err)
	}
	if st.Mode().Perm() != 0600 {
		t.Fatalf("unexpected mode %v", st.Mode().Perm())
	}

	store, err := Load(p)
	if err != nil {
		t.Fatalf("load after save: %v", err)
	}
	if store.Version != FormatVersion.String() {
		t.Fatalf("unexpected version %q", store.Version)
	}
	if len(store.Mappings) != 2 || store.Mappings[1].Label != "user001@example.com" {
		t.Fatalf("unexpected mappings: %+v", store.Mappings)
	}
	if !store.Mappings[0].FirstSeenAt.Equal(want[0].FirstSeenAt) {
		t.Fatalf("firstSeenAt not preserved")
	}
}

func TestDefaultPath_PrefersGitDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := DefaultPath(dir); got != filepath.Join(dir, ".git", "anonymizer-mappings.json") {
		t.Fatalf("unexpected path: %s", got)
	}
}

func TestLoad_Versions(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"same major newer minor", `{"version":"1.4.2","mappings":[]}`, false},
		{"tolerant short form", `{"version":"v1","mappings":null}`, false},
		{"next major", `{"version":"2.0.0","mappings":[]}`, true},
		{"garbage", `{"version":"abc","mappings":[]}`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "m.json")
			if err := os.WriteFile(p, []byte(tc.body), 0o600); err != nil {
				t.Fatal(err)
			}
			st, err := Load(p)
			if tc.wantErr {
				if !errors.Is(err, ErrIncompatibleVersion) {
					t.Fatalf("expected ErrIncompatibleVersion, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if st.Mappings == nil {
				t.Fatalf("mappings should be non-nil")
			}
		})
	}
}

func TestLoad_Corrupt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "m.json")
	if err := os.WriteFile(p, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(p)
	if err == nil || errors.Is(err, ErrIncompatibleVersion) {
		t.Fatalf("expected parse error, got %v", err)
	}
}
