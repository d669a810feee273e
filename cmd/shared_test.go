package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cesi-vents/vents/db"
	"github.com/cesi-vents/vents/guard"
	"github.com/spf13/cobra"
)

// openTempDB points the database at a temporary file for the duration of a test.
func openTempDB(t *testing.T) {
	t.Helper()
	db.Path = filepath.Join(t.TempDir(), "vents.db")
	if err := db.InitDB(); err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.CloseDB(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
}

// TestRequireSessionWithoutCredentials checks that a protected command is
// refused with a login hint when nothing is stored, without any network call.
func TestRequireSessionWithoutCredentials(t *testing.T) {
	openTempDB(t)

	a, err := newApp()
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	cmd := &cobra.Command{}
	errBuf := new(bytes.Buffer)
	cmd.SetErr(errBuf)

	ok := requireSession(context.Background(), cmd, a, guard.Requirement{Authenticated: true})
	if ok {
		t.Fatal("expected requireSession to refuse an anonymous session")
	}
	if !strings.Contains(errBuf.String(), "vents login") {
		t.Fatalf("expected a login hint, got: %s", errBuf.String())
	}
}

// TestWhoamiOfflineWithoutCache checks that the offline profile view degrades
// gracefully when nothing has been cached yet.
func TestWhoamiOfflineWithoutCache(t *testing.T) {
	openTempDB(t)

	cmd := whoamiCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--offline"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(buf.String(), "No cached profile found") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}
