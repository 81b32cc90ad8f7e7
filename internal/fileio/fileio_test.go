package fileio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robinovitch61/vl/internal/util"
)

func TestSaveLayoutCmd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "layouts")
	msg := SaveLayoutCmd(dir, []string{"# header", "row"})().(SaveCompleteMsg)
	if msg.ErrMessage != "" {
		t.Fatal(msg.ErrMessage)
	}
	if filepath.Dir(msg.FullPath) != dir {
		t.Errorf("expected a file in %s, got %s", dir, msg.FullPath)
	}
	content, err := os.ReadFile(msg.FullPath)
	if err != nil {
		t.Fatal(err)
	}
	util.CmpStr(t, "# header\nrow\n", string(content))
}

func TestSaveLinesDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	name := layoutFileName(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	util.CmpStr(t, "vl-layout-20240102T030405Z.txt", name)

	first, err := saveLines(dir, name, []string{"a"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := saveLines(dir, name, []string{"b"})
	if err != nil {
		t.Fatal(err)
	}
	util.CmpStr(t, filepath.Join(dir, "vl-layout-20240102T030405Z_1.txt"), second)
	if content, _ := os.ReadFile(first); string(content) != "a\n" {
		t.Errorf("expected the first save kept, got %q", content)
	}
}
