package fileio

import (
	"fmt"
	tea "github.com/charmbracelet/bubbletea/v2"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"
)

type SaveCompleteMsg struct {
	FullPath, SuccessMessage, ErrMessage string
}

// SaveLayoutCmd writes lines to a file named after the time of the save, in dir. A dir starting with ~ is
// relative to the user's home directory
func SaveLayoutCmd(dir string, lines []string) tea.Cmd {
	now := time.Now().UTC()
	return func() tea.Msg {
		path, err := saveLines(dir, layoutFileName(now), lines)
		if err != nil {
			return SaveCompleteMsg{ErrMessage: fmt.Sprintf("Error saving layout: %v", err)}
		}
		return SaveCompleteMsg{
			FullPath:       path,
			SuccessMessage: fmt.Sprintf("Saved layout to %s", path),
		}
	}
}

func layoutFileName(t time.Time) string {
	return "vl-layout-" + t.Format("20060102T150405Z") + ".txt"
}

func expandHome(dir string) (string, error) {
	if !strings.HasPrefix(dir, "~") {
		return dir, nil
	}
	currUser, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(currUser.HomeDir, strings.TrimPrefix(dir, "~")), nil
}

func saveLines(dir, fileName string, lines []string) (string, error) {
	if dir == "" {
		dir = "."
	}
	dir, err := expandHome(dir)
	if err != nil {
		return "", err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(absDir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(absDir, fileName)
	// saves within the same second get a counter rather than overwriting each other
	ext := filepath.Ext(path)
	for n := 1; ; n++ {
		exists, err := fileOrDirectoryExists(path)
		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
		path = filepath.Join(absDir, fmt.Sprintf("%s_%d%s", strings.TrimSuffix(fileName, ext), n, ext))
	}

	content := strings.Join(lines, "\n") + "\n"
	if err = os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func fileOrDirectoryExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
