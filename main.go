package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/beatgrid/internal/audio"
	"github.com/olivier-w/beatgrid/internal/engine"
	"github.com/olivier-w/beatgrid/internal/remote"
	"github.com/olivier-w/beatgrid/internal/ui"
)

const defaultServer = "http://localhost:5000"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <audio file>\n", filepath.Base(os.Args[0]))
		os.Exit(1)
	}
	path := os.Args[1]

	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: %s is a directory\n", path)
		os.Exit(1)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !audio.IsSupportedExt(ext) {
		fmt.Fprintf(os.Stderr, "Error: unsupported format %s (supported: %s)\n", ext, audio.SupportedExtsList())
		os.Exit(1)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out, err := audio.NewOutput()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening audio device: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	eng := engine.New(out, nil)

	server := os.Getenv("BEATGRID_SERVER")
	if server == "" {
		server = defaultServer
	}
	client := remote.NewClient(server)

	model := ui.New(eng, client, path, audio.ReadTitle(path), data)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
