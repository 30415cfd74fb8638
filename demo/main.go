package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tooncraft/demo/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment
	_ = godotenv.Load()

	// Parse command-line flags
	studioURL := flag.String("url", "http://localhost:8080", "Studio API URL")
	brief := flag.String("brief", "A brave little robot who learns to fly", "Story brief to produce")
	age := flag.Int("age", 7, "Target age of the audience")
	movie := flag.Bool("movie", false, "Produce in movie mode (mixed video and stills)")
	scenes := flag.Int("scenes", 4, "Number of scenes")
	flag.Parse()

	m := tui.NewModel(*studioURL, tui.ProductionSpec{
		Brief:      *brief,
		Age:        *age,
		MovieMode:  *movie,
		SceneCount: *scenes,
	})

	program := tea.NewProgram(m)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
