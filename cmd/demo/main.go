package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"vidcheck/demo/tui"
	"vidcheck/types"
)

func main() {
	_ = godotenv.Load()

	serverURL := flag.String("url", "http://localhost:8080", "VidCheck server URL")
	videoID := flag.String("video", "", "YouTube video id to analyze")
	title := flag.String("title", "", "Video title (optional, looked up when empty)")
	transcript := flag.String("transcript", "", "Transcript text (optional)")
	flag.Parse()

	if *videoID == "" {
		fmt.Println("usage: demo -video <video-id> [-title ...] [-transcript ...]")
		os.Exit(1)
	}

	req := types.AnalysisRequest{
		VideoID:    *videoID,
		Title:      *title,
		Transcript: *transcript,
	}

	program := tea.NewProgram(tui.NewModel(*serverURL, req))

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
