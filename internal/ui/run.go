// Package ui provides the terminal board.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the board until the user quits or ctx is cancelled. An edit still
// open at that point is saved. It returns the final model so callers can
// inspect the week that was on screen.
func Run(ctx context.Context, board *Board) (*Board, error) {
	if !IsTTY(os.Stdout) {
		return nil, fmt.Errorf("board requires a TTY")
	}
	program := tea.NewProgram(board, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if m, ok := finalModel.(*Board); ok {
		board = m
	}
	// A program stopped by ctx or a signal never saw the key ending the edit.
	board.Flush()
	return board, err
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
