package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/moviex/internal/catalog"
	"github.com/desertthunder/moviex/internal/feed"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSnapshot MsgKind = iota
	MsgFeedState
	MsgOperationDone
)

type operationResult struct {
	title   string
	message string
	err     error
}

// snapshotMsg is the constructor for [MsgSnapshot]
func snapshotMsg(s catalog.Snapshot) Msg {
	return Msg{kind: MsgSnapshot, data: s}
}

// feedStateMsg is the constructor for [MsgFeedState]
func feedStateMsg(s feed.State) Msg {
	return Msg{kind: MsgFeedState, data: s}
}

// operationDoneMsg is the constructor for [MsgOperationDone]
func operationDoneMsg(title, message string, err error) Msg {
	return Msg{kind: MsgOperationDone, data: operationResult{title: title, message: message, err: err}}
}
