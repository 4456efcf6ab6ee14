package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Every remote call runs as a tea.Cmd off the UI goroutine; its result
// re-enters Update as one of these messages. The UI stays interactive while
// requests are in flight.

type boardLoadedMsg struct {
	state BoardState
	err   error
}

type evidenceListMsg struct {
	briefs []EvidenceBrief
	err    error
}

type itemCreatedMsg struct {
	item BoardItem
	err  error
}

type itemMovedMsg struct {
	itemID int64
	item   BoardItem
	err    error
}

type itemDeletedMsg struct {
	itemID int64
	err    error
}

type connectionCreatedMsg struct {
	conn BoardConnection
	err  error
}

type connectionDeletedMsg struct {
	connectionID int64
	err          error
}

type exportDoneMsg struct {
	path string
	err  error
}

type unreadTickMsg time.Time

type unreadCountMsg struct {
	count int
	err   error
}

const requestTimeout = 15 * time.Second

func callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func loadBoardCmd(c *Client, caseID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()
		state, err := c.GetBoard(ctx, caseID)
		if err != nil {
			err = &LoadError{Op: "board", Err: err}
		}
		return boardLoadedMsg{state: state, err: err}
	}
}

func listEvidenceCmd(c *Client, caseID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()
		briefs, err := c.ListCaseEvidence(ctx, caseID)
		if err != nil {
			err = &LoadError{Op: "evidence", Err: err}
		}
		return evidenceListMsg{briefs: briefs, err: err}
	}
}

func createItemCmd(c *Client, caseID int64, req CreateItemRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()
		item, err := c.CreateItem(ctx, caseID, req)
		if err != nil {
			err = &MutationError{Op: "create item", Err: err}
		}
		return itemCreatedMsg{item: item, err: err}
	}
}

func moveItemCmd(c *Client, caseID, itemID int64, pos Position) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()
		item, err := c.MoveItem(ctx, caseID, itemID, pos)
		if err != nil {
			err = &MutationError{Op: "move item", Err: err}
		}
		return itemMovedMsg{itemID: itemID, item: item, err: err}
	}
}

func deleteItemCmd(c *Client, caseID, itemID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()
		err := c.DeleteItem(ctx, caseID, itemID)
		if err != nil {
			err = &MutationError{Op: "delete item", Err: err}
		}
		return itemDeletedMsg{itemID: itemID, err: err}
	}
}

func createConnectionCmd(c *Client, caseID, fromItem, toItem int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()
		conn, err := c.CreateConnection(ctx, caseID, fromItem, toItem)
		if err != nil {
			err = &MutationError{Op: "create connection", Err: err}
		}
		return connectionCreatedMsg{conn: conn, err: err}
	}
}

func deleteConnectionCmd(c *Client, caseID, connectionID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()
		err := c.DeleteConnection(ctx, caseID, connectionID)
		if err != nil {
			err = &MutationError{Op: "delete connection", Err: err}
		}
		return connectionDeletedMsg{connectionID: connectionID, err: err}
	}
}

func exportCmd(state BoardState, path string) tea.Cmd {
	return func() tea.Msg {
		err := exportBoardPNG(state, path)
		return exportDoneMsg{path: path, err: err}
	}
}
