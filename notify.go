package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Unread-notification polling is fire-and-forget: failures are swallowed and
// the next tick tries again. This is the one deliberate silent failure in
// the program.

const unreadPollInterval = 30 * time.Second

func unreadTickCmd() tea.Cmd {
	return tea.Tick(unreadPollInterval, func(t time.Time) tea.Msg {
		return unreadTickMsg(t)
	})
}

func pollUnreadCmd(c *Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := callCtx()
		defer cancel()
		count, err := c.UnreadCount(ctx)
		return unreadCountMsg{count: count, err: err}
	}
}
