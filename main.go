package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("caseboard: %v", err)
	}

	p := tea.NewProgram(
		initialModel(cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

type Mode int

const (
	ModeLoading Mode = iota
	ModeBoard
	ModeNoteInput
	ModeEvidencePick
	ModeEvidenceDetail
	ModeConfirm
	ModeHelp
)

type ConfirmAction int

const (
	ConfirmDeleteItem ConfirmAction = iota
	ConfirmDeleteConnection
	ConfirmQuit
)

type model struct {
	width  int
	height int

	cfg     Config
	client  *Client
	cache   *BoardCache
	drag    *DragController
	connect *ConnectionMode

	mode Mode

	// note input
	noteText      string
	noteCursorPos int

	// evidence picker
	evidence       []EvidenceBrief
	evidenceIndex  int
	detailEvidence *EvidenceBrief

	// selection
	selectedItem int64
	selectedConn int64

	confirmAction ConfirmAction
	confirmTarget int64

	createInFlight bool
	unreadCount    int

	errorMessage   string
	successMessage string
}

func initialModel(cfg Config) model {
	return model{
		cfg:     cfg,
		client:  NewClient(cfg.APIBaseURL, cfg.Token),
		cache:   NewBoardCache(cfg.CaseID),
		drag:    NewDragController(),
		connect: &ConnectionMode{},
		mode:    ModeLoading,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(loadBoardCmd(m.client, m.cfg.CaseID), unreadTickCmd())
}

// boardRows is the canvas height in cells; the last row is the status line.
func (m model) boardRows() int {
	rows := m.height - 1
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m model) transform() viewTransform {
	cols := m.width
	if cols < 1 {
		cols = 1
	}
	return newViewTransform(cols, m.boardRows())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.mode != ModeBoard {
			return m, nil
		}
		return m.handleMouse(msg)

	case boardLoadedMsg:
		return m.handleBoardLoaded(msg)

	case evidenceListMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.evidence = msg.briefs
		m.evidenceIndex = 0
		m.errorMessage = ""
		m.mode = ModeEvidencePick
		return m, nil

	case itemCreatedMsg:
		m.createInFlight = false
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.cache.ApplyCreatedItem(msg.item)
		m.successMessage = "Item pinned to the board"
		m.errorMessage = ""
		return m, nil

	case itemMovedMsg:
		m.drag.FinishMove(msg.itemID)
		if msg.err != nil {
			// Discard the optimistic position by refetching the whole
			// board; the view must never diverge from the server.
			m.errorMessage = msg.err.Error()
			return m, loadBoardCmd(m.client, m.cfg.CaseID)
		}
		m.cache.ReconcileItem(msg.item)
		m.errorMessage = ""
		return m, nil

	case itemDeletedMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.cache.ApplyDeletedItem(msg.itemID)
		if m.selectedItem == msg.itemID {
			m.selectedItem = 0
		}
		m.successMessage = "Item removed"
		return m, nil

	case connectionCreatedMsg:
		if msg.err != nil {
			// Pending endpoint is kept so the user can retry by clicking
			// the second item again.
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.cache.ApplyCreatedConnection(msg.conn)
		m.connect.Created()
		m.successMessage = "Items linked"
		m.errorMessage = ""
		return m, nil

	case connectionDeletedMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.cache.ApplyDeletedConnection(msg.connectionID)
		if m.selectedConn == msg.connectionID {
			m.selectedConn = 0
		}
		m.successMessage = "Connection removed"
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		abs, _ := filepath.Abs(msg.path)
		m.successMessage = "Exported to " + abs
		return m, nil

	case unreadTickMsg:
		return m, tea.Batch(pollUnreadCmd(m.client), unreadTickCmd())

	case unreadCountMsg:
		// Best-effort poll: failures are ignored by design.
		if msg.err == nil {
			m.unreadCount = msg.count
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleBoardLoaded(msg boardLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if IsUnauthorized(msg.err) {
			m.errorMessage = "Session expired, sign in again"
			return m, tea.Quit
		}
		m.errorMessage = msg.err.Error()
		return m, nil
	}
	m.cache.Replace(msg.state)
	if m.mode == ModeLoading {
		m.mode = ModeBoard
	}
	// errorMessage is left alone: the corrective reload after a failed
	// mutation must not wipe the message that explains it. User-initiated
	// reloads clear it at the keypress.
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeLoading:
		switch msg.String() {
		case "r":
			m.errorMessage = ""
			return m, loadBoardCmd(m.client, m.cfg.CaseID)
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case ModeHelp:
		m.mode = ModeBoard
		return m, nil

	case ModeBoard:
		return m.handleBoardKey(msg)

	case ModeNoteInput:
		return m.handleNoteInputKey(msg)

	case ModeEvidencePick:
		return m.handleEvidencePickKey(msg)

	case ModeEvidenceDetail:
		switch msg.String() {
		case "esc", "enter", "q":
			m.detailEvidence = nil
			m.mode = ModeBoard
		}
		return m, nil

	case ModeConfirm:
		return m.handleConfirmKey(msg)
	}
	return m, nil
}

func (m model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.mode = ModeConfirm
		m.confirmAction = ConfirmQuit
		return m, nil
	case "?":
		m.mode = ModeHelp
		return m, nil
	case "c":
		m.connect.Toggle()
		m.successMessage = ""
		m.errorMessage = ""
		return m, nil
	case "n":
		m.mode = ModeNoteInput
		m.noteText = ""
		m.noteCursorPos = 0
		m.errorMessage = ""
		return m, nil
	case "e":
		if m.createInFlight {
			return m, nil
		}
		return m, listEvidenceCmd(m.client, m.cfg.CaseID)
	case "d":
		if m.selectedConn != 0 {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteConnection
			m.confirmTarget = m.selectedConn
		} else if m.selectedItem != 0 {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteItem
			m.confirmTarget = m.selectedItem
		}
		return m, nil
	case "x":
		return m.startExport()
	case "r":
		m.errorMessage = ""
		m.successMessage = ""
		return m, loadBoardCmd(m.client, m.cfg.CaseID)
	case "y":
		if item, ok := m.cache.ItemByID(m.selectedItem); ok {
			if err := copyItemToClipboard(item); err != nil {
				m.errorMessage = "clipboard: " + err.Error()
			} else {
				m.successMessage = "Copied to clipboard"
			}
		}
		return m, nil
	case "esc":
		if m.connect.Pending() != 0 {
			m.connect.Created() // drop pending endpoint, stay armed
			return m, nil
		}
		m.selectedItem = 0
		m.selectedConn = 0
		return m, nil
	}
	return m, nil
}

func (m model) handleNoteInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEscape:
		m.mode = ModeBoard
		m.noteText = ""
		m.noteCursorPos = 0
		return m, nil
	case msg.Type == tea.KeyCtrlS:
		return m.submitNote()
	case msg.String() == "left":
		if m.noteCursorPos > 0 {
			m.noteCursorPos--
		}
		return m, nil
	case msg.String() == "right":
		if m.noteCursorPos < len(m.noteText) {
			m.noteCursorPos++
		}
		return m, nil
	case msg.Type == tea.KeyEnter:
		m.noteText = m.noteText[:m.noteCursorPos] + "\n" + m.noteText[m.noteCursorPos:]
		m.noteCursorPos++
		return m, nil
	case msg.Type == tea.KeyBackspace:
		if m.noteCursorPos > 0 {
			m.noteText = m.noteText[:m.noteCursorPos-1] + m.noteText[m.noteCursorPos:]
			m.noteCursorPos--
		}
		return m, nil
	default:
		keyStr := msg.String()
		if len(keyStr) == 1 || keyStr == "space" {
			if keyStr == "space" {
				keyStr = " "
			}
			m.noteText = m.noteText[:m.noteCursorPos] + keyStr + m.noteText[m.noteCursorPos:]
			m.noteCursorPos++
		}
		return m, nil
	}
}

func (m model) submitNote() (tea.Model, tea.Cmd) {
	item := NewNoteItem(strings.TrimSpace(m.noteText), Position{})
	if err := item.Validate(); err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}
	req := CreateItemRequest{
		Kind:     KindNote,
		NoteText: item.NoteText,
		Position: nextPlacement(len(m.cache.Items())),
	}
	m.mode = ModeBoard
	m.noteText = ""
	m.noteCursorPos = 0
	m.createInFlight = true
	return m, createItemCmd(m.client, m.cfg.CaseID, req)
}

func (m model) handleEvidencePickKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = ModeBoard
		return m, nil
	case "j", "down":
		if m.evidenceIndex < len(m.evidence)-1 {
			m.evidenceIndex++
		}
		return m, nil
	case "k", "up":
		if m.evidenceIndex > 0 {
			m.evidenceIndex--
		}
		return m, nil
	case "enter":
		if len(m.evidence) == 0 || m.evidenceIndex >= len(m.evidence) {
			m.errorMessage = (&ValidationError{Field: "evidence", Reason: "evidence selection is required"}).Error()
			return m, nil
		}
		brief := m.evidence[m.evidenceIndex]
		req := CreateItemRequest{
			Kind:       KindEvidence,
			EvidenceID: brief.ID,
			Position:   nextPlacement(len(m.cache.Items())),
		}
		m.mode = ModeBoard
		m.createInFlight = true
		return m, createItemCmd(m.client, m.cfg.CaseID, req)
	}
	return m, nil
}

func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeBoard
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmDeleteItem:
			return m, deleteItemCmd(m.client, m.cfg.CaseID, m.confirmTarget)
		case ConfirmDeleteConnection:
			return m, deleteConnectionCmd(m.client, m.cfg.CaseID, m.confirmTarget)
		}
		return m, nil
	case "n", "N", "esc":
		m.mode = ModeBoard
		return m, nil
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	t := m.transform()
	lx, ly := t.toLogical(msg.X, msg.Y)
	onCanvas := msg.Y < m.boardRows()

	switch {
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if !onCanvas || m.createInFlight {
			return m, nil
		}
		if item, ok := itemAt(m.cache.Items(), lx, ly); ok {
			m.drag.Start(item, lx, ly)
		}
		return m, nil

	case msg.Action == tea.MouseActionMotion && m.drag.Dragging():
		if pos, ok := m.drag.Move(lx, ly); ok {
			m.cache.ApplyMovedPosition(m.drag.DragItemID(), pos)
		}
		return m, nil

	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease:
		if res, ok := m.drag.Release(lx, ly); ok {
			var moveCmd tea.Cmd
			if res.Moved {
				m.cache.ApplyMovedPosition(res.ItemID, res.Position)
				moveCmd = moveItemCmd(m.client, m.cfg.CaseID, res.ItemID, res.Position)
			}
			// The click always dispatches; after a real drag it only
			// consumes the suppression token.
			nm, clickCmd := m.handleItemClick(res.ItemID)
			if moveCmd == nil {
				return nm, clickCmd
			}
			return nm, tea.Batch(moveCmd, clickCmd)
		}
		if !onCanvas {
			return m, nil
		}
		if item, ok := itemAt(m.cache.Items(), lx, ly); ok {
			return m.handleItemClick(item.ID)
		}
		if conn, ok := connectionAt(m.cache.Connections(), m.cache.Items(), lx, ly); ok {
			m.selectedConn = conn.ID
			m.selectedItem = 0
			return m, nil
		}
		// Background click clears selection.
		m.selectedConn = 0
		m.selectedItem = 0
		return m, nil
	}
	return m, nil
}

// handleItemClick runs the click behavior for an item: consumed suppression
// first (a drag must never read as a selection), then connection mode, then
// default behavior (evidence opens its detail view, notes just select).
func (m model) handleItemClick(itemID int64) (tea.Model, tea.Cmd) {
	if m.drag.ConsumeSuppression(itemID) {
		return m, nil
	}

	action, from, to := m.connect.ClickItem(itemID)
	switch action {
	case ConnectPicked:
		m.successMessage = ""
		m.errorMessage = ""
		return m, nil
	case ConnectCancelled:
		return m, nil
	case ConnectCreate:
		return m, createConnectionCmd(m.client, m.cfg.CaseID, from, to)
	}

	item, ok := m.cache.ItemByID(itemID)
	if !ok {
		return m, nil
	}
	// Evidence: first click selects (so 'y' can copy it), clicking the
	// selected item again opens its detail view.
	if item.Kind == KindEvidence && item.Evidence != nil && m.selectedItem == itemID {
		brief := *item.Evidence
		m.detailEvidence = &brief
		m.mode = ModeEvidenceDetail
		return m, nil
	}
	m.selectedItem = itemID
	m.selectedConn = 0
	return m, nil
}

func (m model) startExport() (tea.Model, tea.Cmd) {
	if !m.cache.Loaded() {
		m.errorMessage = (&ExportError{Reason: "board not loaded"}).Error()
		return m, nil
	}
	path := filepath.Join(m.cfg.ExportDir, exportFileName(m.cfg.CaseID))
	return m, exportCmd(m.cache.State(), path)
}

func (m model) View() string {
	switch m.mode {
	case ModeLoading:
		return m.loadingView()
	case ModeEvidencePick:
		return m.evidencePickView()
	case ModeEvidenceDetail:
		return m.evidenceDetailView()
	case ModeHelp:
		return m.helpView()
	}

	lines := renderBoardLines(m.cache.State(), m.transform(), renderOpts{
		pendingItem:  m.connect.Pending(),
		selectedItem: m.selectedItem,
		selectedConn: m.selectedConn,
		draggingItem: m.drag.DragItemID(),
	})

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine())
	return b.String()
}

func (m model) loadingView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Detective board - case #%d", m.cfg.CaseID)))
	b.WriteString("\n\n")
	if m.errorMessage != "" {
		b.WriteString(errorStyle.Render("ERROR: " + m.errorMessage))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("'r' retry, 'q' quit"))
	} else {
		b.WriteString(dimStyle.Render("Loading board..."))
	}
	return b.String()
}

func (m model) evidencePickView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Add evidence to the board"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(m.width, 1)))
	b.WriteString("\n")
	if len(m.evidence) == 0 {
		b.WriteString(dimStyle.Render("(no evidence recorded for this case)"))
		b.WriteString("\n")
	}
	for i, ev := range m.evidence {
		line := fmt.Sprintf("  #%d [%s] %s", ev.ID, ev.Type, ev.Title)
		if i == m.evidenceIndex {
			line = selectionStyle.Render("> " + line[2:])
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("j/k=navigate, Enter=pin to board, Esc=cancel"))
	if m.errorMessage != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("ERROR: " + m.errorMessage))
	}
	return b.String()
}

func (m model) evidenceDetailView() string {
	ev := m.detailEvidence
	if ev == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Evidence #%d", ev.ID)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Type:  %s\n", ev.Type))
	b.WriteString(fmt.Sprintf("Title: %s\n", ev.Title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Esc to return to the board"))
	return b.String()
}

func (m model) helpView() string {
	help := []string{
		"Detective board",
		"===============",
		"",
		"  mouse drag       Move an item (position is saved on release)",
		"  mouse click      Select item / pick connection endpoint",
		"  c                Toggle connection mode (click two items to link)",
		"  n                Pin a new note",
		"  e                Pin evidence from the case file",
		"  d                Delete selected item or connection",
		"  y                Copy selected item text to clipboard",
		"  x                Export board as PNG",
		"  r                Reload board from server",
		"  Esc              Clear selection / pending endpoint",
		"  q                Quit",
		"",
		"Press any key to close help",
	}
	return strings.Join(help, "\n")
}

func (m model) statusLine() string {
	if m.mode == ModeNoteInput {
		display := strings.ReplaceAll(m.noteText, "\n", " ")
		seg := statusStyle.Render(fmt.Sprintf("NOTE | %s█ | Ctrl+S=pin, Enter=newline, Esc=cancel", display))
		if m.errorMessage != "" {
			seg = errorStyle.Render("ERROR: "+m.errorMessage) + "  " + seg
		}
		return statusBar(m.width, seg)
	}
	if m.mode == ModeConfirm {
		var q string
		switch m.confirmAction {
		case ConfirmDeleteItem:
			q = "Remove this item and its connections? (y/n)"
		case ConfirmDeleteConnection:
			q = "Remove this connection? (y/n)"
		case ConfirmQuit:
			q = "Leave the board? (y/n)"
		}
		return statusBar(m.width, statusStyle.Render("CONFIRM | "+q))
	}

	segs := []string{statusStyle.Render(fmt.Sprintf(" case #%d ", m.cfg.CaseID))}
	if m.connect.Armed() {
		label := " LINK: pick first item "
		if m.connect.Pending() != 0 {
			label = fmt.Sprintf(" LINK: item %d -> pick second ", m.connect.Pending())
		}
		segs = append(segs, connModeStyle.Render(label))
	}
	if m.unreadCount > 0 {
		segs = append(segs, statusStyle.Render(fmt.Sprintf(" %d unread ", m.unreadCount)))
	}
	if m.errorMessage != "" {
		segs = append(segs, errorStyle.Render(" ERROR: "+m.errorMessage+" "))
	} else if m.successMessage != "" {
		segs = append(segs, successStyle.Render(" "+m.successMessage+" "))
	} else {
		segs = append(segs, statusStyle.Render(" ? help  q quit "))
	}
	return statusBar(m.width, segs...)
}
