package main

// BoardCache is the client-owned mirror of one case's board. It is the
// single shared mutable resource on a board page: every handler mutates it
// through the Apply methods below, never through raw collections. All
// methods run on the UI goroutine; each call is atomic from the caller's
// perspective.
//
// Optimistic writes (ApplyMovedPosition) are reconciled against the server
// record on success and discarded by a wholesale Replace on failure; there
// is no fine-grained rollback.
type BoardCache struct {
	caseID int64
	state  BoardState
	loaded bool
}

func NewBoardCache(caseID int64) *BoardCache {
	return &BoardCache{caseID: caseID}
}

func (b *BoardCache) CaseID() int64 { return b.caseID }
func (b *BoardCache) Loaded() bool  { return b.loaded }

// Replace adopts a freshly fetched BoardState wholesale, superseding any
// optimistic local state.
func (b *BoardCache) Replace(state BoardState) {
	b.state = state
	b.loaded = true
}

func (b *BoardCache) State() BoardState              { return b.state }
func (b *BoardCache) Items() []BoardItem             { return b.state.Items }
func (b *BoardCache) Connections() []BoardConnection { return b.state.Connections }

func (b *BoardCache) ItemByID(id int64) (BoardItem, bool) {
	for _, it := range b.state.Items {
		if it.ID == id {
			return it, true
		}
	}
	return BoardItem{}, false
}

// ApplyCreatedItem appends an item returned by a successful create call.
func (b *BoardCache) ApplyCreatedItem(item BoardItem) {
	b.state.Items = append(b.state.Items, item)
}

// ApplyMovedPosition updates an item's position locally, ahead of the
// remote confirmation, so the view tracks the pointer live.
func (b *BoardCache) ApplyMovedPosition(itemID int64, pos Position) {
	for i := range b.state.Items {
		if b.state.Items[i].ID == itemID {
			b.state.Items[i].Position = pos
			return
		}
	}
}

// ReconcileItem adopts the exact server record for an item after a
// successful mutation, allowing server-side normalization to win.
func (b *BoardCache) ReconcileItem(item BoardItem) {
	for i := range b.state.Items {
		if b.state.Items[i].ID == item.ID {
			b.state.Items[i] = item
			return
		}
	}
}

// ApplyDeletedItem removes the item and prunes every connection touching it
// in the same operation, leaving no dangling edges.
func (b *BoardCache) ApplyDeletedItem(itemID int64) {
	items := b.state.Items[:0]
	for _, it := range b.state.Items {
		if it.ID != itemID {
			items = append(items, it)
		}
	}
	b.state.Items = items

	conns := b.state.Connections[:0]
	for _, c := range b.state.Connections {
		if !c.Touches(itemID) {
			conns = append(conns, c)
		}
	}
	b.state.Connections = conns
}

// ApplyCreatedConnection appends a connection idempotently: re-processing a
// response carrying an id already present is a no-op.
func (b *BoardCache) ApplyCreatedConnection(conn BoardConnection) {
	for _, c := range b.state.Connections {
		if c.ID == conn.ID {
			return
		}
	}
	b.state.Connections = append(b.state.Connections, conn)
}

func (b *BoardCache) ApplyDeletedConnection(connectionID int64) {
	conns := b.state.Connections[:0]
	for _, c := range b.state.Connections {
		if c.ID != connectionID {
			conns = append(conns, c)
		}
	}
	b.state.Connections = conns
}
