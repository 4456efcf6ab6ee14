package main

// ConnectAction is the outcome of a click routed to connection mode.
type ConnectAction int

const (
	// ConnectIgnored: connection mode is off; the click falls through to
	// normal item behavior.
	ConnectIgnored ConnectAction = iota
	// ConnectPicked: the click selected the first endpoint.
	ConnectPicked
	// ConnectCancelled: re-clicking the pending endpoint deselected it.
	ConnectCancelled
	// ConnectCreate: a second, distinct endpoint was clicked; the caller
	// issues the create-connection request for (From, To).
	ConnectCreate
)

// ConnectionMode is the two-click linking state machine:
// Disabled -> Armed(no endpoint) -> Armed(pending endpoint). Connecting an
// item to itself is prevented by construction: the self-click cancels.
type ConnectionMode struct {
	armed   bool
	pending int64 // 0 = no endpoint selected
}

func (cm *ConnectionMode) Armed() bool    { return cm.armed }
func (cm *ConnectionMode) Pending() int64 { return cm.pending }

// Toggle flips connection mode. Turning it off clears any pending endpoint.
func (cm *ConnectionMode) Toggle() {
	cm.armed = !cm.armed
	cm.pending = 0
}

// Disable leaves connection mode regardless of current state.
func (cm *ConnectionMode) Disable() {
	cm.armed = false
	cm.pending = 0
}

// ClickItem routes an item click. For ConnectCreate the pending endpoint is
// retained until Created is called, so a failed request can be retried by
// clicking the second endpoint again without re-selecting the first.
func (cm *ConnectionMode) ClickItem(itemID int64) (ConnectAction, int64, int64) {
	if !cm.armed {
		return ConnectIgnored, 0, 0
	}
	if cm.pending == 0 {
		cm.pending = itemID
		return ConnectPicked, itemID, 0
	}
	if cm.pending == itemID {
		cm.pending = 0
		return ConnectCancelled, 0, 0
	}
	return ConnectCreate, cm.pending, itemID
}

// Created acknowledges a successful create: back to armed with no endpoint.
func (cm *ConnectionMode) Created() {
	cm.pending = 0
}
