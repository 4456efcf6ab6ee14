package main

import "math"

// DragSession tracks one in-progress pointer move of a single item. Pointer
// coordinates arrive already converted to logical canvas units.
type DragSession struct {
	ItemID int64
	startX float64
	startY float64
	origin Position
	// Moved flips once pointer travel exceeds dragThreshold in either axis,
	// distinguishing an intentional drag from a click with pointer jitter.
	Moved bool
}

// DragResult is what a completed session commits: the final clamped
// position, and whether it was a drag at all.
type DragResult struct {
	ItemID   int64
	Position Position
	Moved    bool
}

// DragController owns the Idle -> Dragging -> Idle cycle. At most one
// session exists at a time. After a drag ends it records a one-shot click
// suppression for the item (the click that follows release must not select
// or navigate) and marks the item's move request in flight so a new drag on
// the same item cannot start before the first move reconciles.
type DragController struct {
	session  *DragSession
	inFlight map[int64]bool
	suppress map[int64]bool
}

func NewDragController() *DragController {
	return &DragController{
		inFlight: make(map[int64]bool),
		suppress: make(map[int64]bool),
	}
}

func (d *DragController) Dragging() bool { return d.session != nil }

// DragItemID returns the id of the item being dragged, or 0 when idle.
func (d *DragController) DragItemID() int64 {
	if d.session == nil {
		return 0
	}
	return d.session.ItemID
}

// Start begins a session for the item under the pointer. Refused while
// another session is active or while the item's previous move is still
// unreconciled.
func (d *DragController) Start(item BoardItem, pointerX, pointerY float64) bool {
	if d.session != nil || d.inFlight[item.ID] {
		return false
	}
	d.session = &DragSession{
		ItemID: item.ID,
		startX: pointerX,
		startY: pointerY,
		origin: item.Position,
	}
	return true
}

// Move computes the clamped candidate position for the current pointer.
// The unclamped delta decides the moved flag, so dragging hard against a
// canvas edge still counts as a drag.
func (d *DragController) Move(pointerX, pointerY float64) (Position, bool) {
	if d.session == nil {
		return Position{}, false
	}
	dx := pointerX - d.session.startX
	dy := pointerY - d.session.startY
	if math.Abs(dx) > dragThreshold || math.Abs(dy) > dragThreshold {
		d.session.Moved = true
	}
	pos := clampPosition(Position{
		X: d.session.origin.X + dx,
		Y: d.session.origin.Y + dy,
	})
	return pos, true
}

// Release ends the session. For a real drag it arms the click suppression
// and marks the move in flight; the caller then issues the move-persist
// request with the returned position. For a click (moved == false) the
// caller dispatches the item's click behavior instead.
func (d *DragController) Release(pointerX, pointerY float64) (DragResult, bool) {
	if d.session == nil {
		return DragResult{}, false
	}
	pos, _ := d.Move(pointerX, pointerY)
	res := DragResult{
		ItemID:   d.session.ItemID,
		Position: pos,
		Moved:    d.session.Moved,
	}
	if res.Moved {
		d.suppress[res.ItemID] = true
		d.inFlight[res.ItemID] = true
	}
	d.session = nil
	return res, true
}

// ConsumeSuppression reports and clears the one-shot suppression token for
// an item. The very next click on a just-dragged item consumes it and is
// ignored.
func (d *DragController) ConsumeSuppression(itemID int64) bool {
	if d.suppress[itemID] {
		delete(d.suppress, itemID)
		return true
	}
	return false
}

// FinishMove clears the in-flight marker once the item's move request
// resolved, successfully or not.
func (d *DragController) FinishMove(itemID int64) {
	delete(d.inFlight, itemID)
}

// MoveInFlight reports whether the item still awaits move reconciliation.
func (d *DragController) MoveInFlight(itemID int64) bool {
	return d.inFlight[itemID]
}
