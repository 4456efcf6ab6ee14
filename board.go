package main

// Logical canvas geometry. Items live on a fixed 2000x1200 canvas and render
// at a fixed 240x140; positions are clamped so an item never hangs off the
// edge. The store does not re-validate bounds.
const (
	canvasWidth  = 2000.0
	canvasHeight = 1200.0
	itemWidth    = 240.0
	itemHeight   = 140.0

	// Pointer travel beyond this many logical units in either axis turns a
	// click into a drag.
	dragThreshold = 3.0

	// Clicks within this distance of a connection line select it.
	connectionHitTolerance = 14.0
)

// Fan-out placement for items created without explicit coordinates.
const (
	placeBaseX = 60.0
	placeBaseY = 70.0
	placeStepX = 236.0
	placeStepY = 164.0
	placeCols  = 8
	placeRows  = 6
)

func clampPosition(p Position) Position {
	if p.X < 0 {
		p.X = 0
	}
	if p.X > canvasWidth-itemWidth {
		p.X = canvasWidth - itemWidth
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.Y > canvasHeight-itemHeight {
		p.Y = canvasHeight - itemHeight
	}
	return p
}

// nextPlacement computes the cascading default position for the n-th item
// (n = current item count). Successive creations step across and then down
// so new items fan out instead of stacking. Placement heuristic only;
// overlaps are allowed.
func nextPlacement(itemCount int) Position {
	col := itemCount % placeCols
	row := (itemCount / placeCols) % placeRows
	return Position{
		X: placeBaseX + float64(col)*placeStepX,
		Y: placeBaseY + float64(row)*placeStepY,
	}
}

func itemCenter(it BoardItem) (float64, float64) {
	return it.Position.X + itemWidth/2, it.Position.Y + itemHeight/2
}

// itemAt returns the topmost item whose body contains the point. Items later
// in the slice render on top, so the scan runs back to front.
func itemAt(items []BoardItem, x, y float64) (BoardItem, bool) {
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if x >= it.Position.X && x < it.Position.X+itemWidth &&
			y >= it.Position.Y && y < it.Position.Y+itemHeight {
			return it, true
		}
	}
	return BoardItem{}, false
}

// connectionEndpoints resolves a connection's line segment from its endpoint
// items' centers. ok is false when either endpoint is missing from the item
// set; renderers skip such connections rather than erroring.
func connectionEndpoints(conn BoardConnection, items []BoardItem) (x1, y1, x2, y2 float64, ok bool) {
	var from, to *BoardItem
	for i := range items {
		switch items[i].ID {
		case conn.FromItem:
			from = &items[i]
		case conn.ToItem:
			to = &items[i]
		}
	}
	if from == nil || to == nil {
		return 0, 0, 0, 0, false
	}
	x1, y1 = itemCenter(*from)
	x2, y2 = itemCenter(*to)
	return x1, y1, x2, y2, true
}

// connectionAt returns the connection whose rendered line passes closest to
// the point, within tolerance. Connections under an item body are not
// matched; hit-testing runs after itemAt misses.
func connectionAt(conns []BoardConnection, items []BoardItem, x, y float64) (BoardConnection, bool) {
	best := connectionHitTolerance * connectionHitTolerance
	var found BoardConnection
	ok := false
	for _, conn := range conns {
		x1, y1, x2, y2, present := connectionEndpoints(conn, items)
		if !present {
			continue
		}
		px, py := closestPointOnSegment(x1, y1, x2, y2, x, y)
		dx, dy := x-px, y-py
		if d := dx*dx + dy*dy; d <= best {
			best = d
			found = conn
			ok = true
		}
	}
	return found, ok
}

// closestPointOnSegment projects the point onto the segment and clamps to
// the segment's extent.
func closestPointOnSegment(x1, y1, x2, y2, px, py float64) (float64, float64) {
	dx := x2 - x1
	dy := y2 - y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return x1, y1
	}
	t := ((px-x1)*dx + (py-y1)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return x1 + t*dx, y1 + t*dy
}
