package main

import "testing"

func dragTestItem(id int64, x, y float64) BoardItem {
	return BoardItem{ID: id, Kind: KindNote, NoteText: "n", Position: Position{X: x, Y: y}}
}

func TestDragClickUnderThreshold(t *testing.T) {
	d := NewDragController()
	item := dragTestItem(1, 100, 100)

	if !d.Start(item, 150, 150) {
		t.Fatal("Start refused")
	}
	d.Move(152, 151)
	res, ok := d.Release(153, 152)
	if !ok {
		t.Fatal("Release returned no result")
	}
	if res.Moved {
		t.Error("3 units of travel should stay a click")
	}
	if d.ConsumeSuppression(1) {
		t.Error("click must not arm suppression")
	}
	if d.MoveInFlight(1) {
		t.Error("click must not mark a move in flight")
	}
}

func TestDragBeyondThreshold(t *testing.T) {
	d := NewDragController()
	item := dragTestItem(1, 100, 100)

	d.Start(item, 150, 150)
	pos, ok := d.Move(154, 150)
	if !ok {
		t.Fatal("Move returned no position")
	}
	if pos.X != 104 || pos.Y != 100 {
		t.Errorf("position = %+v, want {104 100}", pos)
	}
	res, _ := d.Release(154, 150)
	if !res.Moved {
		t.Error("4 units of travel should be a drag")
	}
	if res.Position.X != 104 || res.Position.Y != 100 {
		t.Errorf("release position = %+v, want {104 100}", res.Position)
	}
}

func TestDragClampsToCanvas(t *testing.T) {
	d := NewDragController()
	item := dragTestItem(1, 10, 10)

	d.Start(item, 20, 20)
	pos, _ := d.Move(-500, -500)
	if pos.X != 0 || pos.Y != 0 {
		t.Errorf("over top-left: %+v, want {0 0}", pos)
	}
	pos, _ = d.Move(5000, 5000)
	if pos.X != canvasWidth-itemWidth || pos.Y != canvasHeight-itemHeight {
		t.Errorf("over bottom-right: %+v, want {%v %v}",
			pos, canvasWidth-itemWidth, canvasHeight-itemHeight)
	}
	// The unclamped delta still counts as a drag even pinned to the edge.
	res, _ := d.Release(-500, -500)
	if !res.Moved {
		t.Error("edge-pinned drag should still report moved")
	}
	if res.Position.X != 0 || res.Position.Y != 0 {
		t.Errorf("release position = %+v, want {0 0}", res.Position)
	}
}

func TestDragSuppressionIsOneShot(t *testing.T) {
	d := NewDragController()
	d.Start(dragTestItem(7, 100, 100), 120, 120)
	d.Move(200, 200)
	res, _ := d.Release(200, 200)
	if !res.Moved {
		t.Fatal("expected a drag")
	}

	if !d.ConsumeSuppression(7) {
		t.Error("first click after drag must be suppressed")
	}
	if d.ConsumeSuppression(7) {
		t.Error("suppression must not survive a second click")
	}
	if d.ConsumeSuppression(8) {
		t.Error("suppression must be per item")
	}
}

func TestDragRefusedWhileMoveInFlight(t *testing.T) {
	d := NewDragController()
	item := dragTestItem(3, 100, 100)
	d.Start(item, 110, 110)
	d.Move(300, 300)
	d.Release(300, 300)

	if d.Start(item, 290, 290) {
		t.Error("Start must refuse while the item's move is unreconciled")
	}
	// A different item is free to drag.
	if !d.Start(dragTestItem(4, 500, 500), 510, 510) {
		t.Error("Start refused for an unrelated item")
	}
	d.Release(510, 510)

	d.FinishMove(3)
	if !d.Start(item, 290, 290) {
		t.Error("Start refused after reconciliation")
	}
}

func TestDragSingleSession(t *testing.T) {
	d := NewDragController()
	d.Start(dragTestItem(1, 0, 0), 10, 10)
	if d.Start(dragTestItem(2, 500, 500), 510, 510) {
		t.Error("second session started while one is active")
	}
	if d.DragItemID() != 1 {
		t.Errorf("DragItemID = %d, want 1", d.DragItemID())
	}
	d.Release(10, 10)
	if d.Dragging() {
		t.Error("still dragging after release")
	}
}

func TestDragMoveWithoutSession(t *testing.T) {
	d := NewDragController()
	if _, ok := d.Move(10, 10); ok {
		t.Error("Move without a session should report false")
	}
	if _, ok := d.Release(10, 10); ok {
		t.Error("Release without a session should report false")
	}
}
