package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientGetBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/cases/42/board/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 7, "case": 42,
			"items": [
				{"id": 1, "kind": "note", "note_text": "alibi?", "evidence": null, "position": {"x": 60, "y": 70}},
				{"id": 2, "kind": "evidence", "note_text": "", "evidence": {"id": 5, "type": "forensic", "title": "tire print"}, "position": {"x": 296, "y": 70}}
			],
			"connections": [{"id": 9, "from_item": 1, "to_item": 2}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok123")
	state, err := c.GetBoard(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if state.CaseID != 42 || len(state.Items) != 2 || len(state.Connections) != 1 {
		t.Fatalf("state = %+v", state)
	}
	if state.Items[1].Evidence == nil || state.Items[1].Evidence.Title != "tire print" {
		t.Errorf("evidence brief = %+v", state.Items[1].Evidence)
	}
	if state.Items[0].Position != (Position{X: 60, Y: 70}) {
		t.Errorf("position = %+v", state.Items[0].Position)
	}
}

func TestClientCreateItemPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/cases/42/board/items/" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["kind"] != "note" || body["note_text"] != "check the alibi" {
			t.Errorf("body = %v", body)
		}
		if _, ok := body["evidence_id"]; ok {
			t.Error("evidence_id must be omitted for notes")
		}
		pos := body["position"].(map[string]any)
		if pos["x"] != 60.0 || pos["y"] != 70.0 {
			t.Errorf("position = %v", pos)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 11, "kind": "note", "note_text": "check the alibi", "evidence": null, "position": {"x": 60, "y": 70}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	item, err := c.CreateItem(context.Background(), 42, CreateItemRequest{
		Kind:     KindNote,
		NoteText: "check the alibi",
		Position: Position{X: 60, Y: 70},
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.ID != 11 {
		t.Errorf("id = %d, want 11", item.ID)
	}
}

func TestClientMoveItemPatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/cases/42/board/items/11/" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body MoveItemRequest
		json.NewDecoder(r.Body).Decode(&body)
		if body.Position != (Position{X: 300, Y: 400}) {
			t.Errorf("position = %+v", body.Position)
		}
		w.Write([]byte(`{"id": 11, "kind": "note", "note_text": "x", "position": {"x": 300, "y": 400}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	item, err := c.MoveItem(context.Background(), 42, 11, Position{X: 300, Y: 400})
	if err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if item.Position.X != 300 {
		t.Errorf("position = %+v", item.Position)
	}
}

func TestClientDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Cannot connect an item to itself.", "code": "self_connection", "fields": {"to_item": "same as from_item"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, err := c.CreateConnection(context.Background(), 42, 1, 1)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T is not an APIError", err)
	}
	if apiErr.Status != 400 || apiErr.Code != "self_connection" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if apiErr.Detail != "Cannot connect an item to itself." {
		t.Errorf("detail = %q", apiErr.Detail)
	}
	if apiErr.Fields["to_item"] != "same as from_item" {
		t.Errorf("fields = %v", apiErr.Fields)
	}
}

func TestClientErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>nginx</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, err := c.GetBoard(context.Background(), 42)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T is not an APIError", err)
	}
	if apiErr.Detail != "Bad Gateway" {
		t.Errorf("detail = %q, want Bad Gateway", apiErr.Detail)
	}
}

func TestClientUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Authentication credentials were not provided.", "code": "not_authenticated"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.GetBoard(context.Background(), 42)
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized = false for %v", err)
	}
}

func TestClientDeleteItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/cases/42/board/items/11/" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	if err := c.DeleteItem(context.Background(), 42, 11); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
}

func TestClientListCaseEvidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/evidence/" || r.URL.Query().Get("case") != "42" {
			t.Errorf("url = %s", r.URL.String())
		}
		w.Write([]byte(`[{"id": 5, "type": "witness_statement", "title": "Neighbor account"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	briefs, err := c.ListCaseEvidence(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListCaseEvidence: %v", err)
	}
	if len(briefs) != 1 || briefs[0].Type != "witness_statement" {
		t.Errorf("briefs = %+v", briefs)
	}
}

func TestClientUnreadCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notifications/unread-count/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"count": 3}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	count, err := c.UnreadCount(context.Background())
	if err != nil || count != 3 {
		t.Errorf("count = %d, err = %v", count, err)
	}
}

func TestClientReplaceBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/cases/42/board/" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body BoardWrite
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(body.Items) != 2 || len(body.Connections) != 1 {
			t.Errorf("body = %+v", body)
		}
		if body.Connections[0].FromIndex != 0 || body.Connections[0].ToIndex != 1 {
			t.Errorf("connections = %+v", body.Connections)
		}
		w.Write([]byte(`{"id": 7, "case": 42, "items": [{"id": 1}, {"id": 2}], "connections": [{"id": 9, "from_item": 1, "to_item": 2}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	write := BoardWrite{
		Items: []CreateItemRequest{
			{Kind: KindNote, NoteText: "a", Position: Position{X: 60, Y: 70}},
			{Kind: KindNote, NoteText: "b", Position: Position{X: 296, Y: 70}},
		},
		Connections: []IndexConnection{{FromIndex: 0, ToIndex: 1}},
	}
	state, err := c.ReplaceBoard(context.Background(), 42, write)
	if err != nil {
		t.Fatalf("ReplaceBoard: %v", err)
	}
	if len(state.Items) != 2 || len(state.Connections) != 1 {
		t.Errorf("state = %+v", state)
	}
}

func TestClientTrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cases/1/board/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"id": 1, "case": 1, "items": [], "connections": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok")
	if _, err := c.GetBoard(context.Background(), 1); err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
}
