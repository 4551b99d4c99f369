package protocol

import (
	"encoding/json"
	"testing"
)

func TestNewRequest(t *testing.T) {
	req, err := NewRequest("req_1", MethodListTools, &ListToolsParams{})
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	if req.JSONRPC != JSONRPCVersion {
		t.Errorf("expected jsonrpc %q, got %q", JSONRPCVersion, req.JSONRPC)
	}
	if req.Method != MethodListTools {
		t.Errorf("expected method %q, got %q", MethodListTools, req.Method)
	}
}

func TestListResultCursorRoundTrip(t *testing.T) {
	// A terminal page omits nextCursor entirely.
	terminal := ListToolsResult{Tools: []Tool{{Name: "echo"}}}
	data, err := json.Marshal(terminal)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, present := raw["nextCursor"]; present {
		t.Error("expected terminal page to omit nextCursor")
	}

	// A nonconforming server may still send an explicit empty cursor; the
	// decoded value must be indistinguishable from an absent one.
	var fromEmpty, fromAbsent ListToolsResult
	if err := json.Unmarshal([]byte(`{"tools":[],"nextCursor":""}`), &fromEmpty); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"tools":[]}`), &fromAbsent); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if fromEmpty.NextCursor != fromAbsent.NextCursor {
		t.Errorf("empty and absent cursors decode differently: %q vs %q", fromEmpty.NextCursor, fromAbsent.NextCursor)
	}
}

func TestErrorResponse(t *testing.T) {
	resp := NewErrorResponse(7, InvalidParams, "bad cursor", nil)
	if resp.Error == nil {
		t.Fatal("expected error to be set")
	}
	if resp.Error.Code != InvalidParams {
		t.Errorf("expected code %d, got %d", InvalidParams, resp.Error.Code)
	}
	if resp.Error.Error() == "" {
		t.Error("expected non-empty error string")
	}
}
