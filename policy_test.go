package avs2dec

import "testing"

func TestAlwaysReady_AlwaysTrue(t *testing.T) {
	var p AlwaysReady
	if !p.Ready(0, false) || !p.Ready(100, true) {
		t.Fatal("AlwaysReady must always report true")
	}
}

func TestBacklogThreshold(t *testing.T) {
	p := BacklogThreshold{N: 4}
	if p.Ready(3, false) {
		t.Fatal("expected not ready below threshold")
	}
	if !p.Ready(4, false) {
		t.Fatal("expected ready at threshold")
	}
	if !p.Ready(0, true) {
		t.Fatal("expected ready while flushing regardless of backlog")
	}
}

func TestLuaPolicy_EvaluatesScript(t *testing.T) {
	p, err := NewLuaPolicy(`
		function ready(backlog, flushing)
			return flushing or backlog >= 5
		end
	`)
	if err != nil {
		t.Fatalf("NewLuaPolicy: %v", err)
	}
	defer p.Close()

	if p.Ready(4, false) {
		t.Fatal("expected not ready below scripted threshold")
	}
	if !p.Ready(5, false) {
		t.Fatal("expected ready at scripted threshold")
	}
	if !p.Ready(0, true) {
		t.Fatal("expected ready while flushing")
	}
}

func TestLuaPolicy_MissingReadyFunctionErrors(t *testing.T) {
	_, err := NewLuaPolicy(`x = 1`)
	if err == nil {
		t.Fatal("expected an error for a script without a ready function")
	}
}
