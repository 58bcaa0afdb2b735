package prompt

import (
	"strings"
	"testing"

	"github.com/plantdoc/PlantRAG/internal/domain/chatModel"
)

func TestAssemble_RoleAlternation(t *testing.T) {
	history := []string{"a", "b", "c", "d"}

	p := Assemble(history, "ctx")

	want := []chatModel.Role{chatModel.RoleUser, chatModel.RoleModel, chatModel.RoleUser, chatModel.RoleModel}
	if len(p.Turns) != len(want) {
		t.Fatalf("got %d turns, want %d", len(p.Turns), len(want))
	}
	for i, turn := range p.Turns {
		if turn.Role != want[i] {
			t.Errorf("turn %d role = %s, want %s", i, turn.Role, want[i])
		}
		if turn.Text != history[i] {
			t.Errorf("turn %d text = %q, want %q", i, turn.Text, history[i])
		}
	}
}

func TestAssemble_ContextAppearsOnceInSystem(t *testing.T) {
	context := "Blight is a fungal disease."
	p := Assemble([]string{"What is blight?"}, context)

	if got := strings.Count(p.System, context); got != 1 {
		t.Errorf("context appears %d times in system instruction, want 1", got)
	}
	for i, turn := range p.Turns {
		if strings.Contains(turn.Text, context) {
			t.Errorf("context leaked into turn %d", i)
		}
	}
}

func TestFlatten_SystemRoleFormat(t *testing.T) {
	p := Assemble([]string{"q", "a"}, "ctx")

	turns := p.Flatten(FormatSystemRole)
	if len(turns) != 3 {
		t.Fatalf("got %d turns, want 3", len(turns))
	}
	if turns[0].Role != chatModel.RoleSystem {
		t.Errorf("leading role = %s, want system", turns[0].Role)
	}
	if turns[0].Text != p.System {
		t.Error("system turn does not carry the instruction")
	}
	if turns[1].Role != chatModel.RoleUser || turns[2].Role != chatModel.RoleModel {
		t.Errorf("history roles not preserved: %s, %s", turns[1].Role, turns[2].Role)
	}
}

func TestFlatten_EmbeddedFormat(t *testing.T) {
	p := Assemble([]string{"q"}, "ctx")

	turns := p.Flatten(FormatEmbedded)
	if turns[0].Role != chatModel.RoleUser {
		t.Errorf("embedded format leading role = %s, want user", turns[0].Role)
	}
	if !strings.Contains(turns[0].Text, "ctx") {
		t.Error("embedded leading turn missing context")
	}
}

func TestAssemble_EmptyHistory(t *testing.T) {
	p := Assemble(nil, "ctx")
	if len(p.Turns) != 0 {
		t.Errorf("expected no turns for empty history, got %d", len(p.Turns))
	}
	if turns := p.Flatten(FormatSystemRole); len(turns) != 1 {
		t.Errorf("expected lone system turn, got %d", len(turns))
	}
}
