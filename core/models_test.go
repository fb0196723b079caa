package core

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Kind
		wantErr bool
	}{
		{name: "person", input: "person", want: KindPerson},
		{name: "event", input: "event", want: KindEvent},
		{name: "mixed case with spaces", input: "  Event ", want: KindEvent},
		{name: "unknown", input: "dynasty", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKind) {
					t.Errorf("ParseKind(%q) error = %v, want %v", tt.input, err, ErrInvalidKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if KindPerson.String() != "person" {
		t.Errorf("KindPerson.String() = %q", KindPerson.String())
	}
	if KindEvent.String() != "event" {
		t.Errorf("KindEvent.String() = %q", KindEvent.String())
	}
	if Kind(42).String() != "unknown" {
		t.Errorf("Kind(42).String() = %q", Kind(42).String())
	}
}

func TestEntity_Names(t *testing.T) {
	e := &Entity{Name: "Hồ Chí Minh", Aliases: []string{"Bác Hồ", "Nguyễn Ái Quốc"}}
	got := e.Names()
	want := []string{"Hồ Chí Minh", "Bác Hồ", "Nguyễn Ái Quốc"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEntity_HasEmbeddingAndDescription(t *testing.T) {
	e := &Entity{Name: "Trần Hưng Đạo"}
	if e.HasEmbedding() {
		t.Error("HasEmbedding() = true for nil embedding")
	}
	if e.HasDescription() {
		t.Error("HasDescription() = true for nil description")
	}

	e.Embedding = []float32{}
	if e.HasEmbedding() {
		t.Error("HasEmbedding() = true for empty embedding")
	}

	e.Description = StringPtr("   ")
	if e.HasDescription() {
		t.Error("HasDescription() = true for blank description")
	}

	e.Embedding = []float32{0.1, 0.2}
	e.Description = StringPtr("Danh tướng nhà Trần")
	if !e.HasEmbedding() || !e.HasDescription() {
		t.Error("expected embedding and description to be present")
	}
}
