package commands

import (
	"errors"
	"testing"

	"taskboard/internal/service"
)

func TestParseTaskRef_Number(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 5 || ref.ID != "" {
		t.Errorf("got %+v, want Num 5", ref)
	}
}

func TestParseTaskRef_ID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"64f1c2a9e1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "64f1c2a9e1" || ref.Num != 0 {
		t.Errorf("got %+v, want ID", ref)
	}
}

func TestParseTaskRef_Required(t *testing.T) {
	for _, args := range [][]string{nil, {}, {"  "}} {
		_, err := ParseTaskRef(args)
		if !errors.Is(err, ErrTaskRefRequired) {
			t.Errorf("ParseTaskRef(%q) = %v, want ErrTaskRefRequired", args, err)
		}
	}
}

func TestParseTaskRef_Zero(t *testing.T) {
	_, err := ParseTaskRef([]string{"0"})
	if err == nil || err.Error() != "task number out of range: 0" {
		t.Errorf("got %v", err)
	}
}

func TestTaskRef_Resolve(t *testing.T) {
	tasks := []service.Task{{ID: "a", Title: "First"}, {ID: "b", Title: "Second"}}

	tests := []struct {
		ref     TaskRef
		wantID  string
		wantErr string
	}{
		{TaskRef{Num: 1}, "a", ""},
		{TaskRef{Num: 2}, "b", ""},
		{TaskRef{Num: 3}, "", "task number out of range: 3"},
		{TaskRef{ID: "b"}, "b", ""},
		{TaskRef{ID: "zz"}, "", "task not found: zz"},
	}
	for _, tt := range tests {
		got, err := tt.ref.Resolve(tasks)
		if tt.wantErr != "" {
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Resolve(%+v) error = %v, want %q", tt.ref, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("Resolve(%+v) unexpected error: %v", tt.ref, err)
			continue
		}
		if got.ID != tt.wantID {
			t.Errorf("Resolve(%+v) = %s, want %s", tt.ref, got.ID, tt.wantID)
		}
	}
}
