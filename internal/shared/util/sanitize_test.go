package util

import (
	"errors"
	"testing"
)

func TestCheckFlatName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain", input: "foo.png"},
		{name: "double dot inside", input: "foo..png"},
		{name: "no extension", input: "foo.foo"},
		{name: "spaces kept", input: "my cat.jpeg"},
		{name: "empty", input: "", wantErr: true},
		{name: "dot", input: ".", wantErr: true},
		{name: "dot dot", input: "..", wantErr: true},
		{name: "slash", input: "../etc/passwd", wantErr: true},
		{name: "backslash", input: `a\b.png`, wantErr: true},
		{name: "nul", input: "a\x00.png", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := CheckFlatName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidName) {
				t.Fatalf("CheckFlatName(%q) = %v, want ErrInvalidName", tt.input, err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("CheckFlatName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}
