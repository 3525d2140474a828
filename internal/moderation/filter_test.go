package moderation

import "testing"

func TestApply(t *testing.T) {
	f := New([]string{"darn", "heck", "ok"})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "whole word masked keeping first and last character",
			in:   "what the heck",
			want: "what the h**k",
		},
		{
			name: "case-insensitive match",
			in:   "DARN it",
			want: "D**N it",
		},
		{
			name: "substring inside a longer word untouched",
			in:   "checkers is fine",
			want: "checkers is fine",
		},
		{
			name: "short word fully masked",
			in:   "that is ok here",
			want: "that is ** here",
		},
		{
			name: "multiple occurrences all masked",
			in:   "darn darn",
			want: "d**n d**n",
		},
		{
			name: "clean text unchanged",
			in:   "hello wall",
			want: "hello wall",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Apply(tt.in); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestApply_WordBoundaryAtEdges(t *testing.T) {
	f := New([]string{"darn"})
	if got := f.Apply("darn"); got != "d**n" {
		t.Errorf("Apply at string edges = %q, want %q", got, "d**n")
	}
	if got := f.Apply("darn!"); got != "d**n!" {
		t.Errorf("Apply before punctuation = %q, want %q", got, "d**n!")
	}
}

func TestNew_SkipsBlankEntries(t *testing.T) {
	f := New([]string{"", "  ", "darn"})
	if len(f.patterns) != 1 {
		t.Fatalf("compiled %d patterns, want 1", len(f.patterns))
	}
}
