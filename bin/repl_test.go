package main

import "testing"

func TestOpensBlock(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"if x :> 1 then", true},
		{"IF x THEN", true},
		{"else_if x := 2 then", true},
		{"else", true},
		{"for i to 10", true},
		{"while i < 3", true},
		{"do", true},
		{"    if nested then", true},
		{"    x := 1 then", true},
		{"integer x : 5", false},
		{"-> x", false},
		{"x++", false},
		{"", false},
		{"# comment", false},
	}

	for _, tt := range tests {
		if got := opensBlock(tt.line); got != tt.want {
			t.Errorf("opensBlock(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
