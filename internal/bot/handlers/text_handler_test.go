package handlers

import "testing"

func TestLooksLikeQuestion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "starts with apa", input: "Apa itu saham blue chip", want: true},
		{name: "starts with bagaimana", input: "Bagaimana cara membeli saham", want: true},
		{name: "ends with question mark", input: "Saham BBCA layak dibeli?", want: true},
		{name: "question word mid sentence without mark", input: "Saya mau tahu apa itu saham", want: false},
		{name: "too short", input: "Apa itu?", want: false},
		{name: "ticker code", input: "BBCA", want: false},
		{name: "plain statement", input: "Saya mau beli saham bank besok pagi", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := looksLikeQuestion(tt.input); got != tt.want {
				t.Errorf("looksLikeQuestion(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLooksLikeStockCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "four letter ticker", input: "BBCA", want: true},
		{name: "lowercase ticker", input: "goto", want: true},
		{name: "too long", input: "BBCABBCA", want: false},
		{name: "contains digits", input: "BB12", want: false},
		{name: "contains space", input: "BB CA", want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := looksLikeStockCode(tt.input); got != tt.want {
				t.Errorf("looksLikeStockCode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
