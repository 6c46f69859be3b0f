package ingest

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "mixed punctuation and numerals",
			text: "Cat 42 dogs! a big-dog",
			want: []string{"big", "cat", "dog", "dogs"},
		},
		{
			name: "duplicates collapse case-insensitively",
			text: "Fox fox FOX",
			want: []string{"fox"},
		},
		{
			name: "single letters dropped",
			text: "a I x yz",
			want: []string{"yz"},
		},
		{
			name: "hyphen splits",
			text: "well-known",
			want: []string{"known", "well"},
		},
		{
			name: "no candidates",
			text: "1 2 3 ... !?",
			want: nil,
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
