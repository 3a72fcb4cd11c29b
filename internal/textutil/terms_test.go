package textutil

import (
	"math"
	"testing"
)

func TestSimilarityEmpty(t *testing.T) {
	words := NewTerms("hello world")
	for name, pair := range map[string][2]Terms{
		"both empty":  {NewTerms(""), NewTerms("")},
		"left empty":  {NewTerms("a b c"), words},
		"right empty": {words, nil},
	} {
		if got := pair[0].Similarity(pair[1]); got != 0 {
			t.Errorf("%s: Similarity() = %v, want 0", name, got)
		}
	}
}

func TestSimilarityBounds(t *testing.T) {
	a := NewTerms("the quick brown fox jumps over the lazy dog")
	if got := a.Similarity(NewTerms("The quick brown fox jumps over the lazy dog!")); math.Abs(got-1) > 1e-9 {
		t.Errorf("same wording = %v, want 1", got)
	}
	if got := a.Similarity(NewTerms("completely unrelated sentence here")); got != 0 {
		t.Errorf("disjoint wording = %v, want 0", got)
	}

	b := NewTerms("the quick red fox")
	ab, ba := a.Similarity(b), b.Similarity(a)
	if ab <= 0 || ab >= 1 {
		t.Errorf("partial overlap = %v, want between 0 and 1", ab)
	}
	if math.Abs(ab-ba) > 1e-12 {
		t.Errorf("similarity is not symmetric: %v vs %v", ab, ba)
	}
}

func TestNewTermsCounts(t *testing.T) {
	terms := NewTerms("Agents plan. Agents act, a b.")
	if terms.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (%v)", terms.Len(), terms)
	}
	if terms["agents"] != 2 || terms["plan"] != 1 || terms["act"] != 1 {
		t.Fatalf("unexpected counts %v", terms)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple words",
			input: "Hello World",
			want:  []string{"hello", "world"},
		},
		{
			name:  "filters single runes",
			input: "a to the quick fox",
			want:  []string{"to", "the", "quick", "fox"},
		},
		{
			name:  "handles punctuation",
			input: "Hello, World! How are you?",
			want:  []string{"hello", "world", "how", "are", "you"},
		},
		{
			name:  "handles numbers",
			input: "test123 456test",
			want:  []string{"test123", "456test"},
		},
		{
			name:  "keeps devanagari vowel signs",
			input: "नमस्ते दोस्तों, आज",
			want:  []string{"नमस्ते", "दोस्तों", "आज"},
		},
		{
			name:  "keeps tamil words",
			input: "வணக்கம் நண்பர்களே!",
			want:  []string{"வணக்கம்", "நண்பர்களே"},
		},
		{
			name:  "empty string",
			input: "",
			want:  []string{},
		},
		{
			name:  "only short tokens",
			input: "a b c",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize() = %v (len %d), want %v (len %d)",
					got, len(got), tt.want, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSimilarityRepeatedIntroduction(t *testing.T) {
	intro := NewTerms(`Welcome to Future Proof with AI, the podcast where we explore
		practical ways to build with artificial intelligence. I'm Alex, and with me is Maya.`)

	repeated := NewTerms(`Welcome back to Future Proof with AI, the podcast where we explore
		practical ways to build with artificial intelligence. I'm Alex, here with Maya.`)

	body := NewTerms(`Today we are looking at how a small logistics company cut its
		invoice processing time in half with a document extraction model.`)

	if sim := intro.Similarity(repeated); sim < 0.8 {
		t.Errorf("repeated intro similarity = %v, want >= 0.8", sim)
	}
	if sim := intro.Similarity(body); sim >= 0.5 {
		t.Errorf("body similarity = %v, should be < 0.5", sim)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AI Agents", "AI_Agents"},
		{"  RAG:  a primer ", "RAG-_a_primer"},
		{"What is MCP?", "What_is_MCP"},
		{"एआई एजेंट", "एआई_एजेंट"},
		{"   ", "episode"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName(` a/b\c:d*e?"<>| `); got != "a-b-c-d-e" {
		t.Errorf("SanitizeFileName() = %q", got)
	}
}
