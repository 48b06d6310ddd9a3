package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedCards int
		expectedQ     string
		expectedA     string
		expectedC     string
		expectedS     string
		expectedD     string
	}{
		{
			name:          "Simple Q&A",
			input:         "Q: What is the capital of France?\nA: Paris",
			expectedCards: 1,
			expectedQ:     "What is the capital of France?",
			expectedA:     "Paris",
		},
		{
			name:          "Simple Q, A, and C",
			input:         "Q: What is 1+1?\nA: 2\nC: Basic arithmetic",
			expectedCards: 1,
			expectedQ:     "What is 1+1?",
			expectedA:     "2",
			expectedC:     "Basic arithmetic",
		},
		{
			name: "Multiline Answer",
			input: `
Q: What are the primary colors?
A: Red
Blue
Yellow
`,
			expectedCards: 1,
			expectedQ:     "What are the primary colors?",
			expectedA:     "Red\nBlue\nYellow",
		},
		{
			name: "Two Cards",
			input: `
Q: First question
A: First answer

Q: Second question
A: Second answer
`,
			expectedCards: 2,
		},
		{
			name: "Separator ends a card",
			input: `
Q: First
A: One
---
Q: Second
A: Two
`,
			expectedCards: 2,
		},
		{
			name:          "No cards, just text",
			input:         "This is a file with no questions.",
			expectedCards: 0,
		},
		{
			name:          "Prefixes with no space",
			input:         "Q:Question\nA:Answer",
			expectedCards: 1,
			expectedQ:     "Question",
			expectedA:     "Answer",
		},
		{
			name: "Subject and difficulty lines",
			input: `
Q: 7 x 8?
A: 56
S: multiplication
D: hard
`,
			expectedCards: 1,
			expectedQ:     "7 x 8?",
			expectedA:     "56",
			expectedS:     "multiplication",
			expectedD:     "hard",
		},
		{
			name: "Title sets the default subject",
			input: `# Animals

Q: What does a cow say?
A: Moo
`,
			expectedCards: 1,
			expectedQ:     "What does a cow say?",
			expectedA:     "Moo",
			expectedS:     "Animals",
		},
		{
			name: "Card subject overrides title",
			input: `# Animals
Q: What does a cat say?
S: sounds
A: Meow
`,
			expectedCards: 1,
			expectedQ:     "What does a cat say?",
			expectedA:     "Meow",
			expectedS:     "sounds",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := strings.NewReader(tc.input)
			contents, err := Parse(r)
			if err != nil {
				t.Fatalf("Parse() returned an unexpected error: %v", err)
			}

			if len(contents) != tc.expectedCards {
				t.Fatalf("Expected %d cards, but got %d", tc.expectedCards, len(contents))
			}

			if tc.expectedCards == 1 {
				c := contents[0]
				if c.Question != tc.expectedQ {
					t.Errorf("Expected Question to be '%s', but got '%s'", tc.expectedQ, c.Question)
				}
				if c.Answer != tc.expectedA {
					t.Errorf("Expected Answer to be '%s', but got '%s'", tc.expectedA, c.Answer)
				}
				if c.Context != tc.expectedC {
					t.Errorf("Expected Context to be '%s', but got '%s'", tc.expectedC, c.Context)
				}
				if c.Subject != tc.expectedS {
					t.Errorf("Expected Subject to be '%s', but got '%s'", tc.expectedS, c.Subject)
				}
				if c.Difficulty != tc.expectedD {
					t.Errorf("Expected Difficulty to be '%s', but got '%s'", tc.expectedD, c.Difficulty)
				}
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.md")
	if err := os.WriteFile(path, []byte("Q: Ping?\nA: Pong\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	contents, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() returned an unexpected error: %v", err)
	}
	if len(contents) != 1 || contents[0].Answer != "Pong" {
		t.Errorf("Unexpected contents: %+v", contents)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
