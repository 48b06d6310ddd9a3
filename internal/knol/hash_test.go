package knol

import (
	"testing"

	"github.com/conorfennell/recall/internal/domain"
)

func TestNormalize(t *testing.T) {
	c := domain.Content{
		Question: "  What is   HTMX? \r\n",
		Answer:   "A library\tfor AJAX.",
		Context:  "Web Development",
		Subject:  "ignored",
	}
	expected := "what is htmx?\na library for ajax.\nweb development"
	normalized := Normalize(c)

	if normalized != expected {
		t.Errorf("Expected normalized string to be '%s', but got '%s'", expected, normalized)
	}
}

func TestHash(t *testing.T) {
	t.Run("generates correct hash", func(t *testing.T) {
		c := domain.Content{
			Question: "Q",
			Answer:   "A",
			Context:  "C",
		}
		// Hash for "q\na\nc"
		expectedHash := "eb2456c1ee4f36305069dd0f63a30e92d5443129f5e8fd9a5ec490fbc4d4d8a2"
		hash := Hash(c)

		if hash != expectedHash {
			t.Errorf("Expected hash '%s', but got '%s'", expectedHash, hash)
		}
	})

	t.Run("metadata does not change the hash", func(t *testing.T) {
		c1 := domain.Content{Question: "Test", Subject: "a", Difficulty: "easy"}
		c2 := domain.Content{Question: "Test", Subject: "b", Difficulty: "hard"}
		if Hash(c1) != Hash(c2) {
			t.Error("Expected subject and difficulty to be excluded from the hash")
		}
	})

	t.Run("normalization produces same hash", func(t *testing.T) {
		c1 := domain.Content{
			Question: "  what is  go? ",
			Answer:   "A programming language.",
		}
		c2 := domain.Content{
			Question: "What Is Go?",
			Answer:   "A programming language.",
		}
		if Hash(c1) != Hash(c2) {
			t.Error("Expected hashes to be the same after normalization, but they were different.")
		}
	})

	t.Run("different content has different hashes", func(t *testing.T) {
		c1 := domain.Content{Question: "Card 1"}
		c2 := domain.Content{Question: "Card 2"}
		if Hash(c1) == Hash(c2) {
			t.Error("Expected hashes for different content to be different")
		}
	})
}

func TestStamp(t *testing.T) {
	contents := []domain.Content{
		{Question: "One", Subject: "first"},
		{Question: "Two"},
		{Question: " one ", Subject: "duplicate"},
	}

	stamped := Stamp(contents)
	if len(stamped) != 2 {
		t.Fatalf("Expected 2 entries after dedup, got %d", len(stamped))
	}
	if stamped[0].Subject != "first" {
		t.Errorf("Expected the first occurrence to be kept, got subject %q", stamped[0].Subject)
	}
	for _, c := range stamped {
		if c.Hash != Hash(c) {
			t.Errorf("Expected Hash to be set for %q", c.Question)
		}
	}
}
