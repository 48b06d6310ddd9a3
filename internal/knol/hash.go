package knol

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/conorfennell/recall/internal/domain"
)

// Normalize renders the identity-bearing parts of a content entry as one
// string: question, answer and context, each lowercased, trimmed and with
// runs of spaces and tabs collapsed, joined by newlines. Subject and
// difficulty are metadata and do not take part, so retagging a card keeps
// its review history.
func Normalize(c domain.Content) string {
	parts := []string{c.Question, c.Answer, c.Context}
	for i, p := range parts {
		parts[i] = normalizePart(p)
	}
	// Joining with a newline keeps "question" + "answer" from reading as
	// "questionanswer".
	return strings.Join(parts, "\n")
}

func normalizePart(part string) string {
	p := strings.ReplaceAll(part, "\r\n", "\n")
	lines := strings.Split(strings.ToLower(strings.TrimSpace(p)), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Join(lines, "\n")
}

// Hash returns the hex SHA-256 of the normalized content. It is used as
// the content id of every card scheduled for this entry.
func Hash(c domain.Content) string {
	sum := sha256.Sum256([]byte(Normalize(c)))
	return hex.EncodeToString(sum[:])
}

// Stamp sets Hash on every entry and drops later duplicates of the same
// content, keeping the first occurrence.
func Stamp(contents []domain.Content) []domain.Content {
	seen := make(map[string]bool, len(contents))
	out := make([]domain.Content, 0, len(contents))
	for _, c := range contents {
		c.Hash = Hash(c)
		if seen[c.Hash] {
			continue
		}
		seen[c.Hash] = true
		out = append(out, c)
	}
	return out
}
