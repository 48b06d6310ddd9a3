package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/recall/internal/domain"
)

const (
	questionPrefix   = "Q:"
	answerPrefix     = "A:"
	contextPrefix    = "C:"
	subjectPrefix    = "S:"
	difficultyPrefix = "D:"
	titlePrefix      = "# "
	separator        = "---"
)

type state int

const (
	seeking state = iota
	readingQuestion
	readingAnswer
	readingContext
)

// ParseFile reads a deck file from the given path and extracts its content.
func ParseFile(path string) ([]domain.Content, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a deck from an io.Reader and extracts all content entries.
//
// A "# Title" line outside a card sets the default subject for the cards
// that follow. S: and D: lines set the subject and difficulty of the card
// being read.
func Parse(r io.Reader) ([]domain.Content, error) {
	scanner := bufio.NewScanner(r)
	var contents []domain.Content
	var current domain.Content
	var block []string
	var deckSubject string
	currentState := seeking

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		text := strings.Join(block, "\n")
		switch currentState {
		case readingQuestion:
			current.Question = text
		case readingAnswer:
			current.Answer = text
		case readingContext:
			current.Context = text
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Question != "" {
			if current.Subject == "" {
				current.Subject = deckSubject
			}
			contents = append(contents, current)
		}
		current = domain.Content{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == separator:
			finishCard()

		case currentState == seeking && strings.HasPrefix(line, titlePrefix):
			deckSubject = strings.TrimSpace(line[len(titlePrefix):])

		case strings.HasPrefix(line, subjectPrefix):
			current.Subject = fieldValue(line, subjectPrefix)

		case strings.HasPrefix(line, difficultyPrefix):
			current.Difficulty = fieldValue(line, difficultyPrefix)

		case strings.HasPrefix(line, questionPrefix):
			// A new question always starts a new card.
			if currentState != seeking {
				finishCard()
			}
			currentState = readingQuestion
			block = append(block, fieldValue(line, questionPrefix))

		case strings.HasPrefix(line, answerPrefix):
			flushBlock()
			currentState = readingAnswer
			block = append(block, fieldValue(line, answerPrefix))

		case strings.HasPrefix(line, contextPrefix):
			flushBlock()
			currentState = readingContext
			block = append(block, fieldValue(line, contextPrefix))

		case currentState != seeking:
			block = append(block, line)
		}
	}

	finishCard() // the last card has no separator

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return contents, nil
}

// fieldValue strips the prefix and one optional leading space.
func fieldValue(line, prefix string) string {
	return strings.TrimPrefix(line[len(prefix):], " ")
}
