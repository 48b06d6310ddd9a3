package domain

// Content is a single question-answer-context entry read from a deck file.
// Hash is its content identity and becomes Card.ContentID.
type Content struct {
	Question   string
	Answer     string
	Context    string
	Subject    string
	Difficulty string
	Hash       string
}

// ContentTypeFlashcard is the content type of cards created from deck files.
const ContentTypeFlashcard = "flashcard"
