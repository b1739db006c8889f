// Package study holds the study pack data model produced by the generator
// and consumed by the interactive views.
package study

// QuizType is the kind of a quiz question.
type QuizType string

const (
	MultipleChoice QuizType = "multiple-choice"
	TrueFalse      QuizType = "true-false"
	FillBlank      QuizType = "fill-blank"
)

// QuizTypes lists every supported quiz type.
var QuizTypes = []QuizType{MultipleChoice, TrueFalse, FillBlank}

// Session is a generated study pack. It is not modified after generation.
type Session struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Summary    string         `json:"summary"`
	Concepts   []string       `json:"concepts"`
	Quizzes    []QuizQuestion `json:"quizzes"`
	Flashcards []Flashcard    `json:"flashcards"`
	MindMap    MindMapNode    `json:"mindMap"`
}

// QuizQuestion is a single question in a session's quiz.
type QuizQuestion struct {
	ID          string   `json:"id"`
	Type        QuizType `json:"type"`
	Question    string   `json:"question"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Flashcard is a front/back card.
type Flashcard struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// MindMapNode is a node of the mind map tree. The root represents the
// session topic.
type MindMapNode struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Children []MindMapNode `json:"children"`
}

// Badge is an achievement. No rule awards badges yet.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}
