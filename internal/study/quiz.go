package study

import "strings"

// Valid reports whether t is a known quiz type.
func (t QuizType) Valid() bool {
	for _, k := range QuizTypes {
		if t == k {
			return true
		}
	}
	return false
}

// HasOptions reports whether the question is answered by picking an option.
// Fill-blank questions, and any question generated without options, take
// a typed answer.
func (q QuizQuestion) HasOptions() bool {
	return q.Type != FillBlank && len(q.Options) > 0
}

// IsCorrect reports whether answer matches the expected answer. Option
// answers must match exactly; typed answers ignore case and surrounding
// whitespace.
func (q QuizQuestion) IsCorrect(answer string) bool {
	if q.HasOptions() {
		return answer == q.Answer
	}
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.Answer))
}

// AnswerInOptions reports whether the expected answer is one of the options.
// Generated questions are not rejected when it isn't.
func (q QuizQuestion) AnswerInOptions() bool {
	for _, o := range q.Options {
		if o == q.Answer {
			return true
		}
	}
	return false
}
