package generator

import (
	"fmt"
	"strings"

	"github.com/abhisek/eduspark/internal/llm"
)

const studyPackSystemPrompt = `You are an expert study coach. You turn a learner's notes, textbook pages and lecture material into a compact study pack.`

const studyPackInstruction = `Transform the following academic content into a structured learning session.
Extract key concepts, provide a concise summary, generate 5 diverse quiz questions (multiple choice, true/false), 5 flashcards, and a hierarchical mind map structure.

Output must be a JSON object with the following structure:
{
  "title": string,
  "summary": string,
  "concepts": [string],
  "quizzes": [{"id": string, "type": "multiple-choice" | "true-false" | "fill-blank", "question": string, "options": [string], "answer": string, "explanation": string}],
  "flashcards": [{"id": string, "front": string, "back": string}],
  "mindMap": {"id": string, "label": string, "children": [node]}
}

Rules:
- Exactly 5 quizzes and exactly 5 flashcards.
- For multiple-choice give 4 options; for true-false the options are "True" and "False". The answer must be one of the options, copied verbatim.
- Fill-blank questions have no options; the answer is a single word or short phrase.
- The mind map root is the topic itself. Go at most 3 levels deep. Leaf nodes have an empty children array.
- Use plain text. No markdown.`

const groundingPrefix = "Find additional academic context and recent facts about: "

// buildStudyPackMessage puts text material after the instruction. Image
// material travels as an attachment ahead of the instruction.
func buildStudyPackMessage(m Material) llm.Message {
	if m.Kind == KindImage {
		return llm.Message{
			Role:    llm.RoleUser,
			Content: studyPackInstruction,
			Attachments: []llm.Attachment{
				{MIMEType: m.MIMEType, Data: m.Image},
			},
		}
	}

	var b strings.Builder
	b.WriteString(studyPackInstruction)
	b.WriteString("\n\nContent:\n")
	b.WriteString(m.Text)
	return llm.Message{Role: llm.RoleUser, Content: b.String()}
}

func buildGroundingMessage(query string) llm.Message {
	return llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("%s%s", groundingPrefix, strings.TrimSpace(query)),
	}
}
