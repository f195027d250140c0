package grader

import (
	"bytes"
	"fmt"
	"text/template"
)

// Prompt templates are kept short and directive so small local models
// follow the output format.

const DefaultQuestionPrompt = `Generate {{.Count}} concise and relevant interview questions for a candidate skilled in {{.Skill}}.
Put each question on its own line. Do not add an introduction, headings, or answers.`

const DefaultEvaluationPrompt = `You are an AI interview evaluator.

Question: {{.Question}}
Candidate Answer: {{.Answer}}

Evaluate the answer and provide a score out of 10 along with a short explanation.
Example format: 'Score: 7/10 - Reason: Good understanding but lacks depth.'`

type questionPromptData struct {
	Skill string
	Count int
}

type evaluationPromptData struct {
	Question string
	Answer   string
}

func parseTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	return tmpl, nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
