package grader_test

import (
	"reflect"
	"testing"

	"github.com/mockprep/backend/internal/grader"
)

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "numbered list",
			text: "1. What is a list?\n2. Explain GIL\n3) What is a decorator?",
			want: []string{"What is a list?", "Explain GIL", "What is a decorator?"},
		},
		{
			name: "numbering without a space",
			text: "1.What is a list?\n2)Explain GIL\n3:What is a decorator?\nQ4.Why use slots?",
			want: []string{"What is a list?", "Explain GIL", "What is a decorator?", "Why use slots?"},
		},
		{
			name: "bullets and blank lines",
			text: "\n- What is a goroutine?\n\n• How do channels block?\n* What does select do?\n   \n",
			want: []string{"What is a goroutine?", "How do channels block?", "What does select do?"},
		},
		{
			name: "markdown emphasis",
			text: "**1.** What is ownership?\n**2. What is borrowing?**",
			want: []string{"What is ownership?", "What is borrowing?"},
		},
		{
			name: "crlf and Q prefix",
			text: "Q1. First?\r\nQ2: Second?\r\n",
			want: []string{"First?", "Second?"},
		},
		{
			name: "leading number that is part of the text",
			text: "2D arrays: how are they stored?\n1.5 million rows: what index would you add?",
			want: []string{"2D arrays: how are they stored?", "1.5 million rows: what index would you add?"},
		},
		{
			name: "trailing numbers are kept",
			text: "1. What changed in Python 3.12",
			want: []string{"What changed in Python 3.12"},
		},
		{
			name: "only markers",
			text: "1.\n-\n•",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := grader.ParseQuestions(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseQuestions() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseEvaluation(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		score int
	}{
		{"documented format", "Score: 7/10 - Reason: Good understanding but lacks depth.", 7},
		{"perfect", "10/10, excellent", 10},
		{"zero", "Score: 0/10 - off topic", 0},
		{"no score", "The answer is vague.", 0},
		{"out of range", "Score: 11/10 - overachiever", 0},
		{"out of 100 is not out of 10", "Score: 70/100", 0},
		{"three digits", "Score: 123/10", 0},
		{"first match wins", "Score: 4/10. An ideal answer would be 10/10.", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := grader.ParseEvaluation("  " + tt.text + "\n")
			if got.Score != tt.score {
				t.Errorf("score = %d, want %d", got.Score, tt.score)
			}
			if got.Feedback != tt.text {
				t.Errorf("feedback = %q, want %q", got.Feedback, tt.text)
			}
		})
	}
}
