package grader

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/mockprep/backend/internal/domain/interview"
)

// ParseQuestions splits raw model output into question strings.
// Each line is stripped of list markers and surrounding whitespace; empty
// lines are dropped.
func ParseQuestions(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var questions []string
	for _, line := range lines {
		q := stripListMarkers(line)
		if q != "" {
			questions = append(questions, q)
		}
	}
	return questions
}

// stripListMarkers removes bullets, numbering, and markdown emphasis from the
// start of a line, repeatedly, so "- **1.** Foo" becomes "Foo".
func stripListMarkers(line string) string {
	s := strings.TrimSpace(line)
	for {
		before := s
		s = strings.TrimLeft(s, "-*•·–—>#")
		s = strings.TrimSpace(s)
		s = stripNumberedPrefix(s)
		s = strings.TrimSpace(s)
		if s == before {
			break
		}
	}
	s = strings.TrimSuffix(s, "**")
	return strings.TrimSpace(s)
}

// stripNumberedPrefix removes a leading "1. ", "1)", "1:" or "Q1." style
// prefix, with or without a following space. A number that is part of the
// text ("2D arrays", "1.5 million") is kept.
// Operates on runes for UTF-8 safety.
func stripNumberedPrefix(s string) string {
	runes := []rune(s)
	start := 0
	if len(runes) > 0 && (runes[0] == 'Q' || runes[0] == 'q') {
		start = 1
	}
	if len(runes) < start+2 || !unicode.IsDigit(runes[start]) {
		return s
	}

	for i := start; i < len(runes); i++ {
		r := runes[i]
		if unicode.IsDigit(r) {
			continue
		}
		if r == '.' || r == ')' || r == ':' {
			if i+1 == len(runes) || !unicode.IsDigit(runes[i+1]) {
				return string(runes[i+1:])
			}
		}
		break
	}
	return s
}

var scorePattern = regexp.MustCompile(`\b(\d{1,2})/10\b`)

// ParseEvaluation extracts an "N/10" score from raw evaluator output.
// A missing or out-of-range score yields 0; the trimmed raw text is always
// kept as feedback.
func ParseEvaluation(text string) interview.Evaluation {
	feedback := strings.TrimSpace(text)
	return interview.Evaluation{
		Score:    parseScore(feedback),
		Feedback: feedback,
	}
}

func parseScore(text string) int {
	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < interview.MinScore || n > interview.MaxScore {
		return 0
	}
	return n
}
