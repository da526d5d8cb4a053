package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/yungbote/quizforge-backend/internal/pkg/logger"
	"github.com/yungbote/quizforge-backend/internal/platform/openai"
	"github.com/yungbote/quizforge-backend/internal/types"
)

const (
	synthQuestionCap     = 5
	synthSummaryMaxChars = 1500
	synthMessageMaxChars = 300
	synthCallTimeout     = 25 * time.Second
)

// GeneratedQuestion is the validated output of one synthesized question
// before it is persisted into the question bank.
type GeneratedQuestion struct {
	QuestionText  string
	Options       []string
	CorrectAnswer string
	Topic         string
}

// SynthesizerService turns free-text study context into question data via
// the text-generation collaborator. It never returns an error: a failed or
// unparseable AI call degrades through fixed fallback tiers instead.
type SynthesizerService interface {
	GenerateFromContext(ctx context.Context, documentSummary string, transcript []*types.ChatMessage) []GeneratedQuestion
}

type synthesizerService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewSynthesizerService(log *logger.Logger, ai openai.Client) SynthesizerService {
	serviceLog := log.With("service", "SynthesizerService")
	return &synthesizerService{log: serviceLog, ai: ai}
}

const synthSystemPrompt = "You are a quiz author for a learning platform. " +
	"You write clear multiple-choice questions grounded in the study material you are given."

func (s *synthesizerService) GenerateFromContext(ctx context.Context, documentSummary string, transcript []*types.ChatMessage) []GeneratedQuestion {
	prompt := buildSynthPrompt(documentSummary, transcript)

	callCtx, cancel := context.WithTimeout(ctx, synthCallTimeout)
	defer cancel()

	raw, err := s.ai.GenerateText(callCtx, synthSystemPrompt, prompt)
	if err != nil {
		s.log.Warn("AI question generation failed, using degenerate fallback", "error", err)
		return degenerateFallbackQuestions()
	}

	questions := parseGeneratedQuestions(raw, s.log)
	if len(questions) == 0 {
		s.log.Warn("AI payload unusable, using comprehension fallback")
		return comprehensionFallbackQuestions()
	}
	return questions
}

func buildSynthPrompt(documentSummary string, transcript []*types.ChatMessage) string {
	var sb strings.Builder
	sb.WriteString("Create quiz questions from the following study context.\n\n")
	sb.WriteString("DOCUMENT SUMMARY:\n")
	sb.WriteString(truncateText(documentSummary, synthSummaryMaxChars))
	sb.WriteString("\n\nRECENT CHAT:\n")
	for _, msg := range transcript {
		if msg == nil {
			continue
		}
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(truncateText(msg.Content, synthMessageMaxChars))
		sb.WriteString("\n")
	}
	sb.WriteString("\nRespond with ONLY a JSON array, no prose and no markdown. ")
	sb.WriteString(fmt.Sprintf("Produce up to %d objects, each exactly of the form ", synthQuestionCap))
	sb.WriteString(`{"question_text": "...", "options": ["...", "...", "...", "..."], "correct_answer": "...", "topic": "..."}. `)
	sb.WriteString("correct_answer must be one of options. options must have 4 entries.")
	return sb.String()
}

var (
	codeFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)
)

// parseGeneratedQuestions runs the tiered parse pipeline: strip code
// fences, extract the first bracketed array, JSON-parse, then validate
// each element individually so one malformed object does not sink the
// batch.
func parseGeneratedQuestions(raw string, log *logger.Logger) []GeneratedQuestion {
	cleaned := strings.TrimSpace(raw)
	if m := codeFenceRe.FindStringSubmatch(cleaned); len(m) == 2 {
		cleaned = strings.TrimSpace(m[1])
	}

	arrayText := jsonArrayRe.FindString(cleaned)
	if arrayText == "" {
		if log != nil {
			log.Debug("no JSON array found in AI response")
		}
		return nil
	}

	var elements []map[string]any
	if err := json.Unmarshal([]byte(arrayText), &elements); err != nil {
		if log != nil {
			log.Debug("AI response array did not parse", "error", err)
		}
		return nil
	}

	var out []GeneratedQuestion
	for _, el := range elements {
		q, ok := coerceGeneratedQuestion(el)
		if !ok {
			continue
		}
		out = append(out, q)
		if len(out) == synthQuestionCap {
			break
		}
	}
	return out
}

func coerceGeneratedQuestion(el map[string]any) (GeneratedQuestion, bool) {
	var q GeneratedQuestion

	for _, field := range []string{"question_text", "options", "correct_answer", "topic"} {
		if _, present := el[field]; !present {
			return q, false
		}
	}

	text, _ := el["question_text"].(string)
	answer, _ := el["correct_answer"].(string)
	topic, _ := el["topic"].(string)
	text = strings.TrimSpace(text)
	answer = strings.TrimSpace(answer)
	topic = strings.TrimSpace(strings.ToLower(topic))
	if text == "" || answer == "" {
		return q, false
	}
	if topic == "" {
		topic = "general"
	}

	rawOptions, _ := el["options"].([]any)
	options := make([]string, 0, len(rawOptions))
	for _, o := range rawOptions {
		s, _ := o.(string)
		s = strings.TrimSpace(s)
		if s != "" {
			options = append(options, s)
		}
	}
	if len(options) < 2 {
		return q, false
	}

	q = GeneratedQuestion{
		QuestionText:  text,
		Options:       options,
		CorrectAnswer: answer,
		Topic:         topic,
	}
	return q, true
}

// comprehensionFallbackQuestions is the tier-(b) fallback when the AI
// returned text but nothing usable survived parsing.
func comprehensionFallbackQuestions() []GeneratedQuestion {
	return []GeneratedQuestion{
		{
			QuestionText: "What is an effective first step when studying a new document?",
			Options: []string{
				"Skim the headings and overall structure",
				"Memorize every sentence in order",
				"Read only the final page",
				"Skip the introduction entirely",
			},
			CorrectAnswer: "Skim the headings and overall structure",
			Topic:         "general",
		},
		{
			QuestionText: "While reading, which habit most helps you retain the key ideas?",
			Options: []string{
				"Taking brief notes in your own words",
				"Reading as fast as possible",
				"Highlighting every line",
				"Avoiding any pauses",
			},
			CorrectAnswer: "Taking brief notes in your own words",
			Topic:         "general",
		},
		{
			QuestionText: "After finishing a document, how can you best check your understanding?",
			Options: []string{
				"Summarize the main points from memory",
				"Re-read the table of contents",
				"Count the number of pages",
				"File the document away immediately",
			},
			CorrectAnswer: "Summarize the main points from memory",
			Topic:         "general",
		},
	}
}

// degenerateFallbackQuestions is the tier-(c) fallback when the AI call
// itself failed before returning text.
func degenerateFallbackQuestions() []GeneratedQuestion {
	return []GeneratedQuestion{
		{
			QuestionText: "Which study strategy is generally most effective for long-term retention?",
			Options: []string{
				"Spaced practice over several days",
				"A single long cramming session",
				"Passive re-reading only",
				"Studying without breaks",
			},
			CorrectAnswer: "Spaced practice over several days",
			Topic:         "general",
		},
	}
}

func truncateText(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
