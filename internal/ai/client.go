package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/codefix-arena/backend/internal/activity"
	"github.com/codefix-arena/backend/internal/grading"
)

// Client wraps an OpenAI-compatible chat API and exposes the two platform
// capabilities: activity generation and open-answer evaluation.
type Client struct {
	api   *openai.Client
	model string
	log   *zap.Logger
}

func New(baseURL, apiKey, model string, log *zap.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
		log:   log,
	}
}

// GenerateRequest is the catalog context an admin generates an activity from.
type GenerateRequest struct {
	Subject        string
	Unit           string
	Subtopic       string
	Type           activity.Type
	Difficulty     activity.Difficulty
	QuestionsCount int
	StudyText      string
	TeacherPrompt  string
}

// GeneratedActivity is the model's structured output, validated and with
// defaults applied.
type GeneratedActivity struct {
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	EstimatedTime int                 `json:"estimatedTime"`
	StudyText     string              `json:"studyText"`
	Instructions  string              `json:"instructions"`
	GeneratedText string              `json:"generatedText"`
	Questions     []activity.Question `json:"questions"`
}

func (c *Client) GenerateActivity(ctx context.Context, req GenerateRequest) (GeneratedActivity, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildGeneratePrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
		MaxTokens:   4000,
	})
	if err != nil {
		return GeneratedActivity{}, fmt.Errorf("generation API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return GeneratedActivity{}, errors.New("model returned no choices")
	}
	raw := resp.Choices[0].Message.Content
	c.log.Debug("activity generated", zap.Int("raw_len", len(raw)))

	var gen GeneratedActivity
	if err := json.Unmarshal([]byte(extractJSON(raw)), &gen); err != nil {
		return GeneratedActivity{}, fmt.Errorf("parse generation response: %w", err)
	}
	if err := finishGenerated(&gen, req); err != nil {
		return GeneratedActivity{}, err
	}
	return gen, nil
}

// finishGenerated applies the defaults the original model contract allows and
// rejects structurally unusable output.
func finishGenerated(gen *GeneratedActivity, req GenerateRequest) error {
	if gen.Title == "" {
		gen.Title = "Actividad generada"
	}
	if gen.EstimatedTime == 0 {
		gen.EstimatedTime = 15
	}
	if gen.StudyText == "" {
		gen.StudyText = req.StudyText
	}
	if req.Type.IsQuiz() {
		if len(gen.Questions) == 0 {
			return errors.New("model returned no questions for quiz")
		}
		for i, q := range gen.Questions {
			if strings.TrimSpace(q.Question) == "" || len(q.Options) == 0 {
				return fmt.Errorf("generated question %d is invalid", i+1)
			}
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				return fmt.Errorf("generated question %d has an invalid correctAnswer", i+1)
			}
		}
		return nil
	}
	if gen.GeneratedText == "" && gen.Instructions == "" {
		gen.Instructions = req.TeacherPrompt
		if gen.Instructions == "" {
			gen.Instructions = "Lee el enunciado y responde."
		}
		gen.GeneratedText = gen.Instructions
	}
	return nil
}

// EvaluateOpenAnswer implements grading.Evaluator.
func (c *Client) EvaluateOpenAnswer(ctx context.Context, req grading.EvalRequest) (grading.OpenResult, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildEvaluatePrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
		MaxTokens:   1800,
	})
	if err != nil {
		return grading.OpenResult{}, fmt.Errorf("evaluation API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return grading.OpenResult{}, errors.New("model returned no choices")
	}
	raw := resp.Choices[0].Message.Content

	var payload struct {
		Score        json.RawMessage      `json:"score"`
		Feedback     string               `json:"feedback"`
		Rubric       []grading.RubricItem `json:"rubric"`
		Strengths    []string             `json:"strengths"`
		Improvements []string             `json:"improvements"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		return grading.OpenResult{}, fmt.Errorf("parse evaluation response: %w", err)
	}
	return grading.OpenResult{
		Score:        coerceScore(payload.Score),
		Feedback:     strings.TrimSpace(payload.Feedback),
		Rubric:       payload.Rubric,
		Strengths:    payload.Strengths,
		Improvements: payload.Improvements,
	}, nil
}

// coerceScore accepts both numeric and string-encoded scores; anything else
// becomes 0 and the open grader's clamp takes it from there.
func coerceScore(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

// extractJSON returns the outermost JSON object in text. Guards against
// models that wrap the object in prose or code fences despite the JSON
// response format.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}
