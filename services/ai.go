package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const systemInstruction = "You are an AI tutor helping students learn. Be helpful, clear, and educational. " +
	"Provide explanations, break down complex topics, and encourage learning. " +
	"If asked about topics you're not certain about, suggest consulting with human tutors."

// AI wraps the Gemini client. A nil *AI means the backend is not configured;
// callers fail soft with a user-facing message instead of crashing.
type AI struct {
	client *genai.Client
	model  string
}

// NewAI builds the Gemini client, or returns nil when no API key is set.
func NewAI(ctx context.Context, apiKey, model string) (*AI, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &AI{client: client, model: model}, nil
}

func (a *AI) Available() bool {
	return a != nil && a.client != nil
}

func (a *AI) Model() string {
	if a == nil {
		return ""
	}
	return a.model
}

// Turn is one prior exchange fed back to the model as context.
type Turn struct {
	FromUser bool
	Text     string
}

// GenerateReply sends the conversation context plus the current message to the
// model and returns the reply text.
func (a *AI) GenerateReply(ctx context.Context, history []Turn, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		if turn.Text == "" {
			continue
		}
		role := genai.RoleModel
		if turn.FromUser {
			role = genai.RoleUser
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: message}},
	})

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}

	return a.generate(ctx, contents, cfg)
}

// Summarize asks the model for a concise summary of a rendered conversation.
func (a *AI) Summarize(ctx context.Context, conversation string) (string, error) {
	prompt := "Please provide a concise summary of the following conversation between a student and an AI tutor. " +
		"Focus on the main topics discussed and key learning points:\n\n" + conversation
	return a.generate(ctx, genai.Text(prompt), nil)
}

// GenerateQuiz asks the model for multiple-choice questions over educational
// content, optionally focused on a topic.
func (a *AI) GenerateQuiz(ctx context.Context, content, topic string) (string, error) {
	prompt := "Based on the following educational content, create 5 multiple-choice quiz questions. " +
		"Format each question with 4 options (A, B, C, D) and indicate the correct answer. " +
		"Make the questions test understanding of key concepts:\n\n" + content
	if topic != "" {
		prompt = fmt.Sprintf("Focus on the topic of '%s'. ", topic) + prompt
	}
	return a.generate(ctx, genai.Text(prompt), nil)
}

func (a *AI) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, cfg)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return text.String(), nil
}
