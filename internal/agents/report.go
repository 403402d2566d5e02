package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Report is the normalized analysis output persisted as feedback. Zero
// scores and empty notes are legal; the feedback service substitutes the
// not-available marker for missing notes.
type Report struct {
	ExpressionScore int    `json:"expressionScore"`
	EyeContactScore int    `json:"eyeContactScore"`
	VoiceScore      int    `json:"voiceScore"`
	ContentScore    int    `json:"contentScore"`
	OverallScore    int    `json:"overallScore"`
	GoodPoints      string `json:"goodPoints"`
	BadPoints       string `json:"badPoints"`
	Improvement     string `json:"improvement"`
}

// ReportBuilder turns the raw expression/voice agent output into user-facing
// scores and prose via a chat completion.
type ReportBuilder struct {
	cli   *openai.Client
	model string
}

func NewReportBuilder(apiKey, model string) *ReportBuilder {
	return &ReportBuilder{
		cli:   openai.NewClient(apiKey),
		model: model,
	}
}

// DocumentSummary is the structured result of summarizing an uploaded
// portfolio or introduction letter.
type DocumentSummary struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
	Skills    []string `json:"skills"`
}

const documentPrompt = `당신은 채용 담당자입니다. 아래 문서의 내용을 요약하고 핵심 내용과
기술 역량을 추출하세요. 반드시 다음 JSON 형식으로만 답하세요:
{"summary":"","keyPoints":[],"skills":[]}`

// SummarizeDocument produces a summary, key points and skills from extracted
// document text.
func (b *ReportBuilder) SummarizeDocument(ctx context.Context, text string) (*DocumentSummary, error) {
	req := openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: documentPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := b.cli.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("document summary completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("document summary completion returned no choices")
	}

	var summary DocumentSummary
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Choices[0].Message.Content)), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse document summary JSON: %w", err)
	}
	return &summary, nil
}

const reportPrompt = `당신은 모의 면접 코치입니다. 아래의 표정 분석과 음성 분석 결과를 바탕으로
면접 답변에 대한 피드백을 작성하세요. 각 점수는 0에서 100 사이의 정수입니다.
반드시 다음 JSON 형식으로만 답하세요:
{"expressionScore":0,"eyeContactScore":0,"voiceScore":0,"contentScore":0,"overallScore":0,"goodPoints":"","badPoints":"","improvement":""}`

// Build composes a report from the raw analysis. The caller treats any
// error as non-fatal and falls back to the raw combined output.
func (b *ReportBuilder) Build(ctx context.Context, question string, expression *ExpressionResult, voice *VoiceResult) (*Report, error) {
	analysisJSON, err := json.Marshal(map[string]any{
		"question":   question,
		"expression": expression,
		"voice":      voice,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}

	req := openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: reportPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: string(analysisJSON),
			},
		},
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := b.cli.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("report completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("report completion returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	var report Report
	if err := json.Unmarshal([]byte(content), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report JSON: %w", err)
	}
	return &report, nil
}
