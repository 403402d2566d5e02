// Package agents holds the clients for the external analysis capabilities:
// the expression/voice/question/document HTTP agents and the OpenAI-backed
// report builder. Capabilities are bound once at startup; a capability that
// is not configured stays nil in the registry and calls against it fail with
// AnalysisUnavailable at the service layer.
package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to one analysis agent service (FastAPI-style JSON over HTTP).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Health probes the agent's GET /health endpoint. Used once at startup to
// decide whether the capability is bound, not re-probed per call.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("agent %s unreachable: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("agent %s health returned %d", c.baseURL, resp.StatusCode)
	}
	return nil
}

type ExpressionResult struct {
	CSVPath string            `json:"csv_path"`
	Summary ExpressionSummary `json:"summary"`
}

type ExpressionSummary struct {
	AverageEmotions     map[string]float64 `json:"average_emotions"`
	TotalFramesAnalyzed int                `json:"total_frames_analyzed"`
	FramesWithFaces     int                `json:"frames_with_faces"`
}

// AnalyzeExpression asks the face-analysis agent to score a clip.
func (c *Client) AnalyzeExpression(ctx context.Context, videoPath string) (*ExpressionResult, error) {
	var out ExpressionResult
	err := c.post(ctx, "/analyze", map[string]any{"video_path": videoPath}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type VoiceResult struct {
	CSVPath string       `json:"csv_path"`
	Status  string       `json:"status"`
	Summary VoiceSummary `json:"summary"`
}

type VoiceSummary struct {
	Transcription string `json:"transcription"`
}

// AnalyzeVoice asks the voice-analysis agent to transcribe and score an
// audio track (the extracted wav when available, otherwise the clip itself).
func (c *Client) AnalyzeVoice(ctx context.Context, audioPath string) (*VoiceResult, error) {
	var out VoiceResult
	err := c.post(ctx, "/analyze", map[string]any{"audio_path": audioPath}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type GenerateQuestionsInput struct {
	IntroduceText string `json:"introduce_text"`
	PortfolioText string `json:"portfolio_text"`
	JobCategory   string `json:"job_category"`
	QuestionCount int    `json:"question_count"`
}

// GenerateQuestions asks the question-generator agent for interview prompts
// grounded in the candidate's documents.
func (c *Client) GenerateQuestions(ctx context.Context, in GenerateQuestionsInput) ([]string, error) {
	var out struct {
		Questions []string `json:"questions"`
	}
	if err := c.post(ctx, "/generate", in, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

type ExtractResult struct {
	PDFPath        string           `json:"pdf_path"`
	TotalPages     int              `json:"total_pages"`
	ExtractedPages []int            `json:"extracted_pages"`
	PagesData      []map[string]any `json:"pages_data"`
}

// ExtractDocument asks the PDF-reader agent for the document's text.
func (c *Client) ExtractDocument(ctx context.Context, pdfPath string) (*ExtractResult, error) {
	var out ExtractResult
	err := c.post(ctx, "/extract", map[string]any{"pdf_path": pdfPath}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Text concatenates the extracted page texts.
func (r *ExtractResult) Text() string {
	var b strings.Builder
	for _, page := range r.PagesData {
		if text, ok := page["text"].(string); ok {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(text)
		}
	}
	return b.String()
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("agent request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("agent %s%s returned %d: %s", c.baseURL, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode agent response: %w", err)
	}
	return nil
}
