package agents

import (
	"context"
	"log"
	"time"

	"interview-media-backend/internal/config"
)

// Registry holds the capabilities that were bound at startup. A nil field
// means the capability is not wired in this deployment; callers translate
// that into AnalysisUnavailable instead of probing again per request.
type Registry struct {
	Expression     *Client
	Voice          *Client
	QuestionGen    *Client
	DocumentReader *Client
	Report         *ReportBuilder
}

// Bind constructs clients for every configured agent URL and probes each
// one's health endpoint once. An unreachable agent stays bound (it may come
// up later); only a missing URL leaves the capability absent.
func Bind(ctx context.Context, cfg *config.Config) *Registry {
	reg := &Registry{}

	reg.Expression = bindAgent(ctx, "expression", cfg.ExpressionAgentURL)
	reg.Voice = bindAgent(ctx, "voice", cfg.VoiceAgentURL)
	reg.QuestionGen = bindAgent(ctx, "question-generator", cfg.QuestionAgentURL)
	reg.DocumentReader = bindAgent(ctx, "document-reader", cfg.DocumentAgentURL)

	if cfg.OpenAIAPIKey != "" {
		reg.Report = NewReportBuilder(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	return reg
}

func bindAgent(ctx context.Context, name, url string) *Client {
	if url == "" {
		return nil
	}
	client := NewClient(url)

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Health(probeCtx); err != nil {
		log.Printf("Warning: %s agent at %s is not responding: %v", name, url, err)
	}
	return client
}
