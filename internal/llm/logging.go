package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LoggingProvider logs every request with its purpose, latency and usage.
type LoggingProvider struct {
	inner Provider
	log   zerolog.Logger
}

// WithLogging wraps p with request logging.
func WithLogging(p Provider, log zerolog.Logger) Provider {
	return &LoggingProvider{
		inner: p,
		log:   log.With().Str("component", "llm").Str("model", p.ModelID()).Logger(),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := l.log.Info()
	if err != nil {
		ev = l.log.Warn().Err(err)
	}
	ev = ev.Str("purpose", PurposeFrom(ctx)).
		Dur("latency", time.Since(start)).
		Bool("success", err == nil)
	if req.Schema != nil {
		ev = ev.Str("schema", req.Schema.Name)
	}
	if resp != nil {
		ev = ev.Int("input_tokens", resp.Usage.InputTokens).
			Int("output_tokens", resp.Usage.OutputTokens).
			Str("stop_reason", resp.StopReason)
	}
	ev.Msg("llm request")

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
