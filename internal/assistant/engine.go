// Package assistant ties retrieval, prompt composition, and the completion
// provider into the chat pipeline.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scribecast/internal/chatlog"
	"scribecast/internal/compose"
	"scribecast/internal/llm"
	"scribecast/internal/retrieval"
)

const (
	replyMaxTokens   = 2048
	replyTemperature = 0.7
)

// Deps are the collaborators an Engine needs. Turns may be nil, in which case
// conversations are not persisted.
type Deps struct {
	Aggregator *retrieval.Aggregator
	Composer   *compose.Composer
	Provider   llm.Provider
	Model      string
	Persona    string
	Turns      *chatlog.Store
	Logger     *zap.Logger
}

// Engine produces one scripted reply per user message.
type Engine struct {
	deps Deps
	log  *zap.Logger
}

// NewEngine validates the dependency set and returns an Engine.
func NewEngine(deps Deps) (*Engine, error) {
	if deps.Aggregator == nil {
		return nil, fmt.Errorf("aggregator is required")
	}
	if deps.Composer == nil {
		return nil, fmt.Errorf("composer is required")
	}
	if deps.Provider == nil {
		return nil, fmt.Errorf("completion provider is required")
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{deps: deps, log: log}, nil
}

// Respond gathers context for the message, composes the prompt, and asks the
// provider for a script. A blank sessionID starts a new session; the session
// id actually used is always returned. The user turn and the reply are logged
// asynchronously, so a slow disk never delays the response.
func (e *Engine) Respond(ctx context.Context, sessionID, message string) (string, string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", "", fmt.Errorf("message must not be empty")
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	start := time.Now()
	bundle := e.deps.Aggregator.Gather(ctx, message)
	prompt := e.deps.Composer.Compose(e.deps.Persona, message, bundle)

	resp, err := e.deps.Provider.Complete(ctx, llm.CompletionRequest{
		Model:       e.deps.Model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   replyMaxTokens,
		Temperature: replyTemperature,
	})
	if err != nil {
		return "", "", fmt.Errorf("completing script: %w", err)
	}

	if e.deps.Turns != nil {
		e.deps.Turns.AppendAsync(sessionID,
			chatlog.Entry{Role: chatlog.RoleUser, Content: message},
			chatlog.Entry{Role: chatlog.RoleAssistant, Content: resp.Content},
		)
	}

	e.log.Info("reply generated",
		zap.String("session_id", sessionID),
		zap.String("provider", e.deps.Provider.Name()),
		zap.Int("context_snippets", bundle.Len()),
		zap.Int("prompt_bytes", len(prompt)),
		zap.Duration("elapsed", time.Since(start)))

	return resp.Content, sessionID, nil
}
