// Package assistant wires a tool-calling chat model to the list store so
// users can manage their lists in natural language. Three provider
// backends are supported; all of them drive the same tool set through a
// ReAct agent.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"listy/internal/utils"
	"listy/store"
)

// Provider identifies a chat-model backend.
type Provider string

const (
	ProviderGemini     Provider = "gemini"
	ProviderOpenAI     Provider = "openai"
	ProviderOpenRouter Provider = "openrouter"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"

	defaultGeminiModel     = "gemini-1.5-flash"
	defaultOpenAIModel     = "gpt-3.5-turbo"
	defaultOpenRouterModel = "deepseek/deepseek-chat"

	// Tool loops on small models occasionally spin; cap the steps.
	maxAgentSteps = 12
)

const systemPrompt = `You are a helpful AI Assistant for a Todo and Shopping List app named 'Listy'.
You have direct access to the user's lists via tools.

Your capabilities:
1. Add items to lists (Shopping or Todo).
2. Remove items.
3. Create new lists.
4. Clear lists.
5. Read list content to give context (e.g. suggesting recipes based on what's there).

Rules:
- You will receive the USER'S CURRENT CONTEXT (Mode and Active List) at the start of their message.
- ALWAYS USE THIS CONTEXT to determine where to add/remove items.
- DO NOT ask "Which list?" or "Shopping or Todo?" if you have the context. Just do it.
- Only ask if the user's request explicitly conflicts with the context (e.g. user says "add to todo" while in shopping mode).
- When adding items for a recipe, list the ingredients you are adding.
- Be concise and friendly.
- Keep answers short.
- German Language is preferred if the user speaks German.`

// ParseProvider validates a provider name.
func ParseProvider(name string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(name))) {
	case ProviderGemini:
		return ProviderGemini, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderOpenRouter:
		return ProviderOpenRouter, nil
	default:
		return "", utils.ErrUnknownProvider(name)
	}
}

// Providers lists the supported provider names.
func Providers() []string {
	return []string{string(ProviderGemini), string(ProviderOpenAI), string(ProviderOpenRouter)}
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider Provider) string {
	switch provider {
	case ProviderGemini:
		return defaultGeminiModel
	case ProviderOpenRouter:
		return defaultOpenRouterModel
	default:
		return defaultOpenAIModel
	}
}

// Config carries everything needed to build an Assistant.
type Config struct {
	Provider Provider
	APIKey   string
	// Model overrides the provider default when set.
	Model string
	// BaseURL overrides the provider endpoint. Ignored for gemini.
	BaseURL string
}

// Assistant holds a conversation with a tool-calling model. The agent
// keeps the whole session history so follow-up messages can refer back
// to earlier turns.
type Assistant struct {
	chatModel model.ToolCallingChatModel
	agent     *react.Agent
	provider  Provider

	mu      sync.Mutex
	history []*schema.Message
}

// New builds an assistant for the given provider, bound to the store
// through the standard toolbox.
func New(ctx context.Context, cfg Config, st *store.Store) (*Assistant, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, utils.ErrAPIKeyNotFound(string(cfg.Provider))
	}

	chatModel, err := newChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating %s chat model: %w", cfg.Provider, err)
	}

	tools, err := NewToolbox(st).Tools()
	if err != nil {
		return nil, fmt.Errorf("building tools: %w", err)
	}

	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: tools,
		},
		MessageModifier: func(ctx context.Context, input []*schema.Message) []*schema.Message {
			res := make([]*schema.Message, 0, len(input)+1)
			res = append(res, schema.SystemMessage(systemPrompt))
			res = append(res, input...)
			return res
		},
		MaxStep: maxAgentSteps,
	})
	if err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}

	utils.Debugf("assistant ready: provider=%s", cfg.Provider)
	return &Assistant{chatModel: chatModel, agent: agent, provider: cfg.Provider}, nil
}

func newChatModel(ctx context.Context, cfg Config) (model.ToolCallingChatModel, error) {
	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		modelName = DefaultModel(cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, err
		}
		return gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  modelName,
		})

	case ProviderOpenAI:
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  cfg.APIKey,
			Model:   modelName,
			BaseURL: cfg.BaseURL,
		})

	case ProviderOpenRouter:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = openRouterBaseURL
		}
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  cfg.APIKey,
			Model:   modelName,
			BaseURL: baseURL,
		})

	default:
		return nil, utils.ErrUnknownProvider(string(cfg.Provider))
	}
}

// Provider reports which backend this assistant talks to.
func (a *Assistant) Provider() Provider {
	return a.provider
}

// SendMessage runs one conversational turn. contextInfo describes the
// user's current mode and active list; when non-empty it is prepended
// to the message so the model can target the right list without asking.
func (a *Assistant) SendMessage(ctx context.Context, message, contextInfo string) (string, error) {
	full := message
	if contextInfo != "" {
		full = contextInfo + "\n\n" + message
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	input := make([]*schema.Message, 0, len(a.history)+1)
	input = append(input, a.history...)
	input = append(input, schema.UserMessage(full))

	out, err := a.agent.Generate(ctx, input)
	if err != nil {
		return "", fmt.Errorf("assistant turn failed: %w", err)
	}

	a.history = append(a.history, schema.UserMessage(full), out)
	return out.Content, nil
}

// Reset drops the conversation history.
func (a *Assistant) Reset() {
	a.mu.Lock()
	a.history = nil
	a.mu.Unlock()
}

// Verify performs a one-shot request to confirm the credentials work.
func (a *Assistant) Verify(ctx context.Context) error {
	_, err := a.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage("Hi")})
	if err != nil {
		return fmt.Errorf("%s connection check failed: %w", a.provider, err)
	}
	return nil
}
