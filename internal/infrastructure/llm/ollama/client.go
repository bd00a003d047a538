package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/docmindhq/docmind/internal/infrastructure/llm"
	"github.com/docmindhq/docmind/internal/infrastructure/resilience"
)

const (
	defaultTimeout     = 120 * time.Second
	defaultTemperature = 0.2
	defaultNumCtx      = 8192
)

type Options struct {
	Temperature float64
	NumCtx      int
	Timeout     time.Duration
	Executor    *resilience.Executor
}

// Client talks to an Ollama-compatible generate endpoint in structured JSON
// output mode.
type Client struct {
	baseURL     string
	model       string
	temperature float64
	numCtx      int
	httpClient  *http.Client
	executor    *resilience.Executor
}

func New(baseURL, model string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	temperature := options.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	numCtx := options.NumCtx
	if numCtx <= 0 {
		numCtx = defaultNumCtx
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		temperature: temperature,
		numCtx:      numCtx,
		httpClient:  &http.Client{Timeout: timeout},
		executor:    options.Executor,
	}
}

func (c *Client) Name() string { return "ollama" }

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"format": "json",
		"stream": false,
		"options": map[string]any{
			"temperature": c.temperature,
			"num_ctx":     c.numCtx,
		},
	}

	var response struct {
		Response string `json:"response"`
	}
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/api/generate", reqBody, &response, "generate")
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "ollama.generate", call, llm.ClassifyProviderError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}
