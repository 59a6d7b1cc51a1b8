package openai

import (
	"context"
	"fmt"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"monteCarloDash/internal/montecarlo"
)

const systemPrompt = `You are a concise quantitative analyst. You receive the inputs and results of a Monte Carlo simulation of one stock under geometric Brownian motion.

Write at most 5 short bullet points, plain text:
- what the annualized drift and volatility imply
- the spread of simulated one-horizon outcomes
- the probability of ending above the starting price
- one sentence on model limits (lognormal, constant volatility, history-based estimates)

Do not give investment advice. Do not invent data that is not in the input.`

// Commentator narrates simulation results with a chat model.
type Commentator struct {
	cli   oa.Client
	model string
}

func NewCommentator(apiKey, model string, opts ...option.RequestOption) *Commentator {
	if model == "" {
		model = "gpt-4"
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Commentator{cli: oa.NewClient(opts...), model: model}
}

// Comment returns a short text commentary on one simulation run.
func (c *Commentator) Comment(ctx context.Context, symbol string, horizon int, params montecarlo.MarketParameters, s montecarlo.Summary) (string, error) {
	resp, err := c.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: oa.ChatModel(c.model),
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(systemPrompt),
			oa.UserMessage(buildPrompt(symbol, horizon, params, s)),
		},
		MaxTokens: oa.Int(400),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(symbol string, horizon int, params montecarlo.MarketParameters, s montecarlo.Summary) string {
	return fmt.Sprintf(`Ticker: %s
Horizon: %d trading days
Annualized expected log-return: %.4f
Annualized volatility: %.4f
Starting price: %.2f
Terminal price mean %.2f, median %.2f, 5th pct %.2f, 95th pct %.2f, min %.2f, max %.2f
Share of paths ending above start: %.1f%%`,
		strings.ToUpper(symbol), horizon, params.ExpectedReturn, params.Volatility,
		s.InitialPrice, s.Mean, s.Median, s.P5, s.P95, s.Min, s.Max, s.ProbAbove*100)
}
