package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrNoAPIKey is returned when the OpenAI planner is selected without a key.
var ErrNoAPIKey = fmt.Errorf("openai: api key not configured")

const defaultModel = "gpt-4o-mini"

// OpenAIPlanner calls the chat-completions API with prompt-constrained JSON
// output. Each call carries an 8s timeout; there are no retries, a failure
// aborts the caller's whole operation.
type OpenAIPlanner struct {
	client openai.Client
	apiKey string
	model  string
}

func NewOpenAIPlanner(apiKey, model string) *OpenAIPlanner {
	apiKey = strings.TrimSpace(apiKey)
	return &OpenAIPlanner{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		apiKey: apiKey,
		model:  strings.TrimSpace(model),
	}
}

func (p *OpenAIPlanner) AnalyzeFinancialGoal(ctx context.Context, req FinancialAnalysisRequest) (FinancialAnalysisResponse, error) {
	system := "You are a personal finance planner. The user wants to save for an item. " +
		"Estimate a realistic cost, judge whether the desired timeline is feasible given disposable income, " +
		"suggest a realistic timeline if not, and compute a weekly savings target for the realistic timeline. " +
		"All money values are integer cents. Return ONLY valid JSON with keys: " +
		"isFeasible (boolean), reasoning (string), realisticTimeline (string like \"6 months\"), " +
		"estimatedCostCents (integer), weeklySavingsTargetCents (integer)."
	var out FinancialAnalysisResponse
	if err := p.call(ctx, system, req, &out); err != nil {
		return FinancialAnalysisResponse{}, err
	}
	if out.EstimatedCostCents <= 0 || out.WeeklySavingsTargetCents < 0 {
		return FinancialAnalysisResponse{}, fmt.Errorf("openai: implausible financial analysis")
	}
	return out, nil
}

func (p *OpenAIPlanner) AnalyzePersonalGoal(ctx context.Context, req PersonalAnalysisRequest) (PersonalAnalysisResponse, error) {
	system := "You are a personal development coach. Assess whether the goal is achievable in the desired " +
		"timeline given the user's skill level and daily time, suggest a realistic timeline or first milestone " +
		"if not, and break the goal into 3-5 specific, actionable tasks for the very first week. " +
		"Return ONLY valid JSON with keys: isFeasible (boolean), reasoning (string), " +
		"realisticTimeline (string like \"8 weeks\"), firstWeekTasks (array of strings)."
	var out PersonalAnalysisResponse
	if err := p.call(ctx, system, req, &out); err != nil {
		return PersonalAnalysisResponse{}, err
	}
	if len(out.FirstWeekTasks) == 0 {
		return PersonalAnalysisResponse{}, fmt.Errorf("openai: analysis returned no first-week tasks")
	}
	return out, nil
}

func (p *OpenAIPlanner) WeeklyUpdate(ctx context.Context, req WeeklyUpdateRequest) (WeeklyUpdateResponse, error) {
	system := "You are a weekly check-in coach tracking one financial goal and one personal goal. " +
		"Based on last week's completion rate, create 3-5 new tasks for the upcoming week: fewer or easier " +
		"below 50% completion, slightly harder above 80%, similar otherwise. Also produce ONE short insight " +
		"about the user's progress or patterns. Return ONLY valid JSON with keys: " +
		"nextWeekTasks (array of strings), insight (object with type being one of " +
		"financial|personal|cross-goal|motivational, and text; or null)."
	var out WeeklyUpdateResponse
	if err := p.call(ctx, system, req, &out); err != nil {
		return WeeklyUpdateResponse{}, err
	}
	if out.Insight != nil && strings.TrimSpace(out.Insight.Text) == "" {
		out.Insight = nil
	}
	return out, nil
}

func (p *OpenAIPlanner) call(ctx context.Context, system string, payload any, out any) error {
	if p.apiKey == "" {
		return ErrNoAPIKey
	}
	ctx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("openai: encode request: %w", err)
	}
	model := p.model
	if model == "" {
		model = defaultModel
	}
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage("Input JSON:\n" + string(body)),
		},
		MaxTokens: openai.Int(600),
	})
	if err != nil {
		return fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("openai: empty response")
	}
	if err := decodeJSON(resp.Choices[0].Message.Content, out); err != nil {
		return fmt.Errorf("openai: parse response: %w", err)
	}
	return nil
}

// decodeJSON tolerates code fences and prose around the JSON object.
func decodeJSON(text string, out any) error {
	text = strings.TrimSpace(text)
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}
	return json.Unmarshal([]byte(text), out)
}
