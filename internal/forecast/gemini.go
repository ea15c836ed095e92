// internal/forecast/gemini.go
package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/stockcast-app/stockcast/internal/domain"
)

// GeminiPredictor asks the Gemini API for a demand curve. The model is
// prompted to answer with a strict JSON array so the response parses
// without natural-language handling.
type GeminiPredictor struct {
	apiKey string
	model  string
}

func NewGeminiPredictor(apiKey, model string) *GeminiPredictor {
	if model == "" {
		model = "gemini-1.5-pro-latest"
	}
	return &GeminiPredictor{apiKey: apiKey, model: model}
}

func (p *GeminiPredictor) Name() string { return "gemini" }

func (p *GeminiPredictor) Predict(ctx context.Context, req Request) ([]domain.ForecastPoint, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	horizon := req.HorizonDays
	if horizon <= 0 {
		horizon = DefaultHorizonDays
	}

	model := client.GenerativeModel(p.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(req, horizon)))
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	points, err := parseForecastJSON(text)
	if err != nil {
		return nil, fmt.Errorf("gemini response did not parse: %w", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("gemini returned an empty forecast")
	}
	return points, nil
}

func buildPrompt(req Request, horizon int) string {
	var b strings.Builder
	b.WriteString("You are a demand forecasting engine. Given the daily sales history below, ")
	fmt.Fprintf(&b, "predict the next %d days of demand.\n", horizon)
	b.WriteString("Respond with ONLY a JSON array of objects shaped ")
	b.WriteString(`{"date":"YYYY-MM-DD","predicted":number,"upper_bound":number,"lower_bound":number}`)
	b.WriteString(" with one object per day, chronological, starting the day after the last observation.\n")

	if req.Seasonality.Detected {
		fmt.Fprintf(&b, "A %s seasonality pattern was detected (strength %.2f); respect it.\n",
			req.Seasonality.Pattern, req.Seasonality.Strength)
	}

	b.WriteString("History (date,units):\n")
	// Cap the history sent out; the recent window dominates the forecast anyway.
	series := req.Series
	if len(series) > 180 {
		series = series[len(series)-180:]
	}
	for _, p := range series {
		fmt.Fprintf(&b, "%s,%.2f\n", p.Date.Format("2006-01-02"), p.Value)
	}
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text parts")
	}
	return b.String(), nil
}

// parseForecastJSON tolerates markdown code fences around the array.
func parseForecastJSON(text string) ([]domain.ForecastPoint, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var points []domain.ForecastPoint
	if err := json.Unmarshal([]byte(cleaned), &points); err != nil {
		return nil, err
	}
	return points, nil
}
