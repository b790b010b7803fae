package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"ie-tracker-report/internal/config"
	"ie-tracker-report/internal/models"
)

// AIService produces aggregation summaries from a data rollup by calling an
// LLM provider. The model is asked to return the aggregation JSON structure
// directly; validation of that structure happens downstream.
type AIService struct {
	config config.AIConfig
}

// NewAIService creates a new AI service
func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{config: cfg}
}

// Gemini API request/response structures
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// AnalyzeAggregation sends the data rollup plus the expected output template
// to the configured provider and returns the parsed aggregation document.
// The returned map has NOT been validated against the template yet.
func (s *AIService) AnalyzeAggregation(ctx context.Context, summary *models.DataSummary, template map[string]interface{}) (map[string]interface{}, error) {
	prompt, err := s.buildAnalysisPrompt(summary, template)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis prompt: %w", err)
	}

	systemPrompt := "You are an expert data analyst specializing in image enhancement workflow reports. Analyze the provided data and generate structured summaries following the exact template format."

	var raw string
	switch s.config.Provider {
	case "openai":
		raw, err = s.callOpenAI(ctx, systemPrompt, prompt)
	default:
		raw, err = s.callGemini(ctx, systemPrompt, prompt)
	}
	if err != nil {
		return nil, err
	}

	raw = stripCodeFences(raw)

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		preview := raw
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		return nil, fmt.Errorf("failed to decode AI response JSON: %w (response preview: %s)", err, preview)
	}

	return result, nil
}

// buildAnalysisPrompt renders the analysis instructions with the data rollup
// and the expected template embedded as JSON.
func (s *AIService) buildAnalysisPrompt(summary *models.DataSummary, template map[string]interface{}) (string, error) {
	summaryJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data summary: %w", err)
	}
	templateJSON, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal template: %w", err)
	}

	return fmt.Sprintf(`Analyze the following data and generate structured summaries following the exact template format.

**DATA TO ANALYZE:**
`+"```json\n%s\n```"+`

**EXPECTED TEMPLATE FORMAT:**
`+"```json\n%s\n```"+`

**ANALYSIS REQUIREMENTS:**

1. **Monthly Summaries**: For each month in the data, calculate:
   - Total records processed
   - Total images done, reviewed, and edited
   - Breakdown by Good, Bad, Rejected categories
   - User participation statistics

2. **Weekly Summaries**: For each week (Monday-Friday only), calculate:
   - Weekly totals for all metrics
   - Daily breakdowns with totals per day
   - User performance per week

3. **User Summaries**: For each user, calculate:
   - Individual performance metrics
   - Total contribution across all periods
   - Quality metrics (Good/Bad/Rejected ratios)

4. **Daily Summaries**: For each working day, provide:
   - Individual user records
   - Daily totals per weekday

**CALCULATIONS TO PERFORM:**
- TotalDone = Sum of all images processed
- TotalReviewed = Good + Bad + Rejected
- TotalEdited = Downloaded + Uploaded
- ForEditing = GoodEnhanced + ForDownload

All dates use DD/MM/YYYY format.

**OUTPUT FORMAT:**
Return ONLY a valid JSON object matching the template structure above. No markdown, no code fences, no explanatory text.`, string(summaryJSON), string(templateJSON)), nil
}

// callGemini makes an HTTP request to the Gemini generateContent endpoint.
func (s *AIService) callGemini(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	// Gemini takes a single prompt rather than separate system/user roles.
	fullPrompt := systemPrompt + "\n\n" + userPrompt

	model := s.config.Model
	if model == "" || strings.HasPrefix(model, "gpt-") {
		model = "gemini-2.5-flash"
	}

	maxTokens := s.config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{Text: fullPrompt},
				},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      s.config.Temperature,
			MaxOutputTokens:  maxTokens,
			ResponseMimeType: "application/json",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", model, s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("Gemini API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// callOpenAI runs the same analysis through the OpenAI chat completions API.
func (s *AIService) callOpenAI(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	model := s.config.Model
	if model == "" || strings.HasPrefix(model, "gemini-") {
		model = openai.GPT4oMini
	}

	maxTokens := s.config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	client := openai.NewClient(s.config.APIKey)
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: float32(s.config.Temperature),
		MaxTokens:   maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

// stripCodeFences removes markdown code fences the model sometimes wraps
// around its JSON output.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}
