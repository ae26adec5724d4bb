package variants

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pricescout/backend/internal/domain"
)

const variantPrompt = `Extract all size/pack variants from these snippets for %s:
%s

Return JSON: [{"size": 100, "unit": "ml"}, {"size": 200, "unit": "ml"}]
Only return JSON array, nothing else.`

// OllamaExtractor asks a local language model to list the variants
type OllamaExtractor struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaExtractor creates a model-assisted variant extractor
func NewOllamaExtractor(baseURL, model string, timeout time.Duration) *OllamaExtractor {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OllamaExtractor{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type generateReq struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResp struct {
	Response string `json:"response"`
}

// ExtractVariants implements domain.VariantExtractor.
// Any transport or format problem yields an empty list and the error.
func (e *OllamaExtractor) ExtractVariants(ctx context.Context, product, text string) ([]domain.Variant, error) {
	answer, err := e.generate(ctx, fmt.Sprintf(variantPrompt, product, text))
	if err != nil {
		log.Printf("[VARIANTS] model call failed for %q: %v", product, err)
		return []domain.Variant{}, err
	}

	variants, err := ParseVariantJSON(answer)
	if err != nil {
		log.Printf("[VARIANTS] unusable model answer for %q: %v", product, err)
		return []domain.Variant{}, err
	}
	return variants, nil
}

func (e *OllamaExtractor) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateReq{Model: e.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama generate: status %d", resp.StatusCode)
	}

	var result generateResp
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("ollama generate decode: %w", err)
	}
	return result.Response, nil
}

// ParseVariantJSON reads the first JSON array in answer as a variant list.
// Entries without a positive size or a unit are dropped.
func ParseVariantJSON(answer string) ([]domain.Variant, error) {
	start := strings.Index(answer, "[")
	end := strings.LastIndex(answer, "]")
	if start < 0 || end < start {
		return []domain.Variant{}, fmt.Errorf("%w: no JSON array in answer", domain.ErrVariantParse)
	}

	var raw []domain.Variant
	if err := json.Unmarshal([]byte(answer[start:end+1]), &raw); err != nil {
		return []domain.Variant{}, fmt.Errorf("%w: %v", domain.ErrVariantParse, err)
	}

	variants := make([]domain.Variant, 0, len(raw))
	seen := make(map[domain.Variant]bool)
	for _, v := range raw {
		unit := strings.ToLower(strings.TrimSpace(v.Unit))
		if canonical, ok := unitAliases[unit]; ok {
			unit = canonical
		}
		v = domain.Variant{Size: v.Size, Unit: unit}
		if v.Size <= 0 || v.Unit == "" || seen[v] {
			continue
		}
		seen[v] = true
		variants = append(variants, v)
	}
	return variants, nil
}
