package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Copywriter 文案產生的外部協作者
// 核心訂單/購物車邏輯不依賴任何特定LLM API的形狀
type Copywriter interface {
	GenerateCopy(ctx context.Context, brief ProductBrief) (ProductCopy, error)
	ScoreProduct(ctx context.Context, brief ProductBrief) (ApprovalScore, error)
}

// LLMCopywriter 走chat-completion形狀的HTTP client
// 模型輸出非合法JSON時一律回零值結果 不讓整個請求失敗
type LLMCopywriter struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	model      string
	logger     *zerolog.Logger
}

func NewLLMCopywriter(apiURL, apiKey, model string, logger *zerolog.Logger) *LLMCopywriter {
	return &LLMCopywriter{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     apiURL,
		apiKey:     apiKey,
		model:      model,
		logger:     logger,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *LLMCopywriter) GenerateCopy(ctx context.Context, brief ProductBrief) (ProductCopy, error) {
	prompt := fmt.Sprintf(
		`Write product copy for an online store listing. Respond with JSON only, shaped as {"title": string, "description": string, "highlights": [string]}.
Product: %s
Category: %s
Notes: %s`,
		brief.Title, brief.Category, brief.Description)

	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return ProductCopy{}, err
	}

	var copyResult ProductCopy
	if err := json.Unmarshal([]byte(extractJSON(raw)), &copyResult); err != nil {
		// 模型沒照規矩回JSON 降級為空結果
		c.logger.Warn().Err(err).Str("raw", truncate(raw, 200)).Msg("llm returned non-json copy, degrading to empty result")
		return ProductCopy{}, nil
	}
	return copyResult, nil
}

func (c *LLMCopywriter) ScoreProduct(ctx context.Context, brief ProductBrief) (ApprovalScore, error) {
	prompt := fmt.Sprintf(
		`Review this online store listing for policy compliance and quality. Respond with JSON only, shaped as {"approved": bool, "score": number between 0 and 1, "reasons": [string]}.
Product: %s
Category: %s
Description: %s`,
		brief.Title, brief.Category, brief.Description)

	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return ApprovalScore{}, err
	}

	var score ApprovalScore
	if err := json.Unmarshal([]byte(extractJSON(raw)), &score); err != nil {
		c.logger.Warn().Err(err).Str("raw", truncate(raw, 200)).Msg("llm returned non-json score, degrading to empty result")
		return ApprovalScore{}, nil
	}
	return score, nil
}

func (c *LLMCopywriter) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("decode llm response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", nil
	}
	return chatResp.Choices[0].Message.Content, nil
}

// 模型常把JSON包在```fence或前後廢話裡 取第一個{到最後一個}
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return raw
	}
	return raw[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
