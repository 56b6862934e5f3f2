//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-stockgen/internal/config"
	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/transform"
)

// ErrNoAPIKey is returned when the narrative service has no API key.
var ErrNoAPIKey = errors.New("narrative API key not configured")

// maxResponseBytes bounds how much of a completion response is read.
const maxResponseBytes = 256 * 1024

// Facts are the headline figures the narrative is written from.
type Facts struct {
	TotalInventoryValue   decimal.Decimal
	StockTurnoverRatio    float64
	DaysOfInventoryOnHand float64
	DeadStockItems        int
	DeadStockValue        decimal.Decimal

	// TotalItems is the number of stock rows valued; 0 is treated as 1.
	TotalItems int
}

// DeadStockPercent is the dead stock share of all valued stock rows.
func (f Facts) DeadStockPercent() float64 {
	total := f.TotalItems
	if total == 0 {
		total = 1
	}
	return float64(f.DeadStockItems) / float64(total) * 100
}

// FactsFrom collects narrative facts from whatever stages have run.
func FactsFrom(a transform.Analytics) Facts {
	var f Facts
	if a.Inventory != nil {
		s := a.Inventory.Summary
		f.StockTurnoverRatio = s.StockTurnoverRatio
		f.DaysOfInventoryOnHand = s.DaysOfInventoryOnHand
		f.DeadStockItems = s.TotalDeadStockItems
		f.DeadStockValue = s.TotalDeadStockValue
	}
	if a.Financial != nil {
		f.TotalInventoryValue = a.Financial.Summary.TotalInventoryValue
		f.TotalItems = len(a.Financial.StockValue)
	}
	return f
}

// Narrator writes a short executive narrative from report facts.
type Narrator interface {
	Narrate(ctx context.Context, facts Facts) (string, error)
}

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	BaseURL  string
	APIKey   string
	Model    string
	MaxWords int

	httpClient *http.Client
}

// NewClient builds a client from the narrative configuration. The API key
// falls back to OPENAI_API_KEY.
func NewClient(cfg config.NarrativeConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:     cfg.ResolvedAPIKey(),
		Model:      cfg.Model,
		MaxWords:   cfg.MaxWords,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Narrate requests a narrative and truncates it to MaxWords.
func (c *Client) Narrate(ctx context.Context, facts Facts) (string, error) {
	if c.APIKey == "" {
		return "", ErrNoAPIKey
	}
	log := logging.With("report")

	body, err := json.Marshal(chatRequest{
		Model:    c.Model,
		Messages: []chatMessage{{Role: "user", Content: c.prompt(facts)}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("narrative request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read narrative response: %w", err)
	}

	var parsed chatResponse
	jsonErr := json.Unmarshal(raw, &parsed)
	if resp.StatusCode != http.StatusOK {
		if jsonErr == nil && parsed.Error != nil {
			return "", fmt.Errorf("narrative service error (%s): %s", parsed.Error.Type, parsed.Error.Message)
		}
		return "", fmt.Errorf("narrative service HTTP %d", resp.StatusCode)
	}
	if jsonErr != nil {
		return "", fmt.Errorf("failed to decode narrative response: %w", jsonErr)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", errors.New("narrative service returned no content")
	}

	text := parsed.Choices[0].Message.Content
	words := len(strings.Fields(text))
	out := Truncate(text, c.MaxWords)
	if words > c.MaxWords {
		log.Warn().
			Int("words", words).
			Int("max_words", c.MaxWords).
			Msg("Narrative truncated")
	}
	return out, nil
}

func (c *Client) prompt(f Facts) string {
	var b strings.Builder
	b.WriteString("You are an expert business analyst. Write a very short, high-impact analytic narrative in English from the following warehouse data.\n\n")
	b.WriteString("Data:\n")
	fmt.Fprintf(&b, "- Total inventory value: %s\n", f.TotalInventoryValue.StringFixed(0))
	fmt.Fprintf(&b, "- Stock turnover ratio: %.2f\n", f.StockTurnoverRatio)
	fmt.Fprintf(&b, "- Days of inventory on hand: %.1f days\n", f.DaysOfInventoryOnHand)
	fmt.Fprintf(&b, "- Dead stock items: %d SKU (%.1f%%)\n", f.DeadStockItems, f.DeadStockPercent())
	fmt.Fprintf(&b, "- Dead stock value: %s\n\n", f.DeadStockValue.StringFixed(0))
	b.WriteString("Instructions:\n")
	b.WriteString("1. No more than 2 paragraphs.\n")
	fmt.Fprintf(&b, "2. No more than %d words.\n", c.MaxWords)
	b.WriteString("3. Focus on ONE critical finding and ONE main recommendation.\n")
	b.WriteString("4. Use <b> for bold text and <br><br> between paragraphs.\n")
	b.WriteString("5. Go straight to the point, no introduction.\n")
	return b.String()
}

// Truncate keeps the first maxWords whitespace-separated words of text,
// appending "..." when anything was cut. Text within the limit is returned
// unchanged.
func Truncate(text string, maxWords int) string {
	if text == "" {
		return ""
	}
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// allowedTags are the only markup kept from a narrative.
var allowedTags = strings.NewReplacer(
	"&lt;b&gt;", "<b>",
	"&lt;/b&gt;", "</b>",
	"&lt;br&gt;", "<br>",
	"&lt;br/&gt;", "<br>",
	"&lt;br /&gt;", "<br>",
)

// narrativeHTML escapes text, keeping bold and line-break tags.
func narrativeHTML(text string) template.HTML {
	return template.HTML(allowedTags.Replace(html.EscapeString(text)))
}

// plainTags strips the allowed markup for plain text output.
var plainTags = strings.NewReplacer(
	"<b>", "",
	"</b>", "",
	"<br><br>", "\n",
	"<br>", "\n",
	"<br/>", "\n",
	"<br />", "\n",
)

// Placeholder is the inline message shown in place of a narrative that
// could not be produced.
func Placeholder(err error) template.HTML {
	return template.HTML("<b>Error:</b> " + html.EscapeString(placeholderText(err)))
}

func placeholderText(err error) string {
	if errors.Is(err, ErrNoAPIKey) {
		return "The narrative service is not configured. Set report.narrative.api_key or OPENAI_API_KEY."
	}
	return "The narrative could not be generated. See the log for details."
}
