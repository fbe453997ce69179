// Package gateway talks to the OCR gateway, the HTTP service that runs OCR
// and form-field detection over uploaded documents.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/docuvault/redactsvc/internal/core/domain"
	"github.com/docuvault/redactsvc/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

type analyzeResponse struct {
	Text   string `json:"text"`
	Pages  int    `json:"pages"`
	Fields []struct {
		Label      string  `json:"label"`
		Value      string  `json:"value"`
		Confidence float64 `json:"confidence"`
		Page       int     `json:"page"`
	} `json:"fields"`
}

// AnalyzeDocument sends the document body to the gateway's analyze endpoint.
// The body is buffered up front so the call can be retried.
func (c *Client) AnalyzeDocument(ctx context.Context, filename string, body io.Reader) (*domain.OCRResult, error) {
	payload, contentType, err := buildMultipart(filename, body)
	if err != nil {
		return nil, err
	}

	var parsed analyzeResponse
	call := func(callCtx context.Context) error {
		return c.postAnalyze(callCtx, payload, contentType, &parsed)
	}

	if c.executor != nil {
		err = c.executor.Execute(ctx, "ocr.analyze", call, classifyGatewayError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapTemporaryIfNeeded("ocr analyze", err)
	}

	result := &domain.OCRResult{
		Text:   parsed.Text,
		Pages:  parsed.Pages,
		Fields: make([]domain.ExtractedField, 0, len(parsed.Fields)),
	}
	for _, f := range parsed.Fields {
		if strings.TrimSpace(f.Label) == "" {
			continue
		}
		result.Fields = append(result.Fields, domain.ExtractedField{
			Label:      f.Label,
			Value:      f.Value,
			Confidence: f.Confidence,
			Page:       f.Page,
		})
	}
	return result, nil
}

func buildMultipart(filename string, body io.Reader) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return nil, "", fmt.Errorf("copy document body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func (c *Client) postAnalyze(ctx context.Context, payload []byte, contentType string, out *analyzeResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/analyze", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ocr analyze request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &HTTPStatusError{
			Operation:  "analyze",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(raw)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode analyze response: %w", err)
	}
	return nil
}
