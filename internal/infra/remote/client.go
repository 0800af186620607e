package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"wiki-quiz-engine/internal/domain"
	"wiki-quiz-engine/internal/metrics"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 2 * time.Minute
)

// Endpoint labels used for metrics.
const (
	endpointGenerate = "generate_quiz"
	endpointHistory  = "history"
	endpointDetail   = "quiz"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the generation/history service. Concurrent history
// requests share one round trip; a request started after a response arrived
// always goes to the network. Detail requests are never shared, so each open
// gets its own retrieval.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	metrics *metrics.Metrics
	sf      singleflight.Group
}

func NewClient(cfg Config, log *zap.Logger, m *metrics.Metrics) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		log:     log.Named("remote"),
		metrics: m,
	}
}

type generateRequest struct {
	URL string `json:"url"`
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// GenerateQuiz posts articleURL to /generate_quiz. A failed response's string
// detail is used verbatim as the error message.
func (c *Client) GenerateQuiz(ctx context.Context, articleURL string) (quiz domain.QuizData, err error) {
	started := time.Now()
	defer func() { c.metrics.ObserveRemote(endpointGenerate, started, err) }()

	body, err := json.Marshal(generateRequest{URL: articleURL})
	if err != nil {
		return domain.QuizData{}, domain.NewRemoteError(0, domain.MsgGenerateFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate_quiz", bytes.NewReader(body))
	if err != nil {
		return domain.QuizData{}, domain.NewRemoteError(0, domain.MsgGenerateFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("generate request failed", zap.String("url", articleURL), zap.Error(err))
		return domain.QuizData{}, domain.NewRemoteError(0, domain.MsgGenerateFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.QuizData{}, domain.NewRemoteError(resp.StatusCode, detailMessage(resp.Body, domain.MsgGenerateFailed), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(&quiz); err != nil {
		return domain.QuizData{}, domain.NewRemoteError(resp.StatusCode, domain.MsgGenerateFailed, fmt.Errorf("decode quiz: %w", err))
	}
	return quiz, nil
}

// History fetches the summaries in the order the service returns them.
func (c *Client) History(ctx context.Context) ([]domain.QuizSummary, error) {
	raw, err := c.shared(ctx, endpointHistory, "/history", domain.MsgHistoryFailed)
	if err != nil {
		return nil, err
	}
	var rows []domain.QuizSummary
	if err := decode(raw, endpointHistory, domain.MsgHistoryFailed, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// QuizDetail fetches one record with its quiz content.
func (c *Client) QuizDetail(ctx context.Context, id domain.QuizID) (domain.QuizDetailRecord, error) {
	path := "/quiz/" + url.PathEscape(id.String())
	raw, err := c.fetch(ctx, endpointDetail, path, domain.MsgDetailFailed)
	if err != nil {
		return domain.QuizDetailRecord{}, err
	}
	var record domain.QuizDetailRecord
	if err := decode(raw, endpointDetail, domain.MsgDetailFailed, &record); err != nil {
		return domain.QuizDetailRecord{}, err
	}
	return record, nil
}

// shared coalesces concurrent GETs of path into one round trip.
func (c *Client) shared(ctx context.Context, endpoint, path, failure string) ([]byte, error) {
	ch := c.sf.DoChan(path, func() (any, error) {
		// shared by every waiter, so no single caller may cancel it
		return c.fetch(context.WithoutCancel(ctx), endpoint, path, failure)
	})
	select {
	case <-ctx.Done():
		return nil, domain.NewRemoteError(0, failure, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func decode(raw []byte, endpoint, failure string, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.NewRemoteError(http.StatusOK, failure, fmt.Errorf("decode %s: %w", endpoint, err))
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, endpoint, path, failure string) (raw []byte, err error) {
	started := time.Now()
	defer func() { c.metrics.ObserveRemote(endpoint, started, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, domain.NewRemoteError(0, failure, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("path", path), zap.Error(err))
		return nil, domain.NewRemoteError(0, failure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.log.Warn("unexpected status", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return nil, domain.NewRemoteError(resp.StatusCode, failure, nil)
	}
	raw, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewRemoteError(resp.StatusCode, failure, err)
	}
	return raw, nil
}

// detailMessage extracts a string "detail" field, falling back when the body
// is not JSON or detail has another shape.
func detailMessage(body io.Reader, fallback string) string {
	var payload errorBody
	if err := json.NewDecoder(body).Decode(&payload); err != nil || len(payload.Detail) == 0 {
		return fallback
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil || detail == "" {
		return fallback
	}
	return detail
}
