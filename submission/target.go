package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"courtflow/order"
)

// HTTPTarget posts fully-formed order payloads to the downstream consumer.
type HTTPTarget struct {
	client   *http.Client
	endpoint string
}

func NewHTTPTarget(endpoint string) *HTTPTarget {
	return &HTTPTarget{
		client:   &http.Client{Timeout: 30 * time.Second},
		endpoint: endpoint,
	}
}

type submitPayload struct {
	OrderID            string  `json:"order_id"`
	CourtFileID        string  `json:"court_file_id"`
	JudgeID            string  `json:"judge_id"`
	JudgeName          string  `json:"judge_name"`
	ReferredDocumentID string  `json:"referred_document_id"`
	ReviewStatus       string  `json:"review_status"`
	Signed             bool    `json:"signed"`
	Comments           *string `json:"comments,omitempty"`
	Document           []byte  `json:"document,omitempty"`
}

func (t *HTTPTarget) Submit(ctx context.Context, o order.Order) error {
	payload := submitPayload{
		OrderID:            o.ID,
		CourtFileID:        o.CourtFileID,
		JudgeID:            o.JudgeID,
		JudgeName:          o.JudgeName,
		ReferredDocumentID: o.ReferredDocumentID,
		ReviewStatus:       string(o.ReviewStatus),
		Signed:             o.Signed,
		Comments:           o.Comments,
		Document:           o.DocumentPayload,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("submission: marshal %s: %w", o.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("submission: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("submission: post %s: %w", o.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("submission: target rejected %s: %d %s", o.ID, resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}
