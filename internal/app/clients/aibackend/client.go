// Package aibackend talks to the external AI service that performs post
// summarization, eligibility scoring, and study-plan generation. This
// package only marshals payloads and relays responses; all inference
// lives on the other side of the wire.
package aibackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/placementhub/placementhub/internal/app/system/apierror"
	"github.com/placementhub/placementhub/internal/app/system/timeouts"
)

// Summary is the structured result of summarizing a raw job/internship
// announcement. Skills and Courses inside Criteria are left untyped
// because the service returns them in several shapes (string, list,
// list of {name} objects); callers normalize them before persisting.
type Summary struct {
	Title            string          `json:"title"`
	Type             string          `json:"type"`
	Content          string          `json:"content"`
	Company          string          `json:"company"`
	Website          string          `json:"website"`
	RegistrationLink string          `json:"registration_link"`
	Role             string          `json:"role"`
	CTC              string          `json:"ctc"`
	Criteria         SummaryCriteria `json:"criteria"`
	Eligibility      struct {
		MinCGPA  string   `json:"minCGPA"`
		Branches []string `json:"branches"`
		Batch    []string `json:"batch"`
	} `json:"eligibility"`
	Responsibilities   []string `json:"responsibilities"`
	Benefits           []string `json:"benefits"`
	ApplicationProcess []string `json:"applicationProcess"`
}

// SummaryCriteria mirrors the criteria block of a summary response.
type SummaryCriteria struct {
	CGPA       *float64 `json:"cgpa"`
	Backlogs   *int     `json:"backlogs"`
	Skills     any      `json:"skills"`
	Courses    any      `json:"courses"`
	Experience string   `json:"experience"`
}

type summarizeResponse struct {
	Summary *Summary `json:"summary"`
}

// Client is an HTTP client for the AI backend. The zero value is not
// usable; construct with New.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the AI backend rooted at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeouts.Backend,
		},
	}
}

// post sends a JSON body and returns the raw response bytes. Transport
// failures and non-2xx statuses map to Unavailable naming the service
// (never the URL).
func (c *Client) post(ctx context.Context, service, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", service, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", service, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apierror.Unavailable(service, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierror.Unavailable(service, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apierror.Unavailable(service, fmt.Errorf("%s http status %d", service, resp.StatusCode))
	}
	return raw, nil
}

// Summarize forwards a raw title and description to the summarization
// endpoint and returns the structured summary. A well-formed response
// must carry a summary object with a non-empty type classification;
// anything else is a contract violation.
func (c *Client) Summarize(ctx context.Context, title, description string) (*Summary, error) {
	raw, err := c.post(ctx, "summarization service", "/job/summarise", map[string]string{
		"title":       title,
		"description": description,
	})
	if err != nil {
		return nil, err
	}

	var out summarizeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apierror.BackendContract("summarization service", "malformed response body")
	}
	if out.Summary == nil {
		return nil, apierror.BackendContract("summarization service", "response missing summary")
	}
	if out.Summary.Type == "" {
		return nil, apierror.BackendContract("summarization service", "summary missing type classification")
	}
	return out.Summary, nil
}

// CheckEligibility forwards an assembled user+post payload to the
// eligibility endpoint and relays the response verbatim. The response
// shape is owned by the remote service; it must only be valid JSON.
func (c *Client) CheckEligibility(ctx context.Context, payload any) (json.RawMessage, error) {
	raw, err := c.post(ctx, "eligibility service", "/job/eligibility", payload)
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, apierror.BackendContract("eligibility service", "response is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

// GeneratePlan forwards a post-derived payload to the study-plan
// endpoint and relays the response verbatim.
func (c *Client) GeneratePlan(ctx context.Context, payload any) (json.RawMessage, error) {
	raw, err := c.post(ctx, "planner service", "/job/planner", payload)
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, apierror.BackendContract("planner service", "response is not valid JSON")
	}
	return json.RawMessage(raw), nil
}
