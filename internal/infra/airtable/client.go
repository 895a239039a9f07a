package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/moontonsl/communityheroesph-sub001/internal/core/port"
	"github.com/moontonsl/communityheroesph-sub001/internal/infra/config"
)

const defaultBaseURL = "https://api.airtable.com/v0"

// Client talks to the Airtable REST API. Upserts use the performUpsert
// mechanism keyed on one merge field so repeated syncs of the same record are
// idempotent.
type Client struct {
	baseURL    string
	baseID     string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient constructs an Airtable client from configuration.
func NewClient(cfg config.AirtableSettings, logger *zap.Logger) (*Client, error) {
	if cfg.BaseID == "" || cfg.Token == "" {
		return nil, fmt.Errorf("airtable: base id and token are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		baseID:     cfg.BaseID,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

type upsertRequest struct {
	PerformUpsert upsertSpec     `json:"performUpsert"`
	Records       []recordFields `json:"records"`
}

type upsertSpec struct {
	FieldsToMergeOn []string `json:"fieldsToMergeOn"`
}

type recordFields struct {
	Fields map[string]any `json:"fields"`
}

type upsertResponse struct {
	Records []struct {
		ID string `json:"id"`
	} `json:"records"`
	CreatedRecords []string `json:"createdRecords"`
}

type listResponse struct {
	Records []struct {
		ID string `json:"id"`
	} `json:"records"`
}

// Upsert creates or updates one record keyed on keyField.
func (c *Client) Upsert(ctx context.Context, table, keyField string, fields map[string]any) (port.UpsertResult, error) {
	var result port.UpsertResult

	body := upsertRequest{
		PerformUpsert: upsertSpec{FieldsToMergeOn: []string{keyField}},
		Records:       []recordFields{{Fields: fields}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return result, fmt.Errorf("marshal upsert request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))
	resp, err := c.do(ctx, http.MethodPatch, endpoint, payload)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return result, c.statusError("upsert", table, resp)
	}

	var parsed upsertResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return result, fmt.Errorf("decode upsert response: %w", err)
	}
	if len(parsed.Records) > 0 {
		result.ExternalID = parsed.Records[0].ID
	}
	result.Created = len(parsed.CreatedRecords) > 0

	return result, nil
}

// DeleteByKey finds the record whose keyField equals key and deletes it.
// A missing record is not an error; the delete already holds.
func (c *Client) DeleteByKey(ctx context.Context, table, keyField, key string) error {
	formula := fmt.Sprintf("{%s}='%s'", keyField, key)
	endpoint := fmt.Sprintf("%s/%s/%s?maxRecords=1&filterByFormula=%s",
		c.baseURL, c.baseID, url.PathEscape(table), url.QueryEscape(formula))

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError("lookup", table, resp)
	}

	var parsed listResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode lookup response: %w", err)
	}
	if len(parsed.Records) == 0 {
		c.logger.Debug("mirror record already absent",
			zap.String("table", table), zap.String("key", key))
		return nil
	}

	deleteEndpoint := fmt.Sprintf("%s/%s/%s/%s",
		c.baseURL, c.baseID, url.PathEscape(table), parsed.Records[0].ID)
	delResp, err := c.do(ctx, http.MethodDelete, deleteEndpoint, nil)
	if err != nil {
		return err
	}
	defer delResp.Body.Close()

	if delResp.StatusCode < 200 || delResp.StatusCode >= 300 {
		return c.statusError("delete", table, delResp)
	}
	return nil
}

// Ping verifies credentials and base reachability with a minimal read.
func (c *Client) Ping(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/%s/%s?maxRecords=1", c.baseURL, c.baseID, url.PathEscape(SubmissionsPingTable))
	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError("ping", SubmissionsPingTable, resp)
	}
	return nil
}

// SubmissionsPingTable is the table probed by Ping.
const SubmissionsPingTable = "Barangay Submissions"

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build airtable request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airtable request: %w", err)
	}
	return resp, nil
}

func (c *Client) statusError(op, table string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("airtable %s on %s: status %d: %s", op, table, resp.StatusCode, string(snippet))
}

var _ port.MirrorClient = (*Client)(nil)
