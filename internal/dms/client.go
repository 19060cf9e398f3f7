// Package dms is the client for the document management service that holds
// the help corpus: collection lookup, paginated file listings, and file
// downloads, all behind a bearer credential.
package dms

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultPageSize = 100

// Collection identifies one content-store collection.
type Collection struct {
	ID   int64  `json:"id"`
	Name string `json:"collection_name"`
}

// FileRef is one document in a collection listing.
type FileRef struct {
	ID   int64  `json:"id"`
	Name string `json:"file_name"`
}

// StatusError is a non-2xx response from the store.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Code, e.Body)
}

// Config holds client connection settings.
type Config struct {
	BaseURL     string
	AuthToken   string
	Timeout     time.Duration
	PageSize    int
	InsecureTLS bool
}

// Client communicates with the DMS HTTP API.
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	transport := http.DefaultTransport
	if cfg.InsecureTLS {
		// Some deployments front the store with a private CA.
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		token:    cfg.AuthToken,
		pageSize: pageSize,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// ListCollections returns collections visible to the credential, optionally
// filtered server-side by query.
func (c *Client) ListCollections(ctx context.Context, query string) ([]Collection, error) {
	params := url.Values{}
	params.Set("page_number", "1")
	params.Set("page_size", strconv.Itoa(c.pageSize))
	if query != "" {
		params.Set("search_query", query)
	}

	var payload struct {
		Data struct {
			Items []Collection `json:"items"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, "/dms/list_collections", params, &payload); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return payload.Data.Items, nil
}

// ListFiles returns every file in a collection matching query, paging
// through the listing until the server-reported total count is exhausted.
func (c *Client) ListFiles(ctx context.Context, collectionID int64, query string) ([]FileRef, error) {
	path := fmt.Sprintf("/dms/collection/%d", collectionID)

	fetchPage := func(page int) (total int, items []FileRef, err error) {
		params := url.Values{}
		params.Set("page_number", strconv.Itoa(page))
		params.Set("page_size", strconv.Itoa(c.pageSize))
		if query != "" {
			params.Set("search_query", query)
		}
		var payload struct {
			Data struct {
				TotalCount int       `json:"total_count"`
				Items      []FileRef `json:"items"`
			} `json:"data"`
		}
		if err := c.getJSON(ctx, path, params, &payload); err != nil {
			return 0, nil, err
		}
		return payload.Data.TotalCount, payload.Data.Items, nil
	}

	total, items, err := fetchPage(1)
	if err != nil {
		return nil, fmt.Errorf("list collection %d: %w", collectionID, err)
	}
	if total == 0 {
		return nil, nil
	}

	pages := (total + c.pageSize - 1) / c.pageSize
	for page := 2; page <= pages; page++ {
		_, more, err := fetchPage(page)
		if err != nil {
			return nil, fmt.Errorf("list collection %d page %d: %w", collectionID, page, err)
		}
		items = append(items, more...)
	}
	return items, nil
}

// FetchFile downloads the raw content of a file by id.
func (c *Client) FetchFile(ctx context.Context, fileID int64) ([]byte, error) {
	params := url.Values{}
	params.Set("file_id", strconv.FormatInt(fileID, 10))

	req, err := c.newRequest(ctx, "/dms/file_download", params)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch file %d: %w", fileID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{Op: fmt.Sprintf("fetch file %d", fileID), Code: resp.StatusCode, Body: string(body)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file %d: %w", fileID, err)
	}
	return data, nil
}

func (c *Client) newRequest(ctx context.Context, path string, params url.Values) (*http.Request, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := c.newRequest(ctx, path, params)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Op: "get " + path, Code: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
