package neon

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
)

const (
	defaultBaseURL = "https://console.neon.tech/api/v2/"
	apiClientName  = "db-fork-bench"
	apiTimeout     = 60 * time.Second
)

// APIClient talks to the Neon control plane. Branch creation and
// connection-URI lookup go through it; data-plane traffic stays on the
// Postgres session.
type APIClient struct {
	client  fasthttp.Client
	baseURL string
	apiKey  string
}

// NewAPIClient builds a client for the given project API key. The key
// is treated as an opaque credential supplied by the caller.
func NewAPIClient(apiKey, baseURL string) *APIClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &APIClient{
		client:  fasthttp.Client{Name: apiClientName},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type branchInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
}

type branchListResponse struct {
	Branches []branchInfo `json:"branches"`
}

type branchCreateRequest struct {
	Endpoints []map[string]string `json:"endpoints"`
	Branch    struct {
		Name     string `json:"name"`
		ParentID string `json:"parent_id,omitempty"`
	} `json:"branch"`
}

type branchCreateResponse struct {
	Branch branchInfo `json:"branch"`
}

type connectionURIResponse struct {
	URI string `json:"uri"`
}

func (c *APIClient) do(method, endpoint string, body interface{}, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + endpoint)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshal request")
		}
		req.Header.SetContentType("application/json")
		req.SetBody(raw)
	}

	if err := c.client.DoTimeout(req, resp, apiTimeout); err != nil {
		return errors.Wrapf(err, "%s %s", method, endpoint)
	}
	if sc := resp.StatusCode(); sc < 200 || sc > 299 {
		return errors.Errorf("%s %s: status %d: %s", method, endpoint, sc, resp.Body())
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return errors.Wrapf(err, "%s %s: decode response", method, endpoint)
		}
	}
	return nil
}

// CreateBranch creates a read-write branch under the given parent and
// returns its branch ID.
func (c *APIClient) CreateBranch(projectID, name, parentID string) (string, error) {
	var req branchCreateRequest
	req.Endpoints = []map[string]string{{"type": "read_write"}}
	req.Branch.Name = name
	req.Branch.ParentID = parentID

	var out branchCreateResponse
	endpoint := fmt.Sprintf("projects/%s/branches", projectID)
	if err := c.do(fasthttp.MethodPost, endpoint, &req, &out); err != nil {
		return "", err
	}
	return out.Branch.ID, nil
}

// Branches lists the project's branches keyed by name.
func (c *APIClient) Branches(projectID string) (map[string]branchInfo, error) {
	var out branchListResponse
	endpoint := fmt.Sprintf("projects/%s/branches", projectID)
	if err := c.do(fasthttp.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	byName := make(map[string]branchInfo, len(out.Branches))
	for _, b := range out.Branches {
		byName[b.Name] = b
	}
	return byName, nil
}

// ConnectionURI fetches the Postgres connection URI for one branch and
// database. The first lookup for a branch is a control-plane round trip;
// callers cache the result so branch connects stay comparable.
func (c *APIClient) ConnectionURI(projectID, branchID, dbName, roleName string) (string, error) {
	endpoint := fmt.Sprintf(
		"projects/%s/connection_uri?branch_id=%s&database_name=%s&role_name=%s",
		projectID, url.QueryEscape(branchID), url.QueryEscape(dbName), url.QueryEscape(roleName),
	)
	var out connectionURIResponse
	if err := c.do(fasthttp.MethodGet, endpoint, nil, &out); err != nil {
		return "", err
	}
	return out.URI, nil
}
