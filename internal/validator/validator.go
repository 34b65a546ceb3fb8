package validator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// FetchTimeout is the hard deadline for the metadata fetch. A slower endpoint
// is rejected, not retried.
const FetchTimeout = 10 * time.Second

const maxMetadataBytes = 1 << 20

// ActionMetadata is the self-described metadata an action endpoint must
// serve. Actions is passed through without validation at this layer.
type ActionMetadata struct {
	Title       string          `json:"title"`
	Icon        string          `json:"icon"`
	Description string          `json:"description"`
	Actions     json.RawMessage `json:"actions,omitempty"`
}

// Result holds the outcome of validating a candidate action endpoint.
type Result struct {
	Valid        bool
	ErrorCode    string
	ErrorMessage string
	Metadata     *ActionMetadata
}

// Validator decides whether a candidate URL is an admissible action endpoint.
// It performs no persistence.
type Validator struct {
	client       *http.Client
	requireHTTPS bool
}

// New creates a Validator. requireHTTPS should be true in production
// deployments; development permits plain http endpoints.
func New(requireHTTPS bool) *Validator {
	return &Validator{
		client:       &http.Client{Timeout: FetchTimeout},
		requireHTTPS: requireHTTPS,
	}
}

// NewWithClient creates a Validator with a custom HTTP client.
func NewWithClient(client *http.Client, requireHTTPS bool) *Validator {
	return &Validator{client: client, requireHTTPS: requireHTTPS}
}

// Validate fetches the endpoint's metadata and checks it structurally.
func (v *Validator) Validate(ctx context.Context, actionURL string) Result {
	parsed, err := url.Parse(actionURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return reject("invalid_url", "Invalid URL format")
	}

	if v.requireHTTPS && parsed.Scheme != "https" {
		return reject("insecure_transport", "Action URL must use HTTPS")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, actionURL, nil)
	if err != nil {
		return reject("invalid_url", "Invalid URL format")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return reject("timeout", "Action endpoint timed out (>10s)")
		}
		return reject("unreachable_endpoint", "Failed to fetch action metadata")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return reject("upstream_error",
			fmt.Sprintf("Action endpoint returned %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	var meta ActionMetadata
	if err := json.NewDecoder(http.MaxBytesReader(nil, resp.Body, maxMetadataBytes)).Decode(&meta); err != nil {
		return reject("invalid_metadata", "Action endpoint did not return valid JSON")
	}

	if meta.Title == "" {
		return reject("invalid_metadata", `Action metadata missing required "title" field`)
	}
	if meta.Icon == "" {
		return reject("invalid_metadata", `Action metadata missing required "icon" field`)
	}
	if meta.Description == "" {
		return reject("invalid_metadata", `Action metadata missing required "description" field`)
	}

	return Result{Valid: true, Metadata: &meta}
}

func reject(code, message string) Result {
	return Result{ErrorCode: code, ErrorMessage: message}
}
