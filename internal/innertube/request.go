package innertube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/famomatic/ytx/internal/transport"
)

// Endpoint names an InnerTube API endpoint under /youtubei/v1/.
type Endpoint string

const (
	EndpointPlayer Endpoint = "player"
	EndpointNext   Endpoint = "next"
)

const apiRoot = "youtubei/v1"

// APICallError wraps any failure of one API call: malformed URL, transport
// failure, rejected status, or a non-JSON body. Retry policy lives with the
// caller, not here.
type APICallError struct {
	Endpoint Endpoint
	Client   string
	Err      error
}

func (e *APICallError) Error() string {
	return fmt.Sprintf("api call failed: endpoint=%s client=%s: %v", e.Endpoint, e.Client, e.Err)
}

func (e *APICallError) Unwrap() error { return e.Err }

// APIClient builds and dispatches authenticated InnerTube requests.
type APIClient struct {
	transport *transport.Client
	now       func() time.Time
}

func NewAPIClient(t *transport.Client) *APIClient {
	return &APIClient{transport: t, now: time.Now}
}

// BuildHeaders assembles the header set for an API call from the persona
// and the session state. Cookie-derived authorization headers are merged in
// only for cookie-authenticated sessions.
func (c *APIClient) BuildHeaders(state SessionState, profile ClientProfile) (http.Header, error) {
	origin := "https://" + profile.Host

	headers := make(http.Header)
	headers.Set("X-YouTube-Client-Name", strconv.Itoa(profile.ContextClientName))
	headers.Set("X-YouTube-Client-Version", profile.Context.Client.ClientVersion)
	headers.Set("Origin", origin)
	if state.VisitorData != "" {
		headers.Set("X-Goog-Visitor-Id", state.VisitorData)
	}
	if ua := profile.Context.Client.UserAgent; ua != "" {
		headers.Set("User-Agent", ua)
	}

	if state.CookieAuth {
		cookieHeaders, err := BuildCookieAuthHeaders(c.transport.HTTPClient(), origin, c.now(), state)
		if err != nil {
			return nil, err
		}
		for k, values := range cookieHeaders {
			for _, v := range values {
				headers.Set(k, v)
			}
		}
	}
	return headers, nil
}

// CallOptions carries the optional parts of an API call.
type CallOptions struct {
	// Query fields are merged into the request body by sjson path
	// (e.g. "videoId", "playbackContext.contentPlaybackContext.signatureTimestamp").
	Query map[string]any
	// Headers override/extend the generated header set.
	Headers http.Header
	// ContextOverride replaces the persona's default context document.
	ContextOverride json.RawMessage
	// APIKey, when set, is sent as the "key" URL parameter.
	APIKey  string
	Session SessionState
}

// Call POSTs to the endpoint for the given persona and returns the parsed
// JSON document. All failure modes surface as *APICallError.
func (c *APIClient) Call(ctx context.Context, endpoint Endpoint, profile ClientProfile, opts CallOptions) (gjson.Result, error) {
	fail := func(err error) (gjson.Result, error) {
		return gjson.Result{}, &APICallError{Endpoint: endpoint, Client: profile.ID, Err: err}
	}

	body, err := c.buildBody(profile, opts)
	if err != nil {
		return fail(err)
	}

	headers, err := c.BuildHeaders(opts.Session, profile)
	if err != nil {
		return fail(err)
	}
	for k, values := range opts.Headers {
		headers.Del(k)
		for _, v := range values {
			headers.Add(k, v)
		}
	}
	headers.Set("Content-Type", "application/json")

	urlQuery := map[string]string{"prettyPrint": "false"}
	if opts.APIKey != "" {
		urlQuery["key"] = opts.APIKey
	}

	apiURL := fmt.Sprintf("https://%s/%s/%s", profile.Host, apiRoot, endpoint)
	resp, err := c.transport.Send(ctx, http.MethodPost, apiURL, headers, urlQuery, body)
	if err != nil {
		return fail(err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fail(fmt.Errorf("status %d", resp.StatusCode))
	}
	if !gjson.ValidBytes(resp.Body) {
		return fail(fmt.Errorf("response is not valid JSON"))
	}
	return gjson.ParseBytes(resp.Body), nil
}

func (c *APIClient) buildBody(profile ClientProfile, opts CallOptions) ([]byte, error) {
	var body []byte
	if len(opts.ContextOverride) > 0 {
		if !gjson.ValidBytes(opts.ContextOverride) {
			return nil, fmt.Errorf("context override is not valid JSON")
		}
		body = append([]byte(nil), opts.ContextOverride...)
	} else {
		encoded, err := json.Marshal(map[string]any{"context": profile.Context})
		if err != nil {
			return nil, err
		}
		body = encoded
	}
	for k, v := range opts.Query {
		merged, err := sjson.SetBytes(body, k, v)
		if err != nil {
			return nil, err
		}
		body = merged
	}
	return body, nil
}
