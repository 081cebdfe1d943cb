package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"evalgo.org/flightasset/models"
)

const redacted = "[REDACTED]"

// Do issues a request and decodes the JSON:API response.
//
// path is either a link taken from a server response, used as-is when
// absolute, or a collection/resource path relative to the API prefix. body,
// when not nil, is encoded as JSON. A 2xx response without a body returns a
// nil document and no error: for a to-one relationship that means "no
// target", not "relationship missing".
func (c *Client) Do(ctx context.Context, method, path string, q *Query, body any) (*models.Document, error) {
	u, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	if q != nil {
		values := u.Query()
		for key, vs := range q.Values() {
			values[key] = vs
		}
		u.RawQuery = values.Encode()
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &models.TransportError{Method: method, URL: u.String(), Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", models.MediaType)
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", models.MediaType)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	logger := c.logger.With("request_id", requestID)
	logger.Debug("sending request", "method", method, "url", u.String(), "headers", redactHeaders(req.Header))
	if body != nil {
		logger.Trace("request body", "body", string(payload))
	}

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("request failed", "error", err)
		return nil, &models.TransportError{Method: method, URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.TransportError{Method: method, URL: u.String(), Status: resp.StatusCode, Err: err}
	}
	logger.Debug("received response", "status", resp.StatusCode, "duration", c.now().Sub(start))
	logger.Trace("response body", "body", string(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.classify(method, u.String(), resp.StatusCode, data)
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return models.DecodeDocument(data)
}

// resolve turns a path or link into a request URL. Absolute links are used
// as-is, root-relative links are joined to the base URL only and anything
// else is joined to the base URL and the API prefix.
func (c *Client) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, &models.InternalError{Op: "resolve", Msg: fmt.Sprintf("invalid request path %q: %v", path, err)}
	}
	if ref.IsAbs() {
		return ref, nil
	}
	if strings.HasPrefix(path, "/") {
		return c.base.ResolveReference(ref), nil
	}
	u := c.base.JoinPath(c.cfg.APIPrefix, ref.EscapedPath())
	u.RawQuery = ref.RawQuery
	return u, nil
}

// classify maps a non-2xx response onto the error taxonomy.
func (c *Client) classify(method, rawURL string, status int, body []byte) error {
	objects := models.DecodeErrors(body)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &models.CredentialsError{Reason: fmt.Sprintf("the API token was rejected (HTTP %d)", status)}
	case http.StatusNotFound:
		// The API answers 404 rather than 401 for a token it can not decode,
		// so a bad token is the likelier cause when the token itself looks
		// wrong.
		if reason, bad := tokenProblem(c.cfg.Token, c.now()); bad {
			return &models.CredentialsError{Reason: reason}
		}
	case http.StatusUnprocessableEntity:
		return models.NewValidationError(status, objects, describeValidation)
	}

	terr := &models.TransportError{Method: method, URL: rawURL, Status: status}
	if len(objects) > 0 {
		first := objects[0]
		terr.Code = string(first.Code)
		terr.Pointer = first.Source.Pointer
		terr.Detail = first.Message()
	} else {
		terr.Detail = http.StatusText(status)
	}
	return terr
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key, values := range h {
		if strings.EqualFold(key, "Authorization") {
			out[key] = redacted
			continue
		}
		out[key] = strings.Join(values, ", ")
	}
	return out
}
