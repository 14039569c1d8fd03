package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// call issues one request against the server and decodes the JSON response
// into out (skipped when out is nil or the response has no body). API errors
// arrive as RFC 7807 problem documents and are surfaced as plain messages.
func call(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, strings.TrimRight(serverURL, "/")+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var problem struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &problem) == nil && problem.Title != "" {
			if problem.Detail != "" {
				return fmt.Errorf("%s: %s", problem.Title, problem.Detail)
			}
			return fmt.Errorf("%s", problem.Title)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if jsonOut && len(raw) > 0 {
		var indented bytes.Buffer
		if err := json.Indent(&indented, raw, "", "  "); err == nil {
			fmt.Println(indented.String())
		} else {
			fmt.Println(string(raw))
		}
	}

	if out != nil && len(raw) > 0 {
		return json.Unmarshal(raw, out)
	}
	return nil
}
