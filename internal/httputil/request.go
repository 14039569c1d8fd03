package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// maxBodyBytes bounds request bodies. Rule imports are the largest payload
// and stay well under this.
const maxBodyBytes = 8 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// Unknown fields are tolerated; field-level validation happens in the
// services.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// QueryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func QueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
