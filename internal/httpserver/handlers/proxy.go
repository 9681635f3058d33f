package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/wapi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/wapi/internal/wapi"
)

const maxBodyBytes = 10 << 20

// Proxy forwards one operation to the vendor and writes its JSON back
// verbatim.
func Proxy(d deps.Deps, op wapi.Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := readParams(w, r, op)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		resp, err := d.Client.Call(r.Context(), op.Name, params)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(resp)
	}
}

// readParams takes query parameters for GET operations and a JSON object
// body for the rest. Repeated query keys become lists.
func readParams(w http.ResponseWriter, r *http.Request, op wapi.Operation) (map[string]any, error) {
	if op.Method == http.MethodGet {
		query := r.URL.Query()
		if len(query) == 0 {
			return nil, nil
		}
		params := make(map[string]any, len(query))
		for k, v := range query {
			if len(v) == 1 {
				params[k] = v[0]
				continue
			}
			params[k] = v
		}
		return params, nil
	}

	if r.Body == nil {
		return nil, nil
	}
	var params map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber() // large ids must reach the vendor unchanged
	if err := dec.Decode(&params); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return params, nil
}
