package replication

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Andreiisthebest/PRLabs/internal/types"
)

// HTTPPusher returns a PushFunc that POSTs the replicate request as JSON
// to endpoint + "/replicate". Only a 200 response counts as a
// confirmation.
func HTTPPusher(client *http.Client) PushFunc {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, endpoint string, req types.ReplicateRequest) bool {
		body, err := json.Marshal(req)
		if err != nil {
			return false
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/replicate", bytes.NewReader(body))
		if err != nil {
			return false
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(httpReq)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)

		return resp.StatusCode == http.StatusOK
	}
}
