package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/hatecheck/internal/domain/service"
)

func TestPredictClient_Predict(t *testing.T) {
	t.Run("successful prediction", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/predict", r.URL.Path)
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req PredictRequest
			err := json.NewDecoder(r.Body).Decode(&req)
			require.NoError(t, err)
			assert.Equal(t, "test text", req.Text)

			resp := PredictResponse{
				Label:      "HATE",
				Confidence: 0.87,
				InputText:  "test text",
				ModelInfo:  "Transformer-based hate speech classifier",
			}
			w.Header().Set("Content-Type", "application/json")
			err = json.NewEncoder(w).Encode(resp)
			require.NoError(t, err)
		}))
		defer server.Close()

		client := NewPredictClient(server.URL, 5*time.Second)
		result, err := client.Predict(context.Background(), "test text")

		require.NoError(t, err)
		assert.Equal(t, "HATE", result.Label)
		assert.Equal(t, 0.87, result.Confidence)
		assert.Equal(t, "test text", result.InputText)
	})

	t.Run("trailing slash in base url", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/predict", r.URL.Path)
			_, _ = w.Write([]byte(`{"label":"NOT_HATE","confidence":0.4}`))
		}))
		defer server.Close()

		client := NewPredictClient(server.URL+"/", 5*time.Second)
		result, err := client.Predict(context.Background(), "x")

		require.NoError(t, err)
		assert.Equal(t, "NOT_HATE", result.Label)
	})

	t.Run("non-2xx status returns status error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, err := w.Write([]byte("internal error"))
			require.NoError(t, err)
		}))
		defer server.Close()

		client := NewPredictClient(server.URL, 5*time.Second)
		_, err := client.Predict(context.Background(), "test")

		var statusErr *service.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Equal(t, "internal error", statusErr.Body)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("2xx other than 200 is success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"label":"HATE","confidence":0.5}`))
		}))
		defer server.Close()

		client := NewPredictClient(server.URL, 5*time.Second)
		result, err := client.Predict(context.Background(), "x")

		require.NoError(t, err)
		assert.Equal(t, "HATE", result.Label)
	})

	t.Run("undecodable body returns malformed response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		client := NewPredictClient(server.URL, 5*time.Second)
		_, err := client.Predict(context.Background(), "x")

		assert.ErrorIs(t, err, service.ErrMalformedResponse)
	})

	t.Run("connection error", func(t *testing.T) {
		client := NewPredictClient("http://localhost:99999", 1*time.Second)
		_, err := client.Predict(context.Background(), "test")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, service.ErrMalformedResponse)
	})

	t.Run("cancelled context aborts request", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewPredictClient(server.URL, 5*time.Second)
		_, err := client.Predict(ctx, "test")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPredictClient_PredictBatch(t *testing.T) {
	t.Run("successful batch prediction", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/batch_predict", r.URL.Path)

			var req PredictBatchRequest
			err := json.NewDecoder(r.Body).Decode(&req)
			require.NoError(t, err)
			assert.Len(t, req.Texts, 2)

			resp := PredictBatchResponse{
				Results: []PredictResponse{
					{Label: "NON-HATE", Confidence: 0.9},
					{Label: "HATE", Confidence: 0.8},
				},
				Count: 2,
			}
			w.Header().Set("Content-Type", "application/json")
			err = json.NewEncoder(w).Encode(resp)
			require.NoError(t, err)
		}))
		defer server.Close()

		client := NewPredictClient(server.URL, 5*time.Second)
		result, err := client.PredictBatch(context.Background(), []string{"text1", "text2"})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Count)
		assert.Equal(t, "NON-HATE", result.Results[0].Label)
		assert.Equal(t, "HATE", result.Results[1].Label)
	})
}

func TestPredictClient_Health(t *testing.T) {
	t.Run("healthy service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			assert.Equal(t, "GET", r.Method)

			resp := HealthResponse{
				Status:      "healthy",
				ModelLoaded: true,
			}
			w.Header().Set("Content-Type", "application/json")
			err := json.NewEncoder(w).Encode(resp)
			require.NoError(t, err)
		}))
		defer server.Close()

		client := NewPredictClient(server.URL, 5*time.Second)
		result, err := client.Health(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "healthy", result.Status)
		assert.True(t, result.ModelLoaded)
	})

	t.Run("unavailable service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewPredictClient(server.URL, 5*time.Second)
		_, err := client.Health(context.Background())

		var statusErr *service.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	})
}

func TestPredictClient_Info(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"Hate Speech Detection API","status":"active","author":"someone"}`))
	}))
	defer server.Close()

	client := NewPredictClient(server.URL, 5*time.Second)
	info, err := client.Info(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Hate Speech Detection API", info.Message)
	assert.Equal(t, "active", info.Status)
}
