package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/catalog"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/aggregates"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/infrastructure/config"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/auth"
	pkgerrors "github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/errors"
)

func respond(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestPersistenceClientLoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "/circuits/c-1", r.URL.Path)

		respond(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"id":   "c-1",
				"name": "loaded",
				"components": []map[string]interface{}{
					{"id": "r1", "type": "resistor", "name": "resistor_1", "properties": map[string]float64{"resistance": 220}},
				},
				"connections": []map[string]interface{}{},
			},
		})
	}))
	defer server.Close()

	credentials := auth.NewCredentialStore("token-1", nil)
	client := NewClient(server.URL, 5*time.Second, credentials, zap.NewNop())
	defer client.Close()

	doc, err := NewPersistenceClient(client).Load(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, "loaded", doc.Name)
	require.Len(t, doc.Components, 1)

	props, ok := doc.Components[0].Properties.(catalog.ResistorProperties)
	require.True(t, ok)
	assert.Equal(t, 220.0, props.Resistance)
}

func TestUnauthorizedClearsCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"error":   map[string]string{"code": "UNAUTHORIZED", "message": "token expired"},
		})
	}))
	defer server.Close()

	redirected := false
	credentials := auth.NewCredentialStore("stale-token", func() { redirected = true })
	client := NewClient(server.URL, 5*time.Second, credentials, zap.NewNop())
	defer client.Close()

	_, err := NewPersistenceClient(client).Load(context.Background(), "c-1")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsUnauthorized(err))
	assert.Empty(t, credentials.Token())
	assert.True(t, redirected)
}

func TestErrorMapping(t *testing.T) {
	t.Run("404 maps to NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respond(w, http.StatusNotFound, map[string]interface{}{
				"success": false,
				"error":   map[string]string{"code": "NOT_FOUND", "message": "circuit c-9 not found"},
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, 5*time.Second, auth.NewCredentialStore("", nil), zap.NewNop())
		defer client.Close()

		_, err := NewPersistenceClient(client).Load(context.Background(), "c-9")
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("connection failure maps to Transport", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", 5*time.Second, auth.NewCredentialStore("", nil), zap.NewNop())
		defer client.Close()

		_, err := NewPersistenceClient(client).Load(context.Background(), "c-1")
		assert.True(t, pkgerrors.IsTransport(err))
	})

	t.Run("stalled server maps to Transport after the timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
			respond(w, http.StatusOK, map[string]interface{}{"success": true})
		}))
		defer server.Close()

		client := NewClient(server.URL, 50*time.Millisecond, auth.NewCredentialStore("", nil), zap.NewNop())
		defer client.Close()

		start := time.Now()
		_, err := NewPersistenceClient(client).Load(context.Background(), "c-1")
		assert.True(t, pkgerrors.IsTransport(err))
		assert.Less(t, time.Since(start), 400*time.Millisecond)
	})
}

func TestNewClientFromConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		respond(w, http.StatusOK, map[string]interface{}{"success": true})
	}))
	defer server.Close()

	cfg := &config.Config{APIBaseURL: server.URL, RequestTimeout: 50 * time.Millisecond}
	client := NewClientFromConfig(cfg, auth.NewCredentialStore("", nil), zap.NewNop())
	defer client.Close()

	_, err := NewPersistenceClient(client).Load(context.Background(), "c-1")
	assert.True(t, pkgerrors.IsTransport(err))
}

func TestPersistenceClientSave(t *testing.T) {
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path

		var doc aggregates.CircuitDocument
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		doc.ID = "assigned"

		data, _ := json.Marshal(doc)
		respond(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    json.RawMessage(data),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, auth.NewCredentialStore("", nil), zap.NewNop())
	defer client.Close()
	persistence := NewPersistenceClient(client)

	t.Run("empty id creates", func(t *testing.T) {
		saved, err := persistence.Save(context.Background(), aggregates.CircuitDocument{Name: "fresh"})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, method)
		assert.Equal(t, "/circuits", path)
		assert.Equal(t, "assigned", saved.ID)
	})

	t.Run("existing id updates", func(t *testing.T) {
		_, err := persistence.Save(context.Background(), aggregates.CircuitDocument{ID: "c-1", Name: "existing"})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, method)
		assert.Equal(t, "/circuits/c-1", path)
	})
}
