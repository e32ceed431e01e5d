package notion_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olla-del-barrio/dish-sync/internal/adapter"
	"github.com/olla-del-barrio/dish-sync/internal/domain"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
	"github.com/olla-del-barrio/dish-sync/internal/mocks"
	"github.com/olla-del-barrio/dish-sync/internal/notion"
)

const testDatabaseID = "0f4c5a1e2b3d4c6e8f9a0b1c2d3e4f50"

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func newTestClient(serverURL string) notion.Client {
	return notion.NewClient(notion.Config{
		BaseURL:  serverURL,
		Token:    "secret_test",
		PageSize: 2,
	}, adapter.NewHTTPClient(5*time.Second))
}

func pageJSON(id string, archived bool) map[string]interface{} {
	return map[string]interface{}{
		"object":           "page",
		"id":               id,
		"last_edited_time": "2024-05-01T10:00:00.000Z",
		"archived":         archived,
		"properties": map[string]interface{}{
			"nombre": map[string]interface{}{
				"id":    "title",
				"type":  "title",
				"title": []interface{}{map[string]interface{}{"type": "text", "plain_text": "Plato " + id}},
			},
		},
	}
}

func TestClient_QueryDatabase_SendsHeadersAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/databases/"+testDatabaseID+"/query", r.URL.Path)
		assert.Equal(t, "Bearer secret_test", r.Header.Get("Authorization"))
		assert.Equal(t, notion.DefaultVersion, r.Header.Get("Notion-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(2), body["page_size"])
		assert.Equal(t, "cursor-1", body["start_cursor"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"object":      "list",
			"results":     []interface{}{pageJSON("a", false)},
			"has_more":    false,
			"next_cursor": nil,
		})
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).QueryDatabase(context.Background(), testDatabaseID, "cursor-1")
	require.NoError(t, err)
	require.NotNil(t, resp.Results)
	require.Len(t, *resp.Results, 1)
	assert.Equal(t, "a", (*resp.Results)[0].ID)
	assert.Equal(t, "Plato a", (*resp.Results)[0].Properties["nombre"].FirstRun())
	assert.False(t, resp.HasMore)
}

func TestClient_QueryDatabase_OmitsEmptyCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		assert.NotContains(t, string(data), "start_cursor")
		_, _ = w.Write([]byte(`{"results":[],"has_more":false}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).QueryDatabase(context.Background(), testDatabaseID, "")
	require.NoError(t, err)
	assert.Empty(t, *resp.Results)
}

func TestClient_FetchAll_FollowsCursor(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			StartCursor string `json:"start_cursor"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls.Add(1)

		switch body.StartCursor {
		case "":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"results":     []interface{}{pageJSON("a", false), pageJSON("b", true)},
				"has_more":    true,
				"next_cursor": "c2",
			})
		case "c2":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"results":     []interface{}{pageJSON("c", false)},
				"has_more":    false,
				"next_cursor": nil,
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	pages, err := newTestClient(server.URL).FetchAll(context.Background(), testDatabaseID, "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	ids := make([]string, 0, len(pages))
	for _, p := range pages {
		ids = append(ids, p.ID)
	}
	// The archived page is dropped
	assert.Equal(t, []string{"a", "c"}, ids)
}

func TestClient_FetchAll_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			payload: `{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`,
		},
		{
			name:    "server error without body",
			status:  http.StatusBadGateway,
			payload: "",
		},
		{
			name:    "missing results list",
			status:  http.StatusOK,
			payload: `{"object":"list","has_more":false}`,
		},
		{
			name:    "undecodable body",
			status:  http.StatusOK,
			payload: `<html>maintenance</html>`,
		},
		{
			name:    "has_more without cursor",
			status:  http.StatusOK,
			payload: `{"results":[],"has_more":true,"next_cursor":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			pages, err := newTestClient(server.URL).FetchAll(context.Background(), testDatabaseID, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
			assert.Nil(t, pages)
		})
	}
}

func TestClient_FetchAll_APIErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"Could not find database"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchAll(context.Background(), testDatabaseID, "")
	require.Error(t, err)

	var apiErr *notion.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "object_not_found", apiErr.Code)
}

func TestClient_FetchAll_RepeatedCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[],"has_more":true,"next_cursor":"same"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchAll(context.Background(), testDatabaseID, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
}

func TestClient_QueryDatabase_TransportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	client := notion.NewClient(notion.Config{Token: "secret_test"}, mockHTTPClient)

	mockHTTPClient.EXPECT().
		PostResponse(gomock.Any(), notion.DefaultBaseURL+"/v1/databases/"+testDatabaseID+"/query", gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused")).
		Times(1)

	resp, err := client.QueryDatabase(context.Background(), testDatabaseID, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Nil(t, resp)
}

func TestClient_QueryDatabase_CanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
	client := notion.NewClient(notion.Config{Token: "secret_test", RequestsPerSecond: 1}, mockHTTPClient)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.QueryDatabase(ctx, testDatabaseID, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
}
