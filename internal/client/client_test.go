package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "2025-03-05", r.URL.Query().Get("from"))
		assert.Equal(t, "2,3", r.URL.Query().Get("owner_ids"))
		assert.Empty(t, r.URL.Query().Get("to"))

		w.Write([]byte(`[{"key":"R1","recurrence_id":"R1","complete":false,"tasks":[
			{"id":2,"owner_id":1,"occurs_on":"2025-03-08","visibility":"friends","recurrence_id":"R1","completed":true},
			{"id":1,"owner_id":1,"occurs_on":"2025-03-10","visibility":"friends","recurrence_id":"R1","completed":false}]}]`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "tok", srv.Client())

	groups, err := c.GetFeed(context.Background(), model.TaskFilter{
		From:     time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		OwnerIDs: []int64{2, 3},
	})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "R1", groups[0].Key)
	require.Len(t, groups[0].Tasks, 2)
	assert.Equal(t, time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), groups[0].Tasks[0].OccursOn)
	assert.True(t, groups[0].Tasks[0].Completed)
}

func TestSetSeriesCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/series/R1/completion", r.URL.Path)

		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]bool{"completed": true}, body)

		w.Write([]byte(`[{"id":1,"occurs_on":"2025-03-08","recurrence_id":"R1","completed":true}]`))
	}))
	defer srv.Close()

	tasks, err := New(srv.URL, "tok", nil).SetSeriesCompletion(context.Background(), "R1", true)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "string message", status: http.StatusConflict, body: `{"error":"retry"}`, message: "retry"},
		{name: "validation map", status: http.StatusUnprocessableEntity, body: `{"error":{"completed":"must be provided"}}`,
			message: `{"completed":"must be provided"}`},
		{name: "no body", status: http.StatusBadGateway, body: "", message: "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, "tok", nil).SetTaskCompletion(context.Background(), 1, true)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}
