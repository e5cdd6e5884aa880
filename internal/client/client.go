package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/recurrence"
)

const dateFormat = "2006-01-02"

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server answered %d: %s", e.Status, e.Message)
}

// Client talks to the tracker API on behalf of one user.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

type taskDTO struct {
	ID              int64            `json:"id"`
	OwnerID         int64            `json:"owner_id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	OccursOn        string           `json:"occurs_on"`
	Visibility      model.Visibility `json:"visibility"`
	AllowedGroupIDs []int64          `json:"allowed_group_ids"`
	RecurrenceID    *string          `json:"recurrence_id"`
	Completed       bool             `json:"completed"`
	LikesCount      int              `json:"likes_count"`
	CommentsCount   int              `json:"comments_count"`
	Liked           bool             `json:"liked"`
}

type groupDTO struct {
	Key          string     `json:"key"`
	RecurrenceID *string    `json:"recurrence_id"`
	Tasks        []*taskDTO `json:"tasks"`
}

func mapToTask(d *taskDTO) (*model.Task, error) {
	occursOn, err := time.Parse(dateFormat, d.OccursOn)
	if err != nil {
		return nil, fmt.Errorf("task %d: bad occurs_on %q", d.ID, d.OccursOn)
	}

	return &model.Task{
		ID:              d.ID,
		OwnerID:         d.OwnerID,
		Title:           d.Title,
		Description:     d.Description,
		OccursOn:        occursOn,
		Visibility:      d.Visibility,
		AllowedGroupIDs: d.AllowedGroupIDs,
		RecurrenceID:    d.RecurrenceID,
		Completed:       d.Completed,
		LikesCount:      d.LikesCount,
		CommentsCount:   d.CommentsCount,
		LikedByViewer:   d.Liked,
	}, nil
}

func mapToTasks(dtos []*taskDTO) ([]*model.Task, error) {
	res := make([]*model.Task, len(dtos))
	for i, d := range dtos {
		t, err := mapToTask(d)
		if err != nil {
			return nil, err
		}
		res[i] = t
	}
	return res, nil
}

// GetFeed loads the grouped feed. Zero from or to leave the bound to the server.
func (c *Client) GetFeed(ctx context.Context, filter model.TaskFilter) ([]recurrence.Group, error) {
	query := url.Values{}
	if !filter.From.IsZero() {
		query.Set("from", filter.From.Format(dateFormat))
	}
	if !filter.To.IsZero() {
		query.Set("to", filter.To.Format(dateFormat))
	}
	if len(filter.OwnerIDs) != 0 {
		ids := make([]string, len(filter.OwnerIDs))
		for i, id := range filter.OwnerIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		query.Set("owner_ids", strings.Join(ids, ","))
	}

	var dtos []*groupDTO
	if err := c.do(ctx, http.MethodGet, "/tasks?"+query.Encode(), nil, &dtos); err != nil {
		return nil, err
	}

	groups := make([]recurrence.Group, len(dtos))
	for i, d := range dtos {
		tasks, err := mapToTasks(d.Tasks)
		if err != nil {
			return nil, err
		}
		groups[i] = recurrence.Group{Key: d.Key, RecurrenceID: d.RecurrenceID, Tasks: tasks}
	}

	return groups, nil
}

func (c *Client) SetTaskCompletion(ctx context.Context, id int64, completed bool) (*model.Task, error) {
	var dto taskDTO
	path := fmt.Sprintf("/tasks/%d/completion", id)
	if err := c.do(ctx, http.MethodPut, path, completionBody(completed), &dto); err != nil {
		return nil, err
	}

	return mapToTask(&dto)
}

func (c *Client) SetSeriesCompletion(ctx context.Context, recurrenceID string, completed bool) ([]*model.Task, error) {
	var dtos []*taskDTO
	path := "/series/" + url.PathEscape(recurrenceID) + "/completion"
	if err := c.do(ctx, http.MethodPut, path, completionBody(completed), &dtos); err != nil {
		return nil, err
	}

	return mapToTasks(dtos)
}

func completionBody(completed bool) interface{} {
	return map[string]bool{"completed": completed}
}

func (c *Client) do(ctx context.Context, method, path string, body, dst interface{}) error {
	var reader io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(js)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return readAPIError(resp)
	}

	if dst == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Error) == 0 {
		return apiErr
	}

	var message string
	if err := json.Unmarshal(payload.Error, &message); err == nil {
		apiErr.Message = message
	} else {
		apiErr.Message = string(payload.Error)
	}

	return apiErr
}
