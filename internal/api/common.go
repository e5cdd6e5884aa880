package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/recurrence"
)

const dateFormat = "2006-01-02"

// date is a calendar day on the wire, "2006-01-02".
type date time.Time

func (d *date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string")
	}

	if s == "" {
		*d = date{}
		return nil
	}

	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return fmt.Errorf("date must look like %s", dateFormat)
	}

	*d = date(t)
	return nil
}

func (d date) MarshalJSON() ([]byte, error) {
	if time.Time(d).IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(time.Time(d).Format(dateFormat))
}

type userResp struct {
	ID          int64  `json:"id,omitempty"`
	FullName    string `json:"full_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Photo       string `json:"photo,omitempty"`
}

func mapToUserResp(user *model.User) (*userResp, error) {
	return &userResp{
		ID:          user.ID,
		FullName:    user.FullName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Photo:       user.Photo,
	}, nil
}

type taskResp struct {
	ID              int64            `json:"id"`
	OwnerID         int64            `json:"owner_id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	OccursOn        date             `json:"occurs_on"`
	Visibility      model.Visibility `json:"visibility"`
	AllowedGroupIDs []int64          `json:"allowed_group_ids"`
	RecurrenceID    *string          `json:"recurrence_id"`
	Completed       bool             `json:"completed"`
	LikesCount      int              `json:"likes_count"`
	CommentsCount   int              `json:"comments_count"`
	Liked           bool             `json:"liked"`
}

func mapToTaskResp(t *model.Task) (*taskResp, error) {
	groups := t.AllowedGroupIDs
	if groups == nil {
		groups = []int64{}
	}

	return &taskResp{
		ID:              t.ID,
		OwnerID:         t.OwnerID,
		Title:           t.Title,
		Description:     t.Description,
		OccursOn:        date(t.OccursOn),
		Visibility:      t.Visibility,
		AllowedGroupIDs: groups,
		RecurrenceID:    t.RecurrenceID,
		Completed:       t.Completed,
		LikesCount:      t.LikesCount,
		CommentsCount:   t.CommentsCount,
		Liked:           t.LikedByViewer,
	}, nil
}

type groupResp struct {
	Key          string      `json:"key"`
	RecurrenceID *string     `json:"recurrence_id"`
	Complete     bool        `json:"complete"`
	Tasks        []*taskResp `json:"tasks"`
}

func mapToGroupResp(g recurrence.Group) (*groupResp, error) {
	tasks, err := mapSlice(g.Tasks, mapToTaskResp)
	if err != nil {
		return nil, err
	}

	return &groupResp{
		Key:          g.Key,
		RecurrenceID: g.RecurrenceID,
		Complete:     recurrence.IsGroupComplete(g),
		Tasks:        tasks,
	}, nil
}

type commentResp struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func mapToCommentResp(c *model.Comment) (*commentResp, error) {
	return &commentResp{
		ID:        c.ID,
		TaskID:    c.TaskID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}, nil
}
