package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"go.uber.org/zap"
)

type taskDTO struct {
	ID              int64
	OwnerID         int64
	Title           string
	Description     string
	OccursOn        time.Time
	Visibility      string
	AllowedGroupIDs []byte `db:"allowed_group_ids"`
	RecurrenceID    *string
	Completed       bool
	CreatedAt       time.Time
	LikesCount      int
	CommentsCount   int
}

// mapToTask reads allowed_group_ids only for tasks shared with certain groups.
// A malformed value leaves the task with no groups, so nobody but the owner
// sees it.
func mapToTask(logger *zap.SugaredLogger, dto *taskDTO) *model.Task {
	visibility := model.Visibility(dto.Visibility)

	var groups []int64
	if visibility == model.VisibilityCertainGroups {
		var err error
		groups, err = parseGroupIDs(dto.AllowedGroupIDs)
		if err != nil {
			logger.Warnw("malformed allowed_group_ids, hiding task from groups",
				"task_id", dto.ID,
				"raw", string(dto.AllowedGroupIDs),
				"err", err,
			)
			groups = nil
		}
	}

	return &model.Task{
		ID:              dto.ID,
		OwnerID:         dto.OwnerID,
		Title:           dto.Title,
		Description:     dto.Description,
		OccursOn:        model.Day(dto.OccursOn),
		Visibility:      visibility,
		AllowedGroupIDs: groups,
		RecurrenceID:    dto.RecurrenceID,
		Completed:       dto.Completed,
		CreatedAt:       dto.CreatedAt,
		LikesCount:      dto.LikesCount,
		CommentsCount:   dto.CommentsCount,
	}
}

// parseGroupIDs accepts every shape older clients stored allowed_group_ids in:
// NULL, a JSON array of numbers or numeric strings, or that array encoded
// once more as a JSON string.
func parseGroupIDs(raw []byte) ([]int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, err
		}
		return parseGroupIDs([]byte(inner))
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	res := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		id, err := parseGroupID(item)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}

	return res, nil
}

func parseGroupID(item json.RawMessage) (int64, error) {
	var n int64
	if err := json.Unmarshal(item, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(item, &s); err != nil {
		return 0, fmt.Errorf("unsupported group id %s", item)
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid group id %q", s)
	}

	return n, nil
}

func encodeGroupIDs(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}

	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

type commentDTO struct {
	ID        int64
	TaskID    int64
	AuthorID  int64
	Body      string
	CreatedAt time.Time
}

func mapToComment(dto *commentDTO) *model.Comment {
	return &model.Comment{
		ID:        dto.ID,
		TaskID:    dto.TaskID,
		AuthorID:  dto.AuthorID,
		Body:      dto.Body,
		CreatedAt: dto.CreatedAt,
	}
}
