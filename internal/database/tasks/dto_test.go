package tasks

import (
	"testing"
	"time"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseGroupIDs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []int64
	}{
		{name: "null column", raw: "", want: nil},
		{name: "json null", raw: "null", want: nil},
		{name: "array", raw: "[1, 2, 3]", want: []int64{1, 2, 3}},
		{name: "string ids", raw: `["4","5"]`, want: []int64{4, 5}},
		{name: "encoded twice", raw: `"[6,7]"`, want: []int64{6, 7}},
		{name: "duplicates", raw: "[1,1,2]", want: []int64{1, 2}},
		{name: "empty array", raw: "[]", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGroupIDs([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGroupIDs_Invalid(t *testing.T) {
	for _, raw := range []string{"{", `["x"]`, "[1.5]", `{"a":1}`} {
		_, err := parseGroupIDs([]byte(raw))
		assert.Error(t, err, raw)
	}
}

func TestMapToTask_DropsGroupsUnlessCertainGroups(t *testing.T) {
	rid := "R1"
	dto := &taskDTO{
		ID:              1,
		OwnerID:         2,
		OccursOn:        time.Date(2025, 3, 5, 13, 0, 0, 0, time.UTC),
		Visibility:      string(model.VisibilityFriends),
		AllowedGroupIDs: []byte("[1]"),
		RecurrenceID:    &rid,
	}

	task := mapToTask(zap.NewNop().Sugar(), dto)
	assert.Nil(t, task.AllowedGroupIDs)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), task.OccursOn)

	dto.Visibility = string(model.VisibilityCertainGroups)
	task = mapToTask(zap.NewNop().Sugar(), dto)
	assert.Equal(t, []int64{1}, task.AllowedGroupIDs)
}

func TestMapToTask_MalformedGroups(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core).Sugar()

	dto := &taskDTO{
		ID:              1,
		OwnerID:         2,
		Visibility:      string(model.VisibilityFriends),
		AllowedGroupIDs: []byte(`{"a":1}`),
	}

	task := mapToTask(logger, dto)
	require.NotNil(t, task)
	assert.Equal(t, model.VisibilityFriends, task.Visibility)
	assert.Zero(t, logs.Len(), "groups of a friends task are never read")

	dto.Visibility = string(model.VisibilityCertainGroups)
	task = mapToTask(logger, dto)
	require.NotNil(t, task)
	assert.Nil(t, task.AllowedGroupIDs)
	assert.False(t, visibility.IsVisible(task, model.NewViewer(3, []int64{2}, []int64{1})))
	assert.Equal(t, 1, logs.FilterMessage("malformed allowed_group_ids, hiding task from groups").Len())
}

func TestEncodeGroupIDs(t *testing.T) {
	s, err := encodeGroupIDs(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)

	s, err = encodeGroupIDs([]int64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, "[3,4]", s)
}
