// Package visibility decides which tasks a viewer may see.
package visibility

import (
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"go.uber.org/zap"
)

// IsVisible reports whether viewer may see task. Owners always see their own
// tasks. An unknown visibility value is evaluated as VisibilityFriends.
func IsVisible(task *model.Task, viewer *model.Viewer) bool {
	if task == nil || viewer == nil {
		return false
	}

	if task.OwnerID == viewer.ID {
		return true
	}

	switch task.Visibility {
	case model.VisibilityJustMe:
		return false
	case model.VisibilityFriends:
		return isFriend(task, viewer)
	case model.VisibilityCertainGroups:
		return sharesGroup(task, viewer)
	case model.VisibilityFriendsAndGroups:
		return true
	default:
		return isFriend(task, viewer)
	}
}

func isFriend(task *model.Task, viewer *model.Viewer) bool {
	_, ok := viewer.FriendIDs[task.OwnerID]
	return ok
}

// sharesGroup fails closed on an empty allow list.
func sharesGroup(task *model.Task, viewer *model.Viewer) bool {
	for _, g := range task.AllowedGroupIDs {
		if _, ok := viewer.GroupIDs[g]; ok {
			return true
		}
	}
	return false
}

// Filter applies IsVisible to task lists and logs tasks whose visibility
// value it does not recognise.
type Filter struct {
	logger *zap.SugaredLogger
}

// NewFilter returns a Filter that reports unknown visibility values to logger.
func NewFilter(logger *zap.SugaredLogger) *Filter {
	return &Filter{logger: logger}
}

// Visible returns the tasks viewer may see, preserving input order.
func (f *Filter) Visible(viewer *model.Viewer, tasks []*model.Task) []*model.Task {
	res := make([]*model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Visibility.Valid() {
			f.logger.Warnw("unknown task visibility, treating as friends",
				"task_id", t.ID,
				"owner_id", t.OwnerID,
				"visibility", t.Visibility,
			)
		}

		if IsVisible(t, viewer) {
			res = append(res, t)
		}
	}

	return res
}
