package model

import "time"

type Visibility string

const (
	VisibilityFriends          Visibility = "friends"
	VisibilityCertainGroups    Visibility = "certain_groups"
	VisibilityJustMe           Visibility = "just_me"
	VisibilityFriendsAndGroups Visibility = "friends_and_groups"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityFriends, VisibilityCertainGroups, VisibilityJustMe, VisibilityFriendsAndGroups:
		return true
	}
	return false
}

type RepeatType string

const (
	RepeatTypeNone           RepeatType = "none"
	RepeatTypeEveryDay       RepeatType = "daily"
	RepeatTypeEveryThreeDays RepeatType = "every_three_days"
	RepeatTypeEveryWeek      RepeatType = "weekly"
	RepeatTypeEveryMonth     RepeatType = "monthly"
	RepeatTypeEveryYear      RepeatType = "yearly"
)

type TaskCreate struct {
	OwnerID         int64
	Title           string
	Description     string
	OccursOn        time.Time
	Visibility      Visibility
	AllowedGroupIDs []int64
	RepeatType      RepeatType
	// Until is the last day a repeating task may occur on. Ignored for RepeatTypeNone.
	Until time.Time
}

// Normalize truncates OccursOn and Until to a day and drops AllowedGroupIDs
// unless the task is shared with certain groups.
func (c *TaskCreate) Normalize() {
	c.OccursOn = Day(c.OccursOn)
	if !c.Until.IsZero() {
		c.Until = Day(c.Until)
	}
	if c.RepeatType == "" {
		c.RepeatType = RepeatTypeNone
	}
	if c.Visibility != VisibilityCertainGroups {
		c.AllowedGroupIDs = nil
	}
}

type Task struct {
	ID              int64
	OwnerID         int64
	Title           string
	Description     string
	OccursOn        time.Time
	Visibility      Visibility
	AllowedGroupIDs []int64
	RecurrenceID    *string
	Completed       bool
	CreatedAt       time.Time

	LikesCount    int
	CommentsCount int
	LikedByViewer bool
}

// Clone returns a copy that shares no slices or pointers with t.
func (t *Task) Clone() *Task {
	c := *t
	if t.AllowedGroupIDs != nil {
		c.AllowedGroupIDs = append([]int64(nil), t.AllowedGroupIDs...)
	}
	if t.RecurrenceID != nil {
		id := *t.RecurrenceID
		c.RecurrenceID = &id
	}
	return &c
}

type TaskUpdate struct {
	Title           string
	Description     string
	OccursOn        time.Time
	Visibility      Visibility
	AllowedGroupIDs []int64
}

func (u *TaskUpdate) Normalize() {
	u.OccursOn = Day(u.OccursOn)
	if u.Visibility != VisibilityCertainGroups {
		u.AllowedGroupIDs = nil
	}
}

type TaskFilter struct {
	From     time.Time
	To       time.Time
	OwnerIDs []int64
}

type Comment struct {
	ID        int64
	TaskID    int64
	AuthorID  int64
	Body      string
	CreatedAt time.Time
}

// Viewer is the resolved relationship context of the user asking for tasks.
type Viewer struct {
	ID        int64
	FriendIDs map[int64]struct{}
	GroupIDs  map[int64]struct{}
}

func NewViewer(id int64, friendIDs, groupIDs []int64) *Viewer {
	v := &Viewer{
		ID:        id,
		FriendIDs: make(map[int64]struct{}, len(friendIDs)),
		GroupIDs:  make(map[int64]struct{}, len(groupIDs)),
	}
	for _, f := range friendIDs {
		v.FriendIDs[f] = struct{}{}
	}
	for _, g := range groupIDs {
		v.GroupIDs[g] = struct{}{}
	}
	return v
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
