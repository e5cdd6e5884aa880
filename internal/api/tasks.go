package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/pkg/validator"
)

const maxTitleLength = 200

var repeatTypes = []string{
	string(model.RepeatTypeNone),
	string(model.RepeatTypeEveryDay),
	string(model.RepeatTypeEveryThreeDays),
	string(model.RepeatTypeEveryWeek),
	string(model.RepeatTypeEveryMonth),
	string(model.RepeatTypeEveryYear),
}

type taskRequest struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	OccursOn        date             `json:"occurs_on"`
	Visibility      model.Visibility `json:"visibility"`
	AllowedGroupIDs []int64          `json:"allowed_group_ids"`
}

// validateTaskRequest checks the fields shared by create and update. Groups a task is
// shared with must be groups the owner belongs to.
func (a *Api) validateTaskRequest(ctx context.Context, v *validator.Validator, userID int64, req *taskRequest) error {
	v.Check(req.Title != "", "title", "title must be provided")
	v.Check(utf8.RuneCountInString(req.Title) <= maxTitleLength, "title", fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	v.Check(!time.Time(req.OccursOn).IsZero(), "occurs_on", "occurs_on must be provided")
	v.Check(req.Visibility.Valid(), "visibility", "visibility must be one of friends, certain_groups, just_me, friends_and_groups")

	if req.Visibility != model.VisibilityCertainGroups {
		return nil
	}

	if len(req.AllowedGroupIDs) == 0 {
		v.AddError("allowed_group_ids", "at least one group must be chosen")
		return nil
	}

	viewer, err := a.tasks.Viewer(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve viewer %v: %w", userID, err)
	}

	for _, id := range req.AllowedGroupIDs {
		if _, ok := viewer.GroupIDs[id]; !ok {
			v.AddError("allowed_group_ids", fmt.Sprintf("not a member of group %d", id))
		}
	}

	return nil
}

func (a *Api) getFeedHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}

	filter, err := a.parseFeedFilter(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	groups, err := a.tasks.GetFeed(r.Context(), userID, filter)
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("get feed for %v: %w", userID, err))
		return
	}

	resp, err := mapSlice(groups, mapToGroupResp)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) parseFeedFilter(r *http.Request) (model.TaskFilter, error) {
	query := r.URL.Query()
	filter := model.TaskFilter{From: model.Day(time.Now())}

	if v := query.Get("from"); v != "" {
		from, err := time.Parse(dateFormat, v)
		if err != nil {
			return filter, fmt.Errorf("from must look like %s", dateFormat)
		}
		filter.From = from
	}

	filter.To = filter.From.Add(a.opts.FeedWindow)
	if v := query.Get("to"); v != "" {
		to, err := time.Parse(dateFormat, v)
		if err != nil {
			return filter, fmt.Errorf("to must look like %s", dateFormat)
		}
		filter.To = to
	}

	if filter.To.Before(filter.From) {
		return filter, errors.New("to must not be before from")
	}

	ownerIDs, err := parseIDs(query["owner_ids"])
	if err != nil {
		return filter, err
	}
	filter.OwnerIDs = ownerIDs

	return filter, nil
}

func (a *Api) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}

	req := &struct {
		taskRequest
		RepeatType model.RepeatType `json:"repeat_type"`
		Until      date             `json:"until"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if req.RepeatType == "" {
		req.RepeatType = model.RepeatTypeNone
	}

	v := validator.New()
	if err := a.validateTaskRequest(r.Context(), v, userID, &req.taskRequest); err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}
	v.Check(validator.In(string(req.RepeatType), repeatTypes...), "repeat_type", "unknown repeat_type")
	if req.RepeatType != model.RepeatTypeNone {
		v.Check(!time.Time(req.Until).IsZero(), "until", "until must be provided for repeating tasks")
	}

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	created, err := a.tasks.CreateTask(r.Context(), &model.TaskCreate{
		OwnerID:         userID,
		Title:           req.Title,
		Description:     req.Description,
		OccursOn:        time.Time(req.OccursOn),
		Visibility:      req.Visibility,
		AllowedGroupIDs: req.AllowedGroupIDs,
		RepeatType:      req.RepeatType,
		Until:           time.Time(req.Until),
	})
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("create task: %w", err))
		return
	}

	resp, err := mapSlice(created, mapToTaskResp)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := a.currentIDs(w, r)
	if !ok {
		return
	}

	task, err := a.tasks.GetTask(r.Context(), userID, taskID)
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("get task %v: %w", taskID, err))
		return
	}

	a.writeTask(w, r, http.StatusOK, task)
}

func (a *Api) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := a.currentIDs(w, r)
	if !ok {
		return
	}

	req := &taskRequest{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if err := a.validateTaskRequest(r.Context(), v, userID, req); err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	task, err := a.tasks.UpdateTask(r.Context(), userID, taskID, &model.TaskUpdate{
		Title:           req.Title,
		Description:     req.Description,
		OccursOn:        time.Time(req.OccursOn),
		Visibility:      req.Visibility,
		AllowedGroupIDs: req.AllowedGroupIDs,
	})
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("update task %v: %w", taskID, err))
		return
	}

	a.writeTask(w, r, http.StatusOK, task)
}

func (a *Api) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := a.currentIDs(w, r)
	if !ok {
		return
	}

	if err := a.tasks.DeleteTask(r.Context(), userID, taskID); err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("delete task %v: %w", taskID, err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type completionRequest struct {
	Completed *bool `json:"completed"`
}

func (a *Api) readCompletion(w http.ResponseWriter, r *http.Request) (bool, bool) {
	req := &completionRequest{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return false, false
	}

	if req.Completed == nil {
		a.failedValidationResponse(w, r, map[string]string{"completed": "completed must be provided"})
		return false, false
	}

	return *req.Completed, true
}

func (a *Api) setTaskCompletionHandler(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := a.currentIDs(w, r)
	if !ok {
		return
	}

	completed, ok := a.readCompletion(w, r)
	if !ok {
		return
	}

	task, err := a.tasks.SetTaskCompletion(r.Context(), userID, taskID, completed)
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("set completion of task %v: %w", taskID, err))
		return
	}

	a.writeTask(w, r, http.StatusOK, task)
}

func (a *Api) likeTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := a.currentIDs(w, r)
	if !ok {
		return
	}

	if err := a.tasks.LikeTask(r.Context(), userID, taskID); err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("like task %v: %w", taskID, err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) unlikeTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := a.currentIDs(w, r)
	if !ok {
		return
	}

	if err := a.tasks.UnlikeTask(r.Context(), userID, taskID); err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("unlike task %v: %w", taskID, err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) getCommentsHandler(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := a.currentIDs(w, r)
	if !ok {
		return
	}

	comments, err := a.tasks.GetComments(r.Context(), userID, taskID)
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("get comments of task %v: %w", taskID, err))
		return
	}

	resp, _ := mapSlice(comments, mapToCommentResp)

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := a.currentIDs(w, r)
	if !ok {
		return
	}

	req := &struct {
		Body string `json:"body"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.Body != "", "body", "body must be provided")
	v.Check(utf8.RuneCountInString(req.Body) <= a.opts.MaxCommentLength, "body",
		fmt.Sprintf("body must be at most %d characters", a.opts.MaxCommentLength))

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	comment, err := a.tasks.AddComment(r.Context(), userID, taskID, req.Body)
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("comment task %v: %w", taskID, err))
		return
	}

	resp, _ := mapToCommentResp(comment)

	if err := a.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) writeTask(w http.ResponseWriter, r *http.Request, status int, task *model.Task) {
	resp, err := mapToTaskResp(task)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, status, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}
