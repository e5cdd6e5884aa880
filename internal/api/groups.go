package api

import (
	"fmt"
	"net/http"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/pkg/validator"
	"github.com/gerow/go-color"
)

func (a *Api) getUserGroupsHandler(w http.ResponseWriter, r *http.Request) {
	type getUserGroupsResponse struct {
		GroupID     int64           `json:"group_id"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Color       string          `json:"color"`
		Role        model.GroupRole `json:"role"`
		UserCount   int             `json:"user_count"`
	}

	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}

	groups, err := a.social.GetUserGroups(r.Context(), userID)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]getUserGroupsResponse, len(groups))
	for i, g := range groups {
		resp[i] = getUserGroupsResponse{
			GroupID:     g.Group.ID,
			Name:        g.Group.Name,
			Description: g.Group.Description,
			Color:       "#" + g.Settings.Color.ToHTML(),
			Role:        g.Settings.Role,
			UserCount:   len(g.Group.UsersIDs),
		}
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) createGroupHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}

	req := &struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		UsersIDs    []int64 `json:"users_ids"`
		Color       string  `json:"color"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()

	v.Check(len(req.Name) != 0, "name", "name must be provided")
	v.Check(validator.Matches(req.Color, validator.HexRX), "color", "color must be valid HEX color")

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	colorRGB, err := color.HTMLToRGB(req.Color)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("parse color: %w", err))
		return
	}

	groupID, err := a.social.CreateGroup(r.Context(), &model.GroupCreate{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   userID,
	}, req.UsersIDs, colorRGB)
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("create group: %w", err))
		return
	}

	resp := map[string]interface{}{"group_id": groupID}
	if err := a.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) joinGroupHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}

	groupID, err := parseIDParam(r, "groupID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	req := &struct {
		Color string `json:"color"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if !validator.Matches(req.Color, validator.HexRX) {
		a.failedValidationResponse(w, r, map[string]string{"color": "color must be valid HEX color"})
		return
	}

	colorRGB, err := color.HTMLToRGB(req.Color)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("parse color: %w", err))
		return
	}

	if err := a.social.JoinGroup(r.Context(), userID, groupID, colorRGB); err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("join group %v: %w", groupID, err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) leaveGroupHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}

	groupID, err := parseIDParam(r, "groupID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	if err := a.social.LeaveGroup(r.Context(), userID, groupID); err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("leave group %v: %w", groupID, err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) updateGroupHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}

	groupID, err := parseIDParam(r, "groupID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	req := &struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if req.Name == "" {
		a.failedValidationResponse(w, r, map[string]string{"name": "name must be provided"})
		return
	}

	if err := a.social.UpdateGroup(r.Context(), userID, groupID, req.Name, req.Description); err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("update group %v: %w", groupID, err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *Api) setGroupColorHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}

	groupID, err := parseIDParam(r, "groupID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	req := &struct {
		Color string `json:"color"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if !validator.Matches(req.Color, validator.HexRX) {
		a.failedValidationResponse(w, r, map[string]string{"color": "color must be valid HEX color"})
		return
	}

	colorRGB, err := color.HTMLToRGB(req.Color)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("parse color: %w", err))
		return
	}

	if err := a.social.SetGroupColor(r.Context(), userID, groupID, colorRGB); err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("set color of group %v: %w", groupID, err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
