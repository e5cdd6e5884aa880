package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
)

var errCantRetrieveUser = errors.New("can't retrieve user from context")

func (a *Api) getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(contextKeyUser).(*model.User)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveUser)
		return
	}

	resp, _ := mapToUserResp(user)

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) searchUsersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}

	filter := model.UserSearchFilter{
		Query:      r.URL.Query().Get("query"),
		ExcludeIDs: []int64{userID},
		Limit:      20,
		Page:       1,
	}

	if v := r.URL.Query().Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			a.badRequestResponse(w, r, fmt.Errorf("invalid page %q", v))
			return
		}
		filter.Page = page
	}

	if filter.Query == "" {
		a.badRequestResponse(w, r, errors.New("query must be provided"))
		return
	}

	users, err := a.users.SearchUsers(r.Context(), a.db, filter)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("search users: %w", err))
		return
	}

	resp, _ := mapSlice(users, mapToUserResp)

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}
