package api

import (
	"fmt"
	"net/http"
)

func (a *Api) getFriendsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}

	ids, err := a.social.GetFriendIDs(r.Context(), userID)
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("get friends of %v: %w", userID, err))
		return
	}

	users, err := a.users.GetUsersByIDs(r.Context(), a.db, ids)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get users: %w", err))
		return
	}

	resp, _ := mapSlice(users, mapToUserResp)

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

// befriendHandler sends a friend request or accepts a pending one sent by
// the other user.
func (a *Api) befriendHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}

	otherID, err := parseIDParam(r, "userID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	if _, err := a.users.GetUserByID(r.Context(), a.db, otherID); err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("get user %v: %w", otherID, err))
		return
	}

	status, err := a.social.Befriend(r.Context(), userID, otherID)
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("befriend %v: %w", otherID, err))
		return
	}

	resp := map[string]interface{}{"status": status}
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) unfriendHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}

	otherID, err := parseIDParam(r, "userID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	if err := a.social.Unfriend(r.Context(), userID, otherID); err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("unfriend %v: %w", otherID, err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
