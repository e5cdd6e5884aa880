package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/pkg/jwt"
)

type contextKey string

const (
	contextKeyID     = contextKey("id")
	contextKeyUser   = contextKey("user")
	contextKeyTaskID = contextKey("task_id")
)

var errCantRetrieveID = errors.New("can't retrieve id")
var errCantRetrieveTaskID = errors.New("can't retrieve task id")

func (a *Api) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			a.unauthorizedResponse(w, r, errors.New("no token provided"))
			return
		}

		token = strings.TrimPrefix(token, "Bearer ")

		id, err := a.jwts.GetIdFromToken(token)
		if err != nil {
			invalidTokenErr := &jwt.InvalidTokenError{}
			switch {
			case errors.As(err, &invalidTokenErr):
				a.unauthorizedResponse(w, r, invalidTokenErr)
			default:
				a.serverErrorResponse(w, r, err)
			}
			return
		}

		idContext := context.WithValue(r.Context(), contextKeyID, id)
		next.ServeHTTP(w, r.WithContext(idContext))
	})
}

func (a *Api) userCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := r.Context().Value(contextKeyID).(int64)
		if !ok {
			a.serverErrorResponse(w, r, errCantRetrieveID)
			return
		}

		user, err := a.users.GetUserByID(r.Context(), a.db, id)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrNoRecord):
				a.forbiddenResponse(w, r, "user does not exists")
			default:
				a.serverErrorResponse(w, r, err)
			}
			return
		}

		userCtx := context.WithValue(r.Context(), contextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(userCtx))
	})
}

func (a *Api) taskIDCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		taskID, err := parseIDParam(r, "taskID")
		if err != nil {
			a.notFoundResponse(w, r)
			return
		}

		taskCtx := context.WithValue(r.Context(), contextKeyTaskID, taskID)
		next.ServeHTTP(w, r.WithContext(taskCtx))
	})
}

// currentIDs returns the authenticated user and the task from the url.
func (a *Api) currentIDs(w http.ResponseWriter, r *http.Request) (userID, taskID int64, ok bool) {
	userID, ok = r.Context().Value(contextKeyID).(int64)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return 0, 0, false
	}

	taskID, ok = r.Context().Value(contextKeyTaskID).(int64)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveTaskID)
		return 0, 0, false
	}

	return userID, taskID, true
}

func (a *Api) currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(contextKeyID).(int64)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return 0, false
	}

	return userID, true
}
