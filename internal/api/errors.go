package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/business/social"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/business/tasks"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/recurrence"
)

func (a *Api) logError(r *http.Request, err error) {
	a.logger.Errorw("server error", "method", r.Method, "uri", r.URL.RequestURI(), "error", err)
}

func (a *Api) errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	data := map[string]interface{}{"error": message}

	if err := a.writeJSON(w, status, data, nil); err != nil {
		a.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (a *Api) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	a.logError(r, err)

	message := "the server encountered a problem and could not process your request"
	a.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (a *Api) clientErrorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	a.logger.Debugw("client error", "err", message)
	a.errorResponse(w, r, status, message)
}

func (a *Api) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	a.clientErrorResponse(w, r, http.StatusNotFound, message)
}

func (a *Api) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	a.clientErrorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (a *Api) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	a.clientErrorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (a *Api) failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	a.clientErrorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func (a *Api) unauthorizedResponse(w http.ResponseWriter, r *http.Request, err error) {
	a.clientErrorResponse(w, r, http.StatusUnauthorized, err.Error())
}

func (a *Api) forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	a.clientErrorResponse(w, r, http.StatusForbidden, message)
}

func (a *Api) conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	a.clientErrorResponse(w, r, http.StatusConflict, message)
}

// serviceErrorResponse maps domain errors onto client errors and anything
// else onto a 500.
func (a *Api) serviceErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrNoRecord):
		a.notFoundResponse(w, r)
	case errors.Is(err, model.ErrForbidden):
		a.forbiddenResponse(w, r, "only the owner may do this")
	case errors.Is(err, model.ErrAlreadyExists):
		a.conflictResponse(w, r, "already exists")
	case errors.Is(err, tasks.ErrConflict):
		a.conflictResponse(w, r, "the resource changed while updating, please retry")
	case errors.Is(err, social.ErrSelfFriendship):
		a.badRequestResponse(w, r, err)
	case errors.Is(err, recurrence.ErrTooManyOccurrences), errors.Is(err, recurrence.ErrUntilBeforeStart):
		a.failedValidationResponse(w, r, map[string]string{"until": err.Error()})
	default:
		a.serverErrorResponse(w, r, err)
	}
}
