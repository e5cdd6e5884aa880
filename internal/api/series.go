package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *Api) getSeriesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}
	recurrenceID := chi.URLParam(r, "recurrenceID")

	group, err := a.tasks.GetSeries(r.Context(), userID, recurrenceID)
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("get series %v: %w", recurrenceID, err))
		return
	}

	resp, err := mapToGroupResp(group)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

// setSeriesCompletionHandler answers with every instance of the series as
// stored after the update.
func (a *Api) setSeriesCompletionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}
	recurrenceID := chi.URLParam(r, "recurrenceID")

	completed, ok := a.readCompletion(w, r)
	if !ok {
		return
	}

	tasks, err := a.tasks.SetSeriesCompletion(r.Context(), userID, recurrenceID, completed)
	if err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("set completion of series %v: %w", recurrenceID, err))
		return
	}

	resp, err := mapSlice(tasks, mapToTaskResp)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) deleteSeriesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.currentUserID(w, r)
	if !ok {
		return
	}
	recurrenceID := chi.URLParam(r, "recurrenceID")

	if err := a.tasks.DeleteSeries(r.Context(), userID, recurrenceID); err != nil {
		a.serviceErrorResponse(w, r, fmt.Errorf("delete series %v: %w", recurrenceID, err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
