package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/pkg/validator"
)

// signupHandler registers a user by email, or finds the existing one, and
// issues a token. It trusts the email, so it is only routed when open signup
// is enabled.
func (a *Api) signupHandler(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		FullName    string `json:"full_name"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	v := validator.New()
	v.Check(req.FullName != "", "full_name", "full_name must be provided")
	v.Check(validator.Matches(req.Email, validator.EmailRX), "email", "email must be a valid email address")

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	status := http.StatusOK
	user, err := a.users.GetUserByEmail(r.Context(), a.db, req.Email)
	switch {
	case errors.Is(err, model.ErrNoRecord):
		info := model.UserCreate{
			FullName:    req.FullName,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
		}
		id, err := a.users.CreateUser(r.Context(), a.db, &info)
		if err != nil {
			a.serviceErrorResponse(w, r, fmt.Errorf("create user: %w", err))
			return
		}
		user = &model.User{ID: id, UserCreate: info}
		status = http.StatusCreated
	case err != nil:
		a.serverErrorResponse(w, r, fmt.Errorf("get user by email: %w", err))
		return
	}

	token, err := a.jwts.CreateToken(user.ID)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("create token: %w", err))
		return
	}

	u, _ := mapToUserResp(user)
	resp := map[string]interface{}{
		"user":         u,
		"access_token": token,
	}

	if err := a.writeJSON(w, status, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}
