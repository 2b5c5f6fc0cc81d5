package handlers

import (
	"errors"
	"net/http"

	"github.com/nkiryanov/reqtoken/internal/apperrors"
	"github.com/nkiryanov/reqtoken/internal/handlers/render"
	"github.com/nkiryanov/reqtoken/internal/logger"
)

func handleAuthorize(authorizer authorizerService, logger logger.Logger) http.Handler {
	// Same shape as API Gateway TOKEN authorizer event
	type request struct {
		Type               string `json:"type"`
		AuthorizationToken string `json:"authorizationToken" validate:"required"`
		MethodArn          string `json:"methodArn"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		resp, err := authorizer.Authorize(r.Context(), data.AuthorizationToken, data.MethodArn)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrInvalidToken):
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			default:
				logger.Error("authorization failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, resp)
	})
}

func handleHealth() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, map[string]string{"status": "ok"})
	})
}
