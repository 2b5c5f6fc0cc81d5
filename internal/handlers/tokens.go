package handlers

import (
	"net/http"

	"github.com/nkiryanov/reqtoken/internal/handlers/reqctx"
	"github.com/nkiryanov/reqtoken/internal/handlers/render"
	"github.com/nkiryanov/reqtoken/internal/logger"
)

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func handleIssueToken(issuer issuerService, logger logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username"`
	}
	type response struct {
		ReqID string `json:"ReqId"`
	}
	type errorResponse struct {
		Error     string `json:"Error"`
		Reference string `json:"Reference"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)

		data, err := render.Bind[request](w, r)
		if err != nil {
			return
		}

		token, err := issuer.Issue(r.Context(), data.Username)
		if err != nil {
			ref, _ := reqctx.FromContext(r.Context())
			logger.Error("token not issued", "reference", ref, "error", err.Error())
			render.JSONStatus(w, errorResponse{Error: err.Error(), Reference: ref}, http.StatusInternalServerError)
			return
		}

		render.JSONStatus(w, response{ReqID: token.ReqID}, http.StatusCreated)
	})
}

func handleTokenPreflight() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusNoContent)
	})
}
