// Package lambdafn adapts issuer and authorizer services to AWS Lambda handlers.
package lambdafn

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/nkiryanov/reqtoken/internal/logger"
	"github.com/nkiryanov/reqtoken/internal/models"
)

// Raw event the issuer function is invoked with
type IssueEvent struct {
	Username string `json:"username"`
}

type issuerService interface {
	Issue(ctx context.Context, username string) (models.TokenRecord, error)
}

type Issuer struct {
	service issuerService
	logger  logger.Logger
}

func NewIssuer(s issuerService, l logger.Logger) *Issuer {
	return &Issuer{service: s, logger: l}
}

// Handle issue event
// Failures are reported in the response payload, the returned error is always nil
func (h *Issuer) Handle(ctx context.Context, event IssueEvent) (events.APIGatewayProxyResponse, error) {
	token, err := h.service.Issue(ctx, event.Username)
	if err != nil {
		ref := awsRequestID(ctx)
		h.logger.Error("token not issued", "reference", ref, "error", err.Error())

		return proxyResponse(http.StatusInternalServerError, struct {
			Error     string `json:"Error"`
			Reference string `json:"Reference"`
		}{Error: err.Error(), Reference: ref}), nil
	}

	return proxyResponse(http.StatusCreated, struct {
		ReqID string `json:"ReqId"`
	}{ReqID: token.ReqID}), nil
}

func awsRequestID(ctx context.Context) string {
	lc, ok := lambdacontext.FromContext(ctx)
	if !ok {
		return ""
	}
	return lc.AwsRequestID
}

func proxyResponse(code int, body any) events.APIGatewayProxyResponse {
	// Anonymous structs of strings always marshal
	data, _ := json.Marshal(body)

	return events.APIGatewayProxyResponse{
		StatusCode: code,
		Headers:    map[string]string{"Access-Control-Allow-Origin": "*"},
		Body:       string(data),
	}
}
