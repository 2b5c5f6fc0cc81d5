package lambdafn

import (
	"context"

	"github.com/aws/aws-lambda-go/events"

	"github.com/nkiryanov/reqtoken/internal/models"
)

type authorizerService interface {
	Authorize(ctx context.Context, token string, methodArn string) (models.AuthResponse, error)
}

type Authorizer struct {
	service authorizerService
}

func NewAuthorizer(s authorizerService) *Authorizer {
	return &Authorizer{service: s}
}

// Handle API Gateway TOKEN authorizer event
// Returns apperrors.ErrInvalidToken when token is not valid, gateway answers 401 then
func (h *Authorizer) Handle(ctx context.Context, event events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	resp, err := h.service.Authorize(ctx, event.AuthorizationToken, event.MethodArn)
	if err != nil {
		return events.APIGatewayCustomAuthorizerResponse{}, err
	}

	return toGatewayResponse(resp), nil
}

func toGatewayResponse(resp models.AuthResponse) events.APIGatewayCustomAuthorizerResponse {
	out := events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: resp.PrincipalID,
		Context:     resp.Context,
	}

	if resp.PolicyDocument != nil {
		out.PolicyDocument.Version = resp.PolicyDocument.Version
		for _, s := range resp.PolicyDocument.Statement {
			out.PolicyDocument.Statement = append(out.PolicyDocument.Statement, events.IAMPolicyStatement{
				Action:   []string{s.Action},
				Effect:   s.Effect,
				Resource: []string{s.Resource},
			})
		}
	}

	return out
}
