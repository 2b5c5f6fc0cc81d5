package lambdafn

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/reqtoken/internal/apperrors"
	"github.com/nkiryanov/reqtoken/internal/logger"
	"github.com/nkiryanov/reqtoken/internal/models"
	"github.com/nkiryanov/reqtoken/internal/service/authorizer"
	"github.com/nkiryanov/reqtoken/internal/service/issuer"
	"github.com/nkiryanov/reqtoken/internal/testutil"
)

// Allow to use a function as issuer service
type issueFunc func(ctx context.Context, username string) (models.TokenRecord, error)

func (f issueFunc) Issue(ctx context.Context, username string) (models.TokenRecord, error) {
	return f(ctx, username)
}

func newHandlers(t *testing.T) (*Issuer, *Authorizer) {
	t.Helper()

	store := testutil.OpenBadgerStore(t)

	is, err := issuer.NewService(issuer.Config{}, store, nil, nil)
	require.NoError(t, err)
	as, err := authorizer.NewService(store, nil, nil)
	require.NoError(t, err)

	return NewIssuer(is, logger.NewNoOpLogger()), NewAuthorizer(as)
}

func TestIssuer_Handle(t *testing.T) {
	t.Run("issue ok", func(t *testing.T) {
		h, _ := newHandlers(t)

		resp, err := h.Handle(t.Context(), IssueEvent{Username: "alice"})

		require.NoError(t, err)
		require.Equal(t, 201, resp.StatusCode)
		require.Equal(t, map[string]string{"Access-Control-Allow-Origin": "*"}, resp.Headers)

		var body map[string]string
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
		require.Len(t, body["ReqId"], 22)
	})

	t.Run("failure reported in payload", func(t *testing.T) {
		h := NewIssuer(issueFunc(func(ctx context.Context, username string) (models.TokenRecord, error) {
			return models.TokenRecord{}, errors.New("token could not be saved")
		}), logger.NewNoOpLogger())
		ctx := lambdacontext.NewContext(t.Context(), &lambdacontext.LambdaContext{AwsRequestID: "aws-req-1"})

		resp, err := h.Handle(ctx, IssueEvent{Username: "alice"})

		require.NoError(t, err, "issuer never fails the invocation")
		require.Equal(t, 500, resp.StatusCode)
		require.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
		require.JSONEq(t, `{"Error": "token could not be saved", "Reference": "aws-req-1"}`, resp.Body)
	})

	t.Run("no lambda context", func(t *testing.T) {
		h := NewIssuer(issueFunc(func(ctx context.Context, username string) (models.TokenRecord, error) {
			return models.TokenRecord{}, errors.New("boom")
		}), logger.NewNoOpLogger())

		resp, err := h.Handle(t.Context(), IssueEvent{})

		require.NoError(t, err)
		require.JSONEq(t, `{"Error": "boom", "Reference": ""}`, resp.Body)
	})
}

func TestAuthorizer_Handle(t *testing.T) {
	is, az := newHandlers(t)

	issued, err := is.Handle(t.Context(), IssueEvent{Username: "alice"})
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(issued.Body), &body))
	token := body["ReqId"]

	t.Run("issued token allowed", func(t *testing.T) {
		resp, err := az.Handle(t.Context(), events.APIGatewayCustomAuthorizerRequest{
			Type:               "TOKEN",
			AuthorizationToken: token,
			MethodArn:          "arn:aws:execute-api:us-east-1:123:api/prod/GET/items",
		})

		require.NoError(t, err)
		require.Equal(t, events.APIGatewayCustomAuthorizerResponse{
			PrincipalID: "user",
			PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
				Version: "2012-10-17",
				Statement: []events.IAMPolicyStatement{
					{
						Action:   []string{"execute-api:Invoke"},
						Effect:   "Allow",
						Resource: []string{"arn:aws:execute-api:us-east-1:123:api/prod/GET/items"},
					},
				},
			},
			Context: map[string]any{
				"stringKey":  "stringval",
				"numberKey":  123,
				"booleanKey": true,
			},
		}, resp)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := az.Handle(t.Context(), events.APIGatewayCustomAuthorizerRequest{
			Type:               "TOKEN",
			AuthorizationToken: "never-issued",
			MethodArn:          "arn",
		})

		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
		require.Equal(t, "Error: Invalid token", err.Error())
	})
}
