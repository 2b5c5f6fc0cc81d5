package models

const (
	PolicyVersion = "2012-10-17"
	InvokeAction  = "execute-api:Invoke"

	EffectAllow = "Allow"
	EffectDeny  = "Deny"

	// Principal every authorized request is attributed to
	DefaultPrincipal = "user"
)

type Statement struct {
	Action   string `json:"Action"`
	Effect   string `json:"Effect"`
	Resource string `json:"Resource"`
}

type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Authorization decision returned to the API gateway
type AuthResponse struct {
	PrincipalID    string          `json:"principalId"`
	PolicyDocument *PolicyDocument `json:"policyDocument,omitempty"`
	Context        map[string]any  `json:"context"`
}

// Static context attached to every decision. It does not depend on the token record.
func AuthContext() map[string]any {
	return map[string]any{
		"stringKey":  "stringval",
		"numberKey":  123,
		"booleanKey": true,
	}
}

// Build a decision for the principal
// The policy document is only attached when both effect and resource are known
func NewAuthResponse(principalID string, effect string, resource string) AuthResponse {
	resp := AuthResponse{
		PrincipalID: principalID,
		Context:     AuthContext(),
	}

	if effect != "" && resource != "" {
		resp.PolicyDocument = &PolicyDocument{
			Version: PolicyVersion,
			Statement: []Statement{
				{Action: InvokeAction, Effect: effect, Resource: resource},
			},
		}
	}

	return resp
}
