// AngelaMos | 2026
// dto.go

package account

type RegisterRequest struct {
	Email        string `json:"email"         validate:"required,email,max=255"`
	Password     string `json:"password"      validate:"required,min=1,max=128"`
	ReferralCode string `json:"referral_code" validate:"omitempty,max=64"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RefereeResponse exposes only the public fields of a referred account.
type RefereeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func ToRefereeResponses(accounts []Account) []RefereeResponse {
	responses := make([]RefereeResponse, 0, len(accounts))
	for _, a := range accounts {
		responses = append(responses, RefereeResponse{
			ID:    a.ID,
			Email: a.Email,
		})
	}
	return responses
}
