// AngelaMos | 2026
// dto.go

package referral

import (
	"time"
)

type CreateCodeRequest struct {
	Expiry time.Time `json:"expiry" validate:"required"`
}

type CodeResponse struct {
	Code     string    `json:"code"`
	Expiry   time.Time `json:"expiry"`
	IsActive bool      `json:"is_active"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

func ToCodeResponse(c *ReferralCode) CodeResponse {
	return CodeResponse{
		Code:     c.Code,
		Expiry:   c.Expiry,
		IsActive: c.IsActive,
	}
}
