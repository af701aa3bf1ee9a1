package contributor

import (
	"talenta-backend/internal/domains/access"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type DecisionRequest struct {
	Status access.ContributorStatus `json:"status"`
}

func (r DecisionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.Required.Error("Status is required"),
			validation.In(access.ContributorApproved, access.ContributorRejected).Error("Status must be APPROVED or REJECTED"),
		),
	)
}
