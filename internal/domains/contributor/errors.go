package contributor

import "talenta-backend/internal/shared/apperror"

var (
	ErrContributorNotFound = apperror.NotFound("Contribution request not found")
	ErrAlreadyRequested    = apperror.Conflict("You have already requested to contribute to this book")
	ErrOwnBook             = apperror.Validation("You cannot contribute to your own book")
	ErrClosed              = apperror.Validation("This book does not accept chapter contributions")
)
