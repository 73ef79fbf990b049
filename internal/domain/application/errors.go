package application

import "onghub/internal/core/apperror"

// Error codes returned to clients.
const (
	CodeLoginLinkRequired = "APP_001"
	CodeNotFound          = "APP_002"
	CodeLogoUpload        = "APP_003"

	CodeRequestNotActive       = "APP_REQ_001"
	CodeRequestPendingExists   = "APP_REQ_002"
	CodeRequestAlreadyAssigned = "APP_REQ_003"
	CodeRequestNotFound        = "APP_REQ_004"
	CodeRequestNotPending      = "APP_REQ_005"
	CodeRequestCreateFailed    = "APP_REQ_006"
	CodeRequestIndependent     = "APP_REQ_007"
	CodeRequestUpdateFailed    = "APP_REQ_008"
	CodeAccessNotFound         = "APP_REQ_009"
)

func errLoginLinkRequired() *apperror.AppError {
	return apperror.NewBadRequest(CodeLoginLinkRequired, "Login link is required for this application type").
		WithDetail("field", "loginLink")
}

func errNotFound() *apperror.AppError {
	return apperror.NewNotFoundCode(CodeNotFound, "Application Not Found")
}

func errLogoUpload(err error) *apperror.AppError {
	return apperror.NewInternalCode(CodeLogoUpload, "Error while uploading logo", err)
}

func errNotActive() *apperror.AppError {
	return apperror.NewBadRequest(CodeRequestNotActive, "Cannot request an application that is not ACTIVE.")
}

func errIndependent() *apperror.AppError {
	return apperror.NewBadRequest(CodeRequestIndependent, "Cannot request an independent application.")
}

func errPendingExists() *apperror.AppError {
	return apperror.NewBadRequest(CodeRequestPendingExists, "There is already a pending request with the same data.")
}

func errAlreadyAssigned() *apperror.AppError {
	return apperror.NewBadRequest(CodeRequestAlreadyAssigned, "The app is already assigned to the organization.")
}

func errRequestNotFound() *apperror.AppError {
	return apperror.NewNotFoundCode(CodeRequestNotFound, "Request not found")
}

func errNotPending() *apperror.AppError {
	return apperror.NewBadRequest(CodeRequestNotPending, "Could not update a Request that is not in PENDING state")
}

func errRequestCreate(err error) *apperror.AppError {
	return apperror.NewInternalCode(CodeRequestCreateFailed, "Error while creating the request.", err)
}

func errRequestUpdate(err error) *apperror.AppError {
	return apperror.NewInternalCode(CodeRequestUpdateFailed, "Error while updating the request.", err)
}

func errAccessNotFound() *apperror.AppError {
	return apperror.NewNotFoundCode(CodeAccessNotFound, "Application is not assigned to the organization")
}
