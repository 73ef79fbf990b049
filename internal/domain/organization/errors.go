package organization

import "onghub/internal/core/apperror"

// Error codes returned to clients. Codes are stable; messages may change.
const (
	CodeNotFound                = "ORG001"
	CodeMissingCities           = "ORG002"
	CodeMissingRegions          = "ORG003"
	CodeMissingFederations      = "ORG004"
	CodeMissingCoalitions       = "ORG005"
	CodeMissingBranches         = "ORG006"
	CodeMissingInternationalOrg = "ORG007"
	CodeMinimumDirectors        = "ORG008"
	CodeAlreadyActive           = "ORG009"
	CodeAlreadyRestricted       = "ORG010"
	CodeNotRestricted           = "ORG011"
	CodeDeleteNotPending        = "ORG012"
	CodeDeleteFailed            = "ORG013"
	CodeUploadFailed            = "ORG014"
	CodeFinancialNotFound       = "ORG015"
	CodeReportingEntriesExist   = "ORG016"
	CodeReportingEntriesFailed  = "ORG017"
	CodeReportEntryNotFound     = "ORG018"
	CodeCreateFailed            = "ORG019"

	CodeNameExists  = "ORG_REQ_001"
	CodeCUIExists   = "ORG_REQ_002"
	CodeRafExists   = "ORG_REQ_003"
	CodeEmailExists = "ORG_REQ_004"
	CodeAliasExists = "ORG_REQ_005"
	CodePhoneExists = "ORG_REQ_006"

	CodeRegistryFailed = "ANAF001"
)

func errNotFound() *apperror.AppError {
	return apperror.NewNotFoundCode(CodeNotFound, "Organization not found")
}

func errMissingCities() *apperror.AppError {
	return apperror.NewBadRequest(CodeMissingCities, "Missing city/cities")
}

func errMissingRegions() *apperror.AppError {
	return apperror.NewBadRequest(CodeMissingRegions, "Missing region(s)")
}

func errMissingFederations() *apperror.AppError {
	return apperror.NewBadRequest(CodeMissingFederations, "Missing federations")
}

func errMissingCoalitions() *apperror.AppError {
	return apperror.NewBadRequest(CodeMissingCoalitions, "Missing coalitions")
}

func errMissingBranches() *apperror.AppError {
	return apperror.NewBadRequest(CodeMissingBranches, "Missing branches")
}

func errMissingInternationalOrg() *apperror.AppError {
	return apperror.NewBadRequest(CodeMissingInternationalOrg, "Missing International Organization")
}

func errMinimumDirectors() *apperror.AppError {
	return apperror.NewBadRequest(CodeMinimumDirectors, "Minimum 3 directors")
}

func errAlreadyActive() *apperror.AppError {
	return apperror.NewBadRequest(CodeAlreadyActive, "Organization is already active")
}

func errAlreadyRestricted() *apperror.AppError {
	return apperror.NewBadRequest(CodeAlreadyRestricted, "Organization is already restricted")
}

func errNotRestricted() *apperror.AppError {
	return apperror.NewBadRequest(CodeNotRestricted, "Only restricted organizations can be restored")
}

func errDeleteNotPending() *apperror.AppError {
	return apperror.NewBadRequest(CodeDeleteNotPending, "Only pending organizations can be deleted")
}

func errDeleteFailed(cause error) *apperror.AppError {
	return apperror.NewBadRequest(CodeDeleteFailed, "Error while deleting the organization").WithCause(cause)
}

func errUploadFailed(cause error) *apperror.AppError {
	return apperror.NewInternalCode(CodeUploadFailed, "Error while uploading the files", cause)
}

func errFinancialNotFound() *apperror.AppError {
	return apperror.NewNotFoundCode(CodeFinancialNotFound, "Financial report not found")
}

func errReportingEntriesExist() *apperror.AppError {
	return apperror.NewBadRequest(CodeReportingEntriesExist, "Reporting entries already exist for the requested year")
}

func errReportingEntriesFailed(cause error) *apperror.AppError {
	return apperror.NewInternalCode(CodeReportingEntriesFailed, "Error while adding the new reporting entries", cause)
}

func errReportEntryNotFound(kind string) *apperror.AppError {
	return apperror.NewNotFoundCode(CodeReportEntryNotFound, kind+" not found")
}

func errCreateFailed(cause error) *apperror.AppError {
	return apperror.NewInternalCode(CodeCreateFailed, "Error while creating the organization", cause)
}

func errRegistry(cause error) *apperror.AppError {
	return apperror.NewInternalCode(CodeRegistryFailed, "Error while fetching data from ANAF", cause)
}
