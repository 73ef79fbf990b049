// Package statistics computes the hub and organization dashboards.
package statistics

import "time"

// Period selects the bucket size and length of a time series.
type Period string

const (
	PeriodDaily   Period = "DAILY"
	PeriodMonthly Period = "MONTHLY"
	PeriodYearly  Period = "YEARLY"
)

// Series names a counted event stream.
type Series string

const (
	SeriesRequestsApproved        Series = "requests_approved"
	SeriesRequestsDeclined        Series = "requests_declined"
	SeriesOrganizationsActive     Series = "organizations_active"
	SeriesOrganizationsRestricted Series = "organizations_restricted"
)

// Bucket is the count of one series in the bucket starting at Start.
type Bucket struct {
	Start time.Time `db:"bucket"`
	Count int       `db:"count"`
}

// Hub is the super admin dashboard.
type Hub struct {
	NumberOfActiveOrganizations  int `json:"numberOfActiveOrganizations"`
	NumberOfUpdatedOrganizations int `json:"numberOfUpdatedOrganizations"`
	NumberOfPendingRequests      int `json:"numberOfPendingRequests"`
	NumberOfUsers                int `json:"numberOfUsers"`
	MeanNumberOfUsers            int `json:"meanNumberOfUsers"`
	NumberOfApps                 int `json:"numberOfApps"`
}

// HubSummary is the hub part shown on an organization dashboard.
type HubSummary struct {
	NumberOfActiveOrganizations int `json:"numberOfActiveOrganizations"`
	NumberOfApplications        int `json:"numberOfApplications"`
}

// Organization is the dashboard of one organization.
type Organization struct {
	OrganizationCreatedOn                   time.Time  `json:"organizationCreatedOn"`
	OrganizationSyncedOn                    *time.Time `json:"organizationSyncedOn"`
	NumberOfInstalledApps                   int        `json:"numberOfInstalledApps"`
	NumberOfUsers                           int        `json:"numberOfUsers"`
	HubStatistics                           HubSummary `json:"hubStatistics"`
	NumberOfErroredFinancialReports         int        `json:"numberOfErroredFinancialReports"`
	NumberOfErroredReportsInvestorsPartners int        `json:"numberOfErroredReportsInvestorsPartners"`
}

// RequestSeries is the approved/declined request chart.
type RequestSeries struct {
	Labels   []string `json:"labels"`
	Approved []int    `json:"approved"`
	Declined []int    `json:"declined"`
}

// StatusSeries is the active/restricted organization chart.
type StatusSeries struct {
	Labels     []string `json:"labels"`
	Active     []int    `json:"active"`
	Restricted []int    `json:"restricted"`
}
