// Package organization implements the organization aggregate: the root row
// plus its general, activity, legal, financial and report children.
package organization

import (
	"time"

	"onghub/internal/core/entity"
	"onghub/internal/core/types"
	"onghub/internal/domain/nomenclature"
)

// Status is the lifecycle state of an organization.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusActive     Status = "ACTIVE"
	StatusRestricted Status = "RESTRICTED"
)

// CompletionStatus marks whether yearly reporting obligations are satisfied.
type CompletionStatus string

const (
	CompletionCompleted    CompletionStatus = "COMPLETED"
	CompletionNotCompleted CompletionStatus = "NOT_COMPLETED"
)

// Area is the geographic scope an organization operates in.
type Area string

const (
	AreaLocal         Area = "LOCAL"
	AreaRegional      Area = "REGIONAL"
	AreaNational      Area = "NATIONAL"
	AreaInternational Area = "INTERNATIONAL"
)

// Type is the legal form of the organization.
type Type string

const (
	TypeAssociation Type = "ASSOCIATION"
	TypeFoundation  Type = "FOUNDATION"
	TypeFederation  Type = "FEDERATION"
)

// FinancialType distinguishes the two yearly financial rows.
type FinancialType string

const (
	FinancialIncome  FinancialType = "INCOME"
	FinancialExpense FinancialType = "EXPENSE"
)

// ReportStatus is the reconciliation state of a financial row against the registry.
type ReportStatus string

const (
	ReportNotCompleted ReportStatus = "NOT_COMPLETED"
	ReportPending      ReportStatus = "PENDING"
	ReportCompleted    ReportStatus = "COMPLETED"
	ReportInvalid      ReportStatus = "INVALID"
)

// Organization is the aggregate root.
type Organization struct {
	entity.BaseEntity

	Status           Status           `db:"status" json:"status"`
	CompletionStatus CompletionStatus `db:"completion_status" json:"completionStatus"`
	SyncedOn         *time.Time       `db:"synced_on" json:"syncedOn"`

	GeneralID  int `db:"organization_general_id" json:"-"`
	ActivityID int `db:"organization_activity_id" json:"-"`
	LegalID    int `db:"organization_legal_id" json:"-"`
	ReportID   int `db:"organization_report_id" json:"-"`

	General   *General         `db:"-" json:"organizationGeneral,omitempty"`
	Activity  *Activity        `db:"-" json:"organizationActivity,omitempty"`
	Legal     *Legal           `db:"-" json:"organizationLegal,omitempty"`
	Financial []Financial      `db:"-" json:"organizationFinancial,omitempty"`
	Report    *ReportContainer `db:"-" json:"organizationReport,omitempty"`
}

// Contact is a person row shared by the general contact, the legal
// representative and directors.
type Contact struct {
	entity.BaseEntity

	FullName string `db:"full_name" json:"fullName"`
	Email    string `db:"email" json:"email"`
	Phone    string `db:"phone" json:"phone"`

	// OrganizationLegalID is set for directors only.
	OrganizationLegalID *int `db:"organization_legal_id" json:"-"`
}

// General is the public profile of an organization.
type General struct {
	entity.BaseEntity

	Name        string `db:"name" json:"name"`
	Alias       string `db:"alias" json:"alias"`
	Type        Type   `db:"type" json:"type"`
	Email       string `db:"email" json:"email"`
	Phone       string `db:"phone" json:"phone"`
	YearCreated int    `db:"year_created" json:"yearCreated"`
	CUI         string `db:"cui" json:"cui"`

	AssociationRegistryNumber  *string `db:"association_registry_number" json:"associationRegistryNumber"`
	AssociationRegistryPart    *string `db:"association_registry_part" json:"associationRegistryPart"`
	AssociationRegistrySection *string `db:"association_registry_section" json:"associationRegistrySection"`
	NationalRegistryNumber     *string `db:"national_registry_number" json:"nationalRegistryNumber"`
	RafNumber                  *string `db:"raf_number" json:"rafNumber"`

	ShortDescription *string `db:"short_description" json:"shortDescription"`
	Description      *string `db:"description" json:"description"`
	Address          *string `db:"address" json:"address"`
	Logo             *string `db:"logo" json:"logo"`

	Website         *string `db:"website" json:"website"`
	Facebook        *string `db:"facebook" json:"facebook"`
	Instagram       *string `db:"instagram" json:"instagram"`
	Twitter         *string `db:"twitter" json:"twitter"`
	Linkedin        *string `db:"linkedin" json:"linkedin"`
	Tiktok          *string `db:"tiktok" json:"tiktok"`
	DonationWebsite *string `db:"donation_website" json:"donationWebsite"`
	RedirectLink    *string `db:"redirect_link" json:"redirectLink"`
	DonationSMS     *string `db:"donation_sms" json:"donationSMS"`
	DonationKeyword *string `db:"donation_keyword" json:"donationKeyword"`

	CityID    *int `db:"city_id" json:"-"`
	CountyID  *int `db:"county_id" json:"-"`
	ContactID int  `db:"contact_id" json:"-"`

	City    *nomenclature.City   `db:"-" json:"city,omitempty"`
	County  *nomenclature.County `db:"-" json:"county,omitempty"`
	Contact *Contact             `db:"-" json:"contact,omitempty"`
}

// Activity describes the operating scope of an organization.
type Activity struct {
	entity.BaseEntity

	Area                              Area    `db:"area" json:"area"`
	IsPartOfFederation                bool    `db:"is_part_of_federation" json:"isPartOfFederation"`
	IsPartOfCoalition                 bool    `db:"is_part_of_coalition" json:"isPartOfCoalition"`
	IsPartOfInternationalOrganization bool    `db:"is_part_of_international_organization" json:"isPartOfInternationalOrganization"`
	InternationalOrganizationName     *string `db:"international_organization_name" json:"internationalOrganizationName"`
	HasBranches                       bool    `db:"has_branches" json:"hasBranches"`
	IsSocialServiceViable             bool    `db:"is_social_service_viable" json:"isSocialServiceViable"`
	OffersGrants                      bool    `db:"offers_grants" json:"offersGrants"`
	IsPublicInterestOrganization      bool    `db:"is_public_interest_organization" json:"isPublicInterestOrganization"`
	HasPublicFunds                    bool    `db:"has_public_funds" json:"hasPublicFunds"`

	Domains     []nomenclature.Domain     `db:"-" json:"domains"`
	Cities      []nomenclature.City       `db:"-" json:"cities"`
	Regions     []nomenclature.Region     `db:"-" json:"regions"`
	Federations []nomenclature.Federation `db:"-" json:"federations"`
	Coalitions  []nomenclature.Coalition  `db:"-" json:"coalitions"`
	Branches    []nomenclature.City       `db:"-" json:"branches"`
}

// Legal holds governance data.
type Legal struct {
	entity.BaseEntity

	LegalReprezentativeID *int    `db:"legal_reprezentative_id" json:"-"`
	OtherInformation      *string `db:"other_information" json:"otherInformation"`
	OrganizationStatute   *string `db:"organization_statute" json:"organizationStatute"`

	LegalReprezentative *Contact  `db:"-" json:"legalReprezentative,omitempty"`
	Directors           []Contact `db:"-" json:"directors"`
}

// Financial is one yearly INCOME or EXPENSE row.
type Financial struct {
	entity.BaseEntity

	OrganizationID    int              `db:"organization_id" json:"-"`
	Type              FinancialType    `db:"type" json:"type"`
	Year              int              `db:"year" json:"year"`
	Total             types.Money      `db:"total" json:"total"`
	NumberOfEmployees int              `db:"number_of_employees" json:"numberOfEmployees"`
	SynchedANAF       bool             `db:"synched_anaf" json:"synched_anaf"`
	Data              map[string]any   `db:"data" json:"data"`
	Status            CompletionStatus `db:"status" json:"status"`
	ReportStatus      ReportStatus     `db:"report_status" json:"reportStatus"`
}

// ReportContainer groups the yearly open-data collections.
type ReportContainer struct {
	entity.BaseEntity

	Reports   []Report   `db:"-" json:"reports"`
	Partners  []Partner  `db:"-" json:"partners"`
	Investors []Investor `db:"-" json:"investors"`
}

// Report is the yearly activity report entry.
type Report struct {
	entity.BaseEntity

	OrganizationReportID int              `db:"organization_report_id" json:"-"`
	Year                 int              `db:"year" json:"year"`
	Status               CompletionStatus `db:"status" json:"status"`
	ReportLink           *string          `db:"report" json:"report"`
	NumberOfVolunteers   *int             `db:"number_of_volunteers" json:"numberOfVolunteers"`
	NumberOfContractors  *int             `db:"number_of_contractors" json:"numberOfContractors"`
}

// Partner is the yearly partner list entry.
type Partner struct {
	entity.BaseEntity

	OrganizationReportID int              `db:"organization_report_id" json:"-"`
	Year                 int              `db:"year" json:"year"`
	Status               CompletionStatus `db:"status" json:"status"`
	NumberOfPartners     *int             `db:"number_of_partners" json:"numberOfPartners"`
	Path                 *string          `db:"path" json:"path"`
}

// Investor is the yearly investor list entry.
type Investor struct {
	entity.BaseEntity

	OrganizationReportID int              `db:"organization_report_id" json:"-"`
	Year                 int              `db:"year" json:"year"`
	Status               CompletionStatus `db:"status" json:"status"`
	NumberOfInvestors    *int             `db:"number_of_investors" json:"numberOfInvestors"`
	Path                 *string          `db:"path" json:"path"`
}

// FinancialInformation is the usable registry answer for one tax id and year.
type FinancialInformation struct {
	TotalIncome       types.Money
	TotalExpense      types.Money
	NumberOfEmployees int
}

// Summary is the list projection of an organization.
type Summary struct {
	ID               int              `db:"id" json:"id"`
	Name             string           `db:"name" json:"name"`
	Alias            string           `db:"alias" json:"alias"`
	CUI              string           `db:"cui" json:"cui"`
	Logo             *string          `db:"logo" json:"logo"`
	Status           Status           `db:"status" json:"status"`
	CompletionStatus CompletionStatus `db:"completion_status" json:"completionStatus"`
	CreatedOn        time.Time        `db:"created_on" json:"createdOn"`
	UpdatedOn        time.Time        `db:"updated_on" json:"updatedOn"`
}
