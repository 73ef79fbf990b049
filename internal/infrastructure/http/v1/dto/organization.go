package dto

import (
	"onghub/internal/domain/organization"
)

// --- Request DTOs ---

// ContactRequest is a person: general contact, legal representative or director.
type ContactRequest struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,phone"`
}

func (r ContactRequest) toInput() organization.ContactInput {
	return organization.ContactInput{ID: r.ID, FullName: r.FullName, Email: r.Email, Phone: r.Phone}
}

// GeneralRequest is the general section of an organization.
type GeneralRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Alias       string `json:"alias" binding:"required,max=100"`
	Type        string `json:"type" binding:"required,ong_type"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required,phone"`
	YearCreated int    `json:"yearCreated" binding:"required,min=1800"`
	CUI         string `json:"cui" binding:"required,max=12"`

	AssociationRegistryNumber  *string `json:"associationRegistryNumber" binding:"omitempty,max=20"`
	AssociationRegistryPart    *string `json:"associationRegistryPart" binding:"omitempty,max=20"`
	AssociationRegistrySection *string `json:"associationRegistrySection" binding:"omitempty,max=20"`
	NationalRegistryNumber     *string `json:"nationalRegistryNumber" binding:"omitempty,max=20"`
	RafNumber                  *string `json:"rafNumber" binding:"omitempty,max=20"`

	ShortDescription *string `json:"shortDescription" binding:"omitempty,max=250"`
	Description      *string `json:"description" binding:"omitempty,max=1000"`
	Address          *string `json:"address" binding:"omitempty,max=200"`

	Website         *string `json:"website" binding:"omitempty,url"`
	Facebook        *string `json:"facebook" binding:"omitempty,url"`
	Instagram       *string `json:"instagram" binding:"omitempty,url"`
	Twitter         *string `json:"twitter" binding:"omitempty,url"`
	Linkedin        *string `json:"linkedin" binding:"omitempty,url"`
	Tiktok          *string `json:"tiktok" binding:"omitempty,url"`
	DonationWebsite *string `json:"donationWebsite" binding:"omitempty,url"`
	RedirectLink    *string `json:"redirectLink" binding:"omitempty,url"`
	DonationSMS     *string `json:"donationSMS" binding:"omitempty,max=10"`
	DonationKeyword *string `json:"donationKeyword" binding:"omitempty,max=20"`

	CityID   *int `json:"cityId" binding:"required,min=1"`
	CountyID *int `json:"countyId" binding:"required,min=1"`

	Contact ContactRequest `json:"contact"`
}

// ToInput maps the request to the domain input.
func (r GeneralRequest) ToInput() organization.GeneralInput {
	return organization.GeneralInput{
		Name:                       r.Name,
		Alias:                      r.Alias,
		Type:                       organization.Type(r.Type),
		Email:                      r.Email,
		Phone:                      r.Phone,
		YearCreated:                r.YearCreated,
		CUI:                        r.CUI,
		AssociationRegistryNumber:  r.AssociationRegistryNumber,
		AssociationRegistryPart:    r.AssociationRegistryPart,
		AssociationRegistrySection: r.AssociationRegistrySection,
		NationalRegistryNumber:     r.NationalRegistryNumber,
		RafNumber:                  r.RafNumber,
		ShortDescription:           r.ShortDescription,
		Description:                r.Description,
		Address:                    r.Address,
		Website:                    r.Website,
		Facebook:                   r.Facebook,
		Instagram:                  r.Instagram,
		Twitter:                    r.Twitter,
		Linkedin:                   r.Linkedin,
		Tiktok:                     r.Tiktok,
		DonationWebsite:            r.DonationWebsite,
		RedirectLink:               r.RedirectLink,
		DonationSMS:                r.DonationSMS,
		DonationKeyword:            r.DonationKeyword,
		CityID:                     r.CityID,
		CountyID:                   r.CountyID,
		Contact:                    r.Contact.toInput(),
	}
}

// ActivityRequest is the activity section of an organization.
type ActivityRequest struct {
	Area    string `json:"area" binding:"required,ong_area"`
	Domains []int  `json:"domains" binding:"required,min=1,dive,min=1"`
	Cities  []int  `json:"cities" binding:"omitempty,dive,min=1"`
	Regions []int  `json:"regions" binding:"omitempty,dive,min=1"`

	IsPartOfFederation bool     `json:"isPartOfFederation"`
	Federations        []int    `json:"federations" binding:"omitempty,dive,min=1"`
	NewFederations     []string `json:"newFederations" binding:"omitempty,dive,required,max=100"`

	IsPartOfCoalition bool     `json:"isPartOfCoalition"`
	Coalitions        []int    `json:"coalitions" binding:"omitempty,dive,min=1"`
	NewCoalitions     []string `json:"newCoalitions" binding:"omitempty,dive,required,max=100"`

	IsPartOfInternationalOrganization bool    `json:"isPartOfInternationalOrganization"`
	InternationalOrganizationName     *string `json:"internationalOrganizationName" binding:"omitempty,max=100"`

	HasBranches bool  `json:"hasBranches"`
	Branches    []int `json:"branches" binding:"omitempty,dive,min=1"`

	IsSocialServiceViable        bool `json:"isSocialServiceViable"`
	OffersGrants                 bool `json:"offersGrants"`
	IsPublicInterestOrganization bool `json:"isPublicInterestOrganization"`
	HasPublicFunds               bool `json:"hasPublicFunds"`
}

// ToInput maps the request to the domain input.
func (r ActivityRequest) ToInput() organization.ActivityInput {
	return organization.ActivityInput{
		Area:                              organization.Area(r.Area),
		Domains:                           r.Domains,
		Cities:                            r.Cities,
		Regions:                           r.Regions,
		IsPartOfFederation:                r.IsPartOfFederation,
		Federations:                       r.Federations,
		NewFederations:                    r.NewFederations,
		IsPartOfCoalition:                 r.IsPartOfCoalition,
		Coalitions:                        r.Coalitions,
		NewCoalitions:                     r.NewCoalitions,
		IsPartOfInternationalOrganization: r.IsPartOfInternationalOrganization,
		InternationalOrganizationName:     r.InternationalOrganizationName,
		HasBranches:                       r.HasBranches,
		Branches:                          r.Branches,
		IsSocialServiceViable:             r.IsSocialServiceViable,
		OffersGrants:                      r.OffersGrants,
		IsPublicInterestOrganization:      r.IsPublicInterestOrganization,
		HasPublicFunds:                    r.HasPublicFunds,
	}
}

// LegalRequest is the legal section of an organization.
type LegalRequest struct {
	LegalReprezentative ContactRequest   `json:"legalReprezentative"`
	Directors           []ContactRequest `json:"directors" binding:"omitempty,dive"`
	OtherInformation    *string          `json:"otherInformation" binding:"omitempty,max=500"`
}

// ToInput maps the request to the domain input.
func (r LegalRequest) ToInput() organization.LegalInput {
	directors := make([]organization.ContactInput, len(r.Directors))
	for i, d := range r.Directors {
		directors[i] = d.toInput()
	}
	return organization.LegalInput{
		LegalReprezentative: r.LegalReprezentative.toInput(),
		Directors:           directors,
		OtherInformation:    r.OtherInformation,
	}
}

// FinancialRequest replaces the category data of one financial row.
type FinancialRequest struct {
	ID   int            `json:"id" binding:"required,min=1"`
	Data map[string]any `json:"data" binding:"required"`
}

// ReportRequest updates one yearly report row.
type ReportRequest struct {
	ReportID            int     `json:"reportId" binding:"required,min=1"`
	ReportLink          *string `json:"report" binding:"omitempty,url"`
	NumberOfVolunteers  *int    `json:"numberOfVolunteers" binding:"omitempty,min=0"`
	NumberOfContractors *int    `json:"numberOfContractors" binding:"omitempty,min=0"`
}

// CreateOrganizationRequest registers a new organization.
type CreateOrganizationRequest struct {
	General  GeneralRequest  `json:"general"`
	Activity ActivityRequest `json:"activity"`
	Legal    LegalRequest    `json:"legal"`
}

// ToInput maps the request to the domain input.
func (r CreateOrganizationRequest) ToInput() organization.CreateInput {
	return organization.CreateInput{
		General:  r.General.ToInput(),
		Activity: r.Activity.ToInput(),
		Legal:    r.Legal.ToInput(),
	}
}

// UpdateOrganizationRequest carries exactly one section.
type UpdateOrganizationRequest struct {
	General   *GeneralRequest   `json:"general"`
	Activity  *ActivityRequest  `json:"activity"`
	Legal     *LegalRequest     `json:"legal"`
	Financial *FinancialRequest `json:"financial"`
	Report    *ReportRequest    `json:"report"`
}

// ToUpdate returns the single section present in the request, or nil when
// the request is empty. ok is false when more than one section is set.
func (r UpdateOrganizationRequest) ToUpdate() (u organization.Update, ok bool) {
	n := 0
	if r.General != nil {
		u = organization.GeneralUpdate{GeneralInput: r.General.ToInput()}
		n++
	}
	if r.Activity != nil {
		u = organization.ActivityUpdate{ActivityInput: r.Activity.ToInput()}
		n++
	}
	if r.Legal != nil {
		u = organization.LegalUpdate{LegalInput: r.Legal.ToInput()}
		n++
	}
	if r.Financial != nil {
		u = organization.FinancialUpdate{ID: r.Financial.ID, Data: r.Financial.Data}
		n++
	}
	if r.Report != nil {
		u = organization.ReportUpdate{
			ReportID:            r.Report.ReportID,
			ReportLink:          r.Report.ReportLink,
			NumberOfVolunteers:  r.Report.NumberOfVolunteers,
			NumberOfContractors: r.Report.NumberOfContractors,
		}
		n++
	}
	if n > 1 {
		return nil, false
	}
	return u, true
}

// ValidateGeneralRequest probes unique general fields before registration.
type ValidateGeneralRequest struct {
	CUI       string `json:"cui"`
	RafNumber string `json:"rafNumber"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Alias     string `json:"alias"`
}

// ToProbe maps the request to the domain probe.
func (r ValidateGeneralRequest) ToProbe() organization.GeneralProbe {
	return organization.GeneralProbe(r)
}

// OrganizationListQuery filters the organization list.
type OrganizationListQuery struct {
	ListQuery
	Status           string `form:"status" binding:"omitempty,oneof=PENDING ACTIVE RESTRICTED"`
	CompletionStatus string `form:"completionStatus" binding:"omitempty,oneof=COMPLETED NOT_COMPLETED"`
}

// ToFilter converts the query to a domain filter.
func (q OrganizationListQuery) ToFilter() organization.ListFilter {
	return organization.ListFilter{
		ListFilter:       q.ListQuery.ToFilter(),
		Status:           organization.Status(q.Status),
		CompletionStatus: organization.CompletionStatus(q.CompletionStatus),
	}
}

// UploadListRequest is the form part sent with partner or investor lists.
type UploadListRequest struct {
	Count int `form:"numberOf" binding:"min=0"`
}
