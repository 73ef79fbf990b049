package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onghub/internal/domain/organization"
)

func init() {
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

func ptr[T any](v T) *T { return &v }

func validGeneral() GeneralRequest {
	return GeneralRequest{
		Name:        "Asociatia Test",
		Alias:       "Test",
		Type:        string(organization.TypeAssociation),
		Email:       "office@test.ro",
		Phone:       "0721 234 567",
		YearCreated: 2010,
		CUI:         "14399840",
		Website:     ptr("https://test.ro"),
		CityID:      ptr(1),
		CountyID:    ptr(1),
		Contact:     ContactRequest{FullName: "Ana Pop", Email: "ana@test.ro", Phone: "+40721234567"},
	}
}

func TestGeneralRequest_Validation(t *testing.T) {
	require.NoError(t, binding.Validator.ValidateStruct(validGeneral()))

	tests := []struct {
		name   string
		mutate func(*GeneralRequest)
	}{
		{"bad phone", func(g *GeneralRequest) { g.Phone = "12" }},
		{"bad type", func(g *GeneralRequest) { g.Type = "COMPANY" }},
		{"bad website", func(g *GeneralRequest) { g.Website = ptr("not a url") }},
		{"missing city", func(g *GeneralRequest) { g.CityID = nil }},
		{"bad contact email", func(g *GeneralRequest) { g.Contact.Email = "ana" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGeneral()
			tt.mutate(&g)
			assert.Error(t, binding.Validator.ValidateStruct(g))
		})
	}
}

func TestActivityRequest_Validation(t *testing.T) {
	ok := ActivityRequest{Area: string(organization.AreaLocal), Domains: []int{1}, Cities: []int{4}}
	require.NoError(t, binding.Validator.ValidateStruct(ok))

	bad := ok
	bad.Area = "GALACTIC"
	assert.Error(t, binding.Validator.ValidateStruct(bad))

	bad = ok
	bad.Domains = nil
	assert.Error(t, binding.Validator.ValidateStruct(bad))
}

func TestUpdateOrganizationRequest_ToUpdate(t *testing.T) {
	t.Run("single section", func(t *testing.T) {
		r := UpdateOrganizationRequest{Report: &ReportRequest{ReportID: 3, NumberOfVolunteers: ptr(5)}}
		u, ok := r.ToUpdate()
		require.True(t, ok)
		rep, isReport := u.(organization.ReportUpdate)
		require.True(t, isReport)
		assert.Equal(t, 3, rep.ReportID)
		assert.Equal(t, 5, *rep.NumberOfVolunteers)
	})

	t.Run("empty", func(t *testing.T) {
		u, ok := UpdateOrganizationRequest{}.ToUpdate()
		assert.True(t, ok)
		assert.Nil(t, u)
	})

	t.Run("two sections", func(t *testing.T) {
		r := UpdateOrganizationRequest{
			Financial: &FinancialRequest{ID: 1, Data: map[string]any{}},
			Report:    &ReportRequest{ReportID: 1},
		}
		_, ok := r.ToUpdate()
		assert.False(t, ok)
	})
}

func TestListQuery_ToFilter(t *testing.T) {
	f := OrganizationListQuery{
		ListQuery: ListQuery{Search: "ong", Limit: 500},
		Status:    "ACTIVE",
	}.ToFilter()

	assert.Equal(t, "ong", f.Search)
	assert.Equal(t, 100, f.Limit)
	assert.Equal(t, organization.StatusActive, f.Status)
}

func TestApplicationRequest_Validation(t *testing.T) {
	r := ApplicationRequest{
		Name:             "Vot",
		Type:             "SIMPLE",
		ShortDescription: "short",
		Description:      "long",
		Website:          "https://vot.ro",
		LoginLink:        ptr("https://vot.ro/login"),
	}
	require.NoError(t, binding.Validator.ValidateStruct(r))

	r.Type = "OTHER"
	assert.Error(t, binding.Validator.ValidateStruct(r))
}
