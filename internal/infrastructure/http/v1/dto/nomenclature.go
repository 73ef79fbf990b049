package dto

// CitySearchQuery filters the city list. At least one field is required.
type CitySearchQuery struct {
	Search   string `form:"search"`
	CountyID int    `form:"countyId" binding:"omitempty,min=1"`
}
