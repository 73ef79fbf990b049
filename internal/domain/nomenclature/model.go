// Package nomenclature provides the reference lists organizations point to:
// counties, cities, regions, domains, federations and coalitions.
package nomenclature

// Entry is a plain id/name reference row.
type Entry struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type (
	Domain     = Entry
	Region     = Entry
	Federation = Entry
	Coalition  = Entry
)

// County is a Romanian county (judet).
type County struct {
	ID           int    `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Abbreviation string `db:"abbreviation" json:"abbreviation"`
	RegionID     *int   `db:"region_id" json:"regionId,omitempty"`
}

// City belongs to exactly one county.
type City struct {
	ID       int     `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	CountyID int     `db:"county_id" json:"-"`
	County   *County `db:"-" json:"county,omitempty"`
}

// Filter narrows list queries. Zero values mean "no restriction".
type Filter struct {
	IDs      []int
	Search   string
	CountyID int
	Limit    uint64
}
