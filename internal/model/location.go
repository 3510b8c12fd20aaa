package model

// Location is the Philippine administrative triple attached to users and listings.
type Location struct {
	Region   string `gorm:"column:region;size:128;index" json:"region"`
	Province string `gorm:"column:province;size:128" json:"province"`
	City     string `gorm:"column:city;size:128" json:"city"`
}

// IsZero reports whether no part of the location is set.
func (l Location) IsZero() bool {
	return l.Region == "" && l.Province == "" && l.City == ""
}

// Province groups the cities of one province for the location picker.
type Province struct {
	Name   string   `json:"name"`
	Cities []string `json:"cities"`
}

// Region groups provinces.
type Region struct {
	Name      string     `json:"name"`
	Provinces []Province `json:"provinces"`
}

// PHLocations is the location tree offered at registration and when posting.
var PHLocations = []Region{
	{
		Name: "NCR",
		Provinces: []Province{
			{Name: "Metro Manila", Cities: []string{"Manila", "Quezon City", "Makati", "Taguig", "Pasig"}},
		},
	},
	{
		Name: "Region VII (Central Visayas)",
		Provinces: []Province{
			{Name: "Cebu", Cities: []string{"Cebu City", "Mandaue", "Lapu-Lapu", "Talisay"}},
			{Name: "Bohol", Cities: []string{"Tagbilaran"}},
		},
	},
	{
		Name: "Region XI (Davao Region)",
		Provinces: []Province{
			{Name: "Davao del Sur", Cities: []string{"Davao City", "Digos"}},
		},
	},
}
