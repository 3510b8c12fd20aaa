package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tindaph/tinda-backend/internal/model"
)

var (
	qc    = model.Location{Region: "NCR", Province: "Metro Manila", City: "Quezon City"}
	mnl   = model.Location{Region: "NCR", Province: "Metro Manila", City: "Manila"}
	cebu  = model.Location{Region: "Region VII (Central Visayas)", Province: "Cebu", City: "Cebu City"}
	bohol = model.Location{Region: "Region VII (Central Visayas)", Province: "Bohol", City: "Tagbilaran"}
	davao = model.Location{Region: "Region XI (Davao Region)", Province: "Davao del Sur", City: "Davao City"}
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func listing(id string, loc model.Location, ageHours int) model.Listing {
	return model.Listing{ID: id, Location: loc, CreatedAt: base.Add(-time.Duration(ageHours) * time.Hour)}
}

func ids(ls []model.Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		l    model.Location
		home model.Location
		want int
	}{
		{"same city", qc, qc, ScoreCity},
		{"same province", mnl, qc, ScoreProvince},
		{"same region", bohol, cebu, ScoreRegion},
		{"elsewhere", davao, qc, 0},
		{"empty home", qc, model.Location{}, 0},
		{"empty listing", model.Location{}, qc, 0},
		{"city only counts once", model.Location{City: "Quezon City"}, qc, ScoreCity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.l, tt.home))
		})
	}
}

func TestRankAnonymousIsChronological(t *testing.T) {
	in := []model.Listing{
		listing("old", qc, 48),
		listing("new", davao, 1),
		listing("mid", cebu, 10),
	}
	got := Rank(in, nil)
	assert.Equal(t, []string{"new", "mid", "old"}, ids(got))
	// input untouched
	assert.Equal(t, []string{"old", "new", "mid"}, ids(in))
}

func TestRankAdminIgnoresProximity(t *testing.T) {
	admin := &model.Session{Role: model.RoleAdmin, Location: qc}
	in := []model.Listing{
		listing("near-old", qc, 48),
		listing("far-new", davao, 1),
	}
	assert.Equal(t, []string{"far-new", "near-old"}, ids(Rank(in, admin)))
}

func TestRankByProximity(t *testing.T) {
	viewer := &model.Session{Role: model.RoleUser, Location: qc}
	in := []model.Listing{
		listing("davao", davao, 0),
		listing("cebu", cebu, 1),
		listing("qc-old", qc, 30),
		listing("manila", mnl, 2),
		listing("qc-new", qc, 3),
	}
	got := Rank(in, viewer)
	assert.Equal(t, []string{"qc-new", "qc-old", "manila", "davao", "cebu"}, ids(got))
}

func TestRankIsStableAndIdempotent(t *testing.T) {
	viewer := &model.Session{Role: model.RoleSeller, Location: cebu}
	in := []model.Listing{
		listing("a", davao, 5),
		listing("b", davao, 5),
		listing("c", cebu, 5),
		listing("d", davao, 5),
	}
	once := Rank(in, viewer)
	assert.Equal(t, []string{"c", "a", "b", "d"}, ids(once))
	assert.Equal(t, ids(once), ids(Rank(once, viewer)))
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil, nil))
	assert.Empty(t, Rank([]model.Listing{}, &model.Session{Location: qc}))
}

func TestFilter(t *testing.T) {
	in := []model.Listing{
		{ID: "phone", Title: "iPhone 13 Pro Max - Blue", Category: "Electronics"},
		{ID: "jacket", Title: "Vintage Denim Jacket", Category: "Fashion", Description: "Rare find"},
		{ID: "sofa", Title: "L-shaped sofa", Category: "Home & Living"},
	}
	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"no criteria", Criteria{}, []string{"phone", "jacket", "sofa"}},
		{"all sentinel", Criteria{Category: model.CategoryAll}, []string{"phone", "jacket", "sofa"}},
		{"category exact", Criteria{Category: "Fashion"}, []string{"jacket"}},
		{"category case sensitive", Criteria{Category: "fashion"}, []string{}},
		{"search ignores case", Criteria{Search: "IPHONE"}, []string{"phone"}},
		{"search description", Criteria{Search: "rare"}, []string{"jacket"}},
		{"search and category", Criteria{Category: "Electronics", Search: "denim"}, []string{}},
		{"blank search", Criteria{Search: "   "}, []string{"phone", "jacket", "sofa"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(in, tt.c)))
		})
	}
}
