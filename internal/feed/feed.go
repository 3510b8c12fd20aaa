// Package feed orders and filters marketplace listings for a viewer.
package feed

import (
	"sort"
	"strings"

	"github.com/tindaph/tinda-backend/internal/model"
)

// Proximity tiers. Only the highest matching tier counts.
const (
	ScoreCity     = 30
	ScoreProvince = 20
	ScoreRegion   = 10
)

// Score returns the proximity of a listing to the viewer's home location.
// Empty location parts never match.
func Score(l model.Location, home model.Location) int {
	switch {
	case home.City != "" && l.City == home.City:
		return ScoreCity
	case home.Province != "" && l.Province == home.Province:
		return ScoreProvince
	case home.Region != "" && l.Region == home.Region:
		return ScoreRegion
	}
	return 0
}

// Rank returns a newly allocated slice ordered for the viewer. Anonymous
// viewers and admins get the plain chronological feed, newest first. Everyone
// else gets listings nearest to them first, newest first within a tier.
// Ties keep their input order.
func Rank(listings []model.Listing, viewer *model.Session) []model.Listing {
	out := make([]model.Listing, len(listings))
	copy(out, listings)

	if viewer == nil || viewer.IsAdmin() {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
		return out
	}

	type scored struct {
		l     model.Listing
		score int
	}
	tmp := make([]scored, len(out))
	for i, l := range out {
		tmp[i] = scored{l: l, score: Score(l.Location, viewer.Location)}
	}
	sort.SliceStable(tmp, func(i, j int) bool {
		if tmp[i].score != tmp[j].score {
			return tmp[i].score > tmp[j].score
		}
		return tmp[i].l.CreatedAt.After(tmp[j].l.CreatedAt)
	})
	for i := range tmp {
		out[i] = tmp[i].l
	}
	return out
}

// Criteria narrows the feed before ranking.
type Criteria struct {
	Category string
	Search   string
}

// Filter keeps listings in the category (exact, case-sensitive; "All" or
// empty disables it) whose title or description contains the search text,
// ignoring case.
func Filter(listings []model.Listing, c Criteria) []model.Listing {
	needle := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if c.Category != "" && c.Category != model.CategoryAll && l.Category != c.Category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(l.Title), needle) &&
			!strings.Contains(strings.ToLower(l.Description), needle) {
			continue
		}
		out = append(out, l)
	}
	return out
}
