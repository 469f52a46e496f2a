package model

// OthersLabel is the series that absorbs every assembly not attributed to a ranked group.
const OthersLabel = "Others"

// RankedGroup is one of the most represented groups together with its yearly counts.
type RankedGroup struct {
	Group string      `json:"group"`
	Total int         `json:"total"`
	Years map[int]int `json:"years"`
}

// RankedGroups is ordered by descending total.
type RankedGroups []RankedGroup

func (r RankedGroups) Labels() []string {
	labels := make([]string, 0, len(r))
	for _, g := range r {
		labels = append(labels, g.Group)
	}
	return labels
}

type SeriesRow struct {
	Group string `json:"group"`
	Year  int    `json:"year"`
	Count int    `json:"count"`
}
