package models

// LivesPerDonation is how many patients one completed donation is counted
// as helping.
const LivesPerDonation = 3

// Stats summarises a donor's history. Cancelled donations are ignored.
type Stats struct {
	TotalDonations  int         `json:"total_donations"`
	TotalUnits      float64     `json:"total_units"`
	LivesImpacted   int         `json:"lives_impacted"`
	DonationsByYear map[int]int `json:"donations_by_year"`
	PointsEarned    int         `json:"points_earned"`
}

func ComputeStats(donations []*Donation, points int) Stats {
	st := Stats{DonationsByYear: make(map[int]int), PointsEarned: points}
	for _, d := range donations {
		if !d.Status.Counts() {
			continue
		}
		st.TotalDonations++
		st.TotalUnits += d.Units
		st.DonationsByYear[d.DonationDate.Year()]++
		if d.Status == StatusCompleted || d.Status == StatusVerified {
			st.LivesImpacted += LivesPerDonation
		}
	}
	return st
}
