package domain

// Sport identifies a configured league, e.g. "nfl".
type Sport string

const (
	SportNFL Sport = "nfl"
	SportNBA Sport = "nba"
)

// Participant is a team known to the catalog. Identity is ShortCode.
type Participant struct {
	CanonicalName string   `json:"canonical_name"`
	ShortCode     string   `json:"short_code"`
	Aliases       []string `json:"aliases"` // lowercase
}

// Same reports whether p and o are the same team.
func (p Participant) Same(o Participant) bool {
	return p.ShortCode == o.ShortCode
}
