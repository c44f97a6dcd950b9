package entity

// Grade is the letter band for a health score total.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// HealthScoreBreakdown is the composite health score derived from a
// Portfolio. Total always equals the sum of the four rounded components.
type HealthScoreBreakdown struct {
	Total           int      `json:"total"`
	Diversification int      `json:"diversification"`
	Size            int      `json:"size"`
	RiskBalance     int      `json:"riskBalance"`
	Activity        int      `json:"activity"`
	Grade           Grade    `json:"grade"`
	Recommendations []string `json:"recommendations"`
}
