package stats

import (
	"time"

	"github.com/google/uuid"
)

type BattingRecord struct {
	Innings       int     `json:"innings"`
	Runs          int     `json:"runs"`
	Balls         int     `json:"balls"`
	Fours         int     `json:"fours"`
	Sixes         int     `json:"sixes"`
	NotOuts       int     `json:"notOuts"`
	Highest       int     `json:"highest"`
	HighestNotOut bool    `json:"highestNotOut"`
	Average       float64 `json:"average"`
	StrikeRate    float64 `json:"strikeRate"`
	Fifties       int     `json:"fifties"`
	Hundreds      int     `json:"hundreds"`
}

type BowlingRecord struct {
	Innings     int     `json:"innings"`
	LegalBalls  int     `json:"legalBalls"`
	Overs       string  `json:"overs"`
	Runs        int     `json:"runs"`
	Wickets     int     `json:"wickets"`
	Maidens     int     `json:"maidens"`
	Economy     float64 `json:"economy"`
	Average     float64 `json:"average"`
	StrikeRate  float64 `json:"strikeRate"`
	BestWickets int     `json:"bestWickets"`
	BestRuns    int     `json:"bestRuns"`
}

type PlayerStats struct {
	PlayerID         uuid.UUID     `json:"playerId"`
	Matches          int           `json:"matches"`
	Batting          BattingRecord `json:"batting"`
	Bowling          BowlingRecord `json:"bowling"`
	FormSlope        float64       `json:"formSlope"`
	LastCalculatedAt time.Time     `json:"lastCalculatedAt"`
}

type TeamStats struct {
	TeamID           uuid.UUID `json:"teamId"`
	Played           int       `json:"played"`
	Won              int       `json:"won"`
	Lost             int       `json:"lost"`
	Tied             int       `json:"tied"`
	NoResult         int       `json:"noResult"`
	WinRate          float64   `json:"winRate"`
	Form             string    `json:"form"`
	LastCalculatedAt time.Time `json:"lastCalculatedAt"`
}

type StandingRow struct {
	Position    int       `json:"position"`
	TeamID      uuid.UUID `json:"teamId"`
	TeamName    string    `json:"teamName"`
	Played      int       `json:"played"`
	Won         int       `json:"won"`
	Lost        int       `json:"lost"`
	Tied        int       `json:"tied"`
	NoResult    int       `json:"noResult"`
	Points      int       `json:"points"`
	RunsFor     int       `json:"runsFor"`
	BallsFaced  int       `json:"ballsFaced"`
	RunsAgainst int       `json:"runsAgainst"`
	BallsBowled int       `json:"ballsBowled"`
	NetRunRate  float64   `json:"netRunRate"`
}
