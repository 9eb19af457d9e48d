package httpserver

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
)

func TestBallSchema(t *testing.T) {
	schema, err := compileSchema(ballSchema)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	batter, bowler := uuid.NewString(), uuid.NewString()

	cases := []struct {
		name  string
		body  string
		valid bool
	}{
		{"dot ball", `{"batterId":"` + batter + `","bowlerId":"` + bowler + `","runsOffBat":0}`, true},
		{"wide", `{"batterId":"` + batter + `","bowlerId":"` + bowler + `","runsOffBat":0,"extras":1,"extraType":"wide"}`, true},
		{"wicket", `{"batterId":"` + batter + `","bowlerId":"` + bowler + `","runsOffBat":0,"isWicket":true,"dismissalKind":"bowled","dismissedPlayerId":"` + batter + `"}`, true},
		{"wicket without kind", `{"batterId":"` + batter + `","bowlerId":"` + bowler + `","runsOffBat":0,"isWicket":true}`, false},
		{"too many runs", `{"batterId":"` + batter + `","bowlerId":"` + bowler + `","runsOffBat":9}`, false},
		{"unknown extra", `{"batterId":"` + batter + `","bowlerId":"` + bowler + `","runsOffBat":0,"extras":1,"extraType":"overthrow"}`, false},
		{"missing bowler", `{"batterId":"` + batter + `","runsOffBat":1}`, false},
		{"bad uuid", `{"batterId":"abc","bowlerId":"` + bowler + `","runsOffBat":1}`, false},
		{"unknown field", `{"batterId":"` + batter + `","bowlerId":"` + bowler + `","runsOffBat":1,"speedKph":140}`, false},
		{"not json", `{`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b matches.Ball
			err := validatePayload(schema, []byte(tc.body), &b)
			if tc.valid && err != nil {
				t.Fatalf("expected valid payload, got %v", err)
			}
			if !tc.valid {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !errors.Is(err, errBadRequest) {
					t.Fatalf("expected bad request, got %v", err)
				}
			}
		})
	}
}

func TestValidatePayloadDecodes(t *testing.T) {
	schema, err := compileSchema(ballSchema)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	batter, bowler := uuid.New(), uuid.New()
	body := `{"batterId":"` + batter.String() + `","bowlerId":"` + bowler.String() + `","runsOffBat":1,"extras":1,"extraType":"no_ball"}`

	var b matches.Ball
	if err := validatePayload(schema, []byte(body), &b); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if b.BatterID != batter || b.BowlerID != bowler || b.ExtraType != matches.ExtraNoBall || b.TotalRuns() != 2 {
		t.Fatalf("unexpected ball: %+v", b)
	}
}
