package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/scorer"
	"github.com/spf13/cobra"
)

func newScorecardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scorecard <match-id>",
		Short: "Print the scorecard of a stored match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid match id %q", args[0])
			}
			ctx := cmd.Context()
			store, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			board, err := scorer.NewService(store, nil, opts.log).Scoreboard(ctx, matchID)
			if err != nil {
				return err
			}

			names := map[uuid.UUID]string{}
			teamList, err := store.ListTeamsByIDs(ctx, []uuid.UUID{board.HomeTeamID, board.AwayTeamID})
			if err != nil {
				return err
			}
			for _, t := range teamList {
				names[t.ID] = t.Name
			}
			players, err := store.ListPlayersByIDs(ctx, playerIDs(board))
			if err != nil {
				return err
			}
			for _, p := range players {
				names[p.ID] = p.Name
			}
			return printScorecard(cmd.OutOrStdout(), board, names)
		},
	}
}

func playerIDs(board scorer.Scoreboard) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, inn := range board.Innings {
		for _, b := range inn.Batting {
			add(b.PlayerID)
		}
		for _, b := range inn.Bowling {
			add(b.PlayerID)
		}
	}
	return ids
}

func printScorecard(out io.Writer, board scorer.Scoreboard, names map[uuid.UUID]string) error {
	name := func(id uuid.UUID) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id.String()[:8]
	}

	fmt.Fprintf(out, "%s v %s [%s]\n", name(board.HomeTeamID), name(board.AwayTeamID), board.Status)
	if board.ResultSummary != nil {
		fmt.Fprintln(out, *board.ResultSummary)
	}

	for _, inn := range board.Innings {
		fmt.Fprintf(out, "\nInnings %d: %s %d/%d (%s ov) RR %.2f\n",
			inn.Number, name(inn.BattingTeamID), inn.Runs, inn.Wickets, inn.Overs, inn.RunRate)
		if inn.Target > 0 {
			fmt.Fprintf(out, "Target %d\n", inn.Target)
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "BATTER\tR\tB\t4s\t6s\tSR\t")
		for _, b := range inn.Batting {
			status := "not out"
			if b.Out && b.Dismissal != nil {
				status = string(*b.Dismissal)
			}
			fmt.Fprintf(tw, "%s (%s)\t%d\t%d\t%d\t%d\t%.2f\t\n", name(b.PlayerID), status, b.Runs, b.Balls, b.Fours, b.Sixes, b.StrikeRate)
		}
		fmt.Fprintf(tw, "Extras\t%d\t\t\t\t\t\n", inn.Extras.Total())
		fmt.Fprintln(tw, "\t\t\t\t\t\t")
		fmt.Fprintln(tw, "BOWLER\tO\tM\tR\tW\tECON\t")
		for _, b := range inn.Bowling {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.2f\t\n", name(b.PlayerID), b.Overs, b.Maidens, b.Runs, b.Wickets, b.Economy)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
