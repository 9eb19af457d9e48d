// Package seed loads league fixtures (teams, squads, tournaments) from YAML.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	domainsync "github.com/lutefd/cricket-api/internal/domain/sync"
	"github.com/lutefd/cricket-api/internal/domain/teams"
	"github.com/lutefd/cricket-api/internal/storage/postgres"
	"gopkg.in/yaml.v3"
)

// namespace keeps generated ids stable so a fixture can be loaded twice.
var namespace = uuid.MustParse("6f1c2a64-3d0e-4a7b-9c55-2f8e0b6d9a13")

type Store interface {
	EnsureUser(ctx context.Context, id uuid.UUID, role string) error
	LinkUser(ctx context.Context, id uuid.UUID) error
	UpsertTeamByUpdatedAt(ctx context.Context, v teams.Team) (domainsync.MergeDecision, error)
	UpsertPlayerByUpdatedAt(ctx context.Context, v teams.Player) (domainsync.MergeDecision, error)
	GetTournament(ctx context.Context, id uuid.UUID) (matches.Tournament, error)
	CreateTournament(ctx context.Context, v matches.Tournament) error
}

type Fixture struct {
	Organizer   uuid.UUID    `yaml:"organizer"`
	Teams       []Team       `yaml:"teams"`
	Tournaments []Tournament `yaml:"tournaments"`
}

type Team struct {
	ID         uuid.UUID `yaml:"id"`
	Name       string    `yaml:"name"`
	ShortName  string    `yaml:"shortName"`
	HomeGround string    `yaml:"homeGround"`
	Players    []Player  `yaml:"players"`
}

type Player struct {
	ID           uuid.UUID        `yaml:"id"`
	UserID       *uuid.UUID       `yaml:"userId"`
	Name         string           `yaml:"name"`
	Role         teams.PlayerRole `yaml:"role"`
	BattingStyle string           `yaml:"battingStyle"`
	BowlingStyle string           `yaml:"bowlingStyle"`
	JerseyNumber *int             `yaml:"jerseyNumber"`
}

type Tournament struct {
	ID         uuid.UUID  `yaml:"id"`
	Name       string     `yaml:"name"`
	OversLimit int        `yaml:"oversLimit"`
	StartsOn   time.Time  `yaml:"startsOn"`
	EndsOn     *time.Time `yaml:"endsOn"`
}

type Summary struct {
	Teams       domainsync.EntityCounts `json:"teams"`
	Players     domainsync.EntityCounts `json:"players"`
	Tournaments int                     `json:"tournaments"`
}

// Parse decodes a fixture and fills in ids derived from names.
func Parse(r io.Reader) (Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.normalize(); err != nil {
		return Fixture{}, err
	}
	return f, nil
}

func (f *Fixture) normalize() error {
	if f.Organizer == uuid.Nil {
		return errors.New("fixture: organizer is required")
	}
	var errs []error
	for i := range f.Teams {
		t := &f.Teams[i]
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("team %d: name is required", i))
			continue
		}
		if t.ID == uuid.Nil {
			t.ID = uuid.NewSHA1(namespace, []byte("team/"+t.Name))
		}
		for j := range t.Players {
			p := &t.Players[j]
			p.Name = strings.TrimSpace(p.Name)
			if p.Name == "" {
				errs = append(errs, fmt.Errorf("team %q player %d: name is required", t.Name, j))
				continue
			}
			if !p.Role.Valid() {
				errs = append(errs, fmt.Errorf("player %q: invalid role %q", p.Name, p.Role))
			}
			if p.ID == uuid.Nil {
				p.ID = uuid.NewSHA1(namespace, []byte("player/"+t.Name+"/"+p.Name))
			}
		}
	}
	for i := range f.Tournaments {
		tr := &f.Tournaments[i]
		tr.Name = strings.TrimSpace(tr.Name)
		if tr.Name == "" {
			errs = append(errs, fmt.Errorf("tournament %d: name is required", i))
			continue
		}
		if tr.OversLimit == 0 {
			tr.OversLimit = matches.DefaultOversLimit
		}
		if tr.OversLimit < 0 {
			errs = append(errs, fmt.Errorf("tournament %q: oversLimit must be positive", tr.Name))
		}
		if tr.ID == uuid.Nil {
			tr.ID = uuid.NewSHA1(namespace, []byte("tournament/"+tr.Name))
		}
	}
	return errors.Join(errs...)
}

// Load writes the fixture through the last-write-wins upserts, so reloading an
// unchanged fixture with an older timestamp is a no-op.
func Load(ctx context.Context, store Store, f Fixture, now time.Time) (Summary, error) {
	var sum Summary
	if err := store.EnsureUser(ctx, f.Organizer, "organizer"); err != nil {
		return sum, fmt.Errorf("organizer: %w", err)
	}

	for _, t := range f.Teams {
		team := teams.Team{
			ID:          t.ID,
			Name:        t.Name,
			ShortName:   t.ShortName,
			HomeGround:  optional(t.HomeGround),
			OrganizerID: &f.Organizer,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		decision, err := store.UpsertTeamByUpdatedAt(ctx, team)
		if err != nil {
			return sum, fmt.Errorf("team %q: %w", t.Name, err)
		}
		sum.Teams.Apply(decision)

		for _, p := range t.Players {
			if p.UserID != nil {
				if err := store.LinkUser(ctx, *p.UserID); err != nil {
					return sum, fmt.Errorf("player %q user: %w", p.Name, err)
				}
			}
			player := teams.Player{
				ID:           p.ID,
				TeamID:       &team.ID,
				UserID:       p.UserID,
				Name:         p.Name,
				Role:         p.Role,
				BattingStyle: optional(p.BattingStyle),
				BowlingStyle: optional(p.BowlingStyle),
				JerseyNumber: p.JerseyNumber,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			decision, err := store.UpsertPlayerByUpdatedAt(ctx, player)
			if err != nil {
				return sum, fmt.Errorf("player %q: %w", p.Name, err)
			}
			sum.Players.Apply(decision)
		}
	}

	for _, tr := range f.Tournaments {
		_, err := store.GetTournament(ctx, tr.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, postgres.ErrNotFound) {
			return sum, fmt.Errorf("tournament %q: %w", tr.Name, err)
		}
		err = store.CreateTournament(ctx, matches.Tournament{
			ID:          tr.ID,
			Name:        tr.Name,
			OrganizerID: f.Organizer,
			OversLimit:  tr.OversLimit,
			StartsOn:    tr.StartsOn,
			EndsOn:      tr.EndsOn,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return sum, fmt.Errorf("tournament %q: %w", tr.Name, err)
		}
		sum.Tournaments++
	}
	return sum, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
