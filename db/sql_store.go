// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/vote-counter/models"
)

// SQLStore keeps the election state in sqlite or postgres. Queries use
// $N placeholders, which both drivers accept.
type SQLStore struct {
	db *sql.DB
}

// OpenSQL opens driver ("sqlite" or "postgres"), verifies the connection
// and creates the schema
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	// sqlite allows one writer at a time
	if driver == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &SQLStore{db: conn}, nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) LoadPositions(ctx context.Context) ([]models.Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position_key, title, max_votes_per_ballot, max_vacancies
		FROM election_position
		ORDER BY display_order
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := []models.Position{}
	byKey := make(map[string]int)
	for rows.Next() {
		p := models.Position{Persons: []models.Person{}}
		if err := rows.Scan(&p.Key, &p.Title, &p.MaxVotesPerBallot, &p.MaxVacancies); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		byKey[p.Key] = len(positions)
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	candidates, err := s.db.QueryContext(ctx, `
		SELECT position_key, person_key, name
		FROM candidate
		ORDER BY position_key, display_order
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer candidates.Close()

	for candidates.Next() {
		var positionKey string
		var person models.Person
		if err := candidates.Scan(&positionKey, &person.Key, &person.Name); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if i, ok := byKey[positionKey]; ok {
			positions[i].Persons = append(positions[i].Persons, person)
		}
	}

	return positions, candidates.Err()
}

func (s *SQLStore) SavePositions(ctx context.Context, positions []models.Position) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM candidate`); err != nil {
			return fmt.Errorf("failed to clear candidates: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM election_position`); err != nil {
			return fmt.Errorf("failed to clear positions: %w", err)
		}

		for i, p := range positions {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO election_position (position_key, title, display_order, max_votes_per_ballot, max_vacancies)
				VALUES ($1, $2, $3, $4, $5)
			`, p.Key, p.Title, i, p.MaxVotesPerBallot, p.MaxVacancies)
			if err != nil {
				return fmt.Errorf("failed to insert position %s: %w", p.Key, err)
			}

			for j, person := range p.Persons {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO candidate (position_key, person_key, name, display_order)
					VALUES ($1, $2, $3, $4)
				`, p.Key, person.Key, person.Name, j)
				if err != nil {
					return fmt.Errorf("failed to insert candidate %s: %w", person.Key, err)
				}
			}
		}
		return nil
	})
}

func (s *SQLStore) LoadBallots(ctx context.Context) ([]models.Ballot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ballot_index FROM ballot ORDER BY ballot_index
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	ballots := []models.Ballot{}
	byIndex := make(map[int]int)
	for rows.Next() {
		var index int
		if err := rows.Scan(&index); err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}
		byIndex[index] = len(ballots)
		ballots = append(ballots, models.Ballot{Index: index, Vote: []models.Vote{}})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	votes, err := s.db.QueryContext(ctx, `
		SELECT ballot_index, position_key, person_key
		FROM ballot_vote
		ORDER BY ballot_index, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer votes.Close()

	for votes.Next() {
		var index int
		var position, person string
		if err := votes.Scan(&index, &position, &person); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		if i, ok := byIndex[index]; ok {
			ballots[i].Vote = append(ballots[i].Vote, models.Vote{
				Position: position,
				Person:   models.ParseCandidateRef(person),
			})
		}
	}

	return ballots, votes.Err()
}

func (s *SQLStore) SaveBallot(ctx context.Context, ballot models.Ballot) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ballot (ballot_index) VALUES ($1)
			ON CONFLICT (ballot_index) DO NOTHING
		`, ballot.Index)
		if err != nil {
			return fmt.Errorf("failed to insert ballot %d: %w", ballot.Index, err)
		}
		return writeVotes(ctx, tx, ballot)
	})
}

func (s *SQLStore) ReplaceBallots(ctx context.Context, ballots []models.Ballot) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ballot_vote`); err != nil {
			return fmt.Errorf("failed to clear votes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM ballot`); err != nil {
			return fmt.Errorf("failed to clear ballots: %w", err)
		}

		for _, b := range ballots {
			if _, err := tx.ExecContext(ctx, `INSERT INTO ballot (ballot_index) VALUES ($1)`, b.Index); err != nil {
				return fmt.Errorf("failed to insert ballot %d: %w", b.Index, err)
			}
			if err := writeVotes(ctx, tx, b); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeVotes(ctx context.Context, tx *sql.Tx, ballot models.Ballot) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM ballot_vote WHERE ballot_index = $1`, ballot.Index); err != nil {
		return fmt.Errorf("failed to clear votes of ballot %d: %w", ballot.Index, err)
	}

	for seq, v := range ballot.Vote {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ballot_vote (ballot_index, seq, position_key, person_key)
			VALUES ($1, $2, $3, $4)
		`, ballot.Index, seq, v.Position, v.Person.String())
		if err != nil {
			return fmt.Errorf("failed to insert vote on ballot %d: %w", ballot.Index, err)
		}
	}
	return nil
}

func (s *SQLStore) LoadSettings(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	err := s.db.QueryRowContext(ctx, `
		SELECT electoral_divisor_variable, total_allowed_voters, sort_results_by_vote_count
		FROM settings
		WHERE id = 1
	`).Scan(&settings.ElectoralDivisorVariable, &settings.TotalAllowedVoters, &settings.SortResultsByVoteCount)

	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}
	return settings, nil
}

func (s *SQLStore) SaveSettings(ctx context.Context, settings models.Settings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, electoral_divisor_variable, total_allowed_voters, sort_results_by_vote_count)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			electoral_divisor_variable = excluded.electoral_divisor_variable,
			total_allowed_voters = excluded.total_allowed_voters,
			sort_results_by_vote_count = excluded.sort_results_by_vote_count
	`, settings.ElectoralDivisorVariable, settings.TotalAllowedVoters, settings.SortResultsByVoteCount)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (s *SQLStore) SaveSnapshot(ctx context.Context, snapshot models.ResultSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO result_snapshot (id, computed_at, inputs_hash, payload)
		VALUES ($1, $2, $3, $4)
	`, snapshot.ID, snapshot.ComputedAt.UTC(), snapshot.InputsHash, string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

func (s *SQLStore) LoadSnapshot(ctx context.Context, id string) (models.ResultSnapshot, error) {
	return s.scanSnapshot(s.db.QueryRowContext(ctx, `
		SELECT payload FROM result_snapshot WHERE id = $1
	`, id))
}

func (s *SQLStore) LatestSnapshot(ctx context.Context) (models.ResultSnapshot, error) {
	return s.scanSnapshot(s.db.QueryRowContext(ctx, `
		SELECT payload FROM result_snapshot ORDER BY computed_at DESC LIMIT 1
	`))
}

func (s *SQLStore) scanSnapshot(row *sql.Row) (models.ResultSnapshot, error) {
	var payload string
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ResultSnapshot{}, ErrNotFound
	}
	if err != nil {
		return models.ResultSnapshot{}, fmt.Errorf("failed to query snapshot: %w", err)
	}

	var snapshot models.ResultSnapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return models.ResultSnapshot{}, fmt.Errorf("failed to parse snapshot payload: %w", err)
	}
	return snapshot, nil
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
