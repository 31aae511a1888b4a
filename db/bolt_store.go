// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/danielhkuo/vote-counter/models"
)

var (
	// Bucket names
	positionsBucket = []byte("positions")
	ballotsBucket   = []byte("ballots")
	settingsBucket  = []byte("settings")
	snapshotsBucket = []byte("snapshots")

	// Singleton keys
	positionsKey = []byte("all")
	settingsKey  = []byte("settings")
)

// BoltStore keeps the election state in a single bbolt file. Values are
// JSON; ballots are keyed by their big-endian index so a cursor walks them
// in order.
type BoltStore struct {
	conn *bbolt.DB
}

// OpenBolt opens or creates the bbolt file at path
func OpenBolt(path string) (*BoltStore, error) {
	conn, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt db: %w", err)
	}

	err = conn.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{positionsBucket, ballotsBucket, settingsBucket, snapshotsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &BoltStore{conn: conn}, nil
}

func (b *BoltStore) Close() error { return b.conn.Close() }

func (b *BoltStore) LoadPositions(ctx context.Context) ([]models.Position, error) {
	positions := []models.Position{}
	err := b.conn.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(positionsBucket).Get(positionsKey)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &positions)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	return positions, nil
}

func (b *BoltStore) SavePositions(ctx context.Context, positions []models.Position) error {
	data, err := json.Marshal(positions)
	if err != nil {
		return fmt.Errorf("failed to encode positions: %w", err)
	}
	return b.conn.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(positionsBucket).Put(positionsKey, data)
	})
}

func (b *BoltStore) LoadBallots(ctx context.Context) ([]models.Ballot, error) {
	ballots := []models.Ballot{}
	err := b.conn.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(ballotsBucket).ForEach(func(k, v []byte) error {
			var ballot models.Ballot
			if err := json.Unmarshal(v, &ballot); err != nil {
				return fmt.Errorf("failed to decode ballot %d: %w", binary.BigEndian.Uint64(k), err)
			}
			if ballot.Vote == nil {
				ballot.Vote = []models.Vote{}
			}
			ballots = append(ballots, ballot)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ballots, nil
}

func (b *BoltStore) SaveBallot(ctx context.Context, ballot models.Ballot) error {
	return b.conn.Update(func(tx *bbolt.Tx) error {
		return putBallot(tx.Bucket(ballotsBucket), ballot)
	})
}

func (b *BoltStore) ReplaceBallots(ctx context.Context, ballots []models.Ballot) error {
	return b.conn.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(ballotsBucket); err != nil {
			return fmt.Errorf("failed to clear ballots: %w", err)
		}
		bucket, err := tx.CreateBucket(ballotsBucket)
		if err != nil {
			return fmt.Errorf("failed to create ballots bucket: %w", err)
		}
		for _, ballot := range ballots {
			if err := putBallot(bucket, ballot); err != nil {
				return err
			}
		}
		return nil
	})
}

func putBallot(bucket *bbolt.Bucket, ballot models.Ballot) error {
	if ballot.Index < 0 {
		return fmt.Errorf("ballot index %d is negative", ballot.Index)
	}
	data, err := json.Marshal(ballot)
	if err != nil {
		return fmt.Errorf("failed to encode ballot %d: %w", ballot.Index, err)
	}
	return bucket.Put(uint64ToBytes(uint64(ballot.Index)), data)
}

func (b *BoltStore) LoadSettings(ctx context.Context) (models.Settings, error) {
	settings := models.DefaultSettings()
	err := b.conn.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(settingsBucket).Get(settingsKey)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &settings)
	})
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

func (b *BoltStore) SaveSettings(ctx context.Context, settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return b.conn.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(settingsBucket).Put(settingsKey, data)
	})
}

func (b *BoltStore) SaveSnapshot(ctx context.Context, snapshot models.ResultSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return b.conn.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(snapshotsBucket).Put([]byte(snapshot.ID), data)
	})
}

func (b *BoltStore) LoadSnapshot(ctx context.Context, id string) (models.ResultSnapshot, error) {
	var snapshot models.ResultSnapshot
	err := b.conn.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(snapshotsBucket).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &snapshot)
	})
	return snapshot, err
}

func (b *BoltStore) LatestSnapshot(ctx context.Context) (models.ResultSnapshot, error) {
	var latest models.ResultSnapshot
	found := false
	err := b.conn.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(snapshotsBucket).ForEach(func(k, v []byte) error {
			var snapshot models.ResultSnapshot
			if err := json.Unmarshal(v, &snapshot); err != nil {
				return fmt.Errorf("failed to decode snapshot %s: %w", k, err)
			}
			if !found || snapshot.ComputedAt.After(latest.ComputedAt) {
				latest = snapshot
				found = true
			}
			return nil
		})
	})
	if err != nil {
		return models.ResultSnapshot{}, err
	}
	if !found {
		return models.ResultSnapshot{}, ErrNotFound
	}
	return latest, nil
}

func uint64ToBytes(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
