package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vita-nex/autopvp/internal/game/battle"
)

// BattleRepository handles battle definition persistence to PostgreSQL.
// The battle itself is stored as a versioned binary blob; name and
// category are duplicated as columns for listing queries.
type BattleRepository struct {
	pool *pgxpool.Pool
}

// NewBattleRepository creates a new battle repository.
func NewBattleRepository(pool *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{pool: pool}
}

// Save upserts a battle definition.
func (r *BattleRepository) Save(ctx context.Context, b *battle.Battle) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO battles (battle_id, name, category, data, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (battle_id) DO UPDATE
		 SET name = EXCLUDED.name,
		     category = EXCLUDED.category,
		     data = EXCLUDED.data,
		     updated_at = EXCLUDED.updated_at`,
		b.ID(), b.Name(), b.Category(), b.Serialize(), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("saving battle %d: %w", b.ID(), err)
	}
	return nil
}

// LoadAll loads and decodes every persisted battle definition.
// Undecodable rows are skipped with a warning so one corrupt blob
// cannot keep the whole engine from starting.
func (r *BattleRepository) LoadAll(ctx context.Context) ([]*battle.Battle, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT battle_id, data FROM battles ORDER BY battle_id`)
	if err != nil {
		return nil, fmt.Errorf("querying battles: %w", err)
	}
	defer rows.Close()

	var battles []*battle.Battle
	for rows.Next() {
		var id int32
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scanning battle row: %w", err)
		}
		b, err := battle.Deserialize(data)
		if err != nil {
			slog.Warn("skipping undecodable battle", "battle_id", id, "error", err)
			continue
		}
		battles = append(battles, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating battle rows: %w", err)
	}
	return battles, nil
}

// Delete removes a battle definition.
func (r *BattleRepository) Delete(ctx context.Context, battleID int32) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM battles WHERE battle_id = $1`, battleID)
	if err != nil {
		return fmt.Errorf("deleting battle %d: %w", battleID, err)
	}
	return nil
}

// SaveDirty persists every battle whose state changed since the last
// save and clears its dirty flag. Returns the number of battles saved.
func (r *BattleRepository) SaveDirty(ctx context.Context, reg *battle.Registry) (int, error) {
	saved := 0
	for _, b := range reg.Battles() {
		if !b.Dirty() {
			continue
		}
		if err := r.Save(ctx, b); err != nil {
			return saved, err
		}
		b.ClearDirty()
		saved++
	}
	return saved, nil
}
