package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/l5rgo/internal/journal"
)

// ErrJournalNotFound is returned when loading a journal that was never saved.
var ErrJournalNotFound = errors.New("journal not found")

// JournalRepository stores effect journals.
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

// JournalRow is a saved journal header.
type JournalRow struct {
	ID      int64
	GameID  string
	Digest  string
	Entries int
}

// Save сохраняет журнал целиком в одной транзакции и возвращает его ID.
func (r *JournalRepository) Save(ctx context.Context, j *journal.Journal) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "game", j.GameID, "error", err)
		}
	}()

	entries := j.Entries()
	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO effect_journals (game_id, digest, entries)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		j.GameID, journal.Digest(entries), len(entries),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting journal for game %q: %w", j.GameID, err)
	}

	// Записи вставляем через COPY
	if len(entries) > 0 {
		rows := make([][]any, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []any{
				id, e.Seq, string(e.Op), e.Instance, int64(e.InstanceSeq),
				e.Kind, e.Source, e.Target, e.Scope, e.At,
			})
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"effect_journal_entries"},
			[]string{"journal_id", "seq", "op", "instance_id", "instance_seq", "kind", "source_id", "target_id", "scope", "recorded_at"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting entries of journal %d: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	slog.Debug("journal saved", "id", id, "game", j.GameID, "entries", len(entries))
	return id, nil
}

// Load returns the header and the entries of journal id, entries in order.
func (r *JournalRepository) Load(ctx context.Context, id int64) (JournalRow, []journal.Entry, error) {
	var row JournalRow
	err := r.pool.QueryRow(ctx,
		`SELECT id, game_id, digest, entries FROM effect_journals WHERE id = $1`, id,
	).Scan(&row.ID, &row.GameID, &row.Digest, &row.Entries)
	if errors.Is(err, pgx.ErrNoRows) {
		return JournalRow{}, nil, fmt.Errorf("journal %d: %w", id, ErrJournalNotFound)
	}
	if err != nil {
		return JournalRow{}, nil, fmt.Errorf("query journal %d: %w", id, err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT seq, op, instance_id, instance_seq, kind, source_id, target_id, scope, recorded_at
		 FROM effect_journal_entries WHERE journal_id = $1 ORDER BY seq`, id)
	if err != nil {
		return JournalRow{}, nil, fmt.Errorf("query entries of journal %d: %w", id, err)
	}
	defer rows.Close()

	entries := make([]journal.Entry, 0, row.Entries)
	for rows.Next() {
		var (
			e   journal.Entry
			op  string
			seq int64
		)
		if err := rows.Scan(&e.Seq, &op, &e.Instance, &seq, &e.Kind, &e.Source, &e.Target, &e.Scope, &e.At); err != nil {
			return JournalRow{}, nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.Op = journal.Op(op)
		e.InstanceSeq = uint64(seq)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return JournalRow{}, nil, fmt.Errorf("iterating entries of journal %d: %w", id, err)
	}
	return row, entries, nil
}

// ListByGame returns the headers of every journal saved for gameID, oldest
// first.
func (r *JournalRepository) ListByGame(ctx context.Context, gameID string) ([]JournalRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, game_id, digest, entries FROM effect_journals WHERE game_id = $1 ORDER BY id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query journals of game %q: %w", gameID, err)
	}
	defer rows.Close()

	var result []JournalRow
	for rows.Next() {
		var row JournalRow
		if err := rows.Scan(&row.ID, &row.GameID, &row.Digest, &row.Entries); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
