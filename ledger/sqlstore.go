package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"holdem-arena/holdem"
)

// dialect carries what differs between the SQL backends.
type dialect struct {
	name   string
	schema []string
	// numbered placeholders ($1, $2...) instead of ?
	numbered bool
}

// sqlStore implements Store over database/sql. Queries are written with ? and
// rebound for dialects with numbered placeholders.
type sqlStore struct {
	db *sql.DB
	d  dialect
}

func (s *sqlStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqlStore) rebind(query string) string {
	if !s.d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) ensureSchema(ctx context.Context) error {
	for _, stmt := range s.d.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s schema: %w", s.d.name, err)
		}
	}
	return nil
}

func (s *sqlStore) AppendRecords(ctx context.Context, tableID, handID string, records []holdem.AuditRecord) error {
	if strings.TrimSpace(handID) == "" {
		return fmt.Errorf("empty hand id")
	}
	if len(records) == 0 {
		return nil
	}
	events, err := EncodeEvents(records)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt := s.rebind(`
INSERT INTO ledger_event_stream (table_id, hand_id, seq, event_type, envelope_b64, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (hand_id, seq) DO UPDATE
SET
    event_type = excluded.event_type,
    envelope_b64 = excluded.envelope_b64
`)
	nowMs := time.Now().UTC().UnixMilli()
	for _, e := range events {
		if _, err := tx.ExecContext(ctx, stmt, tableID, handID, e.Seq, e.EventType, e.EnvelopeB64, nowMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqlStore) SaveResult(ctx context.Context, tableID, handID string, result *holdem.GameResult) error {
	if strings.TrimSpace(handID) == "" {
		return fmt.Errorf("empty hand id")
	}
	if result == nil {
		return fmt.Errorf("nil result")
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	_, err = s.db.ExecContext(ctx, s.rebind(`
INSERT INTO ledger_hand (table_id, hand_id, hand_number, pot, result_json, played_at_ms)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (hand_id) DO UPDATE
SET
    hand_number = excluded.hand_number,
    pot = excluded.pot,
    result_json = excluded.result_json
`), tableID, handID, result.HandNumber, result.Pot, string(raw), nowMs)
	return err
}

func (s *sqlStore) ListHands(ctx context.Context, tableID string, limit int) ([]HandItem, error) {
	limit = clampLimit(limit)
	rows, err := s.db.QueryContext(ctx, s.rebind(`
SELECT hand_id, table_id, hand_number, pot, result_json, played_at_ms
FROM ledger_hand
WHERE table_id = ?
ORDER BY played_at_ms DESC, id DESC
LIMIT ?
`), tableID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]HandItem, 0, limit)
	for rows.Next() {
		var item HandItem
		var resultRaw string
		var playedAtMs int64
		if err := rows.Scan(&item.HandID, &item.TableID, &item.HandNumber, &item.Pot, &resultRaw, &playedAtMs); err != nil {
			return nil, err
		}
		item.PlayedAt = time.UnixMilli(playedAtMs).UTC()
		if resultRaw != "" {
			var res holdem.GameResult
			if err := json.Unmarshal([]byte(resultRaw), &res); err == nil {
				item.Result = &res
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *sqlStore) HandRecords(ctx context.Context, handID string) ([]holdem.AuditRecord, error) {
	if strings.TrimSpace(handID) == "" {
		return nil, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(`
SELECT seq, event_type, envelope_b64
FROM ledger_event_stream
WHERE hand_id = ?
ORDER BY seq ASC
`), handID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 64)
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.EventType, &e.EnvelopeB64); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNotFound
	}
	return DecodeEvents(events)
}

func (s *sqlStore) Hand(ctx context.Context, handID string) (*HandItem, error) {
	var item HandItem
	var resultRaw string
	var playedAtMs int64
	err := s.db.QueryRowContext(ctx, s.rebind(`
SELECT hand_id, table_id, hand_number, pot, result_json, played_at_ms
FROM ledger_hand
WHERE hand_id = ?
`), handID).Scan(&item.HandID, &item.TableID, &item.HandNumber, &item.Pot, &resultRaw, &playedAtMs)
	if err != nil {
		return nil, isNotFound(err)
	}
	item.PlayedAt = time.UnixMilli(playedAtMs).UTC()
	var res holdem.GameResult
	if err := json.Unmarshal([]byte(resultRaw), &res); err != nil {
		return nil, fmt.Errorf("hand %s result: %w", handID, err)
	}
	item.Result = &res
	return &item, nil
}

// isNotFound folds sql.ErrNoRows into ErrNotFound.
func isNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
