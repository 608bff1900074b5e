package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"holdem-arena/holdem"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"

	defaultLocalDBName = "holdem_ledger.db"
	defaultListLimit   = 20
	maxListLimit       = 500
)

var ErrNotFound = errors.New("not found")

// Store persists the audit log and results of played hands.
type Store interface {
	AppendRecords(ctx context.Context, tableID, handID string, records []holdem.AuditRecord) error
	SaveResult(ctx context.Context, tableID, handID string, result *holdem.GameResult) error
	ListHands(ctx context.Context, tableID string, limit int) ([]HandItem, error)
	HandRecords(ctx context.Context, handID string) ([]holdem.AuditRecord, error)
	Hand(ctx context.Context, handID string) (*HandItem, error)
	Close() error
}

// HandItem is one row of the hand index, newest first in listings.
type HandItem struct {
	HandID     string             `json:"hand_id"`
	TableID    string             `json:"table_id"`
	HandNumber int                `json:"hand_number"`
	Pot        int64              `json:"pot"`
	PlayedAt   time.Time          `json:"played_at"`
	Result     *holdem.GameResult `json:"result,omitempty"`
}

func NewHandID() string { return uuid.NewString() }

// Open connects to driver ("sqlite", "postgres" or "none") and prepares the schema.
func Open(driver, dsn string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverNone, "memory":
		return noopStore{}, nil
	case DriverSQLite, "local", "":
		if strings.TrimSpace(dsn) == "" {
			path, err := defaultSQLitePath()
			if err != nil {
				return nil, err
			}
			dsn = path
		}
		return NewSQLiteStore(dsn)
	case DriverPostgres, "postgresql":
		return NewPostgresStore(dsn)
	default:
		return nil, fmt.Errorf("unsupported ledger driver %q", driver)
	}
}

func defaultSQLitePath() (string, error) {
	if v := strings.TrimSpace(os.Getenv("LEDGER_LOCAL_DATABASE_PATH")); v != "" {
		return filepath.Clean(v), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "holdem-arena", defaultLocalDBName), nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func envIntOrDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

type noopStore struct{}

func (noopStore) AppendRecords(context.Context, string, string, []holdem.AuditRecord) error {
	return nil
}

func (noopStore) SaveResult(context.Context, string, string, *holdem.GameResult) error { return nil }

func (noopStore) ListHands(context.Context, string, int) ([]HandItem, error) {
	return []HandItem{}, nil
}

func (noopStore) HandRecords(context.Context, string) ([]holdem.AuditRecord, error) {
	return nil, ErrNotFound
}

func (noopStore) Hand(context.Context, string) (*HandItem, error) { return nil, ErrNotFound }

func (noopStore) Close() error { return nil }

// Recorder writes each finished hand synchronously under a timeout. Failures are
// logged and never stop play.
type Recorder struct {
	store   Store
	tableID string
	log     logrus.FieldLogger
	timeout time.Duration
}

func NewRecorder(store Store, tableID string, logger logrus.FieldLogger) *Recorder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Recorder{
		store:   store,
		tableID: tableID,
		log:     logger,
		timeout: time.Duration(envIntOrDefault("LEDGER_WRITE_TIMEOUT_MS", 3000)) * time.Millisecond,
	}
}

func (r *Recorder) TableID() string { return r.tableID }

// RecordHand stores the records and result of one hand under a fresh hand id and returns it.
func (r *Recorder) RecordHand(ctx context.Context, records []holdem.AuditRecord, result *holdem.GameResult) string {
	handID := NewHandID()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.store.AppendRecords(ctx, r.tableID, handID, records); err != nil {
		r.log.WithError(err).WithField("hand_id", handID).Error("[Ledger] append records failed")
		return handID
	}
	if err := r.store.SaveResult(ctx, r.tableID, handID, result); err != nil {
		r.log.WithError(err).WithField("hand_id", handID).Error("[Ledger] save result failed")
	}
	return handID
}
