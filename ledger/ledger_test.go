package ledger

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdem-arena/holdem"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// playFoldedHand plays one heads-up hand where the small blind folds.
func playFoldedHand(t *testing.T) (*holdem.Game, *holdem.GameResult) {
	t.Helper()
	dealer := 0
	g, err := holdem.NewGame(holdem.Config{
		MaxPlayers: 6, MinPlayers: 2, SmallBlind: 5, BigBlind: 10,
		Seed: 7, DealerSeat: &dealer, Logger: quietLogger(),
	})
	require.NoError(t, err)
	require.NoError(t, g.SitDown(0, "alice", 1000))
	require.NoError(t, g.SitDown(1, "bob", 1000))
	require.NoError(t, g.StartHand())

	res, err := g.Act(g.CurrentSeat(), holdem.GamePlayerAction{Action: holdem.ActionFold, Reason: "weak"})
	require.NoError(t, err)
	require.NotNil(t, res)
	return g, res
}

func openMemory(t *testing.T) Store {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEncodeRecord_RoundTrip(t *testing.T) {
	g, _ := playFoldedHand(t)
	records := g.HandAudit(1)
	require.NotEmpty(t, records)

	for _, r := range records {
		b64, err := EncodeRecord(r)
		require.NoError(t, err)
		got, err := DecodeRecord(b64)
		require.NoError(t, err)
		assert.Equal(t, r.Seq, got.Seq)
		assert.Equal(t, r.Kind, got.Kind)
		assert.Equal(t, r.HandNumber, got.HandNumber)
		if r.Action != nil {
			require.NotNil(t, got.Action)
			assert.Equal(t, *r.Action, *got.Action)
		}
		if r.PotAward != nil {
			require.NotNil(t, got.PotAward)
			assert.Equal(t, r.PotAward.Pot, got.PotAward.Pot)
			assert.Equal(t, r.PotAward.Payouts, got.PotAward.Payouts)
		}
	}
}

func TestEncodeRecord_IsDeterministic(t *testing.T) {
	g, _ := playFoldedHand(t)
	for _, r := range g.HandAudit(1) {
		a, err := EncodeRecord(r)
		require.NoError(t, err)
		b, err := EncodeRecord(r)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestDecodeRecord_RejectsGarbage(t *testing.T) {
	_, err := DecodeRecord("%%%")
	assert.Error(t, err)
}

func TestSQLiteStore_AppendAndReadBack(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	g, res := playFoldedHand(t)
	records := g.HandAudit(1)

	handID := NewHandID()
	require.NoError(t, s.AppendRecords(ctx, "t1", handID, records))
	// 重复写入是幂等的
	require.NoError(t, s.AppendRecords(ctx, "t1", handID, records))
	require.NoError(t, s.SaveResult(ctx, "t1", handID, res))

	got, err := s.HandRecords(ctx, handID)
	require.NoError(t, err)
	require.Len(t, got, len(records))
	for i := range records {
		assert.Equal(t, records[i].Seq, got[i].Seq)
		assert.Equal(t, records[i].Kind, got[i].Kind)
	}

	item, err := s.Hand(ctx, handID)
	require.NoError(t, err)
	assert.Equal(t, "t1", item.TableID)
	assert.Equal(t, 1, item.HandNumber)
	assert.Equal(t, res.Pot, item.Pot)
	require.NotNil(t, item.Result)
	assert.Equal(t, res.Winners[0].Name, item.Result.Winners[0].Name)
	assert.True(t, item.Result.Uncontested)
}

func TestSQLiteStore_ListHandsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	_, res := playFoldedHand(t)

	ids := []string{NewHandID(), NewHandID(), NewHandID()}
	for _, id := range ids {
		require.NoError(t, s.SaveResult(ctx, "t1", id, res))
	}
	require.NoError(t, s.SaveResult(ctx, "other", NewHandID(), res))

	items, err := s.ListHands(ctx, "t1", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ids[2], items[0].HandID)
	assert.Equal(t, ids[1], items[1].HandID)
}

func TestSQLiteStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	_, err := s.HandRecords(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.Hand(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRecorder_RecordHand(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	g, res := playFoldedHand(t)

	rec := NewRecorder(s, "sim", quietLogger())
	handID := rec.RecordHand(ctx, g.HandAudit(1), res)
	require.NotEmpty(t, handID)

	items, err := s.ListHands(ctx, "sim", 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, handID, items[0].HandID)
}

func TestOpen_Drivers(t *testing.T) {
	s, err := Open("none", "")
	require.NoError(t, err)
	items, err := s.ListHands(context.Background(), "t", 5)
	require.NoError(t, err)
	assert.Empty(t, items)

	s, err = Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open("mysql", "")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := &sqlStore{d: postgresDialect}
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND b = $2", pg.rebind("SELECT 1 WHERE a = ? AND b = ?"))
	lite := &sqlStore{d: sqliteDialect}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}
