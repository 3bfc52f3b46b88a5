// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb keeps the engine's events in sqlite for later queries.
package eventdb

import (
	"context"
	"database/sql"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/contest/events"
	"github.com/vechain/arena/log"
)

var logger = log.WithContext("pkg", "eventdb")

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range bounds event times, both ends inclusive. A zero To is open.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Nil criteria match everything.
type Filter struct {
	ContextID *uint64        `json:"contextId"`
	Names     []string       `json:"names"`
	Account   *arena.Address `json:"account"`
	Range     *Range         `json:"range"`
	Order     Order          `json:"order"`
	Options   *Options       `json:"options"`
}

// Record is a stored event with its sequence number.
type Record struct {
	Seq uint64 `json:"seq"`
	*events.Event
}

// EventDB stores events.
type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

var _ events.Notifier = (*EventDB)(nil)

// New opens or creates the db at path.
func New(path string) (edb *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if edb == nil {
			db.Close()
		}
	}()
	// a single connection keeps in-memory dbs shared across queries
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}
	driverVer, _, _ := sqlite3.Version()
	logger.Debug("opened", "path", path, "sqlite", driverVer)
	return &EventDB{path: path, db: db, driverVersion: driverVer}, nil
}

// NewMem creates a db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) Close() error {
	return db.db.Close()
}

func addressValue(a arena.Address) []byte {
	if a.IsZero() {
		return nil
	}
	return a.Bytes()
}

func amountValue(v *big.Int) any {
	if v == nil {
		return nil
	}
	return v.String()
}

// Notify appends evs in one transaction.
func (db *EventDB) Notify(ctx context.Context, evs []*events.Event) error {
	if len(evs) == 0 {
		return nil
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, ev := range evs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO event(name, contextID, tokenID, prizeID, position, score, account, token, amount, detail, time) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			ev.Name,
			ev.ContextID,
			ev.TokenID,
			ev.PrizeID,
			ev.Position,
			ev.Score,
			addressValue(ev.Account),
			addressValue(ev.Token),
			amountValue(ev.Amount),
			ev.Detail,
			ev.Time,
		); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "insert event")
		}
	}
	return tx.Commit()
}

// Filter returns the events matching filter.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Record, error) {
	if filter == nil {
		return db.query(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	var (
		args []any
		stmt = "SELECT * FROM event WHERE 1"
	)
	if filter.ContextID != nil {
		stmt += " AND contextID = ?"
		args = append(args, *filter.ContextID)
	}
	if len(filter.Names) > 0 {
		stmt += " AND name IN (?" + strings.Repeat(", ?", len(filter.Names)-1) + ")"
		for _, n := range filter.Names {
			args = append(args, n)
		}
	}
	if filter.Account != nil {
		stmt += " AND account = ?"
		args = append(args, filter.Account.Bytes())
	}
	if filter.Range != nil {
		stmt += " AND time >= ?"
		args = append(args, filter.Range.From)
		if filter.Range.To > 0 {
			stmt += " AND time <= ?"
			args = append(args, filter.Range.To)
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...any) ([]*Record, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var (
			rec     = &Record{Event: &events.Event{}}
			account []byte
			token   []byte
			amount  sql.NullString
			detail  sql.NullString
		)
		if err := rows.Scan(
			&rec.Seq,
			&rec.Name,
			&rec.ContextID,
			&rec.TokenID,
			&rec.PrizeID,
			&rec.Position,
			&rec.Score,
			&account,
			&token,
			&amount,
			&detail,
			&rec.Time,
		); err != nil {
			return nil, err
		}
		rec.Account = arena.BytesToAddress(account)
		rec.Token = arena.BytesToAddress(token)
		rec.Detail = detail.String
		if amount.Valid {
			v, ok := new(big.Int).SetString(amount.String, 10)
			if !ok {
				return nil, errors.Errorf("bad amount %q in event %d", amount.String, rec.Seq)
			}
			rec.Amount = v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
