// Package spool keeps rendered receipts in a SQLite queue until the printer
// has taken them.
package spool

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:embed schema.sql
var schema string

type Repository struct {
	Db *sql.DB
}

// NewRepository creates the queue tables if they don't exist yet.
func NewRepository(db *sql.DB) (*Repository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("Couldn't initialise database:\n%w", err)
	}
	return &Repository{Db: db}, nil
}

func (r *Repository) Close() error {
	return r.Db.Close()
}

const jobColumns = `id, uuid, status, source, document, program, error, attempts, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner, j *Job) error {
	var uuidString string
	var createdAt, updatedAt int64
	if err := s.Scan(&j.Id, &uuidString, &j.Status, &j.Source, &j.Document, &j.Program,
		&j.Error, &j.Attempts, &createdAt, &updatedAt); err != nil {
		return err
	}
	u, err := uuid.Parse(uuidString)
	if err != nil {
		return fmt.Errorf("Stored job has invalid UUID %q:\n%w", uuidString, err)
	}
	j.Uuid = u
	j.CreatedAt = time.UnixMilli(createdAt)
	j.UpdatedAt = time.UnixMilli(updatedAt)
	return nil
}

func (r *Repository) readJob(query string, args ...any) (*Job, error) {
	var j Job
	if err := scanJob(r.Db.QueryRow(query, args...), &j); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("Failed to read job:\n%w", err)
	}
	return &j, nil
}

// Get returns nil with no error when there is no such job.
func (r *Repository) Get(u uuid.UUID) (*Job, error) {
	return r.readJob(`SELECT `+jobColumns+` FROM print_queue WHERE uuid = ?`, u.String())
}

// NextQueued returns the oldest queued job, or nil if the queue is empty.
func (r *Repository) NextQueued() (*Job, error) {
	return r.readJob(`
    SELECT `+jobColumns+`
    FROM print_queue
    WHERE status = ?
    ORDER BY id
    LIMIT 1`, Queued)
}

// List returns up to limit jobs, newest first. Programs are left out.
func (r *Repository) List(limit int) ([]Job, error) {
	rows, err := r.Db.Query(`
    SELECT id, uuid, status, source, document, x'', error, attempts, created_at, updated_at
    FROM print_queue
    ORDER BY id DESC
    LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("Query execution failed:\n%w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		var j Job
		if err := scanJob(rows, &j); err != nil {
			return nil, fmt.Errorf("Row scanning failed:\n%w", err)
		}
		j.Program = nil
		jobs = append(jobs, j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Error iterating rows:\n%w", err)
	}
	return jobs, nil
}

// Run operations in a transaction, committing afterward, or rolling back if the
// passed function returns an error
func (r *Repository) Transact(f func(*sql.Tx) error) error {
	tx, err := r.Db.Begin()
	if err != nil {
		return err
	}

	if err := f(tx); err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			return fmt.Errorf("Failed to roll back transaction: %w\n\nAfter handling: %v", err2, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Failed to commit transaction:\n%w", err)
	}
	return nil
}

// Create inserts a new queued job, filling in its ids and timestamps.
func (r *Repository) Create(tx *sql.Tx, j *Job) error {
	if j.Uuid == uuid.Nil {
		j.Uuid = uuid.New()
	}
	now := time.Now()
	j.Status = Queued
	j.CreatedAt, j.UpdatedAt = now, now

	row := tx.QueryRow(`
    INSERT INTO print_queue(uuid, status, source, document, program, created_at, updated_at)
    VALUES (?, ?, ?, ?, ?, ?, ?)
    RETURNING id`,
		j.Uuid.String(), j.Status, j.Source, j.Document, j.Program, now.UnixMilli(), now.UnixMilli())
	if err := row.Scan(&j.Id); err != nil {
		return fmt.Errorf("Failed to insert into print_queue:\n%w", err)
	}
	return nil
}

// Enqueue stores a rendered receipt at the back of the queue.
func (r *Repository) Enqueue(source Source, document, program []byte) (*Job, error) {
	j := &Job{Source: source, Document: document, Program: program}
	if err := r.Transact(func(tx *sql.Tx) error {
		return r.Create(tx, j)
	}); err != nil {
		return nil, err
	}
	return j, nil
}

func (r *Repository) setStatus(u uuid.UUID, from []Status, to Status, message string, attempt int) (bool, error) {
	query := `UPDATE print_queue SET status = ?, error = ?, attempts = attempts + ?, updated_at = ? WHERE uuid = ?`
	args := []any{to, message, attempt, time.Now().UnixMilli(), u.String()}
	if len(from) > 0 {
		query += ` AND status IN (?` + strings.Repeat(`, ?`, len(from)-1) + `)`
		for _, s := range from {
			args = append(args, s)
		}
	}

	res, err := r.Db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("Couldn't update job %s:\n%w", u, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Couldn't update job %s:\n%w", u, err)
	}
	return n > 0, nil
}

// MarkPrinting claims a queued job for the printer and counts the attempt.
// It reports false if the job was not queued.
func (r *Repository) MarkPrinting(u uuid.UUID) (bool, error) {
	return r.setStatus(u, []Status{Queued}, Printing, "", 1)
}

func (r *Repository) MarkPrinted(u uuid.UUID) error {
	_, err := r.setStatus(u, nil, Printed, "", 0)
	return err
}

// MarkFailed records why a print failed. With retry the job goes back in
// the queue, otherwise it stays failed until requeued.
func (r *Repository) MarkFailed(u uuid.UUID, cause error, retry bool) error {
	status := Failed
	if retry {
		status = Queued
	}
	_, err := r.setStatus(u, nil, status, cause.Error(), 0)
	return err
}

// RecoverPrinting returns jobs left in printing, by a crash or a failed
// status update, to the queue. It must only be called while no worker is
// printing. It returns the number of jobs requeued.
func (r *Repository) RecoverPrinting() (int64, error) {
	res, err := r.Db.Exec(`UPDATE print_queue SET status = ?, updated_at = ? WHERE status = ?`,
		Queued, time.Now().UnixMilli(), Printing)
	if err != nil {
		return 0, fmt.Errorf("Couldn't recover interrupted jobs:\n%w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("Couldn't recover interrupted jobs:\n%w", err)
	}
	return n, nil
}

// Requeue puts a printed or failed job back in the queue with a fresh set of
// attempts. It reports false if there is no such job or it is still waiting
// to print.
func (r *Repository) Requeue(u uuid.UUID) (bool, error) {
	res, err := r.Db.Exec(`
    UPDATE print_queue SET status = ?, error = '', attempts = 0, updated_at = ?
    WHERE uuid = ? AND status IN (?, ?)`,
		Queued, time.Now().UnixMilli(), u.String(), Printed, Failed)
	if err != nil {
		return false, fmt.Errorf("Couldn't requeue job %s:\n%w", u, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Couldn't requeue job %s:\n%w", u, err)
	}
	return n > 0, nil
}
