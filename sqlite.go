package main

import (
	"database/sql"
	"fmt"

	"tomgalvin.uk/receiptprint/internal/spool"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func NewRepository(path string) (*spool.Repository, error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("Couldn't open database:\n%w", err)
	}
	// one connection shared by the worker and the handlers
	db.SetMaxOpenConns(1)

	r, err := spool.NewRepository(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}
