package core

import (
	"time"
)

// EmployeesQuery is the statement every run executes.
const EmployeesQuery = "SELECT * FROM [dbo].[employees]"

const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// Row holds the column values of one record, in column order.
type Row []interface{}

type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

type RunRecord struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Server       string    `json:"server"`
	Database     string    `json:"database"`
	Backend      string    `json:"backend"`
	RowCount     int64     `json:"row_count"`
	DurationMs   int64     `json:"duration_ms"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message"`
}
