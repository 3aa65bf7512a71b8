package core

// RunRepository defines storage operations for the run history
type RunRepository interface {
	Create(rec *RunRecord) error
	GetRecent(limit int) ([]RunRecord, error)
}
