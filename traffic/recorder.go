// Package traffic persists what the interception layer saw, so drift
// between test expectations and actual frontend calls can be diagnosed
// after a run.
package traffic

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/interception"
	"github.com/llamasearchai/OpenAdaptiveRoboticsControlsSystem-sub001/logging"
)

// Record is one intercepted request. Status is zero unless a mock
// fulfilled the request.
type Record struct {
	ID        string `gorm:"primaryKey"`
	Method    string
	Path      string
	Status    int
	Outcome   string
	CreatedAt time.Time `gorm:"index"`
}

// Recorder writes intercepted-request records to a sqlite database. It
// implements interception.Observer.
type Recorder struct {
	db     *gorm.DB
	logger logging.Logger
}

// NewRecorder opens (or creates) the database at dsn and migrates the
// record table.
func NewRecorder(dsn string, logger logging.Logger) (*Recorder, error) {
	if logger == nil {
		logger = logging.NullLogger()
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: newGormLogger(logger)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &Recorder{db: db, logger: logger}, nil
}

// RequestIntercepted implements interception.Observer. A failed write is
// logged, never surfaced; recording must not fail a test.
func (r *Recorder) RequestIntercepted(rec interception.RequestRecord) {
	row := Record{
		ID:        uuid.NewString(),
		Method:    rec.Method,
		Path:      rec.Path,
		Status:    rec.Status,
		Outcome:   string(rec.Outcome),
		CreatedAt: time.Now(),
	}
	if err := r.db.Create(&row).Error; err != nil {
		r.logger.Printf("traffic record write failed: %s", err)
	}
}

// Tail returns the most recent n records, newest first.
func (r *Recorder) Tail(n int) ([]Record, error) {
	var rows []Record
	err := r.db.Order("created_at desc").Limit(n).Find(&rows).Error
	return rows, err
}

// Unmatched returns every recorded request that no handler matched.
func (r *Recorder) Unmatched() ([]Record, error) {
	var rows []Record
	err := r.db.Where("outcome = ?", string(interception.OutcomeUnmatched)).
		Order("created_at").Find(&rows).Error
	return rows, err
}

func (r *Recorder) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
