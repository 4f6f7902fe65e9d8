package repositories

import "gorm.io/gorm"

// Repositories groups the repositories bound to one database handle.
type Repositories struct {
	Batches   BatchRepository
	Documents DocumentRepository
	Resumes   ResumeRepository
}

// UnitOfWork runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Transaction(fn func(repos Repositories) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Transaction(fn func(repos Repositories) error) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		return fn(Repositories{
			Batches:   NewBatchRepository(tx),
			Documents: NewDocumentRepository(tx),
			Resumes:   NewResumeRepository(tx),
		})
	})
}
