package implementation

import (
	"context"

	"listening-notes-be/internal/entity"
	"listening-notes-be/internal/mapper"
	"listening-notes-be/internal/model"
	"listening-notes-be/internal/pkg/apperror"
	"listening-notes-be/internal/repository/contract"
	"listening-notes-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) FindAllByOwner(ctx context.Context, uid string) ([]*entity.NoteWithId, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.NoteOwnedBy{UID: uid},
		specification.OrderBy{Field: "id"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, apperror.NewStorageError("list", err)
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.NoteWithId) error {
	m := r.mapper.ToModel(note)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(m).Error
	if err != nil {
		return apperror.NewStorageError("create", err)
	}
	return nil
}

func (r *NoteRepositoryImpl) Update(ctx context.Context, note *entity.NoteWithId) error {
	m := r.mapper.ToModel(note)
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Note{}),
		specification.ByID{ID: note.Id},
	)
	// Select("*") so zero values (important=false, empty description) are written too.
	res := query.Select("*").Omit("id").Updates(m)
	if res.Error != nil {
		return apperror.NewStorageError("update", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NewStorageError("update", contract.ErrNoteNotFound)
	}
	return nil
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&model.Note{}, "id = ?", id).Error; err != nil {
		return apperror.NewStorageError("delete", err)
	}
	return nil
}
