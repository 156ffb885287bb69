package field

import (
	"errors"

	"gorm.io/gorm"
)

// FieldRepository defines field and slot-template data operations.
type FieldRepository interface {
	CreateField(f *Field) error
	GetFieldByID(id uint) (*Field, error)
	GetAllFields() ([]Field, error)
	UpdateField(f *Field) error
	DeleteField(id uint) error
	ReplaceSlots(fieldID uint, slots []FieldSlot) error
	UserExists(id uint) (bool, error)
}

type fieldRepository struct {
	db *gorm.DB
}

func NewFieldRepository(db *gorm.DB) FieldRepository {
	return &fieldRepository{db: db}
}

func (r *fieldRepository) CreateField(f *Field) error {
	return r.db.Create(f).Error
}

func (r *fieldRepository) GetFieldByID(id uint) (*Field, error) {
	var f Field
	if err := r.db.Preload("Slots").First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *fieldRepository) GetAllFields() ([]Field, error) {
	var fields []Field
	if err := r.db.Preload("Slots").Order("created_at desc").Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *fieldRepository) UpdateField(f *Field) error {
	return r.db.Omit("Slots").Save(f).Error
}

func (r *fieldRepository) DeleteField(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id = ?", id).Delete(&FieldSlot{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Field{}, id).Error
	})
}

func (r *fieldRepository) ReplaceSlots(fieldID uint, slots []FieldSlot) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id = ?", fieldID).Delete(&FieldSlot{}).Error; err != nil {
			return err
		}
		for i := range slots {
			slots[i].FieldID = fieldID
			slots[i].ID = 0
		}
		if len(slots) == 0 {
			return nil
		}
		return tx.Create(&slots).Error
	})
}

func (r *fieldRepository) UserExists(id uint) (bool, error) {
	var exists bool
	err := r.db.Table("users").Select("1").Where("id = ? AND deleted_at IS NULL", id).Scan(&exists).Error
	return exists, err
}
