package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// Repositories bundles every repository over one database handle.
type Repositories struct {
	Users        *UserRepository
	Restaurants  *RestaurantRepository
	Menus        *MenuRepository
	Sections     *SectionRepository
	Items        *ItemRepository
	Translations *TranslationRepository
	Jobs         *JobRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db),
		Restaurants:  NewRestaurantRepository(db),
		Menus:        NewMenuRepository(db),
		Sections:     NewSectionRepository(db),
		Items:        NewItemRepository(db),
		Translations: NewTranslationRepository(db),
		Jobs:         NewJobRepository(db),
	}
}
