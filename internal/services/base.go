package services

import (
	"context"
	"fmt"
	"reflect"

	"benchtime/internal/events"

	"gorm.io/gorm"
)

// BaseService interface defines common CRUD operations
type BaseService[T any] interface {
	Create(ctx context.Context, entity *T, includes ...string) error
	Get(ctx context.Context, id string, includes ...string) (*T, error)
	List(ctx context.Context, filters map[string]interface{}, includes ...string) ([]T, error)
	Update(ctx context.Context, id string, updates map[string]interface{}, includes ...string) (*T, error)
	Delete(ctx context.Context, id string) error
}

// BaseServiceImpl implements BaseService on a gorm model. Mutations emit
// "<table>.created" / "<table>.updated" / "<table>.deleted" events.
type BaseServiceImpl[T any] struct {
	db        *gorm.DB
	modelType T
}

func GormTableName(db *gorm.DB, v any) string {
	structName := reflect.TypeOf(v).Name()
	return db.NamingStrategy.TableName(structName)
}

// NewBaseService creates a new base service
func NewBaseService[T any](db *gorm.DB, modelType T) BaseService[T] {
	return &BaseServiceImpl[T]{
		db:        db,
		modelType: modelType,
	}
}

func (s *BaseServiceImpl[T]) applyIncludes(query *gorm.DB, includes ...string) *gorm.DB {
	for _, include := range includes {
		query = query.Preload(include)
	}
	return query
}

func (s *BaseServiceImpl[T]) Create(ctx context.Context, entity *T, includes ...string) error {
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return err
	}

	if len(includes) > 0 {
		id := reflect.ValueOf(*entity).FieldByName("ID").String()
		if err := s.applyIncludes(s.db.WithContext(ctx), includes...).First(entity, "id = ?", id).Error; err != nil {
			return err
		}
	}

	events.Emit(fmt.Sprintf("%s.created", GormTableName(s.db, s.modelType)), entity)
	return nil
}

func (s *BaseServiceImpl[T]) Get(ctx context.Context, id string, includes ...string) (*T, error) {
	var entity T
	query := s.applyIncludes(s.db.WithContext(ctx), includes...)
	if err := query.First(&entity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (s *BaseServiceImpl[T]) List(ctx context.Context, filters map[string]interface{}, includes ...string) ([]T, error) {
	var entities []T

	query := s.db.WithContext(ctx).Model(s.modelType)
	for key, value := range filters {
		query = query.Where(key+" = ?", value)
	}
	query = s.applyIncludes(query, includes...)

	if err := query.Order("created_at DESC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func (s *BaseServiceImpl[T]) Update(ctx context.Context, id string, updates map[string]interface{}, includes ...string) (*T, error) {
	var entity T
	if err := s.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&entity).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := s.applyIncludes(s.db.WithContext(ctx), includes...).First(&entity, "id = ?", id).Error; err != nil {
		return nil, err
	}

	events.Emit(fmt.Sprintf("%s.updated", GormTableName(s.db, s.modelType)), &entity)
	return &entity, nil
}

func (s *BaseServiceImpl[T]) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&s.modelType, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	events.Emit(fmt.Sprintf("%s.deleted", GormTableName(s.db, s.modelType)), id)
	return nil
}
