package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"slidesync/internal/model"
)

// GormRepository GORM(PostgreSQL/SQLite) 기반 저장소
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository GormRepository 생성
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// FindAll 전체 프레젠테이션 조회
func (r *GormRepository) FindAll(ctx context.Context) ([]model.Presentation, error) {
	var presentations []model.Presentation
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&presentations).Error; err != nil {
		return nil, err
	}
	for i := range presentations {
		presentations[i].Normalize()
	}
	return presentations, nil
}

// FindByID presentationId로 조회
func (r *GormRepository) FindByID(ctx context.Context, presentationID string) (*model.Presentation, error) {
	var p model.Presentation
	err := r.db.WithContext(ctx).Where("presentation_id = ?", presentationID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

// Save 문서 전체 저장 (신규면 INSERT, 기존이면 전체 컬럼 UPDATE)
func (r *GormRepository) Save(ctx context.Context, p *model.Presentation) error {
	p.Normalize()
	if p.ID == 0 {
		return r.db.WithContext(ctx).Create(p).Error
	}
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete 프레젠테이션 삭제
func (r *GormRepository) Delete(ctx context.Context, presentationID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("presentation_id = ?", presentationID).Delete(&model.Presentation{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ping DB 연결 확인
func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
