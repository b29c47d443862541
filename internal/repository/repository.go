package repository

import (
	"context"

	"slidesync/internal/model"
)

// PresentationRepository 프레젠테이션 문서 저장소
//
// FindByID는 문서가 없으면 (nil, nil)을 반환한다.
// Save는 문서 전체를 한 번에 기록한다 (부분 패치 없음).
type PresentationRepository interface {
	FindAll(ctx context.Context) ([]model.Presentation, error)
	FindByID(ctx context.Context, presentationID string) (*model.Presentation, error)
	Save(ctx context.Context, p *model.Presentation) error
	Delete(ctx context.Context, presentationID string) (bool, error)
	Ping(ctx context.Context) error
}
