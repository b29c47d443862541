package service

import (
	"context"

	"slidesync/internal/model"
	"slidesync/internal/repository"
)

// FindPresentation 저장소에서 프레젠테이션 조회
func FindPresentation(ctx context.Context, repo repository.PresentationRepository, presentationID string) (*model.Presentation, error) {
	p, err := repo.FindByID(ctx, presentationID)
	if err != nil {
		return nil, storeError("find", err)
	}
	if p == nil {
		return nil, ErrPresentationNotFound
	}
	return p, nil
}

// FindSlide 슬라이드 검색. 반환 포인터는 p.Slides 원소를 가리킨다.
func FindSlide(p *model.Presentation, slideID string) (*model.Slide, error) {
	for i := range p.Slides {
		if p.Slides[i].SlideID == slideID {
			return &p.Slides[i], nil
		}
	}
	return nil, ErrSlideNotFound
}

// FindField 필드 검색. 반환 포인터는 s.Fields 원소를 가리킨다.
func FindField(s *model.Slide, fieldID string) (*model.Field, error) {
	for i := range s.Fields {
		if s.Fields[i].ID == fieldID {
			return &s.Fields[i], nil
		}
	}
	return nil, ErrFieldNotFound
}
