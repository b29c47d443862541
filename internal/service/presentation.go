package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"slidesync/internal/broadcast"
	"slidesync/internal/model"
	"slidesync/internal/repository"
)

// PresentationService 프레젠테이션 문서 조회/수정 비즈니스 로직
//
// 모든 쓰기 작업은 조회 → 위치 탐색 → 메모리 수정 → 문서 전체 저장 → 브로드캐스트 순서를 따른다.
// 문서 단위 잠금이 없으므로 같은 문서에 대한 동시 쓰기는 마지막 저장이 이긴다.
type PresentationService struct {
	repo        repository.PresentationRepository
	broadcaster broadcast.Broadcaster
	newID       func() string
}

// NewPresentationService PresentationService 생성
func NewPresentationService(repo repository.PresentationRepository, broadcaster broadcast.Broadcaster) *PresentationService {
	return &PresentationService{
		repo:        repo,
		broadcaster: broadcaster,
		newID:       uuid.NewString,
	}
}

// List 전체 프레젠테이션 조회
func (s *PresentationService) List(ctx context.Context) ([]model.Presentation, error) {
	presentations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, storeError("find all", err)
	}
	if presentations == nil {
		presentations = []model.Presentation{}
	}
	return presentations, nil
}

// Get 단일 프레젠테이션 조회
func (s *PresentationService) Get(ctx context.Context, presentationID string) (*model.Presentation, error) {
	return FindPresentation(ctx, s.repo, presentationID)
}

// Create 기본 슬라이드 하나를 가진 새 프레젠테이션 생성
func (s *PresentationService) Create(ctx context.Context, username, title string) (*model.Presentation, error) {
	if title == "" {
		title = model.DefaultTitle
	}

	p := &model.Presentation{
		PresentationID: s.newID(),
		CreatorID:      username,
		Title:          title,
		Slides:         []model.Slide{s.newSlide(1)},
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, storeError("create", err)
	}

	log.Printf("[Presentation] Created %s by %s", p.PresentationID, username)
	s.broadcaster.EmitAll(model.EventNewPresentation, p)
	return p, nil
}

// Delete 프레젠테이션 삭제
func (s *PresentationService) Delete(ctx context.Context, presentationID string) error {
	deleted, err := s.repo.Delete(ctx, presentationID)
	if err != nil {
		return storeError("delete", err)
	}
	if !deleted {
		return ErrPresentationNotFound
	}

	s.broadcaster.EmitAll(model.EventPresentationDeleted, map[string]string{"presentationId": presentationID})
	return nil
}

// AddSlide 빈 슬라이드 추가
func (s *PresentationService) AddSlide(ctx context.Context, presentationID string) (*model.Presentation, error) {
	return s.mutate(ctx, presentationID, func(p *model.Presentation) error {
		p.Slides = append(p.Slides, s.newSlide(len(p.Slides)+1))
		return nil
	})
}

// DeleteSlide 슬라이드 삭제 (없는 ID면 변경 없이 저장)
func (s *PresentationService) DeleteSlide(ctx context.Context, presentationID, slideID string) (*model.Presentation, error) {
	return s.mutate(ctx, presentationID, func(p *model.Presentation) error {
		kept := make([]model.Slide, 0, len(p.Slides))
		for _, slide := range p.Slides {
			if slide.SlideID != slideID {
				kept = append(kept, slide)
			}
		}
		p.Slides = kept
		return nil
	})
}

// UpdateSlideTemplate 슬라이드 배경(src) 변경
func (s *PresentationService) UpdateSlideTemplate(ctx context.Context, presentationID, slideID, template string) (*model.Presentation, error) {
	return s.mutate(ctx, presentationID, func(p *model.Presentation) error {
		slide, err := FindSlide(p, slideID)
		if err != nil {
			return err
		}
		slide.Src = template
		return nil
	})
}

// AddField 클라이언트가 보낸 필드를 그대로 추가 (ID는 클라이언트가 지정)
func (s *PresentationService) AddField(ctx context.Context, presentationID, slideID string, field model.Field) (*model.Presentation, error) {
	return s.mutate(ctx, presentationID, func(p *model.Presentation) error {
		slide, err := FindSlide(p, slideID)
		if err != nil {
			return err
		}
		slide.Fields = append(slide.Fields, field)
		return nil
	})
}

// DeleteField 필드 삭제 (없는 ID면 변경 없이 저장)
func (s *PresentationService) DeleteField(ctx context.Context, presentationID, slideID, fieldID string) (*model.Presentation, error) {
	return s.mutate(ctx, presentationID, func(p *model.Presentation) error {
		slide, err := FindSlide(p, slideID)
		if err != nil {
			return err
		}
		kept := make([]model.Field, 0, len(slide.Fields))
		for _, field := range slide.Fields {
			if field.ID != fieldID {
				kept = append(kept, field)
			}
		}
		slide.Fields = kept
		return nil
	})
}

// UpdateField 필드의 content와 position만 변경
func (s *PresentationService) UpdateField(ctx context.Context, presentationID, slideID, fieldID, content string, position model.Position) (*model.Presentation, error) {
	return s.mutate(ctx, presentationID, func(p *model.Presentation) error {
		slide, err := FindSlide(p, slideID)
		if err != nil {
			return err
		}
		field, err := FindField(slide, fieldID)
		if err != nil {
			return err
		}
		field.Content = content
		field.Position = position
		return nil
	})
}

// mutate 문서를 읽어 fn으로 수정한 뒤 한 번 저장하고 전체 문서를 브로드캐스트한다.
// fn이 실패하면 저장하지 않는다.
func (s *PresentationService) mutate(ctx context.Context, presentationID string, fn func(p *model.Presentation) error) (*model.Presentation, error) {
	p, err := FindPresentation(ctx, s.repo, presentationID)
	if err != nil {
		return nil, err
	}

	if err := fn(p); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, storeError("save", err)
	}

	s.broadcaster.EmitAll(model.EventUpdatePresentation, p)
	return p, nil
}

func (s *PresentationService) newSlide(position int) model.Slide {
	return model.Slide{
		SlideID: s.newID(),
		Src:     model.DefaultSlideSrc,
		Alt:     fmt.Sprintf(model.DefaultSlideAltFmt, position),
		Fields:  []model.Field{},
	}
}
