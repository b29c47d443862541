package handler

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"slidesync/internal/model"
	"slidesync/internal/service"
)

var validate = validator.New()

// PresentationHandler 프레젠테이션 REST 핸들러
type PresentationHandler struct {
	svc *service.PresentationService
}

// NewPresentationHandler PresentationHandler 생성
func NewPresentationHandler(svc *service.PresentationService) *PresentationHandler {
	return &PresentationHandler{svc: svc}
}

// CreatePresentationRequest 프레젠테이션 생성 요청
type CreatePresentationRequest struct {
	Username string `json:"username" validate:"required"`
	Title    string `json:"title"`
}

// UpdateSlideRequest 슬라이드 템플릿 변경 요청
type UpdateSlideRequest struct {
	Template *string `json:"template" validate:"required"`
}

// AddFieldRequest 필드 추가 요청 (ID는 클라이언트가 생성)
type AddFieldRequest struct {
	ID       string         `json:"id" validate:"required"`
	Content  string         `json:"content"`
	Position model.Position `json:"position"`
}

// UpdateFieldRequest 필드 내용/위치 변경 요청
type UpdateFieldRequest struct {
	Content  string          `json:"content"`
	Position *model.Position `json:"position" validate:"required"`
}

// GetPresentations 전체 목록
// GET /presentations
func (h *PresentationHandler) GetPresentations(c *fiber.Ctx) error {
	presentations, err := h.svc.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "Error fetching presentations")
	}
	return c.JSON(presentations)
}

// GetPresentation 단일 조회
// GET /presentations/:presentationId
func (h *PresentationHandler) GetPresentation(c *fiber.Ctx) error {
	p, err := h.svc.Get(c.UserContext(), c.Params("presentationId"))
	if err != nil {
		return respondError(c, err, "Error fetching presentation")
	}
	return c.JSON(p)
}

// CreatePresentation 새 프레젠테이션 생성
// POST /presentations
func (h *PresentationHandler) CreatePresentation(c *fiber.Ctx) error {
	var req CreatePresentationRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("username is required")
	}

	p, err := h.svc.Create(c.UserContext(), req.Username, req.Title)
	if err != nil {
		return respondError(c, err, "Error creating presentation")
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// DeletePresentation 프레젠테이션 삭제
// DELETE /presentations/:presentationId
func (h *PresentationHandler) DeletePresentation(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("presentationId")); err != nil {
		return respondError(c, err, "Error deleting presentation")
	}
	return c.SendString("Presentation deleted")
}

// AddSlide 슬라이드 추가
// POST /presentations/:presentationId/slides
func (h *PresentationHandler) AddSlide(c *fiber.Ctx) error {
	if _, err := h.svc.AddSlide(c.UserContext(), c.Params("presentationId")); err != nil {
		return respondError(c, err, "Error adding slide")
	}
	return c.SendString("Slide added")
}

// DeleteSlide 슬라이드 삭제
// DELETE /presentations/:presentationId/slides/:slideId
func (h *PresentationHandler) DeleteSlide(c *fiber.Ctx) error {
	if _, err := h.svc.DeleteSlide(c.UserContext(), c.Params("presentationId"), c.Params("slideId")); err != nil {
		return respondError(c, err, "Error deleting slide")
	}
	return c.SendString("Slide deleted")
}

// UpdateSlide 슬라이드 템플릿 변경
// PUT /presentations/:presentationId/slides/:slideId
func (h *PresentationHandler) UpdateSlide(c *fiber.Ctx) error {
	var req UpdateSlideRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("template is required")
	}

	if _, err := h.svc.UpdateSlideTemplate(c.UserContext(), c.Params("presentationId"), c.Params("slideId"), *req.Template); err != nil {
		return respondError(c, err, "Error updating slide")
	}
	return c.SendString("Slide updated")
}

// AddField 필드 추가
// POST /presentations/:presentationId/slides/:slideId/fields
func (h *PresentationHandler) AddField(c *fiber.Ctx) error {
	var req AddFieldRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("field id is required")
	}

	field := model.Field{ID: req.ID, Content: req.Content, Position: req.Position}
	if _, err := h.svc.AddField(c.UserContext(), c.Params("presentationId"), c.Params("slideId"), field); err != nil {
		return respondError(c, err, "Error updating fields")
	}
	return c.SendString("Fields updated")
}

// DeleteField 필드 삭제
// DELETE /presentations/:presentationId/slides/:slideId/fields/:fieldId
func (h *PresentationHandler) DeleteField(c *fiber.Ctx) error {
	if _, err := h.svc.DeleteField(c.UserContext(), c.Params("presentationId"), c.Params("slideId"), c.Params("fieldId")); err != nil {
		return respondError(c, err, "Error deleting field")
	}
	return c.SendString("Field deleted")
}

// UpdateField 필드 내용/위치 변경
// PUT /presentations/:presentationId/slides/:slideId/fields/:fieldId
func (h *PresentationHandler) UpdateField(c *fiber.Ctx) error {
	var req UpdateFieldRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("position is required")
	}

	_, err := h.svc.UpdateField(c.UserContext(),
		c.Params("presentationId"), c.Params("slideId"), c.Params("fieldId"),
		req.Content, *req.Position,
	)
	if err != nil {
		return respondError(c, err, "Error updating field")
	}
	return c.SendString("Field updated")
}

// parseBody JSON 바디 파싱 후 validate 태그 검사
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return err
	}
	return validate.Struct(out)
}

// respondError 서비스 오류를 상태 코드와 평문 메시지로 변환
func respondError(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, service.ErrNotFound) {
		log.Printf("%s: %v", message, err)
		return c.Status(fiber.StatusNotFound).SendString(err.Error())
	}

	log.Printf("❌ %s: %v", message, err)
	return c.Status(fiber.StatusInternalServerError).SendString(message)
}
