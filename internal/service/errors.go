package service

import (
	"errors"
	"fmt"
)

// ErrNotFound 프레젠테이션/슬라이드/필드 없음 (클라이언트 오류)
var ErrNotFound = errors.New("not found")

var (
	ErrPresentationNotFound = fmt.Errorf("presentation %w", ErrNotFound)
	ErrSlideNotFound        = fmt.Errorf("slide %w", ErrNotFound)
	ErrFieldNotFound        = fmt.Errorf("field %w", ErrNotFound)
)

// StoreError 저장소 오류 (서버 오류, 재시도 없음)
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
