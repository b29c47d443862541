package session

import (
	"context"
	"log"
	"sync"

	"slidesync/internal/broadcast"
	"slidesync/internal/model"
)

// PresentationFinder 입장 시 작성자(creatorId) 확인용 조회
type PresentationFinder interface {
	Get(ctx context.Context, presentationID string) (*model.Presentation, error)
}

// Registry 연결 ID → 세션 (프로세스 메모리에만 존재)
//
// 세션 목록은 프레젠테이션 구분 없이 전역이며, 변경이 있을 때마다 전체 목록을
// 모든 연결에 userEvent로 보낸다. mu는 변경과 그에 대한 브로드캐스트를 함께 직렬화한다.
type Registry struct {
	sessions    []*model.Session
	mu          sync.Mutex
	finder      PresentationFinder
	broadcaster broadcast.Broadcaster
}

// NewRegistry Registry 생성
func NewRegistry(finder PresentationFinder, broadcaster broadcast.Broadcaster) *Registry {
	return &Registry{
		sessions:    make([]*model.Session, 0),
		finder:      finder,
		broadcaster: broadcaster,
	}
}

// DeriveRole username이 작성자와 정확히 같으면 creator, 아니면 viewer
func DeriveRole(p *model.Presentation, username string) model.Role {
	if p != nil && p.CreatorID == username {
		return model.RoleCreator
	}
	return model.RoleViewer
}

// Join 연결을 프레젠테이션에 입장시킨다.
// 이미 세션이 있는 연결이면 아무것도 하지 않고 false를 반환한다.
func (r *Registry) Join(ctx context.Context, connID, presentationID, username string) (bool, error) {
	p, err := r.finder.Get(ctx, presentationID)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(connID) >= 0 {
		return false, nil
	}

	s := &model.Session{
		ConnectionID:   connID,
		PresentationID: presentationID,
		Username:       username,
		Role:           DeriveRole(p, username),
	}
	r.sessions = append(r.sessions, s)
	log.Printf("[Session] %s joined %s as %s (conn=%s)", username, presentationID, s.Role, connID)

	r.broadcastLocked()
	return true, nil
}

// UpdateRole 세션 역할 변경. 대상 연결이 없으면 로그만 남기고 무시한다.
func (r *Registry) UpdateRole(connID string, role model.Role) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.find(connID)
	if idx < 0 {
		log.Printf("[Session] updateRole ignored: no session for conn=%s", connID)
		return false
	}

	r.sessions[idx].Role = role
	r.broadcastLocked()
	return true
}

// Leave 연결 종료 시 세션 제거 후 목록 브로드캐스트 (세션이 없어도 브로드캐스트)
func (r *Registry) Leave(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx := r.find(connID); idx >= 0 {
		r.sessions = append(r.sessions[:idx], r.sessions[idx+1:]...)
	}
	r.broadcastLocked()
}

// Get 연결의 세션 조회
func (r *Registry) Get(connID string) (model.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.find(connID)
	if idx < 0 {
		return model.Session{}, false
	}
	return *r.sessions[idx], true
}

// List 입장 순서대로 세션 목록 스냅샷
func (r *Registry) List() []model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Len 세션 수
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) find(connID string) int {
	for i, s := range r.sessions {
		if s.ConnectionID == connID {
			return i
		}
	}
	return -1
}

func (r *Registry) snapshotLocked() []model.Session {
	out := make([]model.Session, len(r.sessions))
	for i, s := range r.sessions {
		out[i] = *s
	}
	return out
}

func (r *Registry) broadcastLocked() {
	r.broadcaster.EmitAll(model.EventUserEvent, r.snapshotLocked())
}
