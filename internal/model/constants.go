package model

// Role 세션 역할
type Role string

const (
	RoleCreator Role = "creator"
	RoleViewer  Role = "viewer"
)

func (r Role) String() string {
	return string(r)
}

// 서버 → 클라이언트 이벤트
const (
	EventNewPresentation     = "newPresentation"
	EventUpdatePresentation  = "updatePresentation"
	EventPresentationDeleted = "presentationDeleted"
	EventUserEvent           = "userEvent"
	EventFieldUpdated        = "fieldUpdated"
	EventConnected           = "connected"
	EventPong                = "pong"
)

// 클라이언트 → 서버 이벤트
const (
	EventUpdateField      = "updateField"
	EventJoinPresentation = "joinPresentation"
	EventUpdateRole       = "updateRole"
	EventPing             = "ping"
)

// 새 프레젠테이션/슬라이드 기본값
const (
	DefaultTitle       = "Untitled"
	DefaultSlideSrc    = ""
	DefaultSlideAltFmt = "Slide %d"
)
