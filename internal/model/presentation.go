package model

// Position 필드 좌표
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Field 슬라이드 위의 편집 가능한 텍스트 요소
type Field struct {
	ID       string   `json:"id" bson:"id"`
	Content  string   `json:"content" bson:"content"` // HTML 마크업 포함 가능
	Position Position `json:"position" bson:"position"`
}

// Slide 프레젠테이션의 한 페이지
type Slide struct {
	SlideID string  `json:"slideId" bson:"slideId"`
	Src     string  `json:"src" bson:"src"` // 배경/템플릿 경로
	Alt     string  `json:"alt" bson:"alt"`
	Fields  []Field `json:"fields" bson:"fields"`
}

// Presentation 프레젠테이션 문서 (슬라이드 전체를 하나의 문서로 저장)
type Presentation struct {
	ID             int64   `gorm:"primaryKey;autoIncrement" json:"-" bson:"-"`
	PresentationID string  `gorm:"type:varchar(64);uniqueIndex;not null" json:"presentationId" bson:"presentationId"`
	CreatorID      string  `gorm:"type:varchar(255);not null" json:"creatorId" bson:"creatorId"`
	Title          string  `gorm:"type:varchar(255)" json:"title" bson:"title"`
	Slides         []Slide `gorm:"type:jsonb;serializer:json" json:"slides" bson:"slides"`
}

func (Presentation) TableName() string {
	return "presentations"
}

// Normalize nil 슬라이스를 빈 슬라이스로 바꿔 JSON에서 null 대신 []가 나가도록 한다
func (p *Presentation) Normalize() {
	if p.Slides == nil {
		p.Slides = []Slide{}
	}
	for i := range p.Slides {
		if p.Slides[i].Fields == nil {
			p.Slides[i].Fields = []Field{}
		}
	}
}
