package main

import (
	"context"
	"log"

	"github.com/google/uuid"

	"slidesync/internal/config"
	"slidesync/internal/model"
	"slidesync/internal/repository"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	repo, closeRepo, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeRepo()

	log.Println("Database connected. Seeding presentations...")

	for _, p := range demoPresentations() {
		if err := repo.Save(ctx, p); err != nil {
			log.Fatalf("Failed to seed presentation %q: %v", p.Title, err)
		}
		log.Printf("Seeded %q (%s)", p.Title, p.PresentationID)
	}

	log.Println("Presentations successfully seeded.")
}

func demoPresentations() []*model.Presentation {
	return []*model.Presentation{
		{
			PresentationID: uuid.NewString(),
			CreatorID:      uuid.NewString(),
			Title:          "Welcome Deck",
			Slides: []model.Slide{
				demoSlide("/slide1.jpg", "Slide 1", "<p>Welcome to Slide 1</p>", "<p>Subtitle for Slide 1</p>"),
				demoSlide("/slide2.jpg", "Slide 2", "<p>Welcome to Slide 2</p>", "<p>Subtitle for Slide 2</p>"),
			},
		},
		{
			PresentationID: uuid.NewString(),
			CreatorID:      uuid.NewString(),
			Title:          "Quarterly Review",
			Slides: []model.Slide{
				demoSlide("/slide3.jpg", "Slide 1", "<h1>Q3 Review</h1>", "<p>Highlights and next steps</p>"),
				demoSlide("/slide4.jpg", "Slide 2", "<p>Revenue</p>", "<p>Roadmap</p>"),
			},
		},
	}
}

func demoSlide(src, alt, title, subtitle string) model.Slide {
	return model.Slide{
		SlideID: uuid.NewString(),
		Src:     src,
		Alt:     alt,
		Fields: []model.Field{
			{ID: uuid.NewString(), Content: title, Position: model.Position{X: 100, Y: 150}},
			{ID: uuid.NewString(), Content: subtitle, Position: model.Position{X: 200, Y: 250}},
		},
	}
}
