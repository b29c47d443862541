package repository

import (
	"context"
	"log"

	"slidesync/internal/config"
	"slidesync/internal/database"
)

// Open DB_DRIVER 설정에 맞는 저장소를 연결한다. 반환된 close 함수로 연결을 정리한다.
func Open(ctx context.Context, cfg *config.Config) (PresentationRepository, func(), error) {
	if cfg.Database.Driver == "mongo" {
		client, err := database.ConnectMongo(ctx, &cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		repo, err := NewMongoRepository(ctx, client, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			client.Disconnect(context.Background())
			return nil, nil, err
		}
		log.Printf("✅ MongoDB connected (%s.%s)", cfg.Mongo.Database, cfg.Mongo.Collection)
		return repo, func() { client.Disconnect(context.Background()) }, nil
	}

	db, err := database.ConnectDB(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Ping(db); err != nil {
		database.Close(db)
		return nil, nil, err
	}
	log.Printf("✅ Database connected successfully (%s)", cfg.Database.Driver)
	return NewGormRepository(db), func() { database.Close(db) }, nil
}
