package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slidesync/internal/model"
)

// MongoRepository MongoDB 컬렉션 기반 저장소
type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoRepository MongoRepository 생성 및 presentationId 인덱스 보장
func NewMongoRepository(ctx context.Context, client *mongo.Client, database, collection string) (*MongoRepository, error) {
	coll := client.Database(database).Collection(collection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "presentationId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return &MongoRepository{client: client, collection: coll}, nil
}

// FindAll 전체 프레젠테이션 조회
func (r *MongoRepository) FindAll(ctx context.Context) ([]model.Presentation, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	presentations := make([]model.Presentation, 0)
	if err := cursor.All(ctx, &presentations); err != nil {
		return nil, err
	}
	for i := range presentations {
		presentations[i].Normalize()
	}
	return presentations, nil
}

// FindByID presentationId로 조회
func (r *MongoRepository) FindByID(ctx context.Context, presentationID string) (*model.Presentation, error) {
	var p model.Presentation
	err := r.collection.FindOne(ctx, bson.D{{Key: "presentationId", Value: presentationID}}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

// Save 문서 전체 교체 (없으면 upsert)
func (r *MongoRepository) Save(ctx context.Context, p *model.Presentation) error {
	p.Normalize()
	_, err := r.collection.ReplaceOne(ctx,
		bson.D{{Key: "presentationId", Value: p.PresentationID}},
		p,
		options.Replace().SetUpsert(true),
	)
	return err
}

// Delete 프레젠테이션 삭제
func (r *MongoRepository) Delete(ctx context.Context, presentationID string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.D{{Key: "presentationId", Value: presentationID}})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// Ping 연결 확인
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}
