package main

import (
	"context"
	"log"

	"slidesync/internal/config"
	"slidesync/internal/repository"
	"slidesync/internal/server"
)

func main() {
	// 설정 로드
	cfg := config.Load()

	// 문서 저장소 연결
	repo, closeRepo, err := repository.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	defer closeRepo()

	// 서버 생성 및 설정
	srv := server.New(cfg, repo)
	srv.SetupMiddleware()
	srv.SetupRoutes()

	// 서버 시작
	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
