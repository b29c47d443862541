package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"slidesync/internal/config"
)

// relayEnvelope Redis 채널로 오가는 이벤트
type relayEnvelope struct {
	ExcludeID string          `json:"excludeId,omitempty"` // 제외할 발신 연결
	Data      json.RawMessage `json:"data"`                // 직렬화된 Message
}

// RedisRelay 여러 서버 인스턴스 사이에 이벤트를 중계하는 Broadcaster
//
// 모든 이벤트를 채널에 발행하고, 구독한 메시지를 로컬 Hub로 전달한다.
// 세션 목록 자체는 Redis에 저장하지 않는다.
type RedisRelay struct {
	client  *redis.Client
	channel string
	local   *Hub
	pubsub  *redis.PubSub
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewRedisRelay Redis 연결 후 RedisRelay 생성
func NewRedisRelay(cfg *config.RedisConfig, local *Hub) (*RedisRelay, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Printf("[Redis] Connected to %s (channel=%s)", cfg.Addr, cfg.Channel)

	ctx, cancel := context.WithCancel(context.Background())
	return &RedisRelay{
		client:  client,
		channel: cfg.Channel,
		local:   local,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start 채널 구독 시작 (수신 루프는 별도 고루틴)
func (r *RedisRelay) Start() {
	r.pubsub = r.client.Subscribe(r.ctx, r.channel)
	ch := r.pubsub.Channel()

	go func() {
		for msg := range ch {
			r.handle(msg.Payload)
		}
	}()
}

// EmitAll 모든 인스턴스의 모든 연결에 전송
func (r *RedisRelay) EmitAll(event string, payload any) {
	r.publish("", event, payload)
}

// EmitToOthers 모든 인스턴스에서 발신 연결만 제외하고 전송
func (r *RedisRelay) EmitToOthers(originID string, event string, payload any) {
	r.publish(originID, event, payload)
}

func (r *RedisRelay) publish(excludeID string, event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		return
	}

	envelope, err := json.Marshal(relayEnvelope{ExcludeID: excludeID, Data: data})
	if err != nil {
		log.Printf("[Redis] Failed to marshal envelope: %v", err)
		return
	}

	if err := r.client.Publish(r.ctx, r.channel, envelope).Err(); err != nil {
		// 발행 실패 시 최소한 로컬 연결에는 전달
		log.Printf("[Redis] Publish failed, delivering locally: %v", err)
		r.local.deliver(excludeID, data)
	}
}

// handle 구독 메시지를 로컬 허브로 전달
func (r *RedisRelay) handle(raw string) {
	var envelope relayEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		log.Printf("[Redis] Invalid relay message: %v", err)
		return
	}
	if len(envelope.Data) == 0 {
		return
	}
	r.local.deliver(envelope.ExcludeID, envelope.Data)
}

// Health Redis 상태 확인
func (r *RedisRelay) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close 구독 해제 및 연결 종료
func (r *RedisRelay) Close() error {
	r.cancel()
	if r.pubsub != nil {
		r.pubsub.Close()
	}
	return r.client.Close()
}
