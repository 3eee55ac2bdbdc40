package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/yourusername/otp-api/internal/domain/entity"
	apperrors "github.com/yourusername/otp-api/internal/pkg/errors"
)

const otpKeyPrefix = "otp_request:"

// Количество повторов оптимистичной транзакции при конкурентной записи
const updateAttemptRetries = 5

// otpRecord — формат хранения в Redis. Отдельная структура, потому что
// JSON-теги сущности прячут code_hash от клиентов API, а хранилищу он нужен.
type otpRecord struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	Target    string    `json:"target"`
	Context   string    `json:"context"`
	CodeHash  string    `json:"code_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

func toRecord(req *entity.OtpRequest) *otpRecord {
	return &otpRecord{
		ID:        req.ID,
		Channel:   req.Channel,
		Target:    req.Target,
		Context:   req.Context,
		CodeHash:  req.CodeHash,
		ExpiresAt: req.ExpiresAt,
		Attempts:  req.Attempts,
		Used:      req.Used,
		CreatedAt: req.CreatedAt,
	}
}

func (rec *otpRecord) toEntity() *entity.OtpRequest {
	return &entity.OtpRequest{
		ID:        rec.ID,
		Channel:   rec.Channel,
		Target:    rec.Target,
		Context:   rec.Context,
		CodeHash:  rec.CodeHash,
		ExpiresAt: rec.ExpiresAt,
		Attempts:  rec.Attempts,
		Used:      rec.Used,
		CreatedAt: rec.CreatedAt,
	}
}

// OtpRequestRepo реализует repository.OtpRequestRepository поверх Redis.
// Записи хранятся как JSON-значения без TTL: очистка истекших кодов не входит
// в зону ответственности ядра.
type OtpRequestRepo struct {
	client redis.UniversalClient
	ctx    context.Context
}

// NewOtpRequestRepo создает новый Redis-репозиторий одноразовых кодов
func NewOtpRequestRepo(client redis.UniversalClient) (*OtpRequestRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for OtpRequestRepo")
	}
	return &OtpRequestRepo{
		client: client,
		ctx:    context.Background(),
	}, nil
}

func otpKey(id string) string {
	return otpKeyPrefix + id
}

// Create сохраняет новый запрос кода и присваивает ему идентификатор
func (r *OtpRequestRepo) Create(req *entity.OtpRequest) (string, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	data, err := json.Marshal(toRecord(req))
	if err != nil {
		return "", fmt.Errorf("failed to marshal otp request: %w", err)
	}
	if err := r.client.Set(r.ctx, otpKey(req.ID), data, 0).Err(); err != nil {
		return "", fmt.Errorf("failed to create otp request: %w", err)
	}
	return req.ID, nil
}

// GetByID возвращает запрос кода по идентификатору
func (r *OtpRequestRepo) GetByID(id string) (*entity.OtpRequest, error) {
	data, err := r.client.Get(r.ctx, otpKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get otp request: %w", err)
	}
	var rec otpRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal otp request: %w", err)
	}
	return rec.toEntity(), nil
}

// UpdateAttempt регистрирует одну попытку проверки через оптимистичную
// WATCH-транзакцию: конкурирующие проверки одного id сериализуются,
// уже израсходованная запись повторно не изменяется (ErrConflict).
func (r *OtpRequestRepo) UpdateAttempt(id string, used bool) error {
	key := otpKey(id)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(r.ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return apperrors.ErrNotFound
			}
			return err
		}
		var rec otpRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("failed to unmarshal otp request: %w", err)
		}
		if rec.Used {
			return apperrors.ErrConflict
		}
		rec.Attempts++
		rec.Used = used

		updated, err := json.Marshal(&rec)
		if err != nil {
			return fmt.Errorf("failed to marshal otp request: %w", err)
		}
		_, err = tx.TxPipelined(r.ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(r.ctx, key, updated, 0)
			return nil
		})
		return err
	}

	for i := 0; i < updateAttemptRetries; i++ {
		err := r.client.Watch(r.ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// Ключ изменился между GET и EXEC — повторяем с актуальным состоянием
			continue
		}
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		return fmt.Errorf("failed to update otp attempt: %w", err)
	}
	return fmt.Errorf("failed to update otp attempt: %w", redis.TxFailedErr)
}
