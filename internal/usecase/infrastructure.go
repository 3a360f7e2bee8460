package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/basket-backend/internal/domain"
)

type ImagesInfra interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (string, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// EventEncoder сериализует доменное событие в payload для outbox.
type EventEncoder interface {
	Encode(event *DomainEvent) ([]byte, error)
}

type TokenManager interface {
	Issue(user *domain.User) (string, time.Time, error)
	Parse(token string) (*Principal, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
