package contract

import (
	"context"

	"jaspel-be/internal/entity"

	"github.com/google/uuid"
)

type TindakanRepository interface {
	CountByUser(ctx context.Context, userId uuid.UUID) (int64, error)
}

type JumlahPasienRepository interface {
	FindByUser(ctx context.Context, userId uuid.UUID) ([]*entity.JumlahPasienHarian, error)
}
