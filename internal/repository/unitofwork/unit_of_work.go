package unitofwork

import (
	"context"

	"jaspel-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	JaspelRepository() contract.JaspelRepository
	UserRepository() contract.UserRepository
	RoleRepository() contract.RoleRepository
	TindakanRepository() contract.TindakanRepository
	JumlahPasienRepository() contract.JumlahPasienRepository
	FlowRepository() contract.FlowRepository
	OverrideRepository() contract.OverrideRepository
}
