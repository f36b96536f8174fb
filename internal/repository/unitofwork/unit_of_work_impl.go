package unitofwork

import (
	"context"
	"fmt"

	"jaspel-be/internal/repository/contract"
	"jaspel-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) JaspelRepository() contract.JaspelRepository {
	return implementation.NewJaspelRepository(u.getDB())
}

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) RoleRepository() contract.RoleRepository {
	return implementation.NewRoleRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TindakanRepository() contract.TindakanRepository {
	return implementation.NewTindakanRepository(u.getDB())
}

func (u *UnitOfWorkImpl) JumlahPasienRepository() contract.JumlahPasienRepository {
	return implementation.NewJumlahPasienRepository(u.getDB())
}

func (u *UnitOfWorkImpl) FlowRepository() contract.FlowRepository {
	return implementation.NewFlowRepository(u.getDB())
}

func (u *UnitOfWorkImpl) OverrideRepository() contract.OverrideRepository {
	return implementation.NewOverrideRepository(u.getDB())
}
