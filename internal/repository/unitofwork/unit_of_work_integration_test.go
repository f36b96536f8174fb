package unitofwork

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"jaspel-be/internal/entity"
	"jaspel-be/internal/model"
	"jaspel-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real Postgres. Everything happens inside one transaction
// that is rolled back at the end.
func TestJaspelRepository_Postgres(t *testing.T) {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, database.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Role{}, &model.User{}, &model.Jaspel{}, &model.JaspelOverride{}, &model.JaspelOverrideAudit{}))

	ctx := context.Background()
	factory := NewRepositoryFactory(db)
	require.NoError(t, factory.Ping(ctx))

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	defer func() { _ = uow.Rollback() }()
	tx := uow.(*UnitOfWorkImpl).tx

	role := model.Role{Name: "paramedis", DisplayName: "Paramedis"}
	require.NoError(t, tx.Where(model.Role{Name: "paramedis"}).FirstOrCreate(&role).Error)
	user := model.User{
		Id:       uuid.New(),
		Name:     "Integrasi " + uuid.NewString()[:8],
		Email:    "integration-" + uuid.NewString() + "@example.com",
		RoleId:   &role.Id,
		IsActive: true,
	}
	require.NoError(t, tx.Create(&user).Error)

	repo := uow.JaspelRepository()
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	validatedAt := day.Add(2 * time.Hour)
	for _, total := range []float64{100000, 250000, 150000} {
		require.NoError(t, repo.Create(ctx, &entity.Jaspel{
			Id:         uuid.New(),
			UserId:     user.Id,
			Jenis:      entity.JaspelJenisShift,
			Tanggal:    day,
			Nominal:    total,
			Total:      total,
			Status:     entity.JaspelStatusApproved,
			ValidasiAt: &validatedAt,
		}))
	}
	pending := &entity.Jaspel{
		Id:      uuid.New(),
		UserId:  user.Id,
		Jenis:   entity.JaspelJenisProcedure,
		Tanggal: day,
		Nominal: 70000,
		Total:   70000,
		Status:  entity.JaspelStatusPending,
	}
	require.NoError(t, repo.Create(ctx, pending))

	approved := entity.JaspelFilter{}.Approved().ForUser(user.Id)

	t.Run("calculation strategies agree", func(t *testing.T) {
		flat, err := repo.SumTotal(ctx, approved)
		require.NoError(t, err)
		joined, err := repo.SumTotalJoined(ctx, user.Id)
		require.NoError(t, err)
		byJenis, err := repo.SumByJenis(ctx, approved)
		require.NoError(t, err)

		assert.Equal(t, 500000.0, flat)
		assert.Equal(t, 500000.0, joined)
		require.Len(t, byJenis, 1)
		assert.Equal(t, int64(3), byJenis[0].Count)
	})

	t.Run("aggregate by user", func(t *testing.T) {
		rows, err := repo.AggregateByUser(ctx, approved)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "paramedis", rows[0].RoleName)
		assert.Equal(t, int64(3), rows[0].Count)
		assert.NotNil(t, rows[0].FirstValidation)
	})

	t.Run("tied totals keep insertion order", func(t *testing.T) {
		tag := "Seri " + uuid.NewString()[:8]
		a, b := uuid.New(), uuid.New()
		if a.String() < b.String() {
			a, b = b, a
		}
		// a sorts after b by id but gets its entry first
		for _, id := range []uuid.UUID{a, b} {
			require.NoError(t, tx.Create(&model.User{
				Id:       id,
				Name:     tag + " " + id.String()[:4],
				Email:    "tie-" + id.String() + "@example.com",
				RoleId:   &role.Id,
				IsActive: true,
			}).Error)
			require.NoError(t, repo.Create(ctx, &entity.Jaspel{
				Id:         uuid.New(),
				UserId:     id,
				Jenis:      entity.JaspelJenisShift,
				Tanggal:    day,
				Nominal:    90000,
				Total:      90000,
				Status:     entity.JaspelStatusApproved,
				ValidasiAt: &validatedAt,
			}))
			time.Sleep(5 * time.Millisecond)
		}

		for i := 0; i < 3; i++ {
			rows, err := repo.AggregateByUser(ctx, entity.JaspelFilter{Search: tag}.Approved())
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, a, rows[0].UserId)
			assert.Equal(t, b, rows[1].UserId)
		}
	})

	t.Run("status breakdown", func(t *testing.T) {
		breakdown, err := repo.StatusBreakdown(ctx, user.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(3), breakdown[entity.JaspelStatusApproved])
		assert.Equal(t, int64(1), breakdown[entity.JaspelStatusPending])
		assert.Equal(t, int64(0), breakdown[entity.JaspelStatusRejected])
	})

	t.Run("update status only moves pending entries", func(t *testing.T) {
		validator := uuid.New()
		updated, err := repo.UpdateStatus(ctx, []uuid.UUID{pending.Id}, entity.JaspelStatusApproved, validator, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)

		updated, err = repo.UpdateStatus(ctx, []uuid.UUID{pending.Id}, entity.JaspelStatusRejected, validator, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(0), updated)

		stored, err := repo.FindOne(ctx, pending.Id)
		require.NoError(t, err)
		assert.Equal(t, entity.JaspelStatusApproved, stored.Status)
		require.NotNil(t, stored.ValidasiBy)
		assert.Equal(t, validator, *stored.ValidasiBy)
	})

	t.Run("missing user", func(t *testing.T) {
		found, err := uow.UserRepository().FindOne(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
