package gormstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/repositories"
	"github.com/rafabene/dermacheck-backend/internal/domain/valueobjects"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenInMemory()
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newUser(t *testing.T, username, email string, role entities.Role) *entities.User {
	t.Helper()

	addr, err := valueobjects.NewEmail(email)
	require.NoError(t, err)

	return &entities.User{
		Username:     username,
		Email:        addr,
		PasswordHash: "hash",
		Role:         role,
	}
}

func createPrediction(t *testing.T, repo repositories.PredictionRepository, userID, class string, at time.Time) *entities.PredictionHistory {
	t.Helper()

	dist := entities.NewDistribution(map[string]float64{class: 0.9, "Other": 0.1})
	p, err := entities.NewPredictionHistory(userID, &entities.Classification{
		Label:        class,
		Confidence:   0.9,
		Distribution: dist,
	}, nil, nil)
	require.NoError(t, err)
	p.CreatedAt = at

	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("cria e busca usuário", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		user := newUser(t, "alice", "Alice@Example.com", entities.RoleUser)
		user.FullName = entities.OptionalString("Alice Liddell")
		require.NoError(t, repo.Create(ctx, user))
		assert.NotEmpty(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())

		byID, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "alice", byID.Username)
		assert.Equal(t, "alice@example.com", byID.Email.String())
		assert.Equal(t, "Alice Liddell", byID.DisplayName())

		byName, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, user.ID, byName.ID)

		byEmail, err := repo.FindByEmail(ctx, " ALICE@example.com ")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("retorna nil quando não encontra", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		user, err := repo.FindByUsername(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("username duplicado vira conflito", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		require.NoError(t, repo.Create(ctx, newUser(t, "bob", "bob@example.com", entities.RoleUser)))
		err := repo.Create(ctx, newUser(t, "bob", "other@example.com", entities.RoleUser))
		assert.True(t, errors.Is(err, domainerrors.ErrConflict))

		total, err := repo.Count(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("atualiza usuário", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		user := newUser(t, "carol", "carol@example.com", entities.RoleUser)
		require.NoError(t, repo.Create(ctx, user))

		user.Role = entities.RoleAdmin
		user.Phone = entities.OptionalString("+62 812")
		require.NoError(t, repo.Update(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, found.IsAdmin())
		require.NotNil(t, found.Phone)
		assert.Equal(t, "+62 812", *found.Phone)
	})

	t.Run("lista com busca, filtro de papel e paginação", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		for _, name := range []string{"dave", "david", "erin", "frank"} {
			require.NoError(t, repo.Create(ctx, newUser(t, name, name+"@example.com", entities.RoleUser)))
		}
		admin := newUser(t, "root", "root@example.com", entities.RoleAdmin)
		admin.FullName = entities.OptionalString("Davina Admin")
		require.NoError(t, repo.Create(ctx, admin))

		page, err := repo.List(ctx, repositories.UserFilters{Search: "DAV"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)

		role := entities.RoleAdmin
		page, err = repo.List(ctx, repositories.UserFilters{Role: &role})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "root", page.Items[0].Username)

		page, err = repo.List(ctx, repositories.UserFilters{PageRequest: repositories.PageRequest{Page: 2, PageSize: 2}})
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.Total)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 3, page.TotalPages())
		assert.True(t, page.HasNext())
	})

	t.Run("busca trata curingas literalmente", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		require.NoError(t, repo.Create(ctx, newUser(t, "gina", "gina@example.com", entities.RoleUser)))

		page, err := repo.List(ctx, repositories.UserFilters{Search: "%"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), page.Total)
	})

	t.Run("conta usuários criados desde uma data", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		old := newUser(t, "old", "old@example.com", entities.RoleUser)
		old.CreatedAt = time.Now().Add(-30 * 24 * time.Hour)
		require.NoError(t, repo.Create(ctx, old))
		require.NoError(t, repo.Create(ctx, newUser(t, "new", "new@example.com", entities.RoleUser)))

		total, err := repo.CountCreatedSince(ctx, time.Now().Add(-7*24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("delete de usuário inexistente", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		err := repo.Delete(ctx, "missing")
		assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
	})
}

func TestUserRepositoryListWithPredictions(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewUserRepository(db)
	predictions := NewPredictionRepository(db)

	alice := newUser(t, "alice", "alice@example.com", entities.RoleUser)
	bob := newUser(t, "bob", "bob@example.com", entities.RoleUser)
	carol := newUser(t, "carol", "carol@example.com", entities.RoleUser)
	for _, u := range []*entities.User{alice, bob, carol} {
		require.NoError(t, users.Create(ctx, u))
	}

	now := time.Now()
	createPrediction(t, predictions, alice.ID, "Melanoma", now.Add(-2*time.Minute))
	createPrediction(t, predictions, alice.ID, "Dermatofibroma", now.Add(-time.Minute))
	createPrediction(t, predictions, bob.ID, "Dermatofibroma", now)

	t.Run("somente usuários com predições, ordenados por username", func(t *testing.T) {
		page, err := users.ListWithPredictions(ctx, repositories.GroupedPredictionFilters{})
		require.NoError(t, err)

		require.Len(t, page.Items, 2)
		assert.Equal(t, int64(2), page.Total)
		assert.Equal(t, "alice", page.Items[0].User.Username)
		assert.Equal(t, "bob", page.Items[1].User.Username)
		require.Len(t, page.Items[0].Predictions, 2)
		assert.Equal(t, "Dermatofibroma", page.Items[0].Predictions[0].PredictedClass)
	})

	t.Run("filtro de classe restringe usuários e predições", func(t *testing.T) {
		page, err := users.ListWithPredictions(ctx, repositories.GroupedPredictionFilters{Class: "Melanoma"})
		require.NoError(t, err)

		require.Len(t, page.Items, 1)
		assert.Equal(t, "alice", page.Items[0].User.Username)
		require.Len(t, page.Items[0].Predictions, 1)
		assert.Equal(t, "Melanoma", page.Items[0].Predictions[0].PredictedClass)
	})

	t.Run("busca filtra somente usuários", func(t *testing.T) {
		page, err := users.ListWithPredictions(ctx, repositories.GroupedPredictionFilters{Search: "bo"})
		require.NoError(t, err)

		require.Len(t, page.Items, 1)
		assert.Equal(t, "bob", page.Items[0].User.Username)
	})

	t.Run("busca sem resultados não cai para a lista completa", func(t *testing.T) {
		page, err := users.ListWithPredictions(ctx, repositories.GroupedPredictionFilters{Search: "zzz"})
		require.NoError(t, err)

		assert.Empty(t, page.Items)
		assert.Equal(t, int64(0), page.Total)
	})
}

func TestUserRepositoryListWithPredictionsPerUserLimit(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewUserRepository(db)
	predictions := NewPredictionRepository(db)

	heavy := newUser(t, "heavy", "heavy@example.com", entities.RoleUser)
	light := newUser(t, "light", "light@example.com", entities.RoleUser)
	require.NoError(t, users.Create(ctx, heavy))
	require.NoError(t, users.Create(ctx, light))

	start := time.Now().Add(-time.Hour)
	var newest *entities.PredictionHistory
	for i := 0; i < GroupedPredictionsPerUser+5; i++ {
		newest = createPrediction(t, predictions, heavy.ID, "Melanoma", start.Add(time.Duration(i)*time.Second))
	}
	createPrediction(t, predictions, light.ID, "Melanoma", start)

	page, err := users.ListWithPredictions(ctx, repositories.GroupedPredictionFilters{})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "heavy", page.Items[0].User.Username)
	require.Len(t, page.Items[0].Predictions, GroupedPredictionsPerUser)
	assert.Equal(t, newest.ID, page.Items[0].Predictions[0].ID)
	assert.Len(t, page.Items[1].Predictions, 1)
}

func TestPredictionRepository(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*gorm.DB, repositories.UserRepository, repositories.PredictionRepository, *entities.User) {
		db := setupTestDB(t)
		users := NewUserRepository(db)
		preds := NewPredictionRepository(db)

		owner := newUser(t, "owner", "owner@example.com", entities.RoleUser)
		require.NoError(t, users.Create(ctx, owner))
		return db, users, preds, owner
	}

	t.Run("cria e busca predição", func(t *testing.T) {
		_, _, repo, owner := setup(t)

		created := createPrediction(t, repo, owner.ID, "Melanoma", time.Time{})
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Melanoma", found.PredictedClass)
		assert.InDelta(t, 0.9, found.Confidence, 1e-9)

		dist := entities.ParseDistribution(found.AllProbabilities)
		assert.InDelta(t, 1.0, dist.Sum(), 1e-6)
		top, ok := dist.Top()
		require.True(t, ok)
		assert.Equal(t, "Melanoma", top.Label)
	})

	t.Run("predição sem dono válido é rejeitada", func(t *testing.T) {
		_, _, repo, _ := setup(t)

		p := &entities.PredictionHistory{UserID: "missing", PredictedClass: "Melanoma", Confidence: 0.5}
		err := repo.Create(ctx, p)
		assert.Error(t, err)
	})

	t.Run("histórico recente e paginado em ordem decrescente", func(t *testing.T) {
		_, _, repo, owner := setup(t)

		base := time.Now().Add(-time.Hour)
		for i := 0; i < 25; i++ {
			createPrediction(t, repo, owner.ID, "Melanoma", base.Add(time.Duration(i)*time.Second))
		}

		recent, err := repo.ListRecentByUser(ctx, owner.ID, 10)
		require.NoError(t, err)
		require.Len(t, recent, 10)
		assert.True(t, recent[0].CreatedAt.After(recent[9].CreatedAt))

		page, err := repo.ListByUser(ctx, owner.ID, repositories.PageRequest{Page: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(25), page.Total)
		assert.Len(t, page.Items, 5)
		assert.False(t, page.HasNext())
		assert.True(t, page.HasPrev())
	})

	t.Run("contagens, classes e top classes", func(t *testing.T) {
		_, _, repo, owner := setup(t)

		now := time.Now()
		createPrediction(t, repo, owner.ID, "Melanoma", now.Add(-10*24*time.Hour))
		createPrediction(t, repo, owner.ID, "Melanoma", now)
		createPrediction(t, repo, owner.ID, "Vascular lesion", now)

		total, err := repo.Count(ctx, repositories.PredictionCountFilters{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		since := now.Add(-7 * 24 * time.Hour)
		recent, err := repo.Count(ctx, repositories.PredictionCountFilters{UserID: owner.ID, Since: &since})
		require.NoError(t, err)
		assert.Equal(t, int64(2), recent)

		top, err := repo.TopClasses(ctx, 5)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, repositories.ClassCount{Class: "Melanoma", Count: 2}, top[0])

		classes, err := repo.DistinctClasses(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Melanoma", "Vascular lesion"}, classes)

		byClass, err := repo.ListByUserAndClass(ctx, owner.ID, "Vascular lesion", 10)
		require.NoError(t, err)
		assert.Len(t, byClass, 1)
	})

	t.Run("recentes com dono carregado", func(t *testing.T) {
		_, _, repo, owner := setup(t)

		createPrediction(t, repo, owner.ID, "Melanoma", time.Time{})

		recent, err := repo.ListRecentWithUser(ctx, 10)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		require.NotNil(t, recent[0].User)
		assert.Equal(t, "owner", recent[0].User.Username)
	})

	t.Run("delete de predição", func(t *testing.T) {
		_, _, repo, owner := setup(t)

		p := createPrediction(t, repo, owner.ID, "Melanoma", time.Time{})
		require.NoError(t, repo.Delete(ctx, p.ID))

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, found)

		err = repo.Delete(ctx, p.ID)
		assert.True(t, errors.Is(err, domainerrors.ErrPredictionNotFound))
	})

	t.Run("delete do usuário em transação remove o histórico", func(t *testing.T) {
		db, users, repo, owner := setup(t)

		createPrediction(t, repo, owner.ID, "Melanoma", time.Time{})
		createPrediction(t, repo, owner.ID, "Melanoma", time.Time{})

		uow := NewUnitOfWork(db)
		err := uow.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := repo.DeleteByUser(txCtx, owner.ID); err != nil {
				return err
			}
			return users.Delete(txCtx, owner.ID)
		})
		require.NoError(t, err)

		total, err := repo.Count(ctx, repositories.PredictionCountFilters{UserID: owner.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("rollback preserva os dados", func(t *testing.T) {
		db, users, repo, owner := setup(t)

		createPrediction(t, repo, owner.ID, "Melanoma", time.Time{})

		uow := NewUnitOfWork(db)
		boom := errors.New("boom")
		err := uow.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := repo.DeleteByUser(txCtx, owner.ID); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		total, err := repo.Count(ctx, repositories.PredictionCountFilters{UserID: owner.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)

		found, err := users.FindByID(ctx, owner.ID)
		require.NoError(t, err)
		assert.NotNil(t, found)
	})
}
