package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/repositories"
	"github.com/rafabene/dermacheck-backend/internal/domain/valueobjects"
)

// GroupedPredictionsPerUser limita quantas predições cada usuário traz na visão agrupada
const GroupedPredictionsPerUser = 50

// UserRepository implementa repositories.UserRepository
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	model := userToModel(user)

	db := dbFromContext(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return translateError(err)
	}

	user.ID = model.ID
	user.CreatedAt = fromMillis(model.CreatedAt)
	user.UpdatedAt = fromMillis(model.UpdatedAt)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*entities.User, error) {
	var model UserModel

	db := dbFromContext(ctx, r.db)
	if err := db.Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return userToEntity(&model)
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	model := userToModel(user)

	db := dbFromContext(ctx, r.db)
	if err := db.Save(model).Error; err != nil {
		return translateError(err)
	}
	user.UpdatedAt = fromMillis(model.UpdatedAt)
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	db := dbFromContext(ctx, r.db)
	result := db.Where("id = ?", id).Delete(&UserModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filters repositories.UserFilters) (repositories.Page[*entities.User], error) {
	req := filters.PageRequest.Normalize()

	db := dbFromContext(ctx, r.db)
	query := db.Model(&UserModel{})

	if filters.Role != nil {
		query = query.Where("role = ?", string(*filters.Role))
	}
	query = applyUserSearch(query, filters.Search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return repositories.Page[*entities.User]{}, err
	}

	var models []*UserModel
	if err := query.Order("created_at DESC").Order("username ASC").
		Limit(req.PageSize).Offset(req.Offset()).
		Find(&models).Error; err != nil {
		return repositories.Page[*entities.User]{}, err
	}

	users, err := usersToEntities(models)
	if err != nil {
		return repositories.Page[*entities.User]{}, err
	}
	return repositories.NewPage(req, users, total), nil
}

func (r *UserRepository) Count(ctx context.Context, role *entities.Role) (int64, error) {
	db := dbFromContext(ctx, r.db)
	query := db.Model(&UserModel{})
	if role != nil {
		query = query.Where("role = ?", string(*role))
	}

	var total int64
	err := query.Count(&total).Error
	return total, err
}

func (r *UserRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	err := db.Model(&UserModel{}).Where("created_at >= ?", since.UnixMilli()).Count(&total).Error
	return total, err
}

// ListWithPredictions pagina os usuários que possuem predições (da classe filtrada, se houver),
// ordenados por username, já com até GroupedPredictionsPerUser predições recentes cada.
func (r *UserRepository) ListWithPredictions(ctx context.Context, filters repositories.GroupedPredictionFilters) (repositories.Page[*repositories.UserPredictions], error) {
	req := filters.PageRequest.Normalize()
	class := strings.TrimSpace(filters.Class)
	empty := repositories.Page[*repositories.UserPredictions]{}

	db := dbFromContext(ctx, r.db)

	owners := db.Model(&PredictionModel{}).Select("user_id")
	if class != "" {
		owners = owners.Where("predicted_class = ?", class)
	}

	query := db.Model(&UserModel{}).Where("id IN (?)", owners)
	query = applyUserSearch(query, filters.Search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return empty, err
	}

	var models []*UserModel
	if err := query.Order("username ASC").
		Limit(req.PageSize).Offset(req.Offset()).
		Find(&models).Error; err != nil {
		return empty, err
	}

	users, err := usersToEntities(models)
	if err != nil {
		return empty, err
	}

	groups := make([]*repositories.UserPredictions, len(users))
	if len(users) == 0 {
		return repositories.NewPage(req, groups, total), nil
	}

	ids := make([]string, len(users))
	byUser := make(map[string]*repositories.UserPredictions, len(users))
	for i, u := range users {
		ids[i] = u.ID
		groups[i] = &repositories.UserPredictions{User: u}
		byUser[u.ID] = groups[i]
	}

	// ROW_NUMBER limita as predições de cada usuário no próprio banco
	ranked := db.Model(&PredictionModel{}).
		Select("prediction_history.*, ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY created_at DESC, id DESC) AS row_num").
		Where("user_id IN ?", ids)
	if class != "" {
		ranked = ranked.Where("predicted_class = ?", class)
	}
	var predictionModels []*PredictionModel
	if err := db.Table("(?) AS ranked", ranked).
		Where("row_num <= ?", GroupedPredictionsPerUser).
		Order("created_at DESC").Order("id DESC").
		Find(&predictionModels).Error; err != nil {
		return empty, err
	}

	for _, m := range predictionModels {
		group := byUser[m.UserID]
		p := predictionToEntity(m)
		p.User = group.User
		group.Predictions = append(group.Predictions, p)
	}

	return repositories.NewPage(req, groups, total), nil
}

// applyUserSearch filtra por username, email ou nome completo (contém, sem diferenciar maiúsculas)
func applyUserSearch(query *gorm.DB, search string) *gorm.DB {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return query
	}
	pattern := "%" + escapeLike(search) + "%"
	return query.Where(
		"LOWER(username) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(full_name, '')) LIKE ? ESCAPE '\\'",
		pattern, pattern, pattern,
	)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// translateError converte erros de constraint em erros de domínio
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", domainerrors.ErrConflict, err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %v", domainerrors.ErrUserNotFound, err)
	}
	return err
}

// Conversores
func userToModel(user *entities.User) *UserModel {
	return &UserModel{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email.String(),
		PasswordHash: user.PasswordHash,
		FullName:     user.FullName,
		Phone:        user.Phone,
		Role:         string(user.Role),
		CreatedAt:    toMillis(user.CreatedAt),
		UpdatedAt:    toMillis(user.UpdatedAt),
	}
}

func userToEntity(model *UserModel) (*entities.User, error) {
	email, err := valueobjects.NewEmail(model.Email)
	if err != nil {
		return nil, err
	}

	return &entities.User{
		ID:           model.ID,
		Username:     model.Username,
		Email:        email,
		PasswordHash: model.PasswordHash,
		FullName:     model.FullName,
		Phone:        model.Phone,
		Role:         entities.Role(model.Role),
		CreatedAt:    fromMillis(model.CreatedAt),
		UpdatedAt:    fromMillis(model.UpdatedAt),
	}, nil
}

func usersToEntities(models []*UserModel) ([]*entities.User, error) {
	users := make([]*entities.User, 0, len(models))

	for _, model := range models {
		entity, err := userToEntity(model)
		if err != nil {
			return nil, err
		}
		users = append(users, entity)
	}

	return users, nil
}

// toMillis mantém zero como zero para que o autoCreateTime do gorm preencha o valor
func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
