package services

import (
	"context"
	"strings"
	"time"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	"github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
	"github.com/rafabene/dermacheck-backend/internal/domain/repositories"
)

const (
	// TopClassesLimit é quantas classes aparecem no ranking do painel
	TopClassesLimit = 5
	// RecentPredictionsLimit é quantas predições recentes aparecem no painel
	RecentPredictionsLimit = 10
	// GroupedUsersPageSize é quantos usuários cada página da visão agrupada traz
	GroupedUsersPageSize = 10

	week = 7 * 24 * time.Hour
)

// ReportService monta as visões agregadas do painel de administração
type ReportService struct {
	userRepo       repositories.UserRepository
	predictionRepo repositories.PredictionRepository
	logger         ports.Logger
	location       *time.Location
	now            func() time.Time
}

// NewReportService cria um novo ReportService. location define onde começa o "hoje".
func NewReportService(
	userRepo repositories.UserRepository,
	predictionRepo repositories.PredictionRepository,
	logger ports.Logger,
	location *time.Location,
) *ReportService {
	if location == nil {
		location = time.UTC
	}
	return &ReportService{
		userRepo:       userRepo,
		predictionRepo: predictionRepo,
		logger:         logger,
		location:       location,
		now:            time.Now,
	}
}

// Dashboard agrega os números do painel
type Dashboard struct {
	TotalUsers          int64
	TotalAdmins         int64
	TotalRegularUsers   int64
	TotalPredictions    int64
	PredictionsThisWeek int64
	PredictionsToday    int64
	UsersThisWeek       int64
	TopPredictions      []repositories.ClassCount
	RecentPredictions   []*entities.PredictionHistory
}

// Dashboard calcula os totais, o ranking de classes e as predições mais recentes
func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now().In(s.location)
	weekAgo := now.Add(-week)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)

	admin, user := entities.RoleAdmin, entities.RoleUser
	d := &Dashboard{}

	var err error
	if d.TotalUsers, err = s.userRepo.Count(ctx, nil); err != nil {
		return nil, err
	}
	if d.TotalAdmins, err = s.userRepo.Count(ctx, &admin); err != nil {
		return nil, err
	}
	if d.TotalRegularUsers, err = s.userRepo.Count(ctx, &user); err != nil {
		return nil, err
	}
	if d.UsersThisWeek, err = s.userRepo.CountCreatedSince(ctx, weekAgo); err != nil {
		return nil, err
	}
	if d.TotalPredictions, err = s.predictionRepo.Count(ctx, repositories.PredictionCountFilters{}); err != nil {
		return nil, err
	}
	if d.PredictionsThisWeek, err = s.predictionRepo.Count(ctx, repositories.PredictionCountFilters{Since: &weekAgo}); err != nil {
		return nil, err
	}
	if d.PredictionsToday, err = s.predictionRepo.Count(ctx, repositories.PredictionCountFilters{Since: &todayStart}); err != nil {
		return nil, err
	}
	if d.TopPredictions, err = s.predictionRepo.TopClasses(ctx, TopClassesLimit); err != nil {
		return nil, err
	}
	if d.RecentPredictions, err = s.predictionRepo.ListRecentWithUser(ctx, RecentPredictionsLimit); err != nil {
		return nil, err
	}

	s.logger.Debug("dashboard computed", "total_users", d.TotalUsers, "total_predictions", d.TotalPredictions)
	return d, nil
}

// UserDetail é um usuário com seu histórico paginado e estatísticas
type UserDetail struct {
	User                *entities.User
	Predictions         repositories.Page[*entities.PredictionHistory]
	TotalPredictions    int64
	PredictionsThisWeek int64
}

// UserDetail monta a página de detalhe de um usuário
func (s *ReportService) UserDetail(ctx context.Context, userID string, page int) (*UserDetail, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.ErrUserNotFound
	}

	predictions, err := s.predictionRepo.ListByUser(ctx, userID, repositories.PageRequest{Page: page, PageSize: HistoryPageSize})
	if err != nil {
		return nil, err
	}

	weekAgo := s.now().Add(-week)
	total, err := s.predictionRepo.Count(ctx, repositories.PredictionCountFilters{UserID: userID})
	if err != nil {
		return nil, err
	}
	thisWeek, err := s.predictionRepo.Count(ctx, repositories.PredictionCountFilters{UserID: userID, Since: &weekAgo})
	if err != nil {
		return nil, err
	}

	return &UserDetail{
		User:                user,
		Predictions:         predictions,
		TotalPredictions:    total,
		PredictionsThisWeek: thisWeek,
	}, nil
}

// GroupedPredictions é a visão de predições agrupadas por usuário
type GroupedPredictions struct {
	Groups  repositories.Page[*repositories.UserPredictions]
	Classes []string
	Search  string
	Class   string
}

// GroupedPredictions lista usuários com predições, filtrando usuários por search
// (username, email ou nome) e predições pela classe exata
func (s *ReportService) GroupedPredictions(ctx context.Context, page int, search, class string) (*GroupedPredictions, error) {
	search = strings.TrimSpace(search)
	class = strings.TrimSpace(class)

	groups, err := s.userRepo.ListWithPredictions(ctx, repositories.GroupedPredictionFilters{
		Search:      search,
		Class:       class,
		PageRequest: repositories.PageRequest{Page: page, PageSize: GroupedUsersPageSize},
	})
	if err != nil {
		return nil, err
	}

	classes, err := s.predictionRepo.DistinctClasses(ctx)
	if err != nil {
		return nil, err
	}

	return &GroupedPredictions{
		Groups:  groups,
		Classes: classes,
		Search:  search,
		Class:   class,
	}, nil
}
