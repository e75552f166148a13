package dto

import (
	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	"github.com/rafabene/dermacheck-backend/internal/domain/repositories"
	"github.com/rafabene/dermacheck-backend/internal/services"
)

// ClassCountResponse é uma entrada do ranking de classes
type ClassCountResponse struct {
	Class string `json:"class"`
	Count int64  `json:"count"`
}

// DashboardResponse é a resposta de GET /admin
type DashboardResponse struct {
	TotalUsers          int64                `json:"total_users"`
	TotalAdmins         int64                `json:"total_admins"`
	TotalRegularUsers   int64                `json:"total_regular_users"`
	TotalPredictions    int64                `json:"total_predictions"`
	PredictionsThisWeek int64                `json:"predictions_this_week"`
	PredictionsToday    int64                `json:"predictions_today"`
	UsersThisWeek       int64                `json:"users_this_week"`
	TopPredictions      []ClassCountResponse `json:"top_predictions"`
	RecentPredictions   []PredictionView     `json:"recent_predictions"`
}

// ToDashboardResponse converte o painel do serviço
func ToDashboardResponse(d *services.Dashboard) DashboardResponse {
	top := make([]ClassCountResponse, len(d.TopPredictions))
	for i, cc := range d.TopPredictions {
		top[i] = ClassCountResponse{Class: cc.Class, Count: cc.Count}
	}
	return DashboardResponse{
		TotalUsers:          d.TotalUsers,
		TotalAdmins:         d.TotalAdmins,
		TotalRegularUsers:   d.TotalRegularUsers,
		TotalPredictions:    d.TotalPredictions,
		PredictionsThisWeek: d.PredictionsThisWeek,
		PredictionsToday:    d.PredictionsToday,
		UsersThisWeek:       d.UsersThisWeek,
		TopPredictions:      top,
		RecentPredictions:   ToPredictionViews(d.RecentPredictions),
	}
}

// UserListResponse é a resposta de GET /admin/users
type UserListResponse struct {
	Users      []UserResponse     `json:"users"`
	Pagination PaginationResponse `json:"pagination"`
	Search     string             `json:"search"`
	Role       string             `json:"role"`
}

// ToUserListResponse converte uma página de usuários
func ToUserListResponse(page repositories.Page[*entities.User], search, role string) UserListResponse {
	return UserListResponse{
		Users:      ToUserResponses(page.Items),
		Pagination: ToPagination(page),
		Search:     search,
		Role:       role,
	}
}

// UserDetailResponse é a resposta de GET /admin/users/:id
type UserDetailResponse struct {
	User                UserResponse       `json:"user"`
	Predictions         []PredictionView   `json:"predictions"`
	Pagination          PaginationResponse `json:"pagination"`
	TotalPredictions    int64              `json:"total_predictions"`
	PredictionsThisWeek int64              `json:"predictions_this_week"`
}

// ToUserDetailResponse converte o detalhe do serviço
func ToUserDetailResponse(d *services.UserDetail) UserDetailResponse {
	return UserDetailResponse{
		User:                ToUserResponse(d.User),
		Predictions:         ToPredictionViews(d.Predictions.Items),
		Pagination:          ToPagination(d.Predictions),
		TotalPredictions:    d.TotalPredictions,
		PredictionsThisWeek: d.PredictionsThisWeek,
	}
}

// UserPredictionsResponse é um grupo da visão agrupada
type UserPredictionsResponse struct {
	User        UserResponse     `json:"user"`
	Predictions []PredictionView `json:"predictions"`
}

// GroupedPredictionsResponse é a resposta de GET /admin/predictions
type GroupedPredictionsResponse struct {
	Groups     []UserPredictionsResponse `json:"groups"`
	Pagination PaginationResponse        `json:"pagination"`
	Classes    []string                  `json:"classes"`
	Search     string                    `json:"search"`
	Class      string                    `json:"class"`
}

// ToGroupedPredictionsResponse converte a visão agrupada do serviço
func ToGroupedPredictionsResponse(g *services.GroupedPredictions) GroupedPredictionsResponse {
	groups := make([]UserPredictionsResponse, len(g.Groups.Items))
	for i, group := range g.Groups.Items {
		groups[i] = UserPredictionsResponse{
			User:        ToUserResponse(group.User),
			Predictions: ToPredictionViews(group.Predictions),
		}
	}
	classes := g.Classes
	if classes == nil {
		classes = []string{}
	}
	return GroupedPredictionsResponse{
		Groups:     groups,
		Pagination: ToPagination(g.Groups),
		Classes:    classes,
		Search:     g.Search,
		Class:      g.Class,
	}
}
