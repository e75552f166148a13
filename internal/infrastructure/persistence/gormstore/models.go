package gormstore

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel é o model GORM para usuários
type UserModel struct {
	ID           string  `gorm:"type:varchar(36);primaryKey"`
	Username     string  `gorm:"type:varchar(80);uniqueIndex;not null"`
	Email        string  `gorm:"type:varchar(120);uniqueIndex;not null"`
	PasswordHash string  `gorm:"type:varchar(255);not null"`
	FullName     *string `gorm:"type:varchar(100)"`
	Phone        *string `gorm:"type:varchar(20)"`
	Role         string  `gorm:"type:varchar(20);not null;default:user;index"`
	CreatedAt    int64   `gorm:"autoCreateTime:milli;index"`
	UpdatedAt    int64   `gorm:"autoUpdateTime:milli"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// PredictionModel é o model GORM do histórico de predições
type PredictionModel struct {
	ID               string  `gorm:"type:varchar(36);primaryKey"`
	UserID           string  `gorm:"type:varchar(36);not null;index"`
	PredictedClass   string  `gorm:"type:varchar(100);not null;index"`
	Confidence       float64 `gorm:"not null"`
	ImagePath        *string `gorm:"type:varchar(255)"`
	ImageBase64      *string `gorm:"type:text"`
	AllProbabilities string  `gorm:"type:text"`
	CreatedAt        int64   `gorm:"autoCreateTime:milli;index"`

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (PredictionModel) TableName() string {
	return "prediction_history"
}

func (m *PredictionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
