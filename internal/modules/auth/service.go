package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eduspace/core/internal/models"
	"github.com/eduspace/core/internal/modules/system/configs"
	sessionpkg "github.com/eduspace/core/internal/pkg/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	cfgSvc *configs.Service
}

func NewService(db *gorm.DB, cfgSvc *configs.Service) *Service {
	return &Service{db: db, cfgSvc: cfgSvc}
}

func (s *Service) Login(email, password, ip, ua string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			time.Sleep(3 * time.Second)
			return "", nil, errUserNotFound
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		time.Sleep(3 * time.Second)
		return "", nil, errWrongPassword
	}

	now := time.Now()
	_ = s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_time": &now,
		"last_login_ip":   ip,
	}).Error

	token, _, err := sessionpkg.Issue(s.db, u.ID, ip, ua, sessionpkg.DefaultTTL)
	return token, &u, err
}

// Register creates an account. The first account on a fresh install becomes
// admin; all later signups are students.
func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, error) {
	email := normalizeEmail(dto.Email)

	var count int64
	if err := s.db.Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return nil, err
	}

	if count > 0 {
		open, err := s.registrationOpen()
		if err != nil {
			return nil, err
		}
		if !open {
			return nil, errRegistrationClosed
		}

		var existing int64
		if err := s.db.Model(&models.UserModel{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			return nil, err
		}
		if existing > 0 {
			return nil, errEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := models.RoleStudent
	if count == 0 {
		role = models.RoleAdmin
	}

	u := models.UserModel{
		Email:    email,
		Password: string(hash),
		Name:     strings.TrimSpace(dto.Name),
		Role:     role,
	}
	return &u, s.db.Create(&u).Error
}

func (s *Service) GetProfile(userID string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) UpdateProfile(userID string, dto *UpdateProfileDTO) (*models.UserModel, error) {
	updates := map[string]interface{}{}
	if dto.Name != nil && strings.TrimSpace(*dto.Name) != "" {
		updates["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Avatar != nil {
		updates["avatar"] = *dto.Avatar
	}
	if len(updates) > 0 {
		if err := s.db.Model(&models.UserModel{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetProfile(userID)
}

// ChangeRole promotes or demotes a user (admin operation).
func (s *Service) ChangeRole(userID, role string) error {
	switch role {
	case models.RoleStudent, models.RoleInstructor, models.RoleAdmin:
	default:
		return errInvalidRole
	}
	res := s.db.Model(&models.UserModel{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Service) ListTokens(userID string) ([]models.APIToken, error) {
	var tokens []models.APIToken
	return tokens, s.db.Where("user_id = ? AND (expired_at IS NULL OR expired_at > ?)", userID, time.Now()).
		Order("created_at DESC").Find(&tokens).Error
}

func (s *Service) CreateToken(userID string, dto *CreateTokenDTO) (*models.APIToken, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	token := "txo" + hex.EncodeToString(b)

	t := models.APIToken{
		UserID:    userID,
		Token:     token,
		Name:      dto.Name,
		ExpiredAt: dto.ExpiredAt,
	}
	return &t, s.db.Create(&t).Error
}

func (s *Service) DeleteToken(userID, tokenID string) error {
	result := s.db.Where("id = ? AND user_id = ?", tokenID, userID).
		Delete(&models.APIToken{})
	if result.RowsAffected == 0 {
		return fmt.Errorf("token not found")
	}
	return result.Error
}

func (s *Service) registrationOpen() (bool, error) {
	if s.cfgSvc == nil {
		return true, nil
	}
	cfg, err := s.cfgSvc.Get()
	if err != nil {
		return false, err
	}
	if cfg == nil {
		return true, nil
	}
	return cfg.FeatureList.OpenRegistration, nil
}

func (s *Service) passwordLoginDisabled() (bool, error) {
	if s.cfgSvc == nil {
		return false, nil
	}
	cfg, err := s.cfgSvc.Get()
	if err != nil {
		return false, err
	}
	if cfg == nil {
		return false, nil
	}
	return cfg.AuthSecurity.DisablePasswordLogin, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
