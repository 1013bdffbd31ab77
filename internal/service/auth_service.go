package service

import (
	"errors"
	"ragbot_backend/internal/config"
	"ragbot_backend/internal/model"
	"ragbot_backend/internal/repository"
	"ragbot_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// SetupAdmin 创建首个管理员；系统只允许存在一个账号
func (s *AuthService) SetupAdmin(username, password string) error {
	count, err := s.UserRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return util.ErrAdminExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: username,
		Password: string(hashedPassword),
	}
	return s.UserRepo.Create(user)
}

func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", util.ErrInvalidCredentials
	}

	return util.GenerateJWT(user.Username, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

// IsSetup 前端据此决定显示安装向导还是登录表单
func (s *AuthService) IsSetup() (bool, error) {
	count, err := s.UserRepo.Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
