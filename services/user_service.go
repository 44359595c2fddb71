package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"matchday/config"
	"matchday/models"
)

// UserService 用户服务
type UserService struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewUserService 创建用户服务，rdb可以为nil（不启用缓存）
func NewUserService(db *gorm.DB, rdb *redis.Client) *UserService {
	return &UserService{
		db:  db,
		rdb: rdb,
	}
}

// Register 用户注册
func (s *UserService) Register(username, password, email string) (*models.User, error) {
	// 检查用户名或邮箱是否已存在
	var existingUser models.User
	if err := s.db.Where("username = ? OR email = ?", username, email).First(&existingUser).Error; err == nil {
		return nil, errors.New("用户名或邮箱已存在")
	}

	// 哈希密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("密码加密失败")
	}

	newUser := models.User{
		Username: username,
		Password: string(hashedPassword),
		Email:    email,
		Avatar:   fmt.Sprintf("https://api.multiavatar.com/%s.png", username), // Default avatar
	}

	if err := s.db.Create(&newUser).Error; err != nil {
		return nil, errors.New("用户注册失败")
	}

	return &newUser, nil
}

// Login 用户登录
func (s *UserService) Login(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 比较密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.New("密码错误")
	}

	return &user, nil
}

// GetUserByID 根据ID获取用户，优先读取缓存
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User

	ctx := context.Background()
	key := fmt.Sprintf("user:%d", id)

	if s.rdb != nil {
		userJSON, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			// 缓存命中
			if err := json.Unmarshal([]byte(userJSON), &user); err == nil {
				return &user, nil
			}
		}
	}

	// 从数据库获取
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 更新缓存
	if s.rdb != nil {
		userBytes, _ := json.Marshal(user)
		s.rdb.Set(ctx, key, userBytes, time.Duration(config.AppConfig.CacheExpiration)*time.Second)
	}

	return &user, nil
}

// GetUserResponse 根据ID获取用户响应信息
func (s *UserService) GetUserResponse(id uint) (*models.UserResponse, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	return &models.UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Avatar:     user.Avatar,
		SkillLevel: user.SkillLevel,
	}, nil
}

// UpdateUser 更新用户资料
func (s *UserService) UpdateUser(id uint, email, avatar, skillLevel string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if email != "" {
		user.Email = email
	}
	if avatar != "" {
		user.Avatar = avatar
	}
	if skillLevel != "" {
		user.SkillLevel = skillLevel
	}
	user.UpdatedAt = time.Now()

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}

	// 资料变更后淘汰缓存
	if s.rdb != nil {
		s.rdb.Del(context.Background(), fmt.Sprintf("user:%d", id))
	}

	return &user, nil
}
