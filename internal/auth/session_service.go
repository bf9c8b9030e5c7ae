package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maxfil333/VinylVault/database/models"
	"github.com/maxfil333/VinylVault/database/repo/accounts"
	"github.com/maxfil333/VinylVault/database/repo/sessions"
	"github.com/maxfil333/VinylVault/utils"
	cryptopackage "github.com/maxfil333/VinylVault/utils/crypto"
)

// 会话令牌的随机字节数，base64 后约 43 字符
const sessionTokenBytes = 32

// ErrInvalidCredentials 用户名或密码不匹配
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUsernameTaken 用户名已被占用（透传仓库错误）
var ErrUsernameTaken = accounts.ErrUsernameTaken

// Service 会话服务 - 注册、登录、登出与会话解析
type Service struct {
	accountsRepo *accounts.Repository
	sessionsRepo *sessions.Repository
}

// NewService 创建新的会话服务
func NewService(accountsRepo *accounts.Repository, sessionsRepo *sessions.Repository) *Service {
	return &Service{
		accountsRepo: accountsRepo,
		sessionsRepo: sessionsRepo,
	}
}

// Result 注册/登录结果
type Result struct {
	User         *models.User
	SessionToken string
}

// Register 注册新用户并建立会话
// 用户名重复时返回 ErrUsernameTaken
func (s *Service) Register(username, password, email string) (*Result, error) {
	hashedPassword, err := cryptopackage.GenerateFromPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		UserID:   uuid.New().String(),
		Username: username,
		Password: hashedPassword,
		Email:    email,
	}

	if err := s.accountsRepo.CreateUser(user); err != nil {
		if errors.Is(err, accounts.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.establish(user)
}

// Login 校验凭据并建立会话
// 用户不存在或密码不匹配统一返回 ErrInvalidCredentials
func (s *Service) Login(username, password string) (*Result, error) {
	user, err := s.accountsRepo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := cryptopackage.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("password comparison failed: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.establish(user)
}

// Logout 删除会话，幂等
func (s *Service) Logout(sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	return s.sessionsRepo.DeleteSession(sessionToken)
}

// Resolve 将会话令牌解析为会话记录
// 查不到时返回 sessions.ErrSessionNotFound，调用方按未认证处理
func (s *Service) Resolve(sessionToken string) (*models.Session, error) {
	return s.sessionsRepo.GetSessionByID(sessionToken)
}

// establish 生成不透明令牌并写入会话记录
func (s *Service) establish(user *models.User) (*Result, error) {
	token, err := utils.GenerateRandomToken(sessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &models.Session{
		SessionID: token,
		UserID:    user.UserID,
		Username:  user.Username,
		LoginTime: time.Now(),
	}

	if err := s.sessionsRepo.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &Result{User: user, SessionToken: token}, nil
}
