package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"careerlink/domain"
	"careerlink/email"
	"careerlink/logs"
	"careerlink/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenIssuer signs user bearer tokens.
type TokenIssuer interface {
	GenerateJWT(userID uint, role string) (string, error)
}

type AuthService struct {
	db        *gorm.DB
	tokens    TokenIssuer
	mailer    email.Mailer
	saltRound int
}

func NewAuthService(db *gorm.DB, tokens TokenIssuer, mailer email.Mailer, saltRound int) *AuthService {
	if saltRound < bcrypt.MinCost {
		saltRound = bcrypt.DefaultCost
	}
	return &AuthService{db: db, tokens: tokens, mailer: mailer, saltRound: saltRound}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates a user. The role defaults to student and email is unique.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	mail := strings.ToLower(strings.TrimSpace(in.Email))
	role := in.Role
	if role == "" {
		role = models.RoleStudent
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", mail).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.saltRound)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    mail,
		Password: string(hash),
		Role:     role,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	logs.With("auth").WithField("user_id", user.ID).Info("user registered")
	email.SendWelcomeEmail(s.mailer, user.Email, user.Name)
	return &user, nil
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login checks credentials, issues a token and records where the login came from.
func (s *AuthService) Login(ctx context.Context, emailAddr, password, ip, device string) (*LoginResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(emailAddr))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	tracking := models.LoginTracking{UserID: user.ID, IPAddress: ip, Device: device, Timestamp: utcNow()}
	if err := s.db.WithContext(ctx).Create(&tracking).Error; err != nil {
		logs.With("auth").WithError(err).Warn("login tracking not recorded")
	}

	return &LoginResult{Token: token, User: &user}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// UpdateFCMToken binds a device token to the user. A device can only belong to one
// account, so the token is cleared from any other user first.
func (s *AuthService) UpdateFCMToken(ctx context.Context, userID uint, token string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("fcm_token = ? AND id <> ?", token, userID).
			Update("fcm_token", "").Error; err != nil {
			return err
		}
		res := tx.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", token)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("user")
		}
		return nil
	})
}

// LoginHistory lists the user's most recent logins.
func (s *AuthService) LoginHistory(ctx context.Context, userID uint, page, limit int) ([]models.LoginTracking, int64, error) {
	var (
		items []models.LoginTracking
		total int64
	)
	q := s.db.WithContext(ctx).Model(&models.LoginTracking{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("timestamp desc").Offset((page - 1) * limit).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateProfile changes the display name and, when photoURL is set, the profile photo.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, name, photoURL string) (*models.User, error) {
	cols := map[string]interface{}{}
	if name = strings.TrimSpace(name); name != "" {
		cols["name"] = name
	}
	if photoURL != "" {
		cols["photo_profile_url"] = photoURL
	}
	if len(cols) == 0 {
		return nil, domain.Invalid("no valid fields to update")
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFound("user")
	}
	return s.Me(ctx, userID)
}

// ListUsers pages through users, optionally of one role.
func (s *AuthService) ListUsers(ctx context.Context, role string, page, limit int) ([]models.User, int64, error) {
	var (
		users []models.User
		total int64
	)
	q := s.db.WithContext(ctx).Model(&models.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("id asc").Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetRole changes a user's role. It takes effect on the user's next login.
func (s *AuthService) SetRole(ctx context.Context, userID uint, role string) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFound("user")
	}
	return s.Me(ctx, userID)
}
