package account

import (
	"context"
	"errors"
	"fmt"
	"lostfound/internal/common/enum"
	database "lostfound/internal/pkg/db"
	"lostfound/internal/pkg/helper"
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/validation"
	"lostfound/internal/service/account/model"
	"lostfound/internal/service/notification"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("Email already registered")
	ErrCampusIDTaken      = errors.New("Campus ID already registered")
	ErrInvalidCredentials = errors.New("Invalid credentials. Please try again.")
	ErrEmailNotVerified   = errors.New("Please verify your email before logging in.")
	ErrInvalidCode        = errors.New("Invalid verification code")
	ErrUserNotFound       = errors.New("User not found")
	ErrResetNotAllowed    = errors.New("Could not validate phone for reset. Please try again.")
)

type Service struct {
	db       *database.Database
	codes    *CodeStore
	notifier notification.INotifier
	auth     jwt.IJWTAuth
}

type IService interface {
	Register(ctx context.Context, input *model.RegisterInput) (*model.User, error)
	Authenticate(identifier, password string) (*model.User, error)
	Login(identifier, password string) (*model.LoginResult, error)
	Logout(claims map[string]interface{}) error
	VerifyEmail(email, code string) error
	ResendEmailCode(ctx context.Context, email string) error
	RequestPhoneReset(ctx context.Context, phone string) error
	VerifyPhoneCode(phone, code string) (string, error)
	ResetPassword(phone, token, password string) error
	GetByID(id uint) (*model.User, error)
}

func NewService(db *database.Database, codes *CodeStore, notifier notification.INotifier, auth jwt.IJWTAuth) IService {
	return &Service{db: db, codes: codes, notifier: notifier, auth: auth}
}

// Register creates an unverified user and sends the email code. The user
// is kept even if the code cannot be sent; it can be resent.
func (s *Service) Register(ctx context.Context, input *model.RegisterInput) (*model.User, error) {
	input.CampusID = strings.ToUpper(strings.TrimSpace(input.CampusID))
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	if err := validation.Validate(input); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&model.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}
	if err := s.db.Model(&model.User{}).Where("campus_id = ?", input.CampusID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCampusIDTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(input.Name),
		CampusID:     input.CampusID,
		Email:        input.Email,
		PasswordHash: string(hash),
		Department:   strings.TrimSpace(input.Department),
		Phone:        input.Phone,
	}
	if err := s.db.Create(user).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	_ = helper.HandleAppError(s.sendCode(ctx, enum.EMAIL_VERIFICATION, user.Email), "account.Register", "send email code", false)
	return user, nil
}

func (s *Service) sendCode(ctx context.Context, purpose enum.CodePurposeEnum, subject string) error {
	code, err := s.codes.Issue(purpose, subject)
	if err != nil {
		return err
	}
	return s.notifier.Notify(ctx, notification.CodeNotification(purpose, subject, code))
}

func (s *Service) findOne(query string, args ...interface{}) (*model.User, error) {
	var user model.User
	if err := s.db.Where(query, args...).First(&user).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate checks a campus id or email with its password. An
// unverified account is returned together with ErrEmailNotVerified.
func (s *Service) Authenticate(identifier, password string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)
	var user *model.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.findOne("email = ?", strings.ToLower(identifier))
	} else {
		user, err = s.findOne("campus_id = ?", strings.ToUpper(identifier))
	}
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return user, ErrEmailNotVerified
	}
	return user, nil
}

// Login authenticates and issues a session token. For an unverified
// account the result carries the user and no token.
func (s *Service) Login(identifier, password string) (*model.LoginResult, error) {
	user, err := s.Authenticate(identifier, password)
	if errors.Is(err, ErrEmailNotVerified) {
		return &model.LoginResult{User: user}, err
	}
	if err != nil {
		return nil, err
	}
	token, exp, err := s.auth.GenerateToken(map[string]interface{}{
		jwt.ClaimUserID:   user.ID,
		jwt.ClaimCampusID: user.CampusID,
		jwt.ClaimName:     user.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.LoginResult{Token: token, ExpiresAt: *exp, User: user}, nil
}

func (s *Service) Logout(claims map[string]interface{}) error {
	if claims == nil {
		return nil
	}
	return s.auth.Revoke(claims)
}

func (s *Service) VerifyEmail(email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.findOne("email = ?", email)
	if err != nil {
		return err
	}
	ok, err := s.codes.Check(enum.EMAIL_VERIFICATION, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}
	return s.db.Model(user).Update("email_verified", true).Error
}

func (s *Service) ResendEmailCode(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.findOne("email = ?", email); err != nil {
		return err
	}
	return s.sendCode(ctx, enum.EMAIL_VERIFICATION, email)
}

func (s *Service) RequestPhoneReset(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if _, err := s.findOne("phone = ?", phone); err != nil {
		return err
	}
	return s.sendCode(ctx, enum.PHONE_RESET, phone)
}

// VerifyPhoneCode confirms a reset code and returns the token that
// authorizes ResetPassword for that phone.
func (s *Service) VerifyPhoneCode(phone, code string) (string, error) {
	phone = strings.TrimSpace(phone)
	user, err := s.findOne("phone = ?", phone)
	if err != nil {
		return "", err
	}
	ok, err := s.codes.Check(enum.PHONE_RESET, phone, code)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidCode
	}
	if err := s.db.Model(user).Update("phone_verified", true).Error; err != nil {
		return "", err
	}

	token, err := helper.GenerateID()
	if err != nil {
		return "", err
	}
	if err := s.codes.Put(enum.PHONE_RESET_GRANT, phone, token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) ResetPassword(phone, token, password string) error {
	if !validation.IsPassword(password) {
		return errors.New(validation.MsgPassword)
	}
	phone = strings.TrimSpace(phone)
	ok, err := s.codes.Check(enum.PHONE_RESET_GRANT, phone, token)
	if err != nil {
		return err
	}
	if !ok {
		return ErrResetNotAllowed
	}
	user, err := s.findOne("phone = ?", phone)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.db.Model(user).Update("password_hash", string(hash)).Error
}

func (s *Service) GetByID(id uint) (*model.User, error) {
	return s.findOne("id = ?", id)
}
