package service

import (
	"time"

	"entrybase/internal/contract"
	"entrybase/internal/domain/entity"
	"entrybase/internal/utils"
	"entrybase/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	FindAll() ([]*entity.User, error)
	FindByID(id int64) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Save(user *entity.User) error
}

type AuthService struct {
	UserRepo UserRepository
	Validate *validator.Validate
	Secret   []byte
	TokenTTL time.Duration
}

func NewAuthService(userRepo UserRepository, validate *validator.Validate, secret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Validate: validate,
		Secret:   secret,
		TokenTTL: tokenTTL,
	}
}

func (a *AuthService) Register(req *contract.RegisterRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	exists, err := a.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check email: %v", err)
		return nil, apierror.InternalServerError
	}
	if exists {
		return nil, apierror.ExistingEmailError
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	user := &entity.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hash),
		Role:      entity.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := a.UserRepo.Save(user); err != nil {
		log.Errorf("failed to save user: %v", err)
		return nil, apierror.InternalServerError
	}

	return a.authResponse(user)
}

func (a *AuthService) Login(req *contract.LoginRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	user, err := a.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.CredentialsMismatchError
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apierror.CredentialsMismatchError
	}

	return a.authResponse(user)
}

// Me echoes the resolved principal back to the client.
func (a *AuthService) Me(actor *entity.User) *contract.MeResponse {
	return &contract.MeResponse{User: ToUserResponse(actor)}
}

func (a *AuthService) authResponse(user *entity.User) (*contract.AuthResponse, apierror.ErrorResponse) {
	token, err := utils.SignToken(a.Secret, user.ID, string(user.Role), a.TokenTTL)
	if err != nil {
		log.Errorf("failed to sign token: %v", err)
		return nil, apierror.InternalServerError
	}

	return &contract.AuthResponse{
		Token: token,
		User:  ToUserResponse(user),
	}, nil
}

func ToUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
		UpdatedAt: utils.FormatEpoch(user.UpdatedAt),
	}
}
