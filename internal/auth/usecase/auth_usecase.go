package usecase

import (
	"context"
	"errors"
	"time"

	"aura-backend/internal/auth/config"
	"aura-backend/internal/auth/domain/model"
	"aura-backend/internal/auth/domain/repository"
	idmodel "aura-backend/internal/idgen/domain/model"
	idusecase "aura-backend/internal/idgen/usecase"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/eventbus"
	"aura-backend/internal/shared/logger"
)

// Messages returned to clients. Mobile clients match on some of these.
const (
	MsgOTPSent          = "OTP sent successfully"
	MsgPleaseRegister   = "Please register as a new user"
	MsgLoginSuccess     = "Login successfully"
	MsgUserCreated      = "User created successfully"
	MsgPhoneRegistered  = "This phone number is already registered"
	MsgProfileUpdated   = "Profile updated successfully"
	MsgLogoutSuccess    = "Logout successfully"
	msgInvalidOTP       = "Invalid OTP"
	msgOTPExpired       = "OTP expired"
	msgInvalidToken     = "Invalid token"
	msgTooManyAttempts  = "Too many attempts, request a new OTP"
	msgRevokedToken     = "Token has been revoked"
	msgInvalidOrExpired = "Invalid or expired token"
)

// OTPGenerator creates and checks one-time passwords.
type OTPGenerator interface {
	Generate() (string, error)
	Hash(code string) (string, error)
	Matches(hash, code string) bool
}

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	RequestOTP(ctx context.Context, req OTPRequest) (*OTPResult, error)
	LoginOrRegister(ctx context.Context, req LoginRequest) (*LoginResult, error)
	LoginByToken(ctx context.Context, token string) (*model.User, error)
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*CreateAccountResult, error)
	ValidateToken(ctx context.Context, token string) (*repository.Claims, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, req ProfileUpdateRequest) error
}

// OTPRequest asks for a code to be sent to a phone.
type OTPRequest struct {
	PhoneNo     string `json:"phoneNo" validate:"required,my_phone"`
	CountryCode string `json:"countryCode" validate:"required,country_code"`
}

// LoginRequest exchanges a code for a session.
type LoginRequest struct {
	PhoneNo     string `json:"phoneNo" validate:"required"`
	OTP         string `json:"otp" validate:"required"`
	CountryCode string `json:"countryCode" validate:"required,country_code"`
}

// TokenLoginRequest resumes a stored session.
type TokenLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

// CreateAccountRequest registers a new user.
type CreateAccountRequest struct {
	Name        string `json:"name" validate:"required"`
	PhoneNo     string `json:"phoneNo" validate:"required,my_phone"`
	CountryCode string `json:"countryCode" validate:"required,country_code"`
	Sex         string `json:"sex" validate:"required"`
	Avatar      string `json:"avatar,omitempty"`
}

// ProfileUpdateRequest is the body of /profile/update.
type ProfileUpdateRequest struct {
	Data ProfileData `json:"data" validate:"required"`
}

// ProfileData holds the editable fields. Avatar may be empty or null.
type ProfileData struct {
	Name   string  `json:"name" validate:"required"`
	Avatar *string `json:"avatar"`
	Sex    string  `json:"sex" validate:"required"`
}

// OTPResult carries the generated code when echoing is enabled.
type OTPResult struct {
	OTP string
}

// LoginResult is either a logged-in user or a request to register first.
type LoginResult struct {
	User             *model.User
	NeedRegistration bool
}

// CreateAccountResult is either a new user or a notice that the phone is taken.
type CreateAccountResult struct {
	User              *model.User
	AlreadyRegistered bool
}

// AuthUsecase implements the authentication logic.
type AuthUsecase struct {
	users     repository.UserRepository
	otps      repository.OTPStore
	blacklist repository.TokenBlacklist
	tokenSvc  repository.TokenService
	otpGen    OTPGenerator
	ids       idusecase.Allocator
	events    eventbus.Publisher
	config    *config.Config
	log       logger.Logger
	now       func() time.Time
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	users repository.UserRepository,
	otps repository.OTPStore,
	blacklist repository.TokenBlacklist,
	tokenSvc repository.TokenService,
	otpGen OTPGenerator,
	ids idusecase.Allocator,
	events eventbus.Publisher,
	cfg *config.Config,
	log logger.Logger,
) *AuthUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUsecase{
		users:     users,
		otps:      otps,
		blacklist: blacklist,
		tokenSvc:  tokenSvc,
		otpGen:    otpGen,
		ids:       ids,
		events:    events,
		config:    cfg,
		log:       log.WithComponent("auth"),
		now:       time.Now,
	}
}

// RequestOTP generates a code for the phone and stores its hash.
func (uc *AuthUsecase) RequestOTP(ctx context.Context, req OTPRequest) (*OTPResult, error) {
	code, err := uc.otpGen.Generate()
	if err != nil {
		return nil, apperrors.NewInternalError("Error sending OTP").WithCause(err)
	}
	hash, err := uc.otpGen.Hash(code)
	if err != nil {
		return nil, apperrors.NewInternalError("Error sending OTP").WithCause(err)
	}
	if err := uc.otps.Save(ctx, req.PhoneNo, hash, uc.config.OTPTTL); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"phoneNo": req.PhoneNo}).Info("OTP issued")

	res := &OTPResult{}
	if uc.config.OTPEcho {
		res.OTP = code
	}
	return res, nil
}

// LoginOrRegister verifies the OTP and opens a session. Unknown phones are
// told to register; the OTP is left in place so the client can retry after.
func (uc *AuthUsecase) LoginOrRegister(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := uc.users.GetByPhone(ctx, req.PhoneNo)
	if apperrors.IsNotFound(err) {
		return &LoginResult{NeedRegistration: true}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := uc.verifyOTP(ctx, req.PhoneNo, req.OTP); err != nil {
		return nil, err
	}

	token, err := uc.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	user.Token = token

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"userId": user.ID}).Info("User logged in")
	uc.publish(ctx, eventbus.EventTypeUserLoggedIn, user.ID)
	return &LoginResult{User: user}, nil
}

func (uc *AuthUsecase) verifyOTP(ctx context.Context, phoneNo, code string) error {
	hash, err := uc.otps.Get(ctx, phoneNo)
	if errors.Is(err, repository.ErrOTPNotFound) {
		return apperrors.NewValidationError(msgOTPExpired)
	}
	if err != nil {
		return err
	}

	if !uc.otpGen.Matches(hash, code) {
		failures, err := uc.otps.RecordFailure(ctx, phoneNo, uc.config.OTPTTL)
		if err != nil {
			return err
		}
		if failures >= int64(uc.config.OTPMaxAttempts) {
			if err := uc.otps.Delete(ctx, phoneNo); err != nil {
				return err
			}
			return apperrors.NewValidationError(msgTooManyAttempts)
		}
		return apperrors.NewValidationError(msgInvalidOTP)
	}
	return uc.otps.Delete(ctx, phoneNo)
}

func (uc *AuthUsecase) issueSession(ctx context.Context, user *model.User) (string, error) {
	token, err := uc.tokenSvc.GenerateToken(ctx, user.ID, user.PhoneNo)
	if err != nil {
		return "", apperrors.NewInternalError("failed to generate token").WithCause(err)
	}
	if err := uc.users.SetToken(ctx, user.ID, token); err != nil {
		return "", err
	}
	return token, nil
}

// LoginByToken returns the user whose current session is token.
func (uc *AuthUsecase) LoginByToken(ctx context.Context, token string) (*model.User, error) {
	if _, err := uc.ValidateToken(ctx, token); err != nil {
		return nil, apperrors.NewValidationError(msgInvalidToken)
	}
	user, err := uc.users.GetByToken(ctx, token)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewValidationError(msgInvalidToken)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAccount registers a phone number and logs the new user in.
func (uc *AuthUsecase) CreateAccount(ctx context.Context, req CreateAccountRequest) (*CreateAccountResult, error) {
	if _, err := uc.users.GetByPhone(ctx, req.PhoneNo); err == nil {
		return &CreateAccountResult{AlreadyRegistered: true}, nil
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	id, err := uc.ids.Allocate(ctx, idmodel.UserID)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:          id,
		PhoneNo:     req.PhoneNo,
		CountryCode: req.CountryCode,
		Name:        req.Name,
		Sex:         req.Sex,
		CreateAt:    uc.now().UTC(),
	}
	if req.Avatar != "" {
		avatar := req.Avatar
		user.Avatar = &avatar
	}
	token, err := uc.tokenSvc.GenerateToken(ctx, id, req.PhoneNo)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate token").WithCause(err)
	}
	user.Token = token

	if err := uc.users.Create(ctx, user); err != nil {
		// Lost a race with another registration for the same phone.
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return &CreateAccountResult{AlreadyRegistered: true}, nil
		}
		return nil, err
	}

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"userId": id}).Info("User created")
	return &CreateAccountResult{User: user}, nil
}

// ValidateToken verifies the signature and expiry and rejects revoked tokens.
func (uc *AuthUsecase) ValidateToken(ctx context.Context, token string) (*repository.Claims, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, token)
	if err != nil {
		return nil, apperrors.NewAuthorizationError(msgInvalidOrExpired).WithCause(err)
	}
	if claims.TokenID() != "" {
		revoked, err := uc.blacklist.IsRevoked(ctx, claims.TokenID())
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, apperrors.NewAuthorizationError(msgRevokedToken)
		}
	}
	return claims, nil
}

// Logout revokes the presented token and clears it from the user document.
func (uc *AuthUsecase) Logout(ctx context.Context, token string) error {
	claims, err := uc.ValidateToken(ctx, token)
	if err != nil {
		return err
	}
	if err := uc.blacklist.Revoke(ctx, claims.TokenID(), claims.Remaining(uc.now())); err != nil {
		return err
	}
	if err := uc.users.ClearToken(ctx, claims.UserID, token); err != nil {
		return err
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"userId": claims.UserID}).Info("User logged out")
	uc.publish(ctx, eventbus.EventTypeUserLoggedOut, claims.UserID)
	return nil
}

// GetProfile returns the caller's account with its chat and event maps.
func (uc *AuthUsecase) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// UpdateProfile overwrites the caller's name, sex and avatar.
func (uc *AuthUsecase) UpdateProfile(ctx context.Context, userID string, req ProfileUpdateRequest) error {
	avatar := req.Data.Avatar
	if avatar != nil && *avatar == "" {
		avatar = nil
	}
	profile := model.Profile{Name: req.Data.Name, Sex: req.Data.Sex, Avatar: avatar}
	if err := uc.users.UpdateProfile(ctx, userID, profile, uc.now().UTC()); err != nil {
		return err
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"userId": userID}).Info("Profile updated")
	return nil
}

func (uc *AuthUsecase) publish(ctx context.Context, eventType, userID string) {
	if uc.events == nil {
		return
	}
	uc.events.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventType, map[string]interface{}{"userId": userID}, "auth"))
}

var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
