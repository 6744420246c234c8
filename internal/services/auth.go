package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/data/repos"
	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

const minPasswordLength = 8

type RegisterInput struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Name     string     `json:"name"`
	Role     types.Role `json:"role"`
	VendorID *uuid.UUID `json:"vendorId"`
}

type AuthService interface {
	// Register is the public sign-up. It only creates TRAINER accounts.
	Register(dbc dbctx.Context, in RegisterInput) (*types.User, error)
	// CreateUser adds an account on behalf of the authenticated caller.
	// VENDOR_ADMIN may only add vendor roles to its own vendor.
	CreateUser(dbc dbctx.Context, in RegisterInput) (*types.User, error)
	Login(dbc dbctx.Context, email, password string) (string, *types.User, error)
	Me(dbc dbctx.Context) (*types.User, error)
	ParseToken(tokenString string) (*ctxutil.RequestData, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	vendorRepo   repos.VendorRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	vendorRepo repos.VendorRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		vendorRepo:   vendorRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

type accessClaims struct {
	Role     string `json:"role"`
	VendorID string `json:"vendor_id,omitempty"`
	jwt.RegisteredClaims
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

func (as *authService) Register(dbc dbctx.Context, in RegisterInput) (*types.User, error) {
	role := in.Role
	if role == "" {
		role = types.RoleTrainer
	}
	if !role.Valid() {
		return nil, apierr.BadRequest("invalid_role", "unknown role %q", role)
	}
	if role != types.RoleTrainer || in.VendorID != nil {
		return nil, apierr.Forbidden("role_not_allowed", "only trainers can self-register; vendor accounts are created by a vendor admin")
	}
	in.Role = role
	return as.createUser(dbc, in)
}

func (as *authService) CreateUser(dbc dbctx.Context, in RegisterInput) (*types.User, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", "not authenticated")
	}
	if in.Role == "" {
		in.Role = types.RoleVendorUser
	}
	if !in.Role.Valid() {
		return nil, apierr.BadRequest("invalid_role", "unknown role %q", in.Role)
	}
	if in.Role == types.RoleSuperAdmin {
		return nil, apierr.Forbidden("role_not_allowed", "SUPER_ADMIN accounts cannot be created through the API")
	}

	switch types.Role(rd.Role) {
	case types.RoleSuperAdmin:
	case types.RoleVendorAdmin:
		if !isVendorRole(string(in.Role)) {
			return nil, apierr.Forbidden("role_not_allowed", "vendor admins can only add vendor users")
		}
		if rd.VendorID == nil {
			return nil, apierr.Forbidden("vendor_required", "caller is not attached to a vendor")
		}
		if in.VendorID == nil {
			in.VendorID = rd.VendorID
		}
		if *in.VendorID != *rd.VendorID {
			return nil, apierr.Forbidden("vendor_scope", "cannot add users to another vendor")
		}
	default:
		return nil, apierr.Forbidden("forbidden", "insufficient role")
	}
	return as.createUser(dbc, in)
}

func (as *authService) createUser(dbc dbctx.Context, in RegisterInput) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, apierr.BadRequest("invalid_email", "invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apierr.BadRequest("weak_password", "password must be at least %d characters", minPasswordLength)
	}
	role := in.Role
	if isVendorRole(string(role)) && in.VendorID == nil {
		return nil, apierr.BadRequest("vendor_required", "vendorId is required for vendor roles")
	}
	if !isVendorRole(string(role)) && in.VendorID != nil {
		return nil, apierr.BadRequest("vendor_not_allowed", "vendorId is only valid for vendor roles")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		Email:    email,
		Password: string(hash),
		Name:     strings.TrimSpace(in.Name),
		Role:     role,
		VendorID: in.VendorID,
	}
	err = dbc.Conn(as.db).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		exists, err := as.userRepo.EmailExists(inner, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return apierr.Conflict("email_taken", "email already registered")
		}
		if in.VendorID != nil {
			if _, err := as.vendorRepo.GetByID(inner, *in.VendorID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierr.BadRequest("vendor_not_found", "vendor %s does not exist", *in.VendorID)
				}
				return fmt.Errorf("load vendor: %w", err)
			}
		}
		if _, err := as.userRepo.Create(inner, []*types.User{user}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		if _, ok := apierr.As(err); !ok {
			as.log.Error("Create user failed", "error", err, "email", email)
		}
		return nil, err
	}
	as.log.Info("User created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (as *authService) Login(dbc dbctx.Context, email, password string) (string, *types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, apierr.BadRequest("missing_credentials", "email and password are required")
	}
	user, err := as.userRepo.GetByEmail(dbc, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apierr.Unauthorized("invalid_credentials", "invalid email or password")
		}
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apierr.Unauthorized("invalid_credentials", "invalid email or password")
	}
	tok, err := as.generateAccessToken(user)
	if err != nil {
		as.log.Error("Generate access token failed", "error", err, "user_id", user.ID)
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return tok, user, nil
}

func (as *authService) Me(dbc dbctx.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", "not authenticated")
	}
	user, err := as.userRepo.GetByID(dbc, rd.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Unauthorized("unauthorized", "user no longer exists")
		}
		return nil, err
	}
	return user, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := accessClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			ID:        uuid.NewString(),
		},
	}
	if user.VendorID != nil {
		claims.VendorID = user.VendorID.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
}

// ParseToken verifies signature and expiry and returns the caller identity.
func (as *authService) ParseToken(tokenString string) (*ctxutil.RequestData, error) {
	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, apierr.Unauthorized("invalid_token", "invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apierr.Unauthorized("invalid_token", "invalid subject")
	}
	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Role:        claims.Role,
	}
	if claims.VendorID != "" {
		vid, err := uuid.Parse(claims.VendorID)
		if err != nil {
			return nil, apierr.Unauthorized("invalid_token", "invalid vendor claim")
		}
		rd.VendorID = &vid
	}
	return rd, nil
}
