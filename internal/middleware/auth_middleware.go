package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"revuverse-backend-go/internal/core"
	"revuverse-backend-go/internal/models"
)

// Context keys set by the authentication middleware.
const (
	ContextCallerKey      = "caller"
	ContextUserKey        = "user"
	ContextUserCreatedKey = "userCreated"
)

// ErrorResponse is the failure envelope written by the middlewares.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TokenVerifier turns a bearer token into the identity it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*core.Identity, error)
}

// FirebaseVerifier verifies Firebase ID tokens.
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier creates a verifier backed by the Firebase Auth client.
func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*core.Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	identity := &core.Identity{UserID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		identity.DisplayName = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		identity.PhotoURL = picture
	}
	return identity, nil
}

// JWTVerifier verifies HS256 tokens carrying the user id in the "user_id" claim.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for tokens signed with secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*core.Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, errors.New("token has no user_id claim")
	}
	identity := &core.Identity{UserID: userID}
	identity.Email, _ = claims["email"].(string)
	identity.FirstName, _ = claims["firstName"].(string)
	identity.LastName, _ = claims["lastName"].(string)
	return identity, nil
}

// AuthMiddleware authenticates bearer tokens and attaches the caller to the request.
type AuthMiddleware struct {
	verifier TokenVerifier
	users    core.UserService
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(verifier TokenVerifier, users core.UserService, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil || users == nil {
		panic("AuthMiddleware requires a token verifier and a user service")
	}
	return &AuthMiddleware{verifier: verifier, users: users, logger: logger}
}

// VerifyToken verifies the bearer token, loads (or creates) the user and stores the caller
// in the gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authorized, no token"})
			return
		}
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		identity, err := m.verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			m.logger.Debug("Rejected bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authorized, token failed"})
			return
		}

		user, created, err := m.users.GetOrCreate(c.Request.Context(), *identity)
		if err != nil {
			m.logger.Error("Failed to load authenticated user", zap.String("user_id", identity.UserID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserCreatedKey, created)
		c.Set(ContextCallerKey, models.Caller{UserID: user.ID, Role: user.Role, Plan: user.Subscription})
		c.Next()
	}
}

// CallerFrom returns the caller stored by VerifyToken.
func CallerFrom(c *gin.Context) (models.Caller, bool) {
	v, ok := c.Get(ContextCallerKey)
	if !ok {
		return models.Caller{}, false
	}
	caller, ok := v.(models.Caller)
	return caller, ok
}
