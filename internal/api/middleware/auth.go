package middleware

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/openelect/ballot-pipeline/internal/api/shared/errors"
	"github.com/openelect/ballot-pipeline/internal/logger"
)

const (
	USER_ID_KEY    = "user_id"
	JWT_CLAIMS_KEY = "jwt_claims"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
}

// AuthResult holds the result of authentication
type AuthResult struct {
	Success bool
	Claims  *jwt.RegisteredClaims
	// UserID is the numeric user id resolved from the token subject
	UserID uint64
	Error  error
}

// Authenticate validates a Bearer token from the Authorization header.
// The token subject must be the numeric id of the submitting user.
func Authenticate(authHeader string, cfg AuthConfig) AuthResult {
	result := AuthResult{
		Success: false,
	}

	if authHeader == "" {
		result.Error = errors.New("missing Authorization header")
		return result
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		result.Error = errors.New("invalid Authorization header format, expected Bearer token")
		return result
	}

	claims, err := validateJWT(parts[1], cfg.JWTPublicKey)
	if err != nil {
		result.Error = err
		return result
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		result.Error = fmt.Errorf("token subject is not a valid user id: %q", claims.Subject)
		return result
	}

	result.Success = true
	result.Claims = claims
	result.UserID = userID
	return result
}

// Auth returns a gin middleware requiring a valid Bearer token.
// On success the resolved user id and claims are stored in the gin context.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		result := Authenticate(authHeader, cfg)

		if !result.Success {
			logger.Warn("Authentication failed",
				zap.Error(result.Error),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			apiErr := apierrors.NewUnauthorizedError("Authentication failed", result.Error.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiErr)
			return
		}

		c.Set(USER_ID_KEY, result.UserID)
		c.Set(JWT_CLAIMS_KEY, result.Claims)

		logger.Debug("Authentication successful",
			zap.String("path", c.Request.URL.Path),
			zap.Uint64("user_id", result.UserID),
		)

		c.Next()
	}
}

// UserID returns the authenticated user id stored by Auth
func UserID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(USER_ID_KEY)
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint64)
	return userID, ok
}

// validateJWT validates a JWT token with RSA signature and returns claims
func validateJWT(tokenString string, publicKeyPEM string) (*jwt.RegisteredClaims, error) {
	if publicKeyPEM == "" {
		return nil, errors.New("JWT public key not configured")
	}

	publicKey, err := parseRSAPublicKey(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	now := time.Now()

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(now) {
		return nil, errors.New("token has expired")
	}

	if claims.NotBefore != nil && claims.NotBefore.After(now) {
		return nil, errors.New("token not yet valid")
	}

	return claims, nil
}

// parseRSAPublicKey parses an RSA public key from PEM format
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	// Try parsing as PKIX (most common format)
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		// Try parsing as PKCS1 format
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}

	return rsaKey, nil
}
