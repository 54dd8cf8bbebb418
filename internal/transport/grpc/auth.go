package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"salonbook/backend/internal/access"
	"salonbook/backend/internal/domain"
)

// Claims is the bearer token payload. Subject is the user id.
type Claims struct {
	UserType    string   `json:"user_type"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret []byte
	issuer string
}

func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer}
}

// Sign issues an HS256 token for claims.
func (a *Authenticator) Sign(claims Claims) (string, error) {
	if claims.Issuer == "" {
		claims.Issuer = a.issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Parse validates a raw token and builds the caller's AuthContext.
func (a *Authenticator) Parse(raw string) (domain.AuthContext, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return domain.AuthContext{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.AuthContext{}, errors.New("subject must be a UUID")
	}
	userType := domain.UserType(strings.ToUpper(claims.UserType))
	if !userType.Valid() {
		return domain.AuthContext{}, errors.New("unknown user_type")
	}

	return domain.AuthContext{
		UserID:              userID,
		UserType:            userType,
		Permissions:         access.ParsePermissions(claims.Permissions),
		ExplicitPermissions: len(claims.Permissions) > 0,
	}, nil
}

func (a *Authenticator) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		raw, err := bearerToken(ctx)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		auth, err := a.Parse(raw)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		return handler(WithAuth(ctx, auth), req)
	}
}

func bearerToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", errors.New("authorization is required")
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", errors.New("authorization is required")
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(values[0]), " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("authorization must be a bearer token")
	}
	return strings.TrimSpace(token), nil
}

type authKey struct{}

func WithAuth(ctx context.Context, auth domain.AuthContext) context.Context {
	return context.WithValue(ctx, authKey{}, auth)
}

func AuthFromContext(ctx context.Context) (domain.AuthContext, bool) {
	auth, ok := ctx.Value(authKey{}).(domain.AuthContext)
	return auth, ok
}

func requireAuth(ctx context.Context) (domain.AuthContext, error) {
	auth, ok := AuthFromContext(ctx)
	if !ok || auth.UserID == uuid.Nil {
		return domain.AuthContext{}, status.Error(codes.Unauthenticated, "authentication required")
	}
	return auth, nil
}
