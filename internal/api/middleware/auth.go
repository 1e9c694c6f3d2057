package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/questboard/questboard-api/internal/api/handler/v1/response"
	"github.com/questboard/questboard-api/internal/pkg/jwthelper"
)

const ContextClaimsKey = "claims"

var (
	errMissingAuthHeader = errors.New("authorization header missing")
	errMalformedHeader   = errors.New("authorization header must be a bearer token")
)

type Authenticator struct {
	key []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		key: []byte(signingKey),
	}
}

// VerifyJWT rejects the request unless it carries a valid bearer token and
// stores the verified claims in the context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			response.RenderErr(ctx, response.ErrUnauthenticated(errMissingAuthHeader))
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.RenderErr(ctx, response.ErrUnauthenticated(errMalformedHeader))
			return
		}

		claims, err := jwthelper.ParseToken(a.key, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthenticated(err))
			return
		}

		ctx.Set(ContextClaimsKey, claims)
		ctx.Next()
	}
}

func ClaimsFromContext(ctx *gin.Context) (*jwthelper.Claims, bool) {
	value, ok := ctx.Get(ContextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*jwthelper.Claims)

	return claims, ok && claims != nil
}
