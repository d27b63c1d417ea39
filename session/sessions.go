package session

import (
	"membergate/bizerror"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

const TokenExpiration = 24 * time.Hour

// TokenCache is the session store: one Context per browser session token.
var TokenCache = cache.New(TokenExpiration, 1*time.Minute)

const KeySecCtx = "SecCtx"
const KeySecToken = "sec_token"

func FindSecurityContext(ctx *gin.Context) *Context {
	value, found := ctx.Get(KeySecCtx)
	if !found {
		return nil
	}
	secCtx, ok := value.(*Context)
	if !ok || secCtx.Token == "" {
		return nil
	}
	return secCtx
}

func SimpleAuthFilter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(KeySecToken)
		if err != nil {
			panic(bizerror.ErrUnauthenticated)
		}
		securityContextValue, found := TokenCache.Get(token)
		if !found {
			panic(bizerror.ErrUnauthenticated)
		}
		secCtx, ok := securityContextValue.(*Context)
		if !ok {
			panic(bizerror.ErrUnauthenticated)
		}
		SaveSecurityContext(ctx, secCtx)
		ctx.Next()
	}
}

// LoadSecurityContext reads the session from the token cookie without
// requiring one; nil means not logged in, a normal state.
func LoadSecurityContext(ctx *gin.Context) *Context {
	token, err := ctx.Cookie(KeySecToken)
	if err != nil || token == "" {
		return nil
	}
	value, found := TokenCache.Get(token)
	if !found {
		return nil
	}
	secCtx, ok := value.(*Context)
	if !ok || secCtx.Token == "" {
		return nil
	}
	return secCtx
}

func SaveSecurityContext(ctx *gin.Context, secCtx *Context) {
	if secCtx != nil && secCtx.Token != "" {
		ctx.Set(KeySecCtx, secCtx)
	}
}

// UpdateClientSession replaces the cached resolution results on the live
// session entry. The session is logically owned by one visitor's sequential
// requests; a concurrent tab simply overwrites (last write wins).
func UpdateClientSession(secCtx *Context, accessLevels, contractIDs, membershipIDs, serviceIDs []int) {
	if secCtx == nil || secCtx.Token == "" {
		return
	}
	secCtx.AccessLevels = accessLevels
	secCtx.ContractIDs = contractIDs
	secCtx.MembershipIDs = membershipIDs
	secCtx.ServiceIDs = serviceIDs
	TokenCache.Set(secCtx.Token, secCtx, cache.DefaultExpiration)
}
