package middlewares

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"pms/src/config"
	"pms/src/db"
	"pms/src/lib"
	"pms/src/models"
	"pms/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token, rejects tokens revoked via
// logout, and loads the calling user onto the context. The signing key
// comes from the injected config, never from package state.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		bearerToken := ctx.Request.Header.Get("Authorization")
		if !strings.HasPrefix(bearerToken, "Bearer ") {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		reqToken := strings.Split(bearerToken, " ")[1]
		if reqToken == "" {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		claims := &types.Claims{}
		tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
			return cfg.JWTSecret, nil
		})
		if err != nil {
			log.Printf("token error: %s\n", err.Error())
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !tkn.Valid {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if rd := lib.GetRedisClient(cfg.RedisHost); rd != nil && claims.ID != "" {
			if n, err := rd.Exists(ctx, "revoked:"+claims.ID).Result(); err == nil && n > 0 {
				ctx.AbortWithStatus(http.StatusUnauthorized)
				return
			}
		}

		uid, err := strconv.Atoi(claims.Subject)
		if err != nil {
			log.Println("error parsing claims:", err.Error())
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		var user models.User
		err = db.GetDb().
			Model(&models.User{}).
			Where(&models.User{ID: uint(uid)}).
			First(&user).
			Error
		if err != nil {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx.Set("id", user.ID)
		ctx.Set("username", user.Username)
		ctx.Set("role", string(user.Role))
		ctx.Set("user", &user)
	}
}

// CurrentUser pulls the authenticated user set by AuthMiddleware.
func CurrentUser(ctx *gin.Context) *models.User {
	v, ok := ctx.Get("user")
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
