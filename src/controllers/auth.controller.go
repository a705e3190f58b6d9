package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"pms/src/config"
	"pms/src/db"
	"pms/src/lib"
	"pms/src/models"
	"pms/src/types"
	"pms/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthLogin verifies the password and issues a bearer token. The session
// snapshot is cached in redis when configured, keyed by user id for the
// token's lifetime.
func AuthLogin(cfg *config.Config) func(ctx *gin.Context) (*string, int, error) {
	return func(ctx *gin.Context) (*string, int, error) {
		var body types.LoginRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			return nil, http.StatusBadRequest, err
		}
		var user models.User
		err := db.GetDb().
			Model(&models.User{}).
			Where(&models.User{Username: body.Username}).
			First(&user).
			Error
		if err != nil {
			log.Printf("login failed: user %q not found\n", body.Username)
			return nil, http.StatusUnauthorized, errors.New("incorrect username or password")
		}
		if !utils.VerifyPassword(user.Password, body.Password) {
			log.Printf("login failed: bad password for user %q\n", body.Username)
			return nil, http.StatusUnauthorized, errors.New("incorrect username or password")
		}

		token, err := utils.GenerateJWT(cfg, &user)
		if err != nil {
			log.Printf("Error signing token for user [%d]: %s\n", user.ID, err.Error())
			return nil, http.StatusInternalServerError, errors.New("could not issue token")
		}

		if rd := lib.GetRedisClient(cfg.RedisHost); rd != nil {
			session, _ := json.Marshal(&user)
			if err := rd.Set(ctx, sessionKey(user.ID), session, cfg.TokenTTL).Err(); err != nil {
				log.Printf("[redis] Error updating session cache: %s\n", err.Error())
			}
		}

		return &token, http.StatusOK, nil
	}
}

// AuthLogout revokes the presented token until its natural expiry. A
// no-op without redis; short-lived tokens bound the exposure.
func AuthLogout(cfg *config.Config) func(ctx *gin.Context) (int, error) {
	return func(ctx *gin.Context) (int, error) {
		rd := lib.GetRedisClient(cfg.RedisHost)
		if rd == nil {
			return http.StatusNoContent, nil
		}
		bearerToken := ctx.Request.Header.Get("Authorization")
		reqToken := strings.TrimPrefix(bearerToken, "Bearer ")
		claims := &types.Claims{}
		if _, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
			return cfg.JWTSecret, nil
		}); err != nil {
			return http.StatusUnauthorized, err
		}
		ttl := cfg.TokenTTL
		if claims.ExpiresAt != nil {
			if until := time.Until(claims.ExpiresAt.Time); until > 0 {
				ttl = until
			}
		}
		if err := rd.Set(ctx, "revoked:"+claims.ID, "1", ttl).Err(); err != nil {
			log.Printf("[redis] Error revoking token: %s\n", err.Error())
			return http.StatusInternalServerError, err
		}
		rd.Del(ctx, sessionKey(ctx.GetUint("id")))
		return http.StatusNoContent, nil
	}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:%d", userID)
}
