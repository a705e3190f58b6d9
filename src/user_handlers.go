package main

import (
	"errors"
	"net/http"

	"pms/src/common"
	"pms/src/db"
	"pms/src/middlewares"
	"pms/src/models"
	"pms/src/models/scopes"
	"pms/src/types"
	"pms/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func userHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/users", func(ctx *gin.Context) {
			user := middlewares.CurrentUser(ctx)
			if user.Role != types.ROLE_ADMIN {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "only administrators can create users"})
				return
			}
			var body types.RegisterUserRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			role := body.Role
			if role == "" {
				role = types.ROLE_EMPLOYEE
			}
			hash, err := utils.HashPassword(body.Password)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
				return
			}
			db := db.GetDb()
			var created models.User
			err = db.Transaction(func(tx *gorm.DB) error {
				var existing models.User
				err := tx.
					Model(&models.User{}).
					Where(&models.User{Username: body.Username}).
					First(&existing).
					Error
				if err == nil {
					return common.Conflict("username %q is already registered", body.Username)
				}
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return common.Internal(err)
				}
				created = models.User{
					Name:     body.Name,
					Username: body.Username,
					Email:    body.Email,
					Password: hash,
					Role:     role,
				}
				if role == types.ROLE_EMPLOYEE {
					adminID := user.ID
					created.AdminID = &adminID
				}
				if err := tx.Create(&created).Error; err != nil {
					return common.Internal(err)
				}
				return nil
			})
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": created})
		}).
		GET("/users", func(ctx *gin.Context) {
			user := middlewares.CurrentUser(ctx)
			users := []models.User{}
			q := db.GetDb().Model(&models.User{}).Scopes(scopes.ByIDAsc)
			switch user.Role {
			case types.ROLE_ADMIN:
				q = q.Where("id = ? OR admin_id = ?", user.ID, user.ID)
			case types.ROLE_EMPLOYEE:
				q = q.Scopes(scopes.WithID(user.ID))
			default:
				ctx.JSON(http.StatusForbidden, gin.H{"error": "not authorized to list users"})
				return
			}
			if err := q.Find(&users).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": users, "count": len(users)})
		}).
		GET("/users/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user := middlewares.CurrentUser(ctx)
			target, err := findVisibleUser(params.ID, user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": target})
		}).
		PUT("/users/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateUserRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user := middlewares.CurrentUser(ctx)
			target, err := findVisibleUser(params.ID, user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}

			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
			}
			if body.Email != nil {
				updates["email"] = *body.Email
			}
			if body.Password != nil {
				hash, err := utils.HashPassword(*body.Password)
				if err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
					return
				}
				updates["password"] = hash
			}
			if len(updates) > 0 {
				err = db.GetDb().
					Model(&models.User{}).
					Scopes(scopes.WithID(target.ID)).
					Updates(updates).
					Error
				if err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
			}
			var updated models.User
			db.GetDb().Scopes(scopes.WithID(target.ID)).First(&updated)
			ctx.JSON(http.StatusOK, gin.H{"data": updated})
		}).
		DELETE("/users/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user := middlewares.CurrentUser(ctx)
			if user.Role != types.ROLE_ADMIN {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "only administrators can delete users"})
				return
			}
			target, err := findVisibleUser(params.ID, user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			if target.ID == user.ID {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
				return
			}
			if err := db.GetDb().Delete(&models.User{}, target.ID).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

// findVisibleUser applies the record-level visibility rules: admins see
// themselves and the employees they manage, employees see only themselves.
func findVisibleUser(id uint, user *models.User) (*models.User, error) {
	var target models.User
	err := db.GetDb().
		Model(&models.User{}).
		Scopes(scopes.WithID(id)).
		First(&target).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("user [%d] not found", id)
		}
		return nil, common.Internal(err)
	}
	switch user.Role {
	case types.ROLE_ADMIN:
		if target.ID != user.ID && (target.AdminID == nil || *target.AdminID != user.ID) {
			return nil, common.Forbidden("not authorized to view this user")
		}
	case types.ROLE_EMPLOYEE:
		if target.ID != user.ID {
			return nil, common.Forbidden("not authorized to view this user")
		}
	default:
		return nil, common.Forbidden("not authorized")
	}
	return &target, nil
}
