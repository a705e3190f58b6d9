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

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// facilityHandlers are admin-only; the group is mounted behind
// adminOnlyMiddleware in main.
func facilityHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/facilities", func(ctx *gin.Context) {
			var body types.CreateFacilityRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user := middlewares.CurrentUser(ctx)
			db := db.GetDb()
			var facility models.Facility
			err := db.Transaction(func(tx *gorm.DB) error {
				var existing models.Facility
				err := tx.
					Model(&models.Facility{}).
					Where(&models.Facility{Name: body.Name}).
					First(&existing).
					Error
				if err == nil {
					return common.Conflict("a facility named %q already exists", body.Name)
				}
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return common.Internal(err)
				}
				facility = models.Facility{
					Name:          body.Name,
					Slug:          slug.Make(body.Name),
					Address:       body.Address,
					Capacity:      body.Capacity,
					FirstHourRate: decimal.NewFromFloat(body.FirstHourRate).Round(2),
					ExtraHourRate: decimal.NewFromFloat(body.ExtraHourRate).Round(2),
					DailyRate:     decimal.NewFromFloat(body.DailyRate).Round(2),
					AdminID:       user.ID,
				}
				if err := tx.Create(&facility).Error; err != nil {
					return common.Internal(err)
				}
				return nil
			})
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": facility})
		}).
		GET("/facilities", func(ctx *gin.Context) {
			user := middlewares.CurrentUser(ctx)
			adminIDs, err := common.VisibleAdminIDs(db.GetDb(), user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			facilities := []models.Facility{}
			if len(adminIDs) > 0 {
				err = db.GetDb().
					Model(&models.Facility{}).
					Scopes(scopes.OwnedBy(adminIDs...), scopes.ByIDAsc).
					Find(&facilities).
					Error
				if err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": facilities, "count": len(facilities)})
		}).
		GET("/facilities/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user := middlewares.CurrentUser(ctx)
			facility, err := findOwnedFacility(params.ID, user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": facility})
		}).
		PUT("/facilities/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateFacilityRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user := middlewares.CurrentUser(ctx)
			facility, err := findOwnedFacility(params.ID, user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}

			// Explicit allowlist; unknown fields never reach the row.
			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
				updates["slug"] = slug.Make(*body.Name)
			}
			if body.Address != nil {
				updates["address"] = *body.Address
			}
			if body.Capacity != nil {
				updates["capacity"] = *body.Capacity
			}
			if body.FirstHourRate != nil {
				updates["first_hour_rate"] = decimal.NewFromFloat(*body.FirstHourRate).Round(2)
			}
			if body.ExtraHourRate != nil {
				updates["extra_hour_rate"] = decimal.NewFromFloat(*body.ExtraHourRate).Round(2)
			}
			if body.DailyRate != nil {
				updates["daily_rate"] = decimal.NewFromFloat(*body.DailyRate).Round(2)
			}
			if len(updates) > 0 {
				err = db.GetDb().
					Model(&models.Facility{}).
					Scopes(scopes.WithID(facility.ID)).
					Updates(updates).
					Error
				if err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
			}
			var updated models.Facility
			db.GetDb().Scopes(scopes.WithID(facility.ID)).First(&updated)
			ctx.JSON(http.StatusOK, gin.H{"data": updated})
		}).
		DELETE("/facilities/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user := middlewares.CurrentUser(ctx)
			facility, err := findOwnedFacility(params.ID, user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			if err := db.GetDb().Delete(&models.Facility{}, facility.ID).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

func findOwnedFacility(id uint, user *models.User) (*models.Facility, error) {
	var facility models.Facility
	err := db.GetDb().
		Model(&models.Facility{}).
		Scopes(scopes.WithID(id)).
		First(&facility).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("facility [%d] not found", id)
		}
		return nil, common.Internal(err)
	}
	if err := common.CheckOwnership(user, facility.AdminID); err != nil {
		return nil, err
	}
	return &facility, nil
}
