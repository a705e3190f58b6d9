package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"pms/src/common"
	"pms/src/config"
	"pms/src/db"
	"pms/src/middlewares"
	"pms/src/models"
	"pms/src/models/scopes"
	"pms/src/types"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func eventHandlers(g *gin.RouterGroup, engine *common.Engine) *gin.RouterGroup {
	g.
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			starts, _ := time.Parse(config.TIME_PARSE_FORMAT, body.StartsAt)
			ends, _ := time.Parse(config.TIME_PARSE_FORMAT, body.EndsAt)
			var flatFee *decimal.Decimal
			if body.FlatFee != nil {
				fee := decimal.NewFromFloat(*body.FlatFee).Round(2)
				flatFee = &fee
			}
			user := middlewares.CurrentUser(ctx)
			event, err := engine.CreateEvent(body.Name, body.FacilityID, starts.UTC(), ends.UTC(), flatFee, user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": event})
		}).
		GET("/events", func(ctx *gin.Context) {
			user := middlewares.CurrentUser(ctx)
			adminIDs, err := common.VisibleAdminIDs(db.GetDb(), user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			events := []models.Event{}
			if len(adminIDs) > 0 {
				err = db.GetDb().
					Model(&models.Event{}).
					Scopes(scopes.OwnedBy(adminIDs...), scopes.ByIDAsc).
					Find(&events).
					Error
				if err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user := middlewares.CurrentUser(ctx)
			event, err := findOwnedEvent(params.ID, user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		PUT("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user := middlewares.CurrentUser(ctx)
			event, err := findOwnedEvent(params.ID, user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}

			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
			}
			starts, ends := event.StartsAt, event.EndsAt
			if body.StartsAt != nil {
				t, _ := time.Parse(config.TIME_PARSE_FORMAT, *body.StartsAt)
				starts = t.UTC()
				updates["starts_at"] = starts
			}
			if body.EndsAt != nil {
				t, _ := time.Parse(config.TIME_PARSE_FORMAT, *body.EndsAt)
				ends = t.UTC()
				updates["ends_at"] = ends
			}
			// Rescheduling must keep the same invariants creation enforces.
			if body.StartsAt != nil || body.EndsAt != nil {
				if !ends.After(starts) {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "event must end after it starts"})
					return
				}
				existing, err := common.FindOverlappingEvent(db.GetDb(), event.FacilityID, event.AdminID, starts, ends, event.ID)
				if err != nil {
					ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
					return
				}
				if existing != nil {
					ctx.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("time conflict with event %q", existing.Name)})
					return
				}
			}
			if body.FlatFee != nil {
				updates["flat_fee"] = decimal.NewFromFloat(*body.FlatFee).Round(2)
			}
			if len(updates) > 0 {
				err = db.GetDb().
					Model(&models.Event{}).
					Scopes(scopes.WithID(event.ID)).
					Updates(updates).
					Error
				if err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
			}
			var updated models.Event
			db.GetDb().Scopes(scopes.WithID(event.ID)).First(&updated)
			ctx.JSON(http.StatusOK, gin.H{"data": updated})
		}).
		DELETE("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user := middlewares.CurrentUser(ctx)
			event, err := findOwnedEvent(params.ID, user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			if err := db.GetDb().Delete(&models.Event{}, event.ID).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

func findOwnedEvent(id uint, user *models.User) (*models.Event, error) {
	var event models.Event
	err := db.GetDb().
		Model(&models.Event{}).
		Scopes(scopes.WithID(id)).
		First(&event).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("event [%d] not found", id)
		}
		return nil, common.Internal(err)
	}
	if err := common.CheckOwnership(user, event.AdminID); err != nil {
		return nil, err
	}
	return &event, nil
}
