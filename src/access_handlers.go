package main

import (
	"net/http"

	"pms/src/common"
	"pms/src/middlewares"
	"pms/src/types"

	"github.com/gin-gonic/gin"
)

func accessHandlers(g *gin.RouterGroup, engine *common.Engine) *gin.RouterGroup {
	g.
		POST("/accesses", func(ctx *gin.Context) {
			var body types.CreateAccessRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user := middlewares.CurrentUser(ctx)
			access, err := engine.RegisterEntry(body.Plate, body.FacilityID, user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": access})
		}).
		PUT("/accesses/:id/exit", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user := middlewares.CurrentUser(ctx)
			access, err := engine.RegisterExit(params.ID, user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": access})
		}).
		GET("/accesses", func(ctx *gin.Context) {
			user := middlewares.CurrentUser(ctx)
			accesses, err := engine.ListAccesses(user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": accesses, "count": len(accesses)})
		}).
		GET("/accesses/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user := middlewares.CurrentUser(ctx)
			access, err := engine.GetAccess(params.ID, user)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": access})
		})
	return g
}
