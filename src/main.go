package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"reflect"
	"time"

	"pms/src/boot"
	"pms/src/common"
	"pms/src/config"
	"pms/src/controllers"
	"pms/src/middlewares"
	"pms/src/types"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

var eventDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	return err == nil
}

// gtdate requires the field to parse as a datetime strictly after the
// sibling field named by the tag param.
var gtdate validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	t, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	parent := fl.Parent()
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}
	otherField := parent.FieldByName(fl.Param())
	if !otherField.IsValid() {
		return false
	}
	otherDate, ok := otherField.Interface().(string)
	if !ok {
		return false
	}
	other, err := time.Parse(config.TIME_PARSE_FORMAT, otherDate)
	if err != nil {
		return false
	}
	return t.After(other)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("eventdate", eventDateValidatorFunc)
		v.RegisterValidation("gtdate", gtdate)
	}
}

func adminOnlyMiddleware(ctx *gin.Context) {
	if ctx.GetString("role") != string(types.ROLE_ADMIN) {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administrator role required"})
		return
	}
}

func setupRouter(cfg *config.Config, engine *common.Engine) *gin.Engine {
	router := gin.Default()

	router.POST("/token", func(ctx *gin.Context) {
		token, status, err := controllers.AuthLogin(cfg)(ctx)
		if err != nil {
			ctx.JSON(status, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(status, gin.H{"access_token": *token, "token_type": "bearer"})
	})

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware(cfg))
	{
		authorized.POST("/logout", func(ctx *gin.Context) {
			status, err := controllers.AuthLogout(cfg)(ctx)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(status)
		})

		accessHandlers(authorized, engine)
		eventHandlers(authorized, engine)
		userHandlers(authorized)
		dashboardHandlers(authorized)

		admin := authorized.Group("")
		admin.Use(adminOnlyMiddleware)
		facilityHandlers(admin)
	}

	return router
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	cfg := config.Load()
	gdb := boot.InitDb()
	boot.InitScheduler()

	engine := common.NewEngine(gdb, nil)

	registerValidators()
	router := setupRouter(cfg, engine)

	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowAllOrigins = true
		router.Use(cors.New(cc))
	}

	log.Fatal(router.Run(":" + cfg.Port))
}
