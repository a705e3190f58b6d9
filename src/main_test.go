package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pms/src/common"
	"pms/src/config"
	"pms/src/db"
	"pms/src/models"
	"pms/src/types"
	"pms/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB     *gorm.DB
	Router *gin.Engine
	Config *config.Config
	Token  string
	Admin  models.User
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	registerValidators()

	gdb, err := gorm.Open(sqlite.Open("file:apitest?mode=memory&cache=shared"), &gorm.Config{})
	s.Require().NoError(err)
	sqlDB, err := gdb.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(gdb.AutoMigrate(
		&models.User{},
		&models.Facility{},
		&models.Event{},
		&models.Access{},
		&models.LedgerEntry{},
	))
	db.NewDB(gdb)
	s.DB = gdb

	s.Config = &config.Config{
		JWTSecret: []byte("api-test-secret"),
		TokenTTL:  time.Hour,
	}
	s.Router = setupRouter(s.Config, common.NewEngine(gdb, nil))

	hash, err := utils.HashPassword("sup3rsecret")
	s.Require().NoError(err)
	s.Admin = models.User{Name: "Ana", Username: "ana", Password: hash, Role: types.ROLE_ADMIN}
	s.Require().NoError(gdb.Create(&s.Admin).Error)
}

func (s *TestSuite) request(method, target, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *TestSuite) Test01LoginIssuesToken() {
	w := s.request(http.MethodPost, "/token", "", gin.H{"username": "ana", "password": "sup3rsecret"})
	s.Equal(http.StatusOK, w.Code)
	token := gjson.Get(w.Body.String(), "access_token").String()
	s.NotEmpty(token)
	s.Equal("bearer", gjson.Get(w.Body.String(), "token_type").String())
	s.Token = token
}

func (s *TestSuite) Test02LoginRejectsBadPassword() {
	w := s.request(http.MethodPost, "/token", "", gin.H{"username": "ana", "password": "wrong"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *TestSuite) Test03RequestsWithoutTokenUnauthorized() {
	w := s.request(http.MethodGet, "/api/v1/accesses", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *TestSuite) Test04EntryAndExitFlow() {
	w := s.request(http.MethodPost, "/api/v1/facilities", s.Token, gin.H{
		"name":            "Central Lot",
		"address":         "100 Main St",
		"capacity":        2,
		"first_hour_rate": 15.0,
		"extra_hour_rate": 7.5,
		"daily_rate":      60.0,
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	facilityID := gjson.Get(w.Body.String(), "data.id").Uint()
	s.Equal("central-lot", gjson.Get(w.Body.String(), "data.slug").String())

	w = s.request(http.MethodPost, "/api/v1/accesses", s.Token, gin.H{
		"plate":    "ABC1D23",
		"facility": facilityID,
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	accessID := gjson.Get(w.Body.String(), "data.id").Uint()
	s.Equal("hourly", gjson.Get(w.Body.String(), "data.access_type").String())
	s.False(gjson.Get(w.Body.String(), "data.exited_at").Exists())

	// Backdate the entry so the stay bills as 2h30m.
	enteredAt := time.Now().UTC().Add(-(2*time.Hour + 30*time.Minute))
	s.Require().NoError(s.DB.
		Model(&models.Access{}).
		Where("id = ?", accessID).
		Update("entered_at", enteredAt).
		Error)

	w = s.request(http.MethodPut, fmt.Sprintf("/api/v1/accesses/%d/exit", accessID), s.Token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("hourly", gjson.Get(w.Body.String(), "data.access_type").String())

	var closed models.Access
	s.Require().NoError(s.DB.First(&closed, accessID).Error)
	s.Require().NotNil(closed.Fee)
	s.Equal("30.00", closed.Fee.StringFixed(2))
	s.NotNil(closed.ExitedAt)

	var entries []models.LedgerEntry
	s.Require().NoError(s.DB.Where("access_id = ?", accessID).Find(&entries).Error)
	s.Len(entries, 1)
	s.Equal("30.00", entries[0].Amount.StringFixed(2))

	// A second exit must fail and leave the record untouched.
	w = s.request(http.MethodPut, fmt.Sprintf("/api/v1/accesses/%d/exit", accessID), s.Token, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TestSuite) Test05CapacityExceededOverHTTP() {
	w := s.request(http.MethodPost, "/api/v1/facilities", s.Token, gin.H{
		"name":            "Tiny Lot",
		"capacity":        1,
		"first_hour_rate": 10.0,
		"extra_hour_rate": 5.0,
		"daily_rate":      50.0,
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	facilityID := gjson.Get(w.Body.String(), "data.id").Uint()

	w = s.request(http.MethodPost, "/api/v1/accesses", s.Token, gin.H{"plate": "XXX0A00", "facility": facilityID})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.request(http.MethodPost, "/api/v1/accesses", s.Token, gin.H{"plate": "YYY0B11", "facility": facilityID})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(gjson.Get(w.Body.String(), "error").String(), "full")
}

func (s *TestSuite) Test06EventOverlapConflictOverHTTP() {
	w := s.request(http.MethodPost, "/api/v1/facilities", s.Token, gin.H{
		"name":            "Stadium Lot",
		"capacity":        100,
		"first_hour_rate": 10.0,
		"extra_hour_rate": 5.0,
		"daily_rate":      50.0,
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	facilityID := gjson.Get(w.Body.String(), "data.id").Uint()

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	w = s.request(http.MethodPost, "/api/v1/events", s.Token, gin.H{
		"name":      "night game",
		"facility":  facilityID,
		"starts_at": day.Add(11 * time.Hour).Format(config.TIME_PARSE_FORMAT),
		"ends_at":   day.Add(13 * time.Hour).Format(config.TIME_PARSE_FORMAT),
		"flat_fee":  25.0,
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.request(http.MethodPost, "/api/v1/events", s.Token, gin.H{
		"name":      "matinee",
		"facility":  facilityID,
		"starts_at": day.Add(10 * time.Hour).Format(config.TIME_PARSE_FORMAT),
		"ends_at":   day.Add(12 * time.Hour).Format(config.TIME_PARSE_FORMAT),
	})
	s.Equal(http.StatusConflict, w.Code)
	s.Contains(gjson.Get(w.Body.String(), "error").String(), "night game")
}

func (s *TestSuite) Test07EventWindowValidation() {
	w := s.request(http.MethodPost, "/api/v1/events", s.Token, gin.H{
		"name":      "backwards",
		"facility":  1,
		"starts_at": "2025-06-01 13:00:00 +00:00",
		"ends_at":   "2025-06-01 11:00:00 +00:00",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TestSuite) Test08EmployeeWithoutAdminListsEmpty() {
	hash, err := utils.HashPassword("sup3rsecret")
	s.Require().NoError(err)
	orphan := models.User{Name: "Zoe", Username: "zoe", Password: hash, Role: types.ROLE_EMPLOYEE}
	s.Require().NoError(s.DB.Create(&orphan).Error)
	token, err := utils.GenerateJWT(s.Config, &orphan)
	s.Require().NoError(err)

	w := s.request(http.MethodGet, "/api/v1/accesses", token, nil)
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(0, gjson.Get(w.Body.String(), "count").Int())
}

func (s *TestSuite) Test09FacilityRoutesRequireAdmin() {
	adminID := s.Admin.ID
	hash, err := utils.HashPassword("sup3rsecret")
	s.Require().NoError(err)
	employee := models.User{Name: "Edu", Username: "edu", Password: hash, Role: types.ROLE_EMPLOYEE, AdminID: &adminID}
	s.Require().NoError(s.DB.Create(&employee).Error)
	token, err := utils.GenerateJWT(s.Config, &employee)
	s.Require().NoError(err)

	w := s.request(http.MethodGet, "/api/v1/facilities", token, nil)
	s.Equal(http.StatusForbidden, w.Code)

	// Employees may still register entries at their admin's facilities.
	var facility models.Facility
	s.Require().NoError(s.DB.Where("admin_id = ?", adminID).First(&facility).Error)
	w = s.request(http.MethodPost, "/api/v1/accesses", token, gin.H{"plate": "EMP1E23", "facility": facility.ID})
	s.Equal(http.StatusCreated, w.Code)
}

func (s *TestSuite) Test10EventUpdateRevalidatesWindow() {
	// Stadium Lot still holds "night game" [11:00, 13:00) from the
	// overlap test.
	var facility models.Facility
	s.Require().NoError(s.DB.Where("name = ?", "Stadium Lot").First(&facility).Error)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	w := s.request(http.MethodPost, "/api/v1/events", s.Token, gin.H{
		"name":      "afterparty",
		"facility":  facility.ID,
		"starts_at": day.Add(14 * time.Hour).Format(config.TIME_PARSE_FORMAT),
		"ends_at":   day.Add(16 * time.Hour).Format(config.TIME_PARSE_FORMAT),
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	eventID := gjson.Get(w.Body.String(), "data.id").Uint()

	// Rescheduling into another event's window is rejected.
	w = s.request(http.MethodPut, fmt.Sprintf("/api/v1/events/%d", eventID), s.Token, gin.H{
		"starts_at": day.Add(12 * time.Hour).Format(config.TIME_PARSE_FORMAT),
		"ends_at":   day.Add(15 * time.Hour).Format(config.TIME_PARSE_FORMAT),
	})
	s.Equal(http.StatusConflict, w.Code)
	s.Contains(gjson.Get(w.Body.String(), "error").String(), "night game")

	// An update that inverts the window is rejected.
	w = s.request(http.MethodPut, fmt.Sprintf("/api/v1/events/%d", eventID), s.Token, gin.H{
		"ends_at": day.Add(13 * time.Hour).Format(config.TIME_PARSE_FORMAT),
	})
	s.Equal(http.StatusBadRequest, w.Code)

	// Sliding into free space overlaps only the event's own old window.
	w = s.request(http.MethodPut, fmt.Sprintf("/api/v1/events/%d", eventID), s.Token, gin.H{
		"starts_at": day.Add(15 * time.Hour).Format(config.TIME_PARSE_FORMAT),
		"ends_at":   day.Add(17 * time.Hour).Format(config.TIME_PARSE_FORMAT),
	})
	s.Equal(http.StatusOK, w.Code)
}

func (s *TestSuite) Test11EventDuplicateNameConflict() {
	var facility models.Facility
	s.Require().NoError(s.DB.Where("name = ?", "Stadium Lot").First(&facility).Error)

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	w := s.request(http.MethodPost, "/api/v1/events", s.Token, gin.H{
		"name":      "night game",
		"facility":  facility.ID,
		"starts_at": day.Add(11 * time.Hour).Format(config.TIME_PARSE_FORMAT),
		"ends_at":   day.Add(13 * time.Hour).Format(config.TIME_PARSE_FORMAT),
	})
	s.Equal(http.StatusConflict, w.Code)
	s.Contains(gjson.Get(w.Body.String(), "error").String(), "night game")
}

func TestSuiteRun(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
