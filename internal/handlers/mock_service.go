package handlers

import (
	"context"
	"net/http"
	"time"

	"crema/internal/models"
	"crema/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockHistory struct {
	list      []models.ShotListItem
	listErr   error
	index     models.IndexData
	indexErr  error
	listCalls int
}

func (m *mockHistory) List(ctx context.Context) ([]models.ShotListItem, error) {
	m.listCalls++
	return m.list, m.listErr
}
func (m *mockHistory) Index(ctx context.Context) (models.IndexData, error) {
	return m.index, m.indexErr
}

type mockShots struct {
	rec        models.ShotRecord
	recErr     error
	analysis   models.TransformedShot
	analyzeErr error

	lastGetID     uint32
	lastAnalyzeID uint32
	lastCurve     bool
}

func (m *mockShots) Get(ctx context.Context, id uint32) (models.ShotRecord, error) {
	m.lastGetID = id
	return m.rec, m.recErr
}
func (m *mockShots) Analyze(ctx context.Context, id uint32, includeCurve bool) (models.TransformedShot, error) {
	m.lastAnalyzeID = id
	m.lastCurve = includeCurve
	return m.analysis, m.analyzeErr
}

type mockMachine struct {
	status models.MachineStatus
	err    error
}

func (m *mockMachine) Status(ctx context.Context) (models.MachineStatus, error) {
	return m.status, m.err
}

type mockEventLog struct {
	resp     []models.SyncEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.SyncEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
