package handler_test

import (
	"Lotus/dao"
	"Lotus/dao/cache"
	"Lotus/handler"
	"Lotus/models"
	"Lotus/pkg/database"
	"Lotus/pkg/database/dbtest"
	"Lotus/pkg/jwt"
	"Lotus/pkg/response"
	"Lotus/service"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret     = "handler-secret"
	testAdminToken = "admin-token"
)

type apiResp struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type apiEnv struct {
	engine  *gin.Engine
	catalog *service.CatalogService
	balance *service.BalanceService
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.NewDB(t)
	conf := dbtest.Config(t)
	conf.Jwt.Secret = testSecret
	conf.App.AdminToken = testAdminToken
	tm := database.NewManager(db, conf)

	itemDAO := dao.NewItem(db)
	balance := &service.BalanceService{TxManager: tm, UserItemDAO: dao.NewUserItem(db), ItemDAO: itemDAO}
	catalog := &service.CatalogService{TxManager: tm, ItemDAO: itemDAO, ItemCache: cache.NewItemCache()}
	usage := &service.UsageService{TxManager: tm, ItemDAO: itemDAO, UsageHistoryDAO: dao.NewUsageHistory(db), Balance: balance}
	checkin := service.NewCheckinService(conf, tm, dao.NewActivity(db), dao.NewActivityRecord(db), itemDAO, balance, nil, nil)
	exchange := &service.ExchangeService{
		TxManager:         tm,
		ExchangeRuleDAO:   dao.NewExchangeRule(db),
		ExchangeRecordDAO: dao.NewExchangeRecord(db),
		ItemDAO:           itemDAO,
		Balance:           balance,
	}

	r := gin.New()
	api := r.Group("/api")
	(&handler.Backpack{Config: conf, BalanceService: balance, UsageService: usage}).RegisterRouter(api)
	(&handler.Checkin{Config: conf, CheckinService: checkin}).RegisterRouter(api)
	(&handler.Exchange{Config: conf, ExchangeService: exchange}).RegisterRouter(api)
	(&handler.Item{Config: conf, CatalogService: catalog}).RegisterRouter(api)
	(&handler.Admin{Config: conf, ExchangeService: exchange, BalanceService: balance}).RegisterRouter(api)

	return &apiEnv{engine: r, catalog: catalog, balance: balance}
}

func (e *apiEnv) item(t *testing.T, name string, usable bool) *models.Item {
	t.Helper()
	item, err := e.catalog.FindOrCreate(context.Background(), models.Item{Name: name, IsUsable: usable})
	require.NoError(t, err)
	return item
}

func token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := jwt.GenerateToken([]byte(testSecret), userID, jwt.TokenTypeAccess, time.Hour)
	require.NoError(t, err)
	return tok
}

// do 发送请求；userID 为空时不带登录态
func (e *apiEnv) do(t *testing.T, method, path, userID string, body any, headers ...string) (int, apiResp) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, userID))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var resp apiResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func TestAuthRequired(t *testing.T) {
	env := newAPIEnv(t)

	status, resp := env.do(t, http.MethodGet, "/api/v1/backpack", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	status, _ = env.do(t, http.MethodGet, "/api/v1/backpack", "", nil, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCheckinFlow(t *testing.T) {
	env := newAPIEnv(t)

	status, resp := env.do(t, http.MethodPost, "/api/v1/checkin", "u1", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 0, resp.Code, resp.Msg)
	var reward struct {
		ItemName string `json:"item_name"`
		Balance  int64  `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &reward))
	assert.Equal(t, "莲子", reward.ItemName)
	assert.EqualValues(t, 10, reward.Balance)

	_, resp = env.do(t, http.MethodPost, "/api/v1/checkin", "u1", nil)
	assert.Equal(t, response.CodeAlreadyCheckedIn, resp.Code)

	_, resp = env.do(t, http.MethodGet, "/api/v1/checkin/status", "u1", nil)
	require.Equal(t, 0, resp.Code)
	var st struct {
		CanCheckIn bool  `json:"can_check_in"`
		TotalDays  int64 `json:"total_days"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &st))
	assert.False(t, st.CanCheckIn)
	assert.EqualValues(t, 1, st.TotalDays)
}

func TestUseItem(t *testing.T) {
	env := newAPIEnv(t)
	tea := env.item(t, "莲心茶", true)
	_, err := env.balance.Credit(context.Background(), "u1", tea.ID, 2)
	require.NoError(t, err)

	_, resp := env.do(t, http.MethodPost, "/api/v1/backpack/use", "u1", gin.H{"item_id": tea.ID, "quantity": 3})
	assert.Equal(t, response.CodeInsufficientBalance, resp.Code)
	var shortfall struct {
		Need int64 `json:"need"`
		Have int64 `json:"have"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &shortfall))
	assert.EqualValues(t, 3, shortfall.Need)
	assert.EqualValues(t, 2, shortfall.Have)

	_, resp = env.do(t, http.MethodPost, "/api/v1/backpack/use", "u1", gin.H{"item_id": tea.ID, "quantity": 0})
	assert.Equal(t, response.CodeInvalidParams, resp.Code)

	_, resp = env.do(t, http.MethodPost, "/api/v1/backpack/use", "u1", gin.H{"item_id": tea.ID, "quantity": 2})
	require.Equal(t, 0, resp.Code, resp.Msg)

	_, resp = env.do(t, http.MethodGet, "/api/v1/backpack/history?limit=5", "u1", nil)
	require.Equal(t, 0, resp.Code)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.EqualValues(t, 1, page.Total)

	_, resp = env.do(t, http.MethodGet, "/api/v1/backpack/"+itoa(tea.ID), "u1", nil)
	require.Equal(t, 0, resp.Code)
	var bal struct {
		Quantity int64 `json:"quantity"`
		Held     bool  `json:"held"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &bal))
	assert.EqualValues(t, 0, bal.Quantity)
	assert.True(t, bal.Held)
}

func TestAdminAndExchange(t *testing.T) {
	env := newAPIEnv(t)
	lotus := env.item(t, "莲子", false)
	tea := env.item(t, "莲心茶", true)
	rule := gin.H{"from_item_id": lotus.ID, "to_item_id": tea.ID, "from_quantity": 10, "to_quantity": 1}

	status, _ := env.do(t, http.MethodPost, "/api/v1/admin/exchange/rules", "", rule)
	assert.Equal(t, http.StatusForbidden, status)

	_, resp := env.do(t, http.MethodPost, "/api/v1/admin/exchange/rules", "", rule, "X-Admin-Token", testAdminToken)
	require.Equal(t, 0, resp.Code, resp.Msg)
	var created struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))

	_, resp = env.do(t, http.MethodPost, "/api/v1/admin/exchange/rules", "", rule, "X-Admin-Token", testAdminToken)
	assert.Equal(t, response.CodeRuleConflict, resp.Code)

	_, resp = env.do(t, http.MethodPost, "/api/v1/admin/balance/credit", "",
		gin.H{"user_id": "u1", "item_id": lotus.ID, "amount": 25}, "X-Admin-Token", testAdminToken)
	require.Equal(t, 0, resp.Code, resp.Msg)

	_, resp = env.do(t, http.MethodPost, "/api/v1/exchange", "u1", gin.H{"rule_id": created.ID, "repetitions": 2})
	require.Equal(t, 0, resp.Code, resp.Msg)
	var result struct {
		FromItemBalance int64 `json:"from_item_balance"`
		ToItemBalance   int64 `json:"to_item_balance"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.EqualValues(t, 5, result.FromItemBalance)
	assert.EqualValues(t, 2, result.ToItemBalance)

	_, resp = env.do(t, http.MethodPut, "/api/v1/admin/exchange/rules/"+itoa(created.ID), "",
		gin.H{"is_active": false}, "X-Admin-Token", testAdminToken)
	require.Equal(t, 0, resp.Code, resp.Msg)

	_, resp = env.do(t, http.MethodPost, "/api/v1/exchange", "u1", gin.H{"rule_id": created.ID})
	assert.Equal(t, response.CodeRuleInactive, resp.Code)

	_, resp = env.do(t, http.MethodGet, "/api/v1/exchange/rules", "u1", nil)
	require.Equal(t, 0, resp.Code)
	var active struct {
		Rules []json.RawMessage `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &active))
	assert.Empty(t, active.Rules)

	_, resp = env.do(t, http.MethodDelete, "/api/v1/admin/exchange/rules/"+itoa(created.ID), "", nil, "X-Admin-Token", testAdminToken)
	require.Equal(t, 0, resp.Code)
	_, resp = env.do(t, http.MethodDelete, "/api/v1/admin/exchange/rules/"+itoa(created.ID), "", nil, "X-Admin-Token", testAdminToken)
	assert.Equal(t, response.CodeRuleNotFound, resp.Code)

	_, resp = env.do(t, http.MethodPut, "/api/v1/admin/exchange/rules/abc", "", gin.H{}, "X-Admin-Token", testAdminToken)
	assert.Equal(t, response.CodeInvalidParams, resp.Code)
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
