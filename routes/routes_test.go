package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"cayo/config"
	"cayo/controllers"
	"cayo/models"
	"cayo/services/auth"
	"cayo/services/events"
	"cayo/services/policy"
	"cayo/store"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const password = "pass1234"

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Code      string          `json:"code"`
	Retriable bool            `json:"retriable"`
	Data      json.RawMessage `json:"data"`
}

type server struct {
	app   *fiber.App
	store *store.Memory
	clock *time.Time
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(n int) time.Time { return time.Date(2025, 1, n, 12, 0, 0, 0, time.UTC) }

func newServer(t *testing.T) *server {
	t.Helper()
	hasher := auth.NewBcrypt(bcrypt.MinCost)
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatal(err)
	}

	mem := store.NewMemory(&store.State{
		Accounts: []models.Account{
			{ID: "adm", Username: "root", Role: models.RoleAdmin, PasswordHash: hash, Active: true},
			{ID: "a1", Username: "agent1", Role: models.RoleAgent, CommissionRate: d("0.1"), PasswordHash: hash, Active: true},
			{ID: "a2", Username: "agent2", Role: models.RoleAgent, CommissionRate: d("0.2"), PasswordHash: hash, Active: true},
		},
		Players: []models.Player{
			{ID: "p1", AgentID: "a1", Name: "Leon", Level: 1, Balance: d("100")},
			{ID: "p2", AgentID: "a2", Name: "Bruno", Level: 2, Balance: d("50")},
		},
		Transactions: []models.Transaction{
			{ID: "t1", PlayerID: "p1", Type: models.TxDeposit, Status: models.TxSuccess, Amount: d("100"), CreatedAt: day(5)},
			{ID: "t2", PlayerID: "p2", Type: models.TxDeposit, Status: models.TxSuccess, Amount: d("50"), CreatedAt: day(6)},
		},
		Bets: []models.Bet{
			{ID: "b1", PlayerID: "p1", Sport: "football", Stake: d("100"), Odds: d("2"), Outcome: models.OutcomeLose, Payout: decimal.NewNullDecimal(d("0")), CreatedAt: day(10)},
			{ID: "b2", PlayerID: "p2", Sport: "tennis", Stake: d("50"), Odds: d("2"), Outcome: models.OutcomeWin, Payout: decimal.NewNullDecimal(d("100")), CreatedAt: day(11)},
		},
	})

	now := day(20)
	srv := &server{store: mem, clock: &now}
	clock := func() time.Time { return *srv.clock }

	codec := auth.NewCodec("test-secret", time.Hour).WithClock(clock)
	deps := controllers.Deps{
		Store:  mem,
		Auth:   auth.NewResolver(mem, hasher, codec, nil, zap.NewNop()),
		Events: events.Noop{},
		Log:    zap.NewNop(),
		Now:    clock,
	}
	srv.app = NewApp(config.Config{ServiceName: "cayo-test", PublicDir: t.TempDir() + "/none"}, deps, policy.MustNew())
	return srv
}

func (s *server) call(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func (s *server) login(t *testing.T, username string) string {
	t.Helper()
	status, env := s.call(t, "POST", "/api/auth/login", "", map[string]string{"username": username, "password": password})
	if status != 200 {
		t.Fatalf("login %s: %d %+v", username, status, env)
	}
	var sess struct {
		Token string `json:"accessToken"`
	}
	json.Unmarshal(env.Data, &sess)
	return sess.Token
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
	return v
}

type listing[T any] struct {
	Rows     []T `json:"rows"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

func expect(t *testing.T, what string, status int, env envelope, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus || env.Code != wantCode {
		t.Fatalf("%s: status %d code %q (%s), want %d %q", what, status, env.Code, env.Message, wantStatus, wantCode)
	}
}

func TestLoginAndMe(t *testing.T) {
	s := newServer(t)

	status, env := s.call(t, "POST", "/api/auth/login", "", map[string]string{"username": "agent1", "password": "wrong"})
	expect(t, "bad password", status, env, 401, "INVALID_CREDENTIALS")
	status, env = s.call(t, "POST", "/api/auth/login", "", map[string]string{"username": "ghost", "password": password})
	expect(t, "unknown user", status, env, 401, "INVALID_CREDENTIALS")

	tok := s.login(t, "agent1")
	status, env = s.call(t, "GET", "/api/auth/me", tok, nil)
	if status != 200 {
		t.Fatalf("me: %d", status)
	}
	me := decode[auth.Identity](t, env)
	if me.ID != "a1" || me.Role != models.RoleAgent || me.Username != "agent1" {
		t.Fatalf("me = %+v", me)
	}
}

func TestRejectsMissingInvalidAndExpiredCredentials(t *testing.T) {
	s := newServer(t)

	status, env := s.call(t, "GET", "/api/players", "", nil)
	expect(t, "missing", status, env, 401, "UNAUTHENTICATED")
	status, env = s.call(t, "GET", "/api/players", "not-a-token", nil)
	expect(t, "garbage", status, env, 401, "UNAUTHENTICATED")

	tok := s.login(t, "agent1")
	*s.clock = s.clock.Add(2 * time.Hour)
	status, env = s.call(t, "GET", "/api/summary", tok, nil)
	expect(t, "expired", status, env, 401, "UNAUTHENTICATED")
}

func TestAgentCannotWidenScope(t *testing.T) {
	s := newServer(t)
	agentTok := s.login(t, "agent1")
	adminTok := s.login(t, "root")

	_, env := s.call(t, "GET", "/api/players?agentId=a2", agentTok, nil)
	players := decode[listing[models.Player]](t, env)
	if players.Total != 1 || players.Rows[0].ID != "p1" {
		t.Fatalf("agent players = %+v", players)
	}

	_, env = s.call(t, "GET", "/api/bets?agentId=a2", agentTok, nil)
	bets := decode[listing[models.Bet]](t, env)
	if bets.Total != 1 || bets.Rows[0].ID != "b1" {
		t.Fatalf("agent bets = %+v", bets)
	}

	_, env = s.call(t, "GET", "/api/transactions", agentTok, nil)
	txs := decode[listing[models.Transaction]](t, env)
	if txs.Total != 1 || txs.Rows[0].ID != "t1" {
		t.Fatalf("agent transactions = %+v", txs)
	}

	_, env = s.call(t, "GET", "/api/players?agentId=a2", adminTok, nil)
	players = decode[listing[models.Player]](t, env)
	if players.Total != 1 || players.Rows[0].ID != "p2" {
		t.Fatalf("admin narrowed players = %+v", players)
	}

	_, env = s.call(t, "GET", "/api/accounts", agentTok, nil)
	accounts := decode[listing[models.Account]](t, env)
	if accounts.Total != 1 || accounts.Rows[0].ID != "a1" {
		t.Fatalf("agent accounts = %+v", accounts)
	}
}

type summary struct {
	PlayersCount   int             `json:"playersCount"`
	TotalStake     decimal.Decimal `json:"totalStake"`
	TotalPayout    decimal.Decimal `json:"totalPayout"`
	GGR            decimal.Decimal `json:"ggr"`
	Commission     decimal.Decimal `json:"commission"`
	TotalDeposits  decimal.Decimal `json:"totalDeposits"`
	TotalWithdraws decimal.Decimal `json:"totalWithdraws"`
}

func TestSummaryAndCommissions(t *testing.T) {
	s := newServer(t)

	_, env := s.call(t, "GET", "/api/summary", s.login(t, "root"), nil)
	all := decode[summary](t, env)
	if all.PlayersCount != 2 || !all.TotalStake.Equal(d("150")) || !all.GGR.Equal(d("50")) {
		t.Fatalf("admin summary = %+v", all)
	}
	// 100 * 0.1 + (-50) * 0.2
	if !all.Commission.Equal(d("0")) {
		t.Fatalf("admin commission = %s", all.Commission)
	}

	agentTok := s.login(t, "agent1")
	_, env = s.call(t, "GET", "/api/summary", agentTok, nil)
	mine := decode[summary](t, env)
	if mine.PlayersCount != 1 || !mine.GGR.Equal(d("100")) || !mine.Commission.Equal(d("10")) || !mine.TotalDeposits.Equal(d("100")) {
		t.Fatalf("agent summary = %+v", mine)
	}

	_, env = s.call(t, "GET", "/api/commissions?from=2025-01-11&to=2025-01-11", s.login(t, "root"), nil)
	rep := decode[struct {
		Agents     []struct{ AgentID string } `json:"agents"`
		Commission decimal.Decimal            `json:"commission"`
	}](t, env)
	if !rep.Commission.Equal(d("-10")) || len(rep.Agents) != 2 {
		t.Fatalf("windowed commission = %+v", rep)
	}

	_, env = s.call(t, "GET", "/api/commissions?agentId=a2", agentTok, nil)
	pinned := decode[struct {
		AgentID string `json:"agentId"`
		Agents  []struct {
			AgentID string `json:"agentId"`
		} `json:"agents"`
	}](t, env)
	if pinned.AgentID != "a1" || len(pinned.Agents) != 1 || pinned.Agents[0].AgentID != "a1" {
		t.Fatalf("agent commissions = %+v", pinned)
	}

	_, env = s.call(t, "GET", "/api/commissions?agentId=a2", s.login(t, "root"), nil)
	if narrowed := decode[struct {
		AgentID string `json:"agentId"`
	}](t, env); narrowed.AgentID != "a2" {
		t.Fatalf("admin commissions filter = %+v", narrowed)
	}

	_, env = s.call(t, "GET", "/api/commissions", s.login(t, "root"), nil)
	if unpinned := decode[struct {
		AgentID string `json:"agentId"`
	}](t, env); unpinned.AgentID != "" {
		t.Fatalf("admin commissions filter = %+v", unpinned)
	}

	status, env := s.call(t, "GET", "/api/commissions?from=2025-02-01&to=2025-01-01", agentTok, nil)
	expect(t, "reversed window", status, env, 400, "VALIDATION_ERROR")
}

func TestRolePermissions(t *testing.T) {
	s := newServer(t)
	agentTok := s.login(t, "agent1")
	adminTok := s.login(t, "root")

	newAgent := map[string]any{"username": "agent3", "password": password, "role": "agent", "commissionRate": 0.15}

	status, env := s.call(t, "POST", "/api/accounts", agentTok, newAgent)
	expect(t, "agent creates account", status, env, 403, "FORBIDDEN")
	status, env = s.call(t, "POST", "/api/bets/b1/settle", agentTok, map[string]string{"outcome": "win"})
	expect(t, "agent settles", status, env, 403, "FORBIDDEN")
	status, env = s.call(t, "GET", "/api/stats/wallet", agentTok, nil)
	expect(t, "agent reads wallet", status, env, 403, "FORBIDDEN")
	status, env = s.call(t, "PATCH", "/api/accounts/a2", agentTok, map[string]string{"name": "x"})
	expect(t, "agent patches another agent", status, env, 403, "FORBIDDEN")

	status, env = s.call(t, "POST", "/api/accounts", adminTok, newAgent)
	if status != 201 {
		t.Fatalf("admin create: %d %+v", status, env)
	}
	status, env = s.call(t, "POST", "/api/accounts", adminTok, newAgent)
	expect(t, "duplicate username", status, env, 409, "CONFLICT")

	if tok := s.login(t, "agent3"); tok == "" {
		t.Fatal("new agent cannot log in")
	}
}

func TestMoneyFlow(t *testing.T) {
	s := newServer(t)
	agentTok := s.login(t, "agent1")
	adminTok := s.login(t, "root")

	status, env := s.call(t, "POST", "/api/players/p1/transactions", agentTok, map[string]any{"type": "deposit", "amount": 50})
	if status != 201 {
		t.Fatalf("deposit: %d %+v", status, env)
	}
	status, env = s.call(t, "POST", "/api/players/p2/transactions", agentTok, map[string]any{"type": "deposit", "amount": 50})
	expect(t, "foreign player", status, env, 404, "NOT_FOUND")
	status, env = s.call(t, "POST", "/api/players/p1/transactions", agentTok, map[string]any{"type": "withdraw", "amount": 1000})
	expect(t, "overdraw", status, env, 400, "VALIDATION_ERROR")
	status, env = s.call(t, "POST", "/api/players/p1/transactions", agentTok, map[string]any{"type": "deposit", "amount": 0})
	expect(t, "zero amount", status, env, 400, "VALIDATION_ERROR")
	if env.Message != "INVALID_AMOUNT" {
		t.Fatalf("message = %q", env.Message)
	}

	status, env = s.call(t, "POST", "/api/players/p1/bets", agentTok, map[string]any{"sport": "football", "stake": 20, "odds": 3})
	if status != 201 {
		t.Fatalf("place bet: %d %+v", status, env)
	}
	placed := decode[models.Bet](t, env)

	status, env = s.call(t, "POST", "/api/bets/"+placed.ID+"/settle", adminTok, map[string]string{"outcome": "win"})
	if status != 200 {
		t.Fatalf("settle: %d %+v", status, env)
	}
	settled := decode[models.Bet](t, env)
	if !settled.Payout.Valid || !settled.Payout.Decimal.Equal(d("60")) {
		t.Fatalf("payout = %+v", settled.Payout)
	}
	status, env = s.call(t, "POST", "/api/bets/"+placed.ID+"/settle", adminTok, map[string]string{"outcome": "lose"})
	expect(t, "settle twice", status, env, 400, "VALIDATION_ERROR")

	_, env = s.call(t, "GET", "/api/players?q=leon", agentTok, nil)
	players := decode[listing[models.Player]](t, env)
	// 100 + 50 - 20 + 60
	if players.Total != 1 || !players.Rows[0].Balance.Equal(d("190")) {
		t.Fatalf("players = %+v", players)
	}

	_, env = s.call(t, "GET", "/api/stats/wallet", adminTok, nil)
	w := decode[models.Wallet](t, env)
	if !w.Amount.Equal(d("50")) {
		t.Fatalf("wallet = %s", w.Amount)
	}

	_, env = s.call(t, "GET", "/api/bets?playerId=p1", agentTok, nil)
	bets := decode[listing[models.Bet]](t, env)
	if bets.Total != 2 || bets.Rows[0].ID != placed.ID {
		t.Fatalf("bets newest first = %+v", bets)
	}
}

func TestPlayerManagement(t *testing.T) {
	s := newServer(t)
	agentTok := s.login(t, "agent1")
	adminTok := s.login(t, "root")

	status, env := s.call(t, "POST", "/api/players", agentTok, map[string]any{"name": "Ana", "agentId": "a2", "email": "ana@example.com"})
	if status != 201 {
		t.Fatalf("create: %d %+v", status, env)
	}
	p := decode[models.Player](t, env)
	if p.AgentID != "a1" {
		t.Fatalf("agent created a player for %s", p.AgentID)
	}

	status, env = s.call(t, "POST", "/api/players", adminTok, map[string]any{"name": "Ana"})
	expect(t, "admin without agent", status, env, 400, "VALIDATION_ERROR")
	status, env = s.call(t, "POST", "/api/players", agentTok, map[string]any{"name": "Bad", "email": "nope"})
	expect(t, "bad email", status, env, 400, "VALIDATION_ERROR")

	status, env = s.call(t, "PATCH", "/api/players/p2", agentTok, map[string]any{"level": 5})
	expect(t, "patch foreign player", status, env, 404, "NOT_FOUND")
	status, env = s.call(t, "PATCH", "/api/players/"+p.ID, agentTok, map[string]any{"level": 3})
	if status != 200 || decode[models.Player](t, env).Level != 3 {
		t.Fatalf("patch: %d %+v", status, env)
	}

	_, env = s.call(t, "GET", "/api/players?pageSize=1&page=2", adminTok, nil)
	page := decode[listing[models.Player]](t, env)
	// sorted by name: Ana, Bruno, Leon
	if page.Total != 3 || len(page.Rows) != 1 || page.Rows[0].Name != "Bruno" || page.PageSize != 1 {
		t.Fatalf("page = %+v", page)
	}
}

func TestStoreOutageIsRetriable(t *testing.T) {
	s := newServer(t)
	tok := s.login(t, "root")
	s.store.SetFailure(errors.New("disk gone"))

	status, env := s.call(t, "GET", "/api/players", tok, nil)
	expect(t, "outage", status, env, 503, "STORE_UNAVAILABLE")
	if !env.Retriable {
		t.Fatal("store outage should be retriable")
	}
}
