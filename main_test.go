package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"pixbank/config"
	accountController "pixbank/controllers/account"
	adminController "pixbank/controllers/admin"
	authController "pixbank/controllers/auth"
	loanController "pixbank/controllers/loan"
	accountRoutes "pixbank/routers/accountRoutes"
	adminRoutes "pixbank/routers/adminRoutes"
	authRoutes "pixbank/routers/authRoutes"
	loanRoutes "pixbank/routers/loanRoutes"
	"pixbank/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		Port:      "3000",
		Store:     "memory",
		JWTKey:    "test-secret",
		SaltRound: 4,
	}
	os.Exit(m.Run())
}

// newTestApp wires the routes the same way main does, on a freshly seeded
// in-memory store.
func newTestApp() *fiber.App {
	st := store.NewMemoryStore()
	st.SeedDemo()

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app, authController.New(st))
	accountRoutes.SetupAccountRoutes(app, accountController.New(st))
	loanRoutes.SetupLoanRoutes(app, loanController.New(st), st)
	adminRoutes.SetupAdminRoutes(app, adminController.New(st), st)
	return app
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	status, resp := doRequest(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestLogin(t *testing.T) {
	app := newTestApp()

	status, resp := doRequest(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "joao@email.com",
		"password": "123456",
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, resp.Status)

	var data struct {
		Token string `json:"token"`
		User  struct {
			Name     string `json:"name"`
			Role     string `json:"role"`
			Password string `json:"password"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token)
	require.Equal(t, "João Silva", data.User.Name)
	require.Equal(t, "CLIENT", data.User.Role)
	require.Empty(t, data.User.Password)
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp()

	status, resp := doRequest(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "joao@email.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Wrong Password", resp.Message)
}

func TestLoginBlockedAfterThreeFailures(t *testing.T) {
	app := newTestApp()

	for i := 0; i < 3; i++ {
		status, _ := doRequest(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
			"email":    "joao@email.com",
			"password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, status)
	}

	// Correct password no longer works while the block holds.
	status, resp := doRequest(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "joao@email.com",
		"password": "123456",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Contains(t, resp.Message, "blocked")
}

func TestBalanceRequiresToken(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/account/balance", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBalance(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "joao@email.com", "123456")

	status, resp := doRequest(t, app, http.MethodGet, "/account/balance", token, nil)
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Balance     float64 `json:"balance"`
		CreditLimit float64 `json:"creditLimit"`
		Currency    string  `json:"currency"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Equal(t, 5420.50, data.Balance)
	require.Equal(t, 10000.0, data.CreditLimit)
	require.Equal(t, "BRL", data.Currency)
}

func TestRecordTransactionDebitAndDeposit(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "joao@email.com", "123456")

	status, resp := doRequest(t, app, http.MethodPost, "/account/transactions", token, fiber.Map{
		"kind":        "PIX",
		"amount":      420.50,
		"description": "Aluguel",
		"category":    "Moradia",
	})
	require.Equal(t, http.StatusOK, status)

	var debit struct {
		Amount        float64 `json:"amount"`
		BalanceBefore float64 `json:"balanceBefore"`
		BalanceAfter  float64 `json:"balanceAfter"`
		Reference     string  `json:"reference"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &debit))
	require.Equal(t, -420.50, debit.Amount)
	require.Equal(t, 5420.50, debit.BalanceBefore)
	require.Equal(t, 5000.0, debit.BalanceAfter)
	require.NotEmpty(t, debit.Reference)

	status, resp = doRequest(t, app, http.MethodPost, "/account/transactions", token, fiber.Map{
		"kind":   "DEPOSIT",
		"amount": 100.0,
	})
	require.Equal(t, http.StatusOK, status)

	var deposit struct {
		Amount       float64 `json:"amount"`
		BalanceAfter float64 `json:"balanceAfter"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &deposit))
	require.Equal(t, 100.0, deposit.Amount)
	require.Equal(t, 5100.0, deposit.BalanceAfter)
}

func TestRecordTransactionInsufficientBalance(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "joao@email.com", "123456")

	status, resp := doRequest(t, app, http.MethodPost, "/account/transactions", token, fiber.Map{
		"kind":   "TRANSFER",
		"amount": 999999.0,
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Insufficient balance!", resp.Message)

	// Balance unchanged.
	status, resp = doRequest(t, app, http.MethodGet, "/account/balance", token, nil)
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Balance float64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Equal(t, 5420.50, data.Balance)
}

func TestRecordTransactionValidation(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "joao@email.com", "123456")

	status, resp := doRequest(t, app, http.MethodPost, "/account/transactions", token, fiber.Map{
		"kind":   "CHEQUE",
		"amount": -10.0,
	})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, "Validation failed!", resp.Message)
}

func TestLoanRequestAndApproval(t *testing.T) {
	app := newTestApp()
	clientToken := login(t, app, "joao@email.com", "123456")

	status, resp := doRequest(t, app, http.MethodPost, "/loans/", clientToken, fiber.Map{
		"amount": 1000.0,
		"term":   12,
	})
	require.Equal(t, http.StatusCreated, status)

	var loan struct {
		ID     uint   `json:"ID"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &loan))
	require.Equal(t, "PENDING", loan.Status)

	agentToken := login(t, app, "ana@email.com", "123456")

	status, resp = doRequest(t, app, http.MethodGet, "/loans/pending", agentToken, nil)
	require.Equal(t, http.StatusOK, status)

	var pending struct {
		Loans []struct {
			ID uint `json:"ID"`
		} `json:"loans"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &pending))
	require.Len(t, pending.Loans, 2) // seeded request plus the new one

	path := fmt.Sprintf("/loans/%d/decision", loan.ID)
	status, resp = doRequest(t, app, http.MethodPatch, path, agentToken, fiber.Map{
		"decision": "approved",
	})
	require.Equal(t, http.StatusOK, status)

	var decided struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &decided))
	require.Equal(t, "APPROVED", decided.Status)

	// Balance credited with the loan amount.
	status, resp = doRequest(t, app, http.MethodGet, "/account/balance", clientToken, nil)
	require.Equal(t, http.StatusOK, status)

	var balance struct {
		Balance float64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &balance))
	require.Equal(t, 6420.50, balance.Balance)

	// A second decision conflicts and credits nothing.
	status, resp = doRequest(t, app, http.MethodPatch, path, agentToken, fiber.Map{
		"decision": "rejected",
	})
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "Loan has already been decided!", resp.Message)
}

func TestLoanInvalidTerm(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "joao@email.com", "123456")

	status, resp := doRequest(t, app, http.MethodPost, "/loans/", token, fiber.Map{
		"amount": 1000.0,
		"term":   13,
	})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, "Validation failed!", resp.Message)
}

func TestClientCannotDecideLoans(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "joao@email.com", "123456")

	status, _ := doRequest(t, app, http.MethodGet, "/loans/pending", token, nil)
	require.Equal(t, http.StatusForbidden, status)

	status, _ = doRequest(t, app, http.MethodPatch, "/loans/1/decision", token, fiber.Map{
		"decision": "approved",
	})
	require.Equal(t, http.StatusForbidden, status)
}

func TestAgentCannotAccessAdmin(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "ana@email.com", "123456")

	status, _ := doRequest(t, app, http.MethodGet, "/admin/stats", token, nil)
	require.Equal(t, http.StatusForbidden, status)
}

func TestAdminAddAndDeleteUser(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "admin@email.com", "123456")

	status, resp := doRequest(t, app, http.MethodPost, "/admin/users", token, fiber.Map{
		"name":     "Novo Cliente",
		"email":    "novo@email.com",
		"cpf":      "555.666.777-88",
		"password": "senha123",
		"role":     "CLIENT",
		"balance":  200.0,
	})
	require.Equal(t, http.StatusCreated, status)

	var created struct {
		ID   uint   `json:"ID"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	require.Equal(t, "Novo Cliente", created.Name)

	// The new user can log in right away.
	login(t, app, "novo@email.com", "senha123")

	status, _ = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/admin/users/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	// Deleted users cannot authenticate.
	status, _ = doRequest(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "novo@email.com",
		"password": "senha123",
	})
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestAdminDuplicateEmail(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "admin@email.com", "123456")

	status, resp := doRequest(t, app, http.MethodPost, "/admin/users", token, fiber.Map{
		"name":     "Outro João",
		"email":    "joao@email.com",
		"cpf":      "999.888.777-66",
		"password": "senha123",
		"role":     "CLIENT",
	})
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "Email is already registered!", resp.Message)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "admin@email.com", "123456")

	// Carlos is the third seeded user.
	status, resp := doRequest(t, app, http.MethodDelete, "/admin/users/3", token, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "You cannot delete your own account!", resp.Message)
}

func TestAdminStats(t *testing.T) {
	app := newTestApp()
	token := login(t, app, "admin@email.com", "123456")

	status, resp := doRequest(t, app, http.MethodGet, "/admin/stats", token, nil)
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Total   int64 `json:"total"`
		Clients int64 `json:"clients"`
		Agents  int64 `json:"agents"`
		Admins  int64 `json:"admins"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.EqualValues(t, 3, data.Total)
	require.EqualValues(t, 1, data.Clients)
	require.EqualValues(t, 1, data.Agents)
	require.EqualValues(t, 1, data.Admins)
}

func TestSignupAndMe(t *testing.T) {
	app := newTestApp()

	status, _ := doRequest(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name":     "Maria Souza",
		"email":    "maria@email.com",
		"cpf":      "12345678901",
		"password": "senha123",
	})
	require.Equal(t, http.StatusCreated, status)

	token := login(t, app, "maria@email.com", "senha123")

	status, resp := doRequest(t, app, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	var me struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &me))
	require.Equal(t, "Maria Souza", me.Name)
	require.Equal(t, "CLIENT", me.Role)
}
