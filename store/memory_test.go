package store

import (
	"testing"
	"time"

	"pixbank/models"

	"github.com/stretchr/testify/require"
)

func newMemoryClient(t *testing.T, balance float64) (*MemoryStore, *models.User) {
	t.Helper()
	st := NewMemoryStore()
	user := &models.User{
		Name:     "Cliente Teste",
		Email:    "cliente@email.com",
		CPF:      "123.456.789-00",
		Role:     models.RoleClient,
		Password: "hash",
		Balance:  balance,
	}
	require.NoError(t, st.CreateUser(user))
	return st, user
}

func TestMemoryRecordTransactionDebit(t *testing.T) {
	st, user := newMemoryClient(t, 100)

	txn := &models.Transaction{Kind: models.TransactionKindTransfer, Amount: -40, Category: "Transferência"}
	require.NoError(t, st.RecordTransaction(user.ID, txn))

	require.Equal(t, 100.0, txn.BalanceBefore)
	require.Equal(t, 60.0, txn.BalanceAfter)

	updated, err := st.UserByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, 60.0, updated.Balance)
}

func TestMemoryRecordTransactionInsufficientBalance(t *testing.T) {
	st, user := newMemoryClient(t, 100)

	txn := &models.Transaction{Kind: models.TransactionKindTransfer, Amount: -150}
	err := st.RecordTransaction(user.ID, txn)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// No state change: balance intact, ledger empty.
	updated, err := st.UserByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, updated.Balance)

	transactions, total, err := st.Transactions(user.ID, 1, 10, "")
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, transactions)
}

func TestMemoryRecordTransactionDeposit(t *testing.T) {
	st, user := newMemoryClient(t, 100)

	txn := &models.Transaction{Kind: models.TransactionKindDeposit, Amount: 50, Category: "Recebimento"}
	require.NoError(t, st.RecordTransaction(user.ID, txn))

	updated, err := st.UserByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, 150.0, updated.Balance)

	transactions, total, err := st.Transactions(user.ID, 1, 10, "")
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, 50.0, transactions[0].Amount)
}

func TestMemoryTransactionsMostRecentFirst(t *testing.T) {
	st, user := newMemoryClient(t, 1000)

	first := &models.Transaction{Kind: models.TransactionKindPayment, Amount: -10, TransactionDate: time.Now().Add(-2 * time.Hour)}
	second := &models.Transaction{Kind: models.TransactionKindPix, Amount: -20, TransactionDate: time.Now().Add(-1 * time.Hour)}
	third := &models.Transaction{Kind: models.TransactionKindDeposit, Amount: 30, TransactionDate: time.Now()}
	require.NoError(t, st.RecordTransaction(user.ID, first))
	require.NoError(t, st.RecordTransaction(user.ID, second))
	require.NoError(t, st.RecordTransaction(user.ID, third))

	transactions, _, err := st.Transactions(user.ID, 1, 10, "")
	require.NoError(t, err)
	require.Len(t, transactions, 3)
	require.Equal(t, models.TransactionKindDeposit, transactions[0].Kind)
	require.Equal(t, models.TransactionKindPix, transactions[1].Kind)
	require.Equal(t, models.TransactionKindPayment, transactions[2].Kind)

	// Kind filter
	deposits, total, err := st.Transactions(user.ID, 1, 10, "DEPOSIT")
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, deposits, 1)
}

func TestMemoryLoanApprovalCreditsOnce(t *testing.T) {
	st, user := newMemoryClient(t, 0)

	loan := &models.Loan{UserID: user.ID, ClientName: user.Name, Amount: 1000, Term: 12}
	require.NoError(t, st.CreateLoan(loan))
	require.Equal(t, models.LoanStatusPending, loan.Status)

	// No balance effect at request time.
	before, err := st.UserByID(user.ID)
	require.NoError(t, err)
	require.Zero(t, before.Balance)

	decided, err := st.DecideLoan(loan.ID, models.LoanStatusApproved, 99)
	require.NoError(t, err)
	require.Equal(t, models.LoanStatusApproved, decided.Status)
	require.EqualValues(t, 99, decided.DecidedBy)

	after, err := st.UserByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, 1000.0, after.Balance)

	// The credit shows up as a ledger entry.
	transactions, total, err := st.Transactions(user.ID, 1, 10, "")
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, 1000.0, transactions[0].Amount)

	// A second decision is a conflict and credits nothing.
	_, err = st.DecideLoan(loan.ID, models.LoanStatusApproved, 99)
	require.ErrorIs(t, err, ErrLoanAlreadyDecided)

	again, err := st.UserByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, 1000.0, again.Balance)
}

func TestMemoryLoanRejectionHasNoBalanceEffect(t *testing.T) {
	st, user := newMemoryClient(t, 250)

	loan := &models.Loan{UserID: user.ID, Amount: 5000, Term: 24}
	require.NoError(t, st.CreateLoan(loan))

	decided, err := st.DecideLoan(loan.ID, models.LoanStatusRejected, 7)
	require.NoError(t, err)
	require.Equal(t, models.LoanStatusRejected, decided.Status)

	after, err := st.UserByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, 250.0, after.Balance)

	// Rejected is terminal too.
	_, err = st.DecideLoan(loan.ID, models.LoanStatusApproved, 7)
	require.ErrorIs(t, err, ErrLoanAlreadyDecided)
}

func TestMemoryLoanLists(t *testing.T) {
	st, user := newMemoryClient(t, 0)

	for _, amount := range []float64{100, 200, 300} {
		require.NoError(t, st.CreateLoan(&models.Loan{UserID: user.ID, Amount: amount, Term: 12}))
	}
	_, err := st.DecideLoan(1, models.LoanStatusApproved, 1)
	require.NoError(t, err)
	_, err = st.DecideLoan(2, models.LoanStatusRejected, 1)
	require.NoError(t, err)

	pending, total, err := st.LoansByStatus([]models.LoanStatus{models.LoanStatusPending}, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, 300.0, pending[0].Amount)

	processed, total, err := st.LoansByStatus(
		[]models.LoanStatus{models.LoanStatusApproved, models.LoanStatusRejected}, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, processed, 2)

	stats, err := st.LoanStats()
	require.NoError(t, err)
	require.EqualValues(t, 1, stats[models.LoanStatusPending])
	require.EqualValues(t, 1, stats[models.LoanStatusApproved])
	require.EqualValues(t, 1, stats[models.LoanStatusRejected])
}

func TestMemorySpendingByCategory(t *testing.T) {
	st, user := newMemoryClient(t, 1000)

	require.NoError(t, st.RecordTransaction(user.ID, &models.Transaction{Kind: models.TransactionKindPayment, Amount: -80, Category: "Contas"}))
	require.NoError(t, st.RecordTransaction(user.ID, &models.Transaction{Kind: models.TransactionKindPayment, Amount: -20, Category: "Contas"}))
	require.NoError(t, st.RecordTransaction(user.ID, &models.Transaction{Kind: models.TransactionKindPix, Amount: -50, Category: "Transferência"}))
	require.NoError(t, st.RecordTransaction(user.ID, &models.Transaction{Kind: models.TransactionKindDeposit, Amount: 500, Category: "Recebimento"}))

	spending, err := st.SpendingByCategory(user.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, spending["Contas"])
	require.Equal(t, 50.0, spending["Transferência"])
	_, hasCredit := spending["Recebimento"]
	require.False(t, hasCredit)
}

func TestMemoryUserRoster(t *testing.T) {
	st := NewMemoryStore()
	require.NoError(t, st.CreateUser(&models.User{Name: "A", Email: "a@email.com", CPF: "111.111.111-11", Role: models.RoleClient, Password: "x"}))
	require.NoError(t, st.CreateUser(&models.User{Name: "B", Email: "b@email.com", CPF: "222.222.222-22", Role: models.RoleAgent, Password: "x"}))
	require.NoError(t, st.CreateUser(&models.User{Name: "C", Email: "c@email.com", CPF: "333.333.333-33", Role: models.RoleAdmin, Password: "x"}))

	users, total, err := st.Users(1, 10, "")
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, users, 3)

	agents, total, err := st.Users(1, 10, "AGENT")
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "B", agents[0].Name)

	require.NoError(t, st.DeleteUser(1))
	_, err = st.UserByID(1)
	require.ErrorIs(t, err, ErrUserNotFound)
	_, err = st.UserByEmail("a@email.com")
	require.ErrorIs(t, err, ErrUserNotFound)

	counts, err := st.CountByRole()
	require.NoError(t, err)
	require.EqualValues(t, 0, counts[models.RoleClient])
	require.EqualValues(t, 1, counts[models.RoleAgent])
	require.EqualValues(t, 1, counts[models.RoleAdmin])

	require.ErrorIs(t, st.DeleteUser(1), ErrUserNotFound)
}

func TestMemoryPasswordResetLifecycle(t *testing.T) {
	st, user := newMemoryClient(t, 0)

	reset := &models.PasswordReset{
		UserID:    user.ID,
		Email:     user.Email,
		Code:      "123456",
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}
	require.NoError(t, st.CreatePasswordReset(reset))

	found, err := st.ActivePasswordReset(user.Email, "123456")
	require.NoError(t, err)
	require.Equal(t, reset.ID, found.ID)

	_, err = st.ActivePasswordReset(user.Email, "654321")
	require.ErrorIs(t, err, ErrResetNotFound)

	require.NoError(t, st.MarkPasswordResetUsed(reset.ID))
	_, err = st.ActivePasswordReset(user.Email, "123456")
	require.ErrorIs(t, err, ErrResetNotFound)

	purged, err := st.PurgeExpiredPasswordResets(time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)
}

func TestMemorySeedDemo(t *testing.T) {
	st := NewMemoryStore()
	st.SeedDemo()

	joao, err := st.UserByEmail("joao@email.com")
	require.NoError(t, err)
	require.Equal(t, models.RoleClient, joao.Role)
	require.Equal(t, 5420.50, joao.Balance)
	require.Equal(t, 10000.0, joao.CreditLimit)

	transactions, total, err := st.Transactions(joao.ID, 1, 10, "")
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Equal(t, models.TransactionKindPix, transactions[0].Kind)
	require.Equal(t, joao.Balance, transactions[0].BalanceAfter)

	pending, totalLoans, err := st.LoansByStatus([]models.LoanStatus{models.LoanStatusPending}, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, totalLoans)
	require.Equal(t, joao.ID, pending[0].UserID)

	_, err = st.UserByEmail("ana@email.com")
	require.NoError(t, err)
	_, err = st.UserByEmail("admin@email.com")
	require.NoError(t, err)
}
