package store

import (
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"pixbank/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MemoryStore is the demo store variant. All state lives in process memory and
// is lost on restart. A mutex guards the maps; every returned struct is a copy
// so callers never alias internal state.
type MemoryStore struct {
	mu sync.RWMutex

	users        map[uint]*models.User
	transactions map[uint][]models.Transaction // per user, most recent first
	loans        map[uint]*models.Loan
	resets       map[uint]*models.PasswordReset
	logins       map[uint][]models.LoginTracking

	nextUserID  uint
	nextTxnID   uint
	nextLoanID  uint
	nextResetID uint
	nextLoginID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[uint]*models.User),
		transactions: make(map[uint][]models.Transaction),
		loans:        make(map[uint]*models.Loan),
		resets:       make(map[uint]*models.PasswordReset),
		logins:       make(map[uint][]models.LoginTracking),
	}
}

// SeedDemo loads the demo roster: one client with history and a pending loan,
// one agent and one admin. Every account logs in with password "123456".
func (s *MemoryStore) SeedDemo() {
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing demo password: %v", err)
		return
	}
	password := string(hash)

	joao := &models.User{
		Name:        "João Silva",
		Email:       "joao@email.com",
		CPF:         "123.456.789-00",
		Role:        models.RoleClient,
		Password:    password,
		Balance:     5420.50,
		CreditLimit: 10000,
	}
	ana := &models.User{
		Name:     "Ana Costa",
		Email:    "ana@email.com",
		CPF:      "987.654.321-00",
		Role:     models.RoleAgent,
		Password: password,
	}
	carlos := &models.User{
		Name:     "Carlos Admin",
		Email:    "admin@email.com",
		CPF:      "111.222.333-44",
		Role:     models.RoleAdmin,
		Password: password,
	}
	s.CreateUser(joao)
	s.CreateUser(ana)
	s.CreateUser(carlos)

	s.mu.Lock()
	defer s.mu.Unlock()

	history := []models.Transaction{
		{
			Kind:            models.TransactionKindPix,
			Amount:          -150.00,
			Description:     "Transferência para Maria",
			Category:        "Transferência",
			BalanceBefore:   5570.50,
			BalanceAfter:    5420.50,
			TransactionDate: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			Kind:            models.TransactionKindPayment,
			Amount:          -89.90,
			Description:     "Conta de luz",
			Category:        "Contas",
			BalanceBefore:   5660.40,
			BalanceAfter:    5570.50,
			TransactionDate: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			Kind:            models.TransactionKindDeposit,
			Amount:          2500.00,
			Description:     "Salário",
			Category:        "Recebimento",
			BalanceBefore:   3160.40,
			BalanceAfter:    5660.40,
			TransactionDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for i := range history {
		s.nextTxnID++
		history[i].ID = s.nextTxnID
		history[i].UserID = joao.ID
		history[i].Reference = uuid.NewString()
		history[i].CreatedAt = history[i].TransactionDate
	}
	s.transactions[joao.ID] = history

	s.nextLoanID++
	pending := &models.Loan{
		UserID:      joao.ID,
		ClientName:  joao.Name,
		Amount:      15000,
		Term:        24,
		Status:      models.LoanStatusPending,
		RequestDate: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
	}
	pending.ID = s.nextLoanID
	pending.CreatedAt = pending.RequestDate
	s.loans[pending.ID] = pending
}

func (s *MemoryStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Role == "" {
		user.Role = models.RoleClient
	}

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *MemoryStore) UserByID(id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByIDLocked(id)
}

func (s *MemoryStore) userByIDLocked(id uint) (*models.User, error) {
	user, ok := s.users[id]
	if !ok || user.IsDeleted {
		return nil, ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *MemoryStore) UserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if !user.IsDeleted && strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStore) UserByCPF(cpf string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if !user.IsDeleted && user.CPF == cpf {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStore) SaveUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *MemoryStore) DeleteUser(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok || user.IsDeleted {
		return ErrUserNotFound
	}
	user.IsDeleted = true
	user.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) Users(page, limit int, role string) ([]models.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []models.User
	for _, user := range s.users {
		if user.IsDeleted {
			continue
		}
		if role != "" && string(user.Role) != role {
			continue
		}
		all = append(all, *user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	return paginate(all, page, limit), total, nil
}

func (s *MemoryStore) CountByRole() (map[models.UserRole]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.UserRole]int64)
	for _, user := range s.users {
		if !user.IsDeleted {
			counts[user.Role]++
		}
	}
	return counts, nil
}

func (s *MemoryStore) RecordTransaction(userID uint, txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok || user.IsDeleted {
		return ErrUserNotFound
	}
	if txn.Amount < 0 && user.Balance+txn.Amount < 0 {
		return ErrInsufficientBalance
	}

	s.nextTxnID++
	txn.ID = s.nextTxnID
	txn.UserID = userID
	txn.BalanceBefore = user.Balance
	txn.BalanceAfter = user.Balance + txn.Amount
	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = time.Now()
	}
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = txn.CreatedAt

	// Most-recent-first, like the dashboard renders it.
	s.transactions[userID] = append([]models.Transaction{*txn}, s.transactions[userID]...)
	user.Balance = txn.BalanceAfter
	user.UpdatedAt = txn.CreatedAt
	return nil
}

func (s *MemoryStore) Transactions(userID uint, page, limit int, kind string) ([]models.Transaction, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []models.Transaction
	for _, txn := range s.transactions[userID] {
		if kind != "" && string(txn.Kind) != kind {
			continue
		}
		all = append(all, txn)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].TransactionDate.After(all[j].TransactionDate)
	})

	total := int64(len(all))
	return paginate(all, page, limit), total, nil
}

func (s *MemoryStore) SpendingByCategory(userID uint) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spending := make(map[string]float64)
	for _, txn := range s.transactions[userID] {
		if txn.Amount < 0 {
			spending[txn.Category] += -txn.Amount
		}
	}
	return spending, nil
}

func (s *MemoryStore) CreateLoan(loan *models.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextLoanID++
	loan.ID = s.nextLoanID
	loan.CreatedAt = time.Now()
	loan.UpdatedAt = loan.CreatedAt
	if loan.Status == "" {
		loan.Status = models.LoanStatusPending
	}
	if loan.RequestDate.IsZero() {
		loan.RequestDate = loan.CreatedAt
	}

	clone := *loan
	s.loans[loan.ID] = &clone
	return nil
}

func (s *MemoryStore) LoanByID(id uint) (*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loan, ok := s.loans[id]
	if !ok || loan.IsDeleted {
		return nil, ErrLoanNotFound
	}
	clone := *loan
	return &clone, nil
}

func (s *MemoryStore) LoansByUser(userID uint) ([]models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var loans []models.Loan
	for _, loan := range s.loans {
		if !loan.IsDeleted && loan.UserID == userID {
			loans = append(loans, *loan)
		}
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].CreatedAt.After(loans[j].CreatedAt) })
	return loans, nil
}

func (s *MemoryStore) LoansByStatus(statuses []models.LoanStatus, page, limit int) ([]models.Loan, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[models.LoanStatus]bool, len(statuses))
	for _, status := range statuses {
		wanted[status] = true
	}

	var loans []models.Loan
	for _, loan := range s.loans {
		if !loan.IsDeleted && wanted[loan.Status] {
			loans = append(loans, *loan)
		}
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].CreatedAt.After(loans[j].CreatedAt) })

	total := int64(len(loans))
	return paginate(loans, page, limit), total, nil
}

func (s *MemoryStore) LoanStats() (map[models.LoanStatus]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[models.LoanStatus]int64)
	for _, loan := range s.loans {
		if !loan.IsDeleted {
			stats[loan.Status]++
		}
	}
	return stats, nil
}

func (s *MemoryStore) DecideLoan(loanID uint, status models.LoanStatus, decidedBy uint) (*models.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, ok := s.loans[loanID]
	if !ok || loan.IsDeleted {
		return nil, ErrLoanNotFound
	}
	if loan.Status != models.LoanStatusPending {
		return nil, ErrLoanAlreadyDecided
	}

	now := time.Now()

	if status == models.LoanStatusApproved {
		user, ok := s.users[loan.UserID]
		if !ok || user.IsDeleted {
			return nil, ErrUserNotFound
		}

		s.nextTxnID++
		credit := models.Transaction{
			UserID:          user.ID,
			Reference:       uuid.NewString(),
			Kind:            models.TransactionKindDeposit,
			Amount:          loan.Amount,
			Description:     "Crédito de empréstimo aprovado",
			Category:        "Empréstimo",
			BalanceBefore:   user.Balance,
			BalanceAfter:    user.Balance + loan.Amount,
			TransactionDate: now,
		}
		credit.ID = s.nextTxnID
		credit.CreatedAt = now
		credit.UpdatedAt = now

		s.transactions[user.ID] = append([]models.Transaction{credit}, s.transactions[user.ID]...)
		user.Balance = credit.BalanceAfter
		user.UpdatedAt = now
	}

	loan.Status = status
	loan.DecidedBy = decidedBy
	loan.DecidedAt = &now
	loan.UpdatedAt = now

	clone := *loan
	return &clone, nil
}

func (s *MemoryStore) CreatePasswordReset(reset *models.PasswordReset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextResetID++
	reset.ID = s.nextResetID
	reset.CreatedAt = time.Now()
	reset.UpdatedAt = reset.CreatedAt

	clone := *reset
	s.resets[reset.ID] = &clone
	return nil
}

func (s *MemoryStore) ActivePasswordReset(email, code string) (*models.PasswordReset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.PasswordReset
	for _, reset := range s.resets {
		if reset.IsDeleted || reset.IsUsed {
			continue
		}
		if !strings.EqualFold(reset.Email, email) || reset.Code != code {
			continue
		}
		if !reset.ExpiresAt.After(time.Now()) {
			continue
		}
		if latest == nil || reset.CreatedAt.After(latest.CreatedAt) {
			latest = reset
		}
	}
	if latest == nil {
		return nil, ErrResetNotFound
	}
	clone := *latest
	return &clone, nil
}

func (s *MemoryStore) MarkPasswordResetUsed(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reset, ok := s.resets[id]
	if !ok {
		return ErrResetNotFound
	}
	reset.IsUsed = true
	reset.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) PurgeExpiredPasswordResets(now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for _, reset := range s.resets {
		if reset.IsDeleted {
			continue
		}
		if reset.IsUsed || !reset.ExpiresAt.After(now) {
			reset.IsDeleted = true
			purged++
		}
	}
	return purged, nil
}

func (s *MemoryStore) RecordLogin(entry *models.LoginTracking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextLoginID++
	entry.ID = s.nextLoginID
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	if entry.Timestamp.IsZero() {
		entry.Timestamp = entry.CreatedAt
	}

	s.logins[entry.UserID] = append([]models.LoginTracking{*entry}, s.logins[entry.UserID]...)
	return nil
}

func (s *MemoryStore) LoginHistory(userID uint, page, limit int) ([]models.LoginTracking, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.logins[userID]
	total := int64(len(entries))
	return paginate(entries, page, limit), total, nil
}

func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-offset)
	copy(out, items[offset:end])
	return out
}
