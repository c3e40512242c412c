package store

import (
	"fmt"
	"log"
	"time"

	"pixbank/config"
	"pixbank/models"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// GormStore is the persistent store variant.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an already opened gorm connection. Used by Open and by tests.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Open connects to the database selected by DB_DRIVER and runs migrations.
func Open(cfg *config.Config) (*GormStore, error) {
	var dialector gorm.Dialector

	switch cfg.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBName)
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort,
		)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.DBDriver, err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return NewGormStore(db), nil
}

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.Loan{},
		&models.PasswordReset{},
		&models.LoginTracking{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Migrations completed successfully.")
	return nil
}

func (s *GormStore) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *GormStore) UserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ? AND is_deleted = false", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) UserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_deleted = false", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) UserByCPF(cpf string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("cpf = ? AND is_deleted = false", cpf).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) SaveUser(user *models.User) error {
	return s.db.Save(user).Error
}

func (s *GormStore) DeleteUser(id uint) error {
	res := s.db.Model(&models.User{}).
		Where("id = ? AND is_deleted = false", id).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *GormStore) Users(page, limit int, role string) ([]models.User, int64, error) {
	offset := (page - 1) * limit

	query := s.db.Model(&models.User{}).Where("is_deleted = false")
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *GormStore) CountByRole() (map[models.UserRole]int64, error) {
	var rows []struct {
		Role  models.UserRole
		Total int64
	}
	if err := s.db.Model(&models.User{}).
		Select("role, count(*) as total").
		Where("is_deleted = false").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.UserRole]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Total
	}
	return counts, nil
}

func (s *GormStore) RecordTransaction(userID uint, txn *models.Transaction) error {
	tx := s.db.Begin()

	var user models.User
	if err := tx.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return ErrUserNotFound
		}
		return err
	}

	if txn.Amount < 0 && user.Balance+txn.Amount < 0 {
		tx.Rollback()
		return ErrInsufficientBalance
	}

	txn.UserID = user.ID
	txn.BalanceBefore = user.Balance
	txn.BalanceAfter = user.Balance + txn.Amount
	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = time.Now()
	}

	if err := tx.Create(txn).Error; err != nil {
		tx.Rollback()
		return err
	}

	user.Balance = txn.BalanceAfter
	if err := tx.Save(&user).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *GormStore) Transactions(userID uint, page, limit int, kind string) ([]models.Transaction, int64, error) {
	offset := (page - 1) * limit

	query := s.db.Model(&models.Transaction{}).Where("user_id = ? AND is_deleted = false", userID)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	if err := query.
		Order("transaction_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

func (s *GormStore) SpendingByCategory(userID uint) (map[string]float64, error) {
	var rows []struct {
		Category string
		Total    float64
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("category, sum(-amount) as total").
		Where("user_id = ? AND amount < 0 AND is_deleted = false", userID).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	spending := make(map[string]float64, len(rows))
	for _, row := range rows {
		spending[row.Category] = row.Total
	}
	return spending, nil
}

func (s *GormStore) CreateLoan(loan *models.Loan) error {
	return s.db.Create(loan).Error
}

func (s *GormStore) LoanByID(id uint) (*models.Loan, error) {
	var loan models.Loan
	if err := s.db.Where("id = ? AND is_deleted = false", id).First(&loan).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return &loan, nil
}

func (s *GormStore) LoansByUser(userID uint) ([]models.Loan, error) {
	var loans []models.Loan
	if err := s.db.
		Where("user_id = ? AND is_deleted = false", userID).
		Order("created_at DESC").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

func (s *GormStore) LoansByStatus(statuses []models.LoanStatus, page, limit int) ([]models.Loan, int64, error) {
	offset := (page - 1) * limit

	query := s.db.Model(&models.Loan{}).
		Where("status IN ? AND is_deleted = false", statuses)

	var total int64
	query.Count(&total)

	var loans []models.Loan
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error; err != nil {
		return nil, 0, err
	}
	return loans, total, nil
}

func (s *GormStore) LoanStats() (map[models.LoanStatus]int64, error) {
	var rows []struct {
		Status models.LoanStatus
		Total  int64
	}
	if err := s.db.Model(&models.Loan{}).
		Select("status, count(*) as total").
		Where("is_deleted = false").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make(map[models.LoanStatus]int64, len(rows))
	for _, row := range rows {
		stats[row.Status] = row.Total
	}
	return stats, nil
}

// DecideLoan flips a PENDING loan to APPROVED or REJECTED. The status update is
// guarded on the current status so that a second decision hits zero rows, and
// the approval credit rides the same transaction as the status flip.
func (s *GormStore) DecideLoan(loanID uint, status models.LoanStatus, decidedBy uint) (*models.Loan, error) {
	now := time.Now()
	tx := s.db.Begin()

	var loan models.Loan
	if err := tx.Where("id = ? AND is_deleted = false", loanID).First(&loan).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	res := tx.Model(&models.Loan{}).
		Where("id = ? AND status = ?", loanID, models.LoanStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": now,
		})
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrLoanAlreadyDecided
	}

	if status == models.LoanStatusApproved {
		var user models.User
		if err := tx.Where("id = ? AND is_deleted = false", loan.UserID).First(&user).Error; err != nil {
			tx.Rollback()
			if err == gorm.ErrRecordNotFound {
				return nil, ErrUserNotFound
			}
			return nil, err
		}

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
		if err := tx.Create(&credit).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		user.Balance = credit.BalanceAfter
		if err := tx.Save(&user).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	loan.Status = status
	loan.DecidedBy = decidedBy
	loan.DecidedAt = &now
	return &loan, nil
}

func (s *GormStore) CreatePasswordReset(reset *models.PasswordReset) error {
	return s.db.Create(reset).Error
}

func (s *GormStore) ActivePasswordReset(email, code string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	err := s.db.
		Where("email = ? AND code = ? AND is_used = false AND is_deleted = false AND expires_at > ?",
			email, code, time.Now()).
		Order("created_at DESC").
		First(&reset).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrResetNotFound
		}
		return nil, err
	}
	return &reset, nil
}

func (s *GormStore) MarkPasswordResetUsed(id uint) error {
	return s.db.Model(&models.PasswordReset{}).
		Where("id = ?", id).
		Update("is_used", true).Error
}

func (s *GormStore) PurgeExpiredPasswordResets(now time.Time) (int64, error) {
	res := s.db.Model(&models.PasswordReset{}).
		Where("is_deleted = false AND (is_used = true OR expires_at <= ?)", now).
		Update("is_deleted", true)
	return res.RowsAffected, res.Error
}

func (s *GormStore) RecordLogin(entry *models.LoginTracking) error {
	return s.db.Create(entry).Error
}

func (s *GormStore) LoginHistory(userID uint, page, limit int) ([]models.LoginTracking, int64, error) {
	offset := (page - 1) * limit

	query := s.db.Model(&models.LoginTracking{}).Where("user_id = ? AND is_deleted = false", userID)

	var total int64
	query.Count(&total)

	var entries []models.LoginTracking
	if err := query.
		Order("timestamp DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
