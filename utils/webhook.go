package utils

import (
	"log"
	"time"

	"pixbank/config"
	"pixbank/models"

	"github.com/go-resty/resty/v2"
)

// NotifyLoanDecision posts a loan decision event to the configured webhook
// receiver. Delivery is best effort: failures are logged, never retried.
func NotifyLoanDecision(loan *models.Loan) {
	url := config.AppConfig.WebhookURL
	if url == "" {
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"event":     "loan.decided",
			"loanId":    loan.ID,
			"userId":    loan.UserID,
			"amount":    loan.Amount,
			"term":      loan.Term,
			"status":    loan.Status,
			"decidedBy": loan.DecidedBy,
			"decidedAt": loan.DecidedAt,
		}).
		Post(url)
	if err != nil {
		log.Printf("Failed to deliver loan decision webhook: %v", err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("Loan decision webhook rejected: %s", resp.Status())
	}
}
