package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"pixbank/config"
	"pixbank/models"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		log.Printf("Email sender not configured, skipping email to %v (%s)", to, subject)
		return nil
	}

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: PixBank <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg)); err != nil {
		log.Printf("Error sending email: %v", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all outgoing mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #820AD1; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A1A1A; line-height: 1.6; }
			.content h2 { color: #820AD1; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.code-box { background: #F3E8FD; padding: 15px; border-radius: 4px; border-left: 4px solid #820AD1; margin: 20px 0; font-size: 22px; letter-spacing: 4px; text-align: center; font-weight: bold; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>PIXBANK</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 PixBank. Banco demonstrativo para fins educacionais.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Olá <strong>%s</strong>,</p>
		<p>Sua conta foi criada com sucesso. Acesse o painel para ver seu saldo,
		registrar transações e solicitar empréstimos.</p>
	`, name)

	if err := SendEmail([]string{email}, "Bem-vindo ao PixBank", getEmailTemplate("Conta criada", body)); err != nil {
		log.Printf("Error sending welcome email to %s: %v", email, err)
	}
}

// 2. Password reset code
func SendPasswordResetEmail(email, name, code string) {
	body := fmt.Sprintf(`
		<p>Olá <strong>%s</strong>,</p>
		<p>Use o código abaixo para redefinir sua senha. Ele expira em 15 minutos.</p>
		<div class="code-box">%s</div>
		<p>Se você não solicitou a redefinição, ignore este email.</p>
	`, name, code)

	if err := SendEmail([]string{email}, "Redefinição de senha", getEmailTemplate("Redefinir senha", body)); err != nil {
		log.Printf("Error sending password reset email to %s: %v", email, err)
	}
}

// 3. Loan decision
func SendLoanDecisionEmail(email, name string, amount float64, status models.LoanStatus) {
	decision := "recusado"
	detail := "Você pode entrar em contato com um agente para mais detalhes."
	if status == models.LoanStatusApproved {
		decision = "aprovado"
		detail = "O valor já foi creditado na sua conta."
	}

	body := fmt.Sprintf(`
		<p>Olá <strong>%s</strong>,</p>
		<p>Seu empréstimo de <strong>R$ %.2f</strong> foi <strong>%s</strong>.</p>
		<p>%s</p>
	`, name, amount, decision, detail)

	if err := SendEmail([]string{email}, "Decisão do seu empréstimo", getEmailTemplate("Empréstimo "+decision, body)); err != nil {
		log.Printf("Error sending loan decision email to %s: %v", email, err)
	}
}
