package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type VerificationCodeData struct {
	Name      string
	Code      string
	ExpiresIn int
}

type SubscriptionEmailData struct {
	Name         string
	PlanName     string
	DurationDays int
	Price        float64
	Currency     string
	MaxListings  int
	ExpiresAt    time.Time
	IsRenewal    bool
}

type SubscriptionExpiryWarningData struct {
	Name       string
	PlanName   string
	DaysLeft   int
	ExpiryDate time.Time
}

type PaymentReceiptData struct {
	Name       string
	PlanName   string
	Amount     float64
	Currency   string
	PaymentRef string
	PaidAt     time.Time
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "Umuhuza <noreply@umuhuza.bi>",
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email API returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

func (s *EmailService) SendVerificationCode(to, name, code string, expiresInMinutes int) error {
	return s.sendTemplateEmail(to, "Your Umuhuza verification code", "verification_code.html",
		VerificationCodeData{Name: name, Code: code, ExpiresIn: expiresInMinutes})
}

func (s *EmailService) SendSubscriptionStartedEmail(to, name, planName string, durationDays int, price float64, currency string, maxListings int, expiresAt time.Time, isRenewal bool) error {
	subject := "Your subscription is active"
	if isRenewal {
		subject = "Your subscription was renewed"
	}
	return s.sendTemplateEmail(to, subject, "subscription_started.html", SubscriptionEmailData{
		Name:         name,
		PlanName:     planName,
		DurationDays: durationDays,
		Price:        price,
		Currency:     currency,
		MaxListings:  maxListings,
		ExpiresAt:    expiresAt,
		IsRenewal:    isRenewal,
	})
}

func (s *EmailService) SendSubscriptionExpiryWarning(to, name, planName string, expiryDate time.Time, daysLeft int) error {
	return s.sendTemplateEmail(to, "Your subscription is expiring soon", "subscription_expiry_warning.html",
		SubscriptionExpiryWarningData{Name: name, PlanName: planName, DaysLeft: daysLeft, ExpiryDate: expiryDate})
}

func (s *EmailService) SendPaymentReceipt(to, name, planName string, amount float64, currency, paymentRef string, paidAt time.Time) error {
	return s.sendTemplateEmail(to, "Payment received", "payment_receipt.html",
		PaymentReceiptData{Name: name, PlanName: planName, Amount: amount, Currency: currency, PaymentRef: paymentRef, PaidAt: paidAt})
}
