package payment

import (
	"errors"
	"fmt"
	"time"

	appcfg "github.com/eduspace/core/internal/config"
	"github.com/eduspace/core/internal/models"
	"github.com/eduspace/core/internal/modules/content/course"
	"github.com/eduspace/core/internal/modules/system/configs"
	"github.com/eduspace/core/internal/pkg/pagination"
	"github.com/eduspace/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// pendingTTL is how long an unpaid order stays open before the expiry sweep
// marks it failed.
const pendingTTL = 24 * time.Hour

var (
	errPaymentsDisabled = errors.New("payments are disabled")
	errCourseFree       = errors.New("course is free, no payment needed")
	errAlreadyEnrolled  = errors.New("already enrolled in this course")
	errBadSignature     = errors.New("payment signature verification failed")
	errOrderNotOpen     = errors.New("order is not awaiting payment")
)

type Service struct {
	db     *gorm.DB
	cfgSvc *configs.Service
	logger *zap.Logger
}

func NewService(db *gorm.DB, cfgSvc *configs.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, cfgSvc: cfgSvc, logger: logger}
}

// CreateOrder opens a gateway order for a paid course and records the pending
// payment.
func (s *Service) CreateOrder(userID, courseID string) (*orderResponse, error) {
	opts, err := s.paymentOptions()
	if err != nil {
		return nil, err
	}

	var c models.CourseModel
	if err := s.db.Where("id = ? AND is_published = ?", courseID, true).First(&c).Error; err != nil {
		return nil, err
	}
	if c.IsFree() {
		return nil, errCourseFree
	}

	var enrolled int64
	if err := s.db.Model(&models.EnrollmentModel{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).Count(&enrolled).Error; err != nil {
		return nil, err
	}
	if enrolled > 0 {
		return nil, errAlreadyEnrolled
	}

	currency := c.Currency
	if currency == "" {
		currency = opts.Currency
	}

	gateway := newGatewayClient(*opts)
	receipt := fmt.Sprintf("course_%s_user_%s", c.ID, userID)
	order, err := gateway.CreateOrder(c.Price, currency, receipt)
	if err != nil {
		return nil, err
	}

	p := models.PaymentModel{
		UserID:         userID,
		CourseID:       c.ID,
		GatewayOrderID: order.ID,
		Amount:         c.Price,
		Currency:       currency,
		Status:         models.PaymentPending,
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}

	return &orderResponse{
		OrderID:  order.ID,
		Amount:   c.Price,
		Currency: currency,
		KeyID:    opts.KeyID,
		CourseID: c.ID,
	}, nil
}

// Verify checks the gateway signature and, in one transaction, completes the
// payment and enrolls the student.
func (s *Service) Verify(userID string, dto *VerifyDTO) (*models.PaymentModel, error) {
	opts, err := s.paymentOptions()
	if err != nil {
		return nil, err
	}

	var p models.PaymentModel
	if err := s.db.Where("gateway_order_id = ? AND user_id = ?", dto.OrderID, userID).First(&p).Error; err != nil {
		return nil, err
	}
	if p.Status != models.PaymentPending {
		return nil, errOrderNotOpen
	}

	if !VerifySignature(opts.KeySecret, dto.OrderID, dto.PaymentID, dto.Signature) {
		// A forged callback marks the payment failed so the order cannot be
		// replayed with another guess.
		_ = s.db.Model(&p).Updates(map[string]interface{}{
			"status":             models.PaymentFailed,
			"gateway_payment_id": dto.PaymentID,
		}).Error
		s.logger.Warn("payment signature rejected",
			zap.String("order", dto.OrderID), zap.String("user", userID))
		return nil, errBadSignature
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PaymentModel{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"status":             models.PaymentCompleted,
			"gateway_payment_id": dto.PaymentID,
			"signature":          dto.Signature,
		}).Error; err != nil {
			return err
		}
		return course.Grant(tx, userID, p.CourseID, "payment")
	})
	if err != nil {
		return nil, err
	}

	p.Status = models.PaymentCompleted
	p.GatewayPaymentID = dto.PaymentID
	return &p, nil
}

// History lists the user's payments, newest first.
func (s *Service) History(userID string, pg pagination.Query) ([]models.PaymentModel, response.Pagination, error) {
	tx := s.db.Model(&models.PaymentModel{}).
		Where("user_id = ?", userID).Order("created_at DESC")
	var payments []models.PaymentModel
	meta, err := pagination.Paginate(tx, pg, &payments)
	return payments, meta, err
}

// ListAll is the admin view over every payment.
func (s *Service) ListAll(status string, pg pagination.Query) ([]models.PaymentModel, response.Pagination, error) {
	tx := s.db.Model(&models.PaymentModel{}).Order("created_at DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var payments []models.PaymentModel
	meta, err := pagination.Paginate(tx, pg, &payments)
	return payments, meta, err
}

// Revenue sums completed payments grouped by currency.
func (s *Service) Revenue() (map[string]int64, error) {
	type row struct {
		Currency string
		Total    int64
	}
	var rows []row
	err := s.db.Model(&models.PaymentModel{}).
		Select("currency, SUM(amount) AS total").
		Where("status = ?", models.PaymentCompleted).
		Group("currency").Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Currency] = r.Total
	}
	return out, nil
}

// ExpireStale marks pending orders older than the TTL as failed. Run from the
// scheduler.
func (s *Service) ExpireStale() (int64, error) {
	cutoff := time.Now().Add(-pendingTTL)
	result := s.db.Model(&models.PaymentModel{}).
		Where("status = ? AND created_at < ?", models.PaymentPending, cutoff).
		Update("status", models.PaymentFailed)
	return result.RowsAffected, result.Error
}

func (s *Service) paymentOptions() (*appcfg.PaymentOptions, error) {
	cfg, err := s.cfgSvc.Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil || !cfg.PaymentOptions.Enable ||
		cfg.PaymentOptions.KeyID == "" || cfg.PaymentOptions.KeySecret == "" {
		return nil, errPaymentsDisabled
	}
	opts := cfg.PaymentOptions
	return &opts, nil
}
