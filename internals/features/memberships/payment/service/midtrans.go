package service

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"

	membershipModel "iteamhub_backend/internals/features/memberships/membership/model"
	"iteamhub_backend/internals/features/memberships/payment/model"
)

var (
	snapClient snap.Client
	coreClient coreapi.Client
)

// InitMidtrans wires the Snap and Core API clients. Call once at bootstrap.
func InitMidtrans(serverKey string, production bool) {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	snapClient.New(serverKey, env)
	coreClient.New(serverKey, env)
}

// CreateOnlinePayment opens an online (Snap) payment for a membership:
// inserts a pending payment row with a gateway order id and returns the
// Snap token + redirect URL for the client. The order id carries the payment
// UUID, so every attempt is unique at the gateway; a failed gateway call
// removes the row again, keeping the path retryable. Abandoned checkouts
// stay pending until the gateway's expire notification rejects them.
func CreateOnlinePayment(db *gorm.DB, userID, membershipID uuid.UUID, name, email string) (*model.PaymentModel, string, string, error) {
	var m membershipModel.MembershipModel
	if err := db.Take(&m, "id = ?", membershipID).Error; err != nil {
		return nil, "", "", err
	}
	if m.UserID != userID {
		return nil, "", "", ErrMembershipNotOwned
	}

	p := model.PaymentModel{
		ID:            uuid.New(),
		UserID:        userID,
		MembershipID:  &m.ID,
		Amount:        m.Amount,
		PaymentMethod: model.PaymentMethodOnline,
		PaymentDate:   time.Now().UTC(),
		Status:        model.PaymentStatusPending,
	}
	orderID := fmt.Sprintf("MEMBERSHIP-%s-%s", m.ID, p.ID)
	p.OrderID = &orderID
	if err := db.Create(&p).Error; err != nil {
		return nil, "", "", err
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: int64(m.Amount),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: name,
			Email: email,
		},
	}
	resp, err := snapClient.CreateTransaction(req)
	if err != nil {
		if derr := db.Delete(&model.PaymentModel{}, "id = ?", p.ID).Error; derr != nil {
			log.Printf("[WARN] failed to remove payment %s after gateway error: %v", p.ID, derr)
		}
		return nil, "", "", fmt.Errorf("snap transaction: %v", err)
	}
	return &p, resp.Token, resp.RedirectURL, nil
}

// HandleMidtransNotification processes the gateway webhook: the transaction
// status is re-checked against the Core API (never trusted from the POST
// body alone), then a settlement verifies the payment through the same
// workflow an admin uses.
func HandleMidtransNotification(db *gorm.DB, orderID string) error {
	statusResp, err := coreClient.CheckTransaction(orderID)
	if err != nil {
		return fmt.Errorf("check transaction %s: %v", orderID, err)
	}
	if statusResp == nil {
		return fmt.Errorf("empty status response for %s", orderID)
	}

	var p model.PaymentModel
	if derr := db.Take(&p, "order_id = ?", orderID).Error; derr != nil {
		return derr
	}

	switch statusResp.TransactionStatus {
	case "capture", "settlement":
		if p.Status == model.PaymentStatusVerified {
			return nil // duplicate notification
		}
		_, verr := VerifyPayment(db, p.ID, model.PaymentStatusVerified, nil, "midtrans settlement")
		return verr
	case "deny", "cancel", "expire":
		if p.Status != model.PaymentStatusPending {
			return nil
		}
		_, verr := VerifyPayment(db, p.ID, model.PaymentStatusRejected, nil, "midtrans "+statusResp.TransactionStatus)
		return verr
	default:
		log.Printf("[INFO] midtrans %s: ignoring status %q", orderID, statusResp.TransactionStatus)
		return nil
	}
}
