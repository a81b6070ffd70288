package services

import (
	"context"
	"fmt"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
	"travellink/internal/utils"
)

// PaymentService validates card input and hands it to the gateway.
type PaymentService struct {
	Gateway   PaymentGateway
	RequestID string
}

// SubmitPayment charges amount to the card. Invalid input fails fast with a
// ValidationError and never reaches the gateway.
func (s PaymentService) SubmitPayment(ctx context.Context, amount float64, in models.CardDetails) (models.PaymentResult, error) {
	card, err := ValidateCard(in)
	if err != nil {
		utils.LogEvent(s.RequestID, "payment", "submit", "rejected: "+err.Error())
		return models.PaymentResult{}, err
	}
	if amount < 0 {
		return models.PaymentResult{}, domain.ValidationError{Field: "amount", Msg: "must not be negative"}
	}
	if s.Gateway == nil {
		return models.PaymentResult{}, domain.InternalError{Msg: "payment gateway not configured"}
	}

	utils.LogEvent(s.RequestID, "payment", "submit", fmt.Sprintf("charging %s to card ending %s", utils.FormatMoney(amount), card.Last4()))
	res, err := s.Gateway.Charge(ctx, ChargeRequest{
		Amount:   amount,
		Currency: CurrencyINR,
		Method:   MethodCard,
		Card:     card,
	})
	if err != nil {
		utils.LogWarn(s.RequestID, "payment", "submit", "gateway: "+err.Error())
		if domain.IsGateway(err) {
			return models.PaymentResult{}, err
		}
		return models.PaymentResult{}, domain.GatewayError{Err: err}
	}
	if res.Status != models.PaymentSucceeded {
		return models.PaymentResult{}, domain.GatewayError{Code: string(res.Status), Msg: "gateway did not confirm the charge"}
	}

	utils.LogEvent(s.RequestID, "payment", "submit", "succeeded payment_id="+res.PaymentID)
	return res, nil
}
