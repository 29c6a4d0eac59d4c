package notify

import (
	"context"
	"fmt"
	"strings"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Notifier is the seam to the chat transport. Implementations deliver a
// message or photo to a user or to the operator channel. Failures are the
// caller's to log and suppress; nothing downstream of a notification may
// affect committed state.
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, photoRef, caption string) error
}

// LogNotifier is the default sink used when no chat transport is wired:
// it records every notification at info level and never fails.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: util.GetLogger()}
}

func (n *LogNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	n.logger.Info("notify message",
		zap.Int64("chat_id", chatID),
		zap.String("text", text))
	return nil
}

func (n *LogNotifier) SendPhoto(ctx context.Context, chatID int64, photoRef, caption string) error {
	n.logger.Info("notify photo",
		zap.Int64("chat_id", chatID),
		zap.String("photo_ref", photoRef),
		zap.String("caption", caption))
	return nil
}

// FormatPrice renders an integer price for chat output.
func FormatPrice(price int64) string {
	return fmt.Sprintf("%d RUB", price)
}

// DeliveryCaption renders the content of one purchased listing.
func DeliveryCaption(item models.DeliveryItem) string {
	var b strings.Builder
	b.WriteString(item.Title)
	b.WriteString("\n\n")
	b.WriteString(item.Description)
	b.WriteString("\n\nPrice: ")
	b.WriteString(FormatPrice(item.Price))
	if item.Quantity > 1 {
		fmt.Fprintf(&b, "\nQuantity: %d", item.Quantity)
	}
	return b.String()
}

// PendingReviewText renders the operator prompt for a new payment claim.
func PendingReviewText(e *models.CheckoutSubmittedEvent) string {
	return fmt.Sprintf(
		"Payment claim #%d\nOrder #%d from user %d\nTotal: %s\nProof: %s",
		e.PaymentID, e.OrderID, e.UserID, FormatPrice(e.Total), e.ProofRef)
}
