package worker

// receipt_worker.go
// Processes redemption jobs from QueueReceipt: renders the voucher PDF and
// hands it to the email queue so the driver receives it as an attachment.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fleetpoints/internal/infra"

	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	RedemptionID string    `json:"redemption_id"`
	DriverName   string    `json:"driver_name"`
	DriverEmail  string    `json:"driver_email"`
	RewardName   string    `json:"reward_name"`
	PointsSpent  int       `json:"points_spent"`
	RedeemedAt   time.Time `json:"redeemed_at"`
}

type ReceiptWorker struct {
	dispatcher  *Dispatcher
	storagePath string
}

func NewReceiptWorker(dispatcher *Dispatcher, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{dispatcher: dispatcher, storagePath: storagePath}
}

// Process renders the voucher and enqueues the delivery email.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	pdfPath, err := infra.GenerateVoucherPDF(infra.VoucherData{
		RedemptionID: payload.RedemptionID,
		DriverName:   payload.DriverName,
		RewardName:   payload.RewardName,
		PointsSpent:  payload.PointsSpent,
		RedeemedAt:   payload.RedeemedAt,
	}, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("redemption_id", payload.RedemptionID).Msg("receipt_worker: voucher generation failed")
		return
	}

	if payload.DriverEmail == "" {
		log.Warn().Str("redemption_id", payload.RedemptionID).Msg("receipt_worker: driver has no email — voucher kept on disk only")
		return
	}

	err = w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: payload.DriverEmail,
		Subject: fmt.Sprintf("Your FleetPoints voucher — %s", payload.RewardName),
		Body: fmt.Sprintf(
			"Hello %s,\n\nYou redeemed %s for %d points. Your voucher is attached; present it when collecting the reward.\n",
			payload.DriverName, payload.RewardName, payload.PointsSpent,
		),
		AttachmentPath: pdfPath,
	})
	if err != nil {
		log.Error().Err(err).Str("redemption_id", payload.RedemptionID).Msg("receipt_worker: failed to enqueue email")
		return
	}
	log.Info().Str("redemption_id", payload.RedemptionID).Msg("receipt_worker: voucher generated and queued")
}
