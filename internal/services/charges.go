package services

import "travellink/internal/domain/models"

const (
	GSTRate        = 0.18
	ServiceFeeRate = 0.02
)

// ComputeCharges quotes GST and service fee for base. Nothing is rounded here;
// rounding belongs to presentation (utils.FormatINR).
func ComputeCharges(base float64) models.Charges {
	gst := base * GSTRate
	fee := base * ServiceFeeRate
	return models.Charges{
		Base:       base,
		GST:        gst,
		ServiceFee: fee,
		Total:      base + gst + fee,
	}
}
