package configreader

import (
	"answerwire/internal/registry"
	"answerwire/internal/trace"
)

// BookingConfig is the resolved booking field group for one call.
type BookingConfig struct {
	Enabled            bool
	Blocked            bool
	BlockedReason      string
	CalendarRef        string
	TransferNumber     string
	ConfirmationPhrase string
	MaxAdvanceDays     int
}

// ResolveBookingConfig reads the booking field group in one pass and emits a
// single BOOKING_CONFIG_RESOLVED event so the trace shows the exact booking
// posture the call ran with.
func (r *Reader) ResolveBookingConfig() (BookingConfig, error) {
	values, err := r.GetMany([]string{
		registry.PathBookingEnabled,
		registry.PathBookingCalendarRef,
		registry.PathBookingTransferNumber,
		registry.PathBookingConfirmationPhrase,
		registry.PathBookingMaxAdvanceDays,
		registry.PathComplianceBookingKillSwitch,
	})
	if err != nil {
		return BookingConfig{}, err
	}

	cfg := BookingConfig{
		Enabled:            values[registry.PathBookingEnabled] == true,
		CalendarRef:        asString(values[registry.PathBookingCalendarRef]),
		TransferNumber:     asString(values[registry.PathBookingTransferNumber]),
		ConfirmationPhrase: asString(values[registry.PathBookingConfirmationPhrase]),
		MaxAdvanceDays:     asInt(values[registry.PathBookingMaxAdvanceDays]),
	}
	if values[registry.PathComplianceBookingKillSwitch] == true {
		cfg.Blocked = true
		if f, ok := r.registry.Field(registry.PathComplianceBookingKillSwitch); ok {
			cfg.BlockedReason = f.BlockingEffect
		}
	}

	r.emit(trace.Event{
		Kind:       trace.KindBookingConfigResolved,
		ConfigHash: r.ConfigHash(),
		Detail: map[string]any{
			"enabled":             cfg.Enabled,
			"blocked":             cfg.Blocked,
			"has_calendar":        cfg.CalendarRef != "",
			"has_transfer_number": cfg.TransferNumber != "",
			"max_advance_days":    cfg.MaxAdvanceDays,
		},
	})
	return cfg, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
