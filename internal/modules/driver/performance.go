// README: Performance aggregation over trip legs with SLA thresholds and baseline fallbacks.
package driver

// SLA thresholds per leg type, in minutes.
const (
	pickupSLAMinutes   = 30.0
	deliverySLAMinutes = 45.0

	// Placeholders reported when a driver has no completed legs of a type in
	// the window, so dashboard consumers never divide by zero.
	defaultAvgPickupMinutes   = 20.0
	defaultAvgDeliveryMinutes = 30.0
)

// computeStats derives a driver's performance from its trips. Only completed
// trips contribute to durations and the on-time rate; with zero completed
// trips the driver's stored baseline rate is reported instead of 0%.
func computeStats(d *Driver, trips []Trip) Stats {
	st := Stats{DriverID: d.ID, Name: d.Name}

	var pickupSum, deliverySum float64
	withinSLA := 0
	for _, tr := range trips {
		switch tr.Type {
		case TripPickup:
			st.Pickups++
		case TripDelivery:
			st.Deliveries++
		}
		if tr.CompletedAt == nil {
			continue
		}
		minutes := tr.CompletedAt.Sub(tr.StartedAt).Minutes()
		switch tr.Type {
		case TripPickup:
			st.CompletedPickups++
			pickupSum += minutes
			if minutes <= pickupSLAMinutes {
				withinSLA++
			}
		case TripDelivery:
			st.CompletedDeliveries++
			deliverySum += minutes
			if minutes <= deliverySLAMinutes {
				withinSLA++
			}
		}
	}

	if st.CompletedPickups > 0 {
		st.AvgPickupMinutes = pickupSum / float64(st.CompletedPickups)
	} else {
		st.AvgPickupMinutes = defaultAvgPickupMinutes
	}
	if st.CompletedDeliveries > 0 {
		st.AvgDeliveryMinutes = deliverySum / float64(st.CompletedDeliveries)
	} else {
		st.AvgDeliveryMinutes = defaultAvgDeliveryMinutes
	}

	completed := st.CompletedPickups + st.CompletedDeliveries
	if completed == 0 {
		st.OnTimeRate = d.OnTimeRate
		st.BaselineUsed = true
	} else {
		st.OnTimeRate = float64(withinSLA) / float64(completed) * 100
	}
	return st
}
