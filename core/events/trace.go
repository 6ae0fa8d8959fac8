package events

import "fmt"

// Kind identifies a step of the dispatch trace.
type Kind int

const (
	// DishStarted opens the trace of one queued dish.
	DishStarted Kind = iota
	// StationAttempt is logged before a station is tried.
	StationAttempt
	// DishUnavailable means the station does not have the dish in its repertoire.
	DishUnavailable
	// Prepared means the station prepared the dish.
	Prepared
	// Shortage reports the first missing ingredient before replenishing.
	Shortage
	// Replenished means the backup stock covered the shortage.
	Replenished
	// ReplenishFailed means the backup stock could not cover the shortage.
	ReplenishFailed
	// RetryFailed means preparation still failed after replenishment.
	RetryFailed
	// PrepareFailed means preparation failed although no shortage was found.
	PrepareFailed
	// NotPrepared closes the trace of a dish that every station failed.
	NotPrepared
	// BatchDone closes a batch.
	BatchDone
)

var kindNames = [...]string{
	DishStarted:     "dish_started",
	StationAttempt:  "station_attempt",
	DishUnavailable: "dish_unavailable",
	Prepared:        "prepared",
	Shortage:        "shortage",
	Replenished:     "replenished",
	ReplenishFailed: "replenish_failed",
	RetryFailed:     "retry_failed",
	PrepareFailed:   "prepare_failed",
	NotPrepared:     "not_prepared",
	BatchDone:       "batch_done",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// TraceEvent is one line of the dispatch trace.
type TraceEvent struct {
	BatchID    string
	Kind       Kind
	Dish       string
	Station    string
	Ingredient string
	Quantity   int
}

// String renders the event as a human readable trace line.
func (e TraceEvent) String() string {
	switch e.Kind {
	case DishStarted:
		return "PREPARING DISH: " + e.Dish
	case StationAttempt:
		return fmt.Sprintf("%s attempting to prepare %s...", e.Station, e.Dish)
	case DishUnavailable, RetryFailed:
		return e.Station + ": Dish not available. Moving to next station..."
	case Prepared:
		return fmt.Sprintf("%s: Successfully prepared %s.", e.Station, e.Dish)
	case Shortage:
		return e.Station + ": Insufficient ingredients. Replenishing ingredients..."
	case Replenished:
		return e.Station + ": Ingredients replenished."
	case ReplenishFailed:
		return fmt.Sprintf("%s: Unable to replenish ingredients. Failed to prepare %s.", e.Station, e.Dish)
	case PrepareFailed:
		return fmt.Sprintf("%s: Unable to prepare %s. Moving to next station...", e.Station, e.Dish)
	case NotPrepared:
		return e.Dish + " was not prepared."
	case BatchDone:
		return "All dishes have been processed."
	default:
		return e.Kind.String()
	}
}
