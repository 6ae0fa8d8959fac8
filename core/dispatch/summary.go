package dispatch

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a batch for reporting.
type Summary struct {
	Orders   int
	Prepared int
	Failed   int
	// PreparedRate is Prepared/Orders, 0 for an empty batch.
	PreparedRate float64
	Transfers    int
	// UnitsTransferred sums the quantities of successful transfers.
	UnitsTransferred float64
	// MeanTransfer and StdDevTransfer describe successful transfer sizes.
	MeanTransfer   float64
	StdDevTransfer float64
	// MeanAttempts is the average number of stations tried per order.
	MeanAttempts float64
}

// Summarize computes the batch statistics.
func Summarize(r BatchResult) Summary {
	s := Summary{Orders: len(r.Outcomes), Transfers: len(r.Transfers)}
	if s.Orders == 0 {
		return s
	}
	attempts := make([]float64, len(r.Outcomes))
	for i, o := range r.Outcomes {
		attempts[i] = float64(o.Attempts)
		if o.Prepared {
			s.Prepared++
		}
	}
	s.Failed = s.Orders - s.Prepared
	s.PreparedRate = float64(s.Prepared) / float64(s.Orders)
	s.MeanAttempts = stat.Mean(attempts, nil)

	var sizes []float64
	for _, t := range r.Transfers {
		if t.Succeeded {
			sizes = append(sizes, float64(t.Quantity))
		}
	}
	switch len(sizes) {
	case 0:
	case 1:
		s.UnitsTransferred = sizes[0]
		s.MeanTransfer = sizes[0]
	default:
		s.UnitsTransferred = floats.Sum(sizes)
		s.MeanTransfer, s.StdDevTransfer = stat.MeanStdDev(sizes, nil)
	}
	return s
}
