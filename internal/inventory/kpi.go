package inventory

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/supplysight/internal/model"
)

// kpiVariation is the full width of the random band around the base totals
// (+-5%).
const kpiVariation = 0.1

const dateLayout = "2006-01-02"

// KPISynthesizer derives a daily trend from the current totals. With a
// non-zero seed the series depends only on (seed, day, totals); with seed 0
// every call draws fresh randomness.
type KPISynthesizer struct {
	seed     uint64
	maxRange int
	now      func() time.Time
}

// NewKPISynthesizer returns a synthesizer that accepts ranges up to maxRange days.
func NewKPISynthesizer(seed uint64, maxRange int) *KPISynthesizer {
	return &KPISynthesizer{seed: seed, maxRange: maxRange, now: time.Now}
}

// WithClock replaces the time source.
func (k *KPISynthesizer) WithClock(now func() time.Time) *KPISynthesizer {
	k.now = now
	return k
}

// Series returns rangeDays points, oldest first, the last one dated today (UTC).
func (k *KPISynthesizer) Series(products []model.Product, rangeDays int) ([]model.KPIPoint, error) {
	if rangeDays < 1 {
		return nil, &model.ValidationError{Field: "range", Message: "must be at least 1"}
	}
	if k.maxRange > 0 && rangeDays > k.maxRange {
		return nil, &model.ValidationError{Field: "range", Message: fmt.Sprintf("must be at most %d", k.maxRange)}
	}
	var totalStock, totalDemand int64
	for _, p := range products {
		totalStock += int64(p.Stock)
		totalDemand += int64(p.Demand)
	}

	now := k.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	rng := k.source(today)
	stock := decimal.NewFromInt(totalStock)
	demand := decimal.NewFromInt(totalDemand)

	points := make([]model.KPIPoint, 0, rangeDays)
	for i := rangeDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		s, d := vary(stock, rng), vary(demand, rng)
		if err := checkRange("stock", s); err != nil {
			return nil, err
		}
		if err := checkRange("demand", d); err != nil {
			return nil, err
		}
		points = append(points, model.KPIPoint{
			Date:   day.Format(dateLayout),
			Stock:  int(s),
			Demand: int(d),
		})
	}
	return points, nil
}

func (k *KPISynthesizer) source(today time.Time) *rand.Rand {
	if k.seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(k.seed, uint64(today.Unix())))
}

func vary(total decimal.Decimal, rng *rand.Rand) int64 {
	factor := decimal.NewFromFloat(1 + (rng.Float64()-0.5)*kpiVariation)
	return total.Mul(factor).Round(0).IntPart()
}

func checkRange(field string, v int64) error {
	if v > model.MaxQuantity {
		return &model.OutOfRangeError{Field: "kpis." + field, Value: v, Limit: model.MaxQuantity}
	}
	return nil
}
