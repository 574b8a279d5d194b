package services

import (
	"math"
	"sort"

	"pantoufles-app/internal/models"
)

// UnassignedWorker labels revenue of missions without an intervenant.
const UnassignedWorker = "Non assigné"

type ServiceRevenue struct {
	Service models.ServiceType `json:"service"`
	Amount  float64            `json:"amount"`
}

type WorkerRevenue struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type StatusCount struct {
	Status models.MissionStatus `json:"status"`
	Count  int                  `json:"count"`
}

type PaymentMethodCount struct {
	Method models.PaymentMethod `json:"method"`
	Count  int                  `json:"count"`
}

type ReportTotals struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// Report is the full analytics view over a set of archived missions.
type Report struct {
	RevenueByService []ServiceRevenue     `json:"revenue_by_service"`
	RevenueByWorker  []WorkerRevenue      `json:"revenue_by_worker"`
	StatusCounts     []StatusCount        `json:"status_counts"`
	PaymentMethods   []PaymentMethodCount `json:"payment_methods"`
	Totals           ReportTotals         `json:"totals"`
}

func missionAmount(m models.Mission) float64 {
	if m.Amount == nil {
		return 0
	}
	return *m.Amount
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RevenueByService sums mission amounts per service tag, sorted by tag.
func RevenueByService(missions []models.Mission) []ServiceRevenue {
	sums := map[models.ServiceType]float64{}
	for _, m := range missions {
		sums[m.Service] += missionAmount(m)
	}

	out := make([]ServiceRevenue, 0, len(sums))
	for service, amount := range sums {
		out = append(out, ServiceRevenue{Service: service, Amount: round2(amount)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Service < out[j].Service })
	return out
}

// RevenueByWorker sums mission amounts per intervenant. Names are resolved
// through the given id-to-name map; missions without an intervenant are
// grouped under the UnassignedWorker label.
func RevenueByWorker(missions []models.Mission, workerNames map[string]string) []WorkerRevenue {
	sums := map[string]float64{}
	for _, m := range missions {
		name := UnassignedWorker
		if m.IntervenantID != nil {
			if resolved, ok := workerNames[*m.IntervenantID]; ok {
				name = resolved
			}
		}
		sums[name] += missionAmount(m)
	}

	out := make([]WorkerRevenue, 0, len(sums))
	for name, amount := range sums {
		out = append(out, WorkerRevenue{Name: name, Amount: round2(amount)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// StatusDistribution counts missions per status, sorted by status.
func StatusDistribution(missions []models.Mission) []StatusCount {
	counts := map[models.MissionStatus]int{}
	for _, m := range missions {
		counts[m.Status]++
	}

	out := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		out = append(out, StatusCount{Status: status, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out
}

// PaymentMethodDistribution counts missions per payment method, sorted by
// method.
func PaymentMethodDistribution(missions []models.Mission) []PaymentMethodCount {
	counts := map[models.PaymentMethod]int{}
	for _, m := range missions {
		counts[m.PaymentMethod]++
	}

	out := make([]PaymentMethodCount, 0, len(counts))
	for method, count := range counts {
		out = append(out, PaymentMethodCount{Method: method, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out
}

// Totals sums revenue over the whole set. The average of an empty set is 0,
// not an error.
func Totals(missions []models.Mission) ReportTotals {
	var total float64
	for _, m := range missions {
		total += missionAmount(m)
	}

	totals := ReportTotals{
		Total: round2(total),
		Count: len(missions),
	}
	if totals.Count > 0 {
		totals.Average = round2(total / float64(totals.Count))
	}
	return totals
}

// BuildReport assembles the full report for a set of archived missions.
func BuildReport(missions []models.Mission, intervenants []models.Intervenant) Report {
	workerNames := make(map[string]string, len(intervenants))
	for _, intervenant := range intervenants {
		workerNames[intervenant.ID.Hex()] = intervenant.Name
	}

	return Report{
		RevenueByService: RevenueByService(missions),
		RevenueByWorker:  RevenueByWorker(missions, workerNames),
		StatusCounts:     StatusDistribution(missions),
		PaymentMethods:   PaymentMethodDistribution(missions),
		Totals:           Totals(missions),
	}
}
