package service

import (
	"context"
	"time"

	"jaspel-be/internal/dto"
	"jaspel-be/internal/entity"

	"github.com/google/uuid"
)

const (
	CheckEntryConsistency       = "entry_consistency"
	CheckProcedureCrossRef      = "procedure_cross_reference"
	CheckPatientCountCrossRef   = "patient_count_cross_reference"
	CheckCalculationConsistency = "calculation_consistency"
	CheckReferentialIntegrity   = "referential_integrity"
)

// UserContext is everything the checks may look at, loaded once before the
// battery runs. Checks must treat it as read-only.
type UserContext struct {
	User            *entity.User
	Approved        []*entity.Jaspel
	AggregateTotal  float64
	StatusBreakdown map[entity.JaspelStatus]int64
	ProcedureCount  int64
	PatientCounts   []*entity.JumlahPasienHarian
	ExistingUsers   map[uuid.UUID]bool
	Comparison      *dto.MethodComparison
	Now             time.Time
	Tolerance       float64
}

// Check is one pure validation over a UserContext.
type Check struct {
	Name string
	Run  func(ctx context.Context, uc *UserContext) dto.CheckResult
}

// DefaultChecks is the fixed battery, in reporting order.
func DefaultChecks() []Check {
	return []Check{
		{Name: CheckEntryConsistency, Run: checkEntryConsistency},
		{Name: CheckProcedureCrossRef, Run: checkProcedureCrossReference},
		{Name: CheckPatientCountCrossRef, Run: checkPatientCountCrossReference},
		{Name: CheckCalculationConsistency, Run: checkCalculationConsistency},
		{Name: CheckReferentialIntegrity, Run: checkReferentialIntegrity},
	}
}

func checkEntryConsistency(_ context.Context, uc *UserContext) dto.CheckResult {
	totals := make([]float64, len(uc.Approved))
	var first, last *time.Time
	for i, e := range uc.Approved {
		totals[i] = e.Total
		if e.ValidasiAt == nil {
			continue
		}
		if first == nil || e.ValidasiAt.Before(*first) {
			first = e.ValidasiAt
		}
		if last == nil || e.ValidasiAt.After(*last) {
			last = e.ValidasiAt
		}
	}
	collection := sumAmounts(totals...).InexactFloat64()
	diff := absDiff(collection, uc.AggregateTotal)

	details := map[string]interface{}{
		"collection_sum": round2(collection),
		"aggregate_sum":  round2(uc.AggregateTotal),
		"difference":     round2(diff),
		"approved_count": len(uc.Approved),
		"status_breakdown": map[string]int64{
			string(entity.JaspelStatusApproved): uc.StatusBreakdown[entity.JaspelStatusApproved],
			string(entity.JaspelStatusPending):  uc.StatusBreakdown[entity.JaspelStatusPending],
			string(entity.JaspelStatusRejected): uc.StatusBreakdown[entity.JaspelStatusRejected],
		},
		"first_validation": first,
		"last_validation":  last,
	}

	if uc.Comparison != nil {
		details["method_agreement"] = uc.Comparison.Agreement
		details["method_max_difference"] = uc.Comparison.MaxDifference
	}

	result := dto.CheckResult{Name: CheckEntryConsistency, Passed: diff <= uc.Tolerance, Details: details}
	if !result.Passed {
		result.Error = "jumlah koleksi dan agregat tidak sama"
	}
	return result
}

func checkProcedureCrossReference(_ context.Context, uc *UserContext) dto.CheckResult {
	var linked int64
	for _, e := range uc.Approved {
		if e.TindakanId != nil {
			linked++
		}
	}

	return dto.CheckResult{
		Name:   CheckProcedureCrossRef,
		Passed: true,
		Details: map[string]interface{}{
			"linked_entries":   linked,
			"unlinked_entries": int64(len(uc.Approved)) - linked,
			"total_procedures": uc.ProcedureCount,
			"coverage_ratio":   ratio(linked, uc.ProcedureCount),
		},
	}
}

func checkPatientCountCrossReference(_ context.Context, uc *UserContext) dto.CheckResult {
	var days int64
	amounts := make([]float64, 0, len(uc.PatientCounts))
	for _, p := range uc.PatientCounts {
		if p.JaspelRupiah > 0 {
			days++
			amounts = append(amounts, p.JaspelRupiah)
		}
	}
	total := sumAmounts(amounts...).InexactFloat64()

	return dto.CheckResult{
		Name:   CheckPatientCountCrossRef,
		Passed: true,
		Details: map[string]interface{}{
			"records":          len(uc.PatientCounts),
			"days_with_jaspel": days,
			"total_jaspel":     round2(total),
			"average_per_day":  safeAverage(total, days),
		},
	}
}

func checkCalculationConsistency(_ context.Context, uc *UserContext) dto.CheckResult {
	flagged := make([]map[string]interface{}, 0)
	for _, e := range uc.Approved {
		if e.Nominal <= 0 {
			continue
		}
		delta := absDiff(e.Total, e.Nominal)
		if delta > uc.Tolerance {
			flagged = append(flagged, map[string]interface{}{
				"id":      e.Id.String(),
				"nominal": e.Nominal,
				"total":   e.Total,
				"delta":   round2(delta),
			})
		}
	}

	result := dto.CheckResult{
		Name:   CheckCalculationConsistency,
		Passed: len(flagged) == 0,
		Details: map[string]interface{}{
			"checked_entries": len(uc.Approved),
			"inconsistencies": len(flagged),
			"flagged":         flagged,
		},
	}
	if !result.Passed {
		result.Error = "total tidak sesuai nominal pada sebagian entri"
	}
	return result
}

func checkReferentialIntegrity(_ context.Context, uc *UserContext) dto.CheckResult {
	user := uc.User
	hasRole := user.RoleId != nil
	validRole := user.Role != nil && user.Role.Name != ""

	var orphaned, futureDated, invalidTimestamps []string
	for _, e := range uc.Approved {
		if e.ValidasiBy != nil && !uc.ExistingUsers[*e.ValidasiBy] {
			orphaned = append(orphaned, e.Id.String())
		}
		if e.Tanggal.After(uc.Now) {
			futureDated = append(futureDated, e.Id.String())
		}
		if e.ValidasiAt != nil && e.ValidasiAt.Before(e.CreatedAt) {
			invalidTimestamps = append(invalidTimestamps, e.Id.String())
		}
	}

	passed := hasRole && user.IsActive && validRole &&
		len(orphaned) == 0 && len(futureDated) == 0 && len(invalidTimestamps) == 0

	result := dto.CheckResult{
		Name:   CheckReferentialIntegrity,
		Passed: passed,
		Details: map[string]interface{}{
			"has_role":           hasRole,
			"is_active":          user.IsActive,
			"valid_role":         validRole,
			"orphaned_entries":   orphaned,
			"future_dated":       futureDated,
			"invalid_timestamps": invalidTimestamps,
		},
	}
	if !passed {
		result.Error = "integritas referensial atau temporal bermasalah"
	}
	return result
}
