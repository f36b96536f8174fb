package dto

import (
	"time"

	"github.com/google/uuid"
)

// StaffActivity counts records per type for one originator or validator.
type StaffActivity struct {
	UserId uuid.UUID        `json:"user_id"`
	Name   string           `json:"name"`
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

type InputAnalysis struct {
	ActiveOriginators int              `json:"active_originators"`
	Originators       []StaffActivity  `json:"originators"`
	TotalsByType      map[string]int64 `json:"totals_by_type"`
	TotalInputs       int64            `json:"total_inputs"`
}

type ValidationAnalysis struct {
	ActiveValidators int              `json:"active_validators"`
	Validators       []StaffActivity  `json:"validators"`
	TotalsByType     map[string]int64 `json:"totals_by_type"`
	TotalValidated   int64            `json:"total_validated"`
}

type FlowGaps struct {
	TotalEntries          int64            `json:"total_entries"`
	ExpectedRoleEntries   int64            `json:"expected_role_entries"`
	BypassCount           int64            `json:"bypass_count"`
	NonValidatorApprovals int64            `json:"non_validator_approvals"`
	CompliancePercentage  float64          `json:"compliance_percentage"`
	PendingByType         map[string]int64 `json:"pending_by_type"`
	PendingTotal          int64            `json:"pending_total"`
	Bottleneck            bool             `json:"bottleneck"`
}

type RoleSource struct {
	RoleName string  `json:"role_name"`
	Count    int64   `json:"count"`
	Total    float64 `json:"total"`
	Average  float64 `json:"average"`
}

type SourceBreakdown struct {
	ByRole               []RoleSource `json:"by_role"`
	ProcedureLinked      int64        `json:"procedure_linked"`
	ProcedureLinkedRatio float64      `json:"procedure_linked_ratio"`
	DataIntegrityScore   float64      `json:"data_integrity_score"`
}

type ComplianceComponents struct {
	OriginatorActivity float64 `json:"originator_activity"`
	WorkflowCompliance float64 `json:"workflow_compliance"`
	ValidatorActivity  float64 `json:"validator_activity"`
}

type FlowRecommendation struct {
	Priority string `json:"priority"` // high, medium, low
	Category string `json:"category"`
	Message  string `json:"message"`
}

type FlowAnalysis struct {
	InputAnalysis        InputAnalysis        `json:"input_analysis"`
	ValidationAnalysis   ValidationAnalysis   `json:"validation_analysis"`
	FlowGaps             FlowGaps             `json:"flow_gaps"`
	SourceBreakdown      SourceBreakdown      `json:"source_breakdown"`
	ComplianceScore      float64              `json:"compliance_score"`
	ComplianceComponents ComplianceComponents `json:"compliance_components"`
	Recommendations      []FlowRecommendation `json:"recommendations"`
	AnalyzedAt           time.Time            `json:"analyzed_at"`
}

type SeedFlowRequest struct {
	OriginatorId uuid.UUID `json:"originator_id" validate:"required"`
}

type SeedFlowResponse struct {
	PendapatanId  uuid.UUID `json:"pendapatan_id"`
	PengeluaranId uuid.UUID `json:"pengeluaran_id"`
	JaspelId      uuid.UUID `json:"jaspel_id"`
}
