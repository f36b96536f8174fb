package constant

// Logger modules
const (
	ModuleAggregation = "JASPEL_AGGREGATION"
	ModuleValidation  = "JASPEL_VALIDATION"
	ModuleFlow        = "JASPEL_FLOW"
	ModuleGuard       = "JASPEL_GUARD"
	ModuleUsage       = "JASPEL_USAGE"
	ModuleHealth      = "JASPEL_HEALTH"
	ModuleExport      = "JASPEL_EXPORT"
	ModuleEvents      = "JASPEL_EVENTS"
	ModuleHTTP        = "HTTP"
)

// Cache namespaces. Every cached key starts with CachePrefixRoot so a
// prefix-scoped flush never touches unrelated data.
const (
	CachePrefixRoot       = "jaspel:"
	CachePrefixReport     = "jaspel:report:"
	CachePrefixSummary    = "jaspel:summary:"
	CachePrefixRoleStats  = "jaspel:role_stats:"
	CachePrefixCompare    = "jaspel:compare:"
	CachePrefixValidation = "jaspel:validation:"
	CachePrefixFlow       = "jaspel:flow:"
	CachePrefixExport     = "jaspel:export:"
	CachePrefixHealth     = "health:"
)

// Operation names, used as cache key namespace and rate-limit endpoint.
const (
	OpAggregateByRole  = "report"
	OpSummaryForUser   = "summary"
	OpRoleStatistics   = "role_stats"
	OpCompareMethods   = "compare"
	OpValidateUser     = "validation"
	OpValidateSystem   = "validation_system"
	OpBulkUpdateStatus = "bulk_status"
	OpAnalyzeFlow      = "flow"
	OpSeedFlow         = "flow_seed"
	OpExport           = "export"
	OpUsageStats       = "usage_stats"
	OpCacheFlush       = "cache_flush"
)

// Event topics
const (
	TopicJaspelStatusUpdated = "jaspel.status_updated"
	TopicJaspelExport        = "jaspel.export_requested"
	TopicJaspelOverride      = "jaspel.override_applied"

	// Published by the data entry side whenever records are written.
	TopicJaspelEntriesChanged = "jaspel.entries_changed"
)
