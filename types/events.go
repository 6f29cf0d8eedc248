package types

import "time"

// AssessmentEvent is published to Kafka and RabbitMQ after an
// assessment completes. The RabbitMQ copy carries the insight context
// consumed by the external narrative generator.
type AssessmentEvent struct {
	AssessmentID   string                 `json:"assessment_id"`
	CompanyID      string                 `json:"company_id"`
	OverallScore   int                    `json:"overall_score"`
	Grade          string                 `json:"grade"`
	CreditScore    int                    `json:"credit_score"`
	FlagCount      int                    `json:"flag_count"`
	GeneratedAt    time.Time              `json:"generated_at"`
	InsightContext map[string]interface{} `json:"insight_context,omitempty"`
}
