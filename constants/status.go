package constants

// CaseStatus is the lifecycle state of a row in cases.
type CaseStatus string

// Stable values (store these exact strings in DB).
const (
	CaseStatusPending    CaseStatus = "PENDING"    // uploaded, waiting for a worker
	CaseStatusProcessing CaseStatus = "PROCESSING" // text extraction or summarising in progress
	CaseStatusCompleted  CaseStatus = "COMPLETED"  // summary stored
	CaseStatusFailed     CaseStatus = "FAILED"     // terminal failure, see cases.error
)

// Terminal reports whether no further processing will happen.
func (s CaseStatus) Terminal() bool {
	return s == CaseStatusCompleted || s == CaseStatusFailed
}

// CaseStatuses lists every status in lifecycle order.
var CaseStatuses = []CaseStatus{CaseStatusPending, CaseStatusProcessing, CaseStatusCompleted, CaseStatusFailed}
