package entity

import "time"

// Feedback is a reviewer's rating of a generated summary.
type Feedback struct {
	ID        int64     `json:"id"`
	CaseID    string    `json:"caseId"`
	Rating    int       `json:"rating"`
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Metric is a single recorded measurement.
type Metric struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Analytics aggregates case and metric data for reporting.
type Analytics struct {
	TotalCases        int            `json:"totalCases"`
	ByStatus          map[string]int `json:"byStatus"`
	AvgProcessingMS   float64        `json:"avgProcessingMs"`
	FeedbackCount     int            `json:"feedbackCount"`
	AvgFeedbackRating float64        `json:"avgFeedbackRating"`
}
