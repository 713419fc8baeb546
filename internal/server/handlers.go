package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/grpc/codes"

	"github.com/joseph-ayodele/case-summarizer/constants"
	"github.com/joseph-ayodele/case-summarizer/internal/async"
	"github.com/joseph-ayodele/case-summarizer/internal/common"
	"github.com/joseph-ayodele/case-summarizer/internal/entity"
	"github.com/joseph-ayodele/case-summarizer/internal/repository"
)

// multipart overhead allowed on top of the file itself
const uploadSlack = 1 << 20

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"service": ServiceName, "status": "running"})
}

type caseItem struct {
	CaseID     string               `json:"caseId"`
	FileName   string               `json:"fileName"`
	Status     constants.CaseStatus `json:"status"`
	UploadedAt time.Time            `json:"uploadedAt"`
}

func (s *Server) listCases(w http.ResponseWriter, r *http.Request) {
	cases, err := s.Cases.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	items := make([]caseItem, 0, len(cases))
	for _, c := range cases {
		items = append(items, caseItem{CaseID: c.ID, FileName: c.FileName, Status: c.Status, UploadedAt: c.UploadedAt})
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"cases": items})
}

type uploadResponse struct {
	Success   bool   `json:"success"`
	CaseID    string `json:"caseId"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxFileSize+uploadSlack)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.fail(w, r, fmt.Errorf("upload: %w", common.ErrTooLarge))
			return
		}
		s.fail(w, r, fmt.Errorf("%w: multipart field \"file\" is required", common.ErrInvalidInput))
		return
	}
	defer file.Close()

	res, err := s.Ingestor.IngestUpload(r.Context(), hdr.Filename, file)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if res.Deduplicated {
		s.writeJSON(w, r, http.StatusOK, uploadResponse{
			Success: true, CaseID: res.CaseID, Status: strings.ToLower(string(res.Status)), Duplicate: true,
		})
		return
	}

	job := async.Job{CaseID: res.CaseID, SubmittedAt: time.Now(), RequestID: common.RequestIDFromContext(r.Context())}
	if err := s.Queue.Enqueue(r.Context(), job); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, uploadResponse{Success: true, CaseID: res.CaseID, Status: "queued"})
}

// result returns the extracted text of a processed case.
func (s *Server) result(w http.ResponseWriter, r *http.Request) {
	id, err := pathCaseID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.Cases.GetByID(r.Context(), id)
	if err == nil && !c.HasText() {
		err = common.ErrNotProcessed
	}
	if err != nil {
		if common.Code(err) == codes.NotFound {
			s.clientError(w, r, http.StatusNotFound, "Case not processed yet")
			return
		}
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]string{"caseId": c.ID, "summary": c.RawText})
}

// summary returns the stored structured summary, or builds one from the
// stored text when the case has text but no summary yet.
func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	id, err := pathCaseID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	stored, err := s.Summaries.Get(r.Context(), id)
	if err == nil {
		s.writeJSON(w, r, http.StatusOK, stored.Summary)
		return
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.fail(w, r, err)
		return
	}

	c, err := s.Cases.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !c.HasText() {
		s.fail(w, r, fmt.Errorf("case %s: %w", id, common.ErrNotProcessed))
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.Extractor.Extract(c.RawText))
}

type feedbackRequest struct {
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

func (s *Server) addFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathCaseID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req feedbackRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	v := common.NewValidator().
		Field("rating", req.Rating, common.IntRange(1, 5)).
		Field("comments", req.Comments, common.MaxLength(2000))
	if err := v.Error(); err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.Cases.GetByID(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}

	fb := &entity.Feedback{CaseID: id, Rating: req.Rating, Comments: strings.TrimSpace(req.Comments)}
	if err := s.Feedback.Add(r.Context(), fb); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, fb)
}

func (s *Server) listFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathCaseID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	items, err := s.Feedback.ListByCase(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if items == nil {
		items = []entity.Feedback{}
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"feedback": items})
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	byStatus, err := s.Cases.CountByStatus(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	avg, _, err := s.Metrics.Average(ctx, repository.MetricProcessingMS)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	count, rating, err := s.Feedback.Stats(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := entity.Analytics{ByStatus: map[string]int{}, AvgProcessingMS: avg, FeedbackCount: count, AvgFeedbackRating: rating}
	for _, st := range constants.CaseStatuses {
		out.ByStatus[string(st)] = byStatus[string(st)]
		out.TotalCases += byStatus[string(st)]
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) exportXLSX(w http.ResponseWriter, r *http.Request) {
	parseDate := func(key string) (*time.Time, error) {
		v := strings.TrimSpace(r.URL.Query().Get(key))
		if v == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", common.ErrInvalidInput, key)
		}
		return &t, nil
	}
	from, err := parseDate("from")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	to, err := parseDate("to")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data, err := s.Exporter.ExportCasesXLSX(r.Context(), from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	name := fmt.Sprintf("cases-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.WarnContext(r.Context(), "failed to write export", "error", err)
	}
}
