package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danielhkuo/soulmate/matching"
)

func TestObserveRun(t *testing.T) {
	before := testutil.ToFloat64(matchRuns.WithLabelValues("success"))

	results := []matching.GroupResult{
		{
			Level:        "Terminale",
			Participants: make([]matching.Participant, 5),
			Day1:         matching.Round{Trio: []int{0, 1, 4}},
			Day2:         matching.Round{Trio: []int{1, 2, 4}},
		},
		{
			Level:        "Seconde",
			Participants: make([]matching.Participant, 4),
		},
	}
	ObserveRun(20*time.Millisecond, results, nil)

	if got := testutil.ToFloat64(matchRuns.WithLabelValues("success")); got != before+1 {
		t.Errorf("Expected success count %v, got %v", before+1, got)
	}
	if got := testutil.ToFloat64(groupSize.WithLabelValues("Terminale")); got != 5 {
		t.Errorf("Expected 5 Terminale participants, got %v", got)
	}
	if got := testutil.ToFloat64(trios.WithLabelValues("Terminale", "2")); got != 1 {
		t.Errorf("Expected a day 2 trio, got %v", got)
	}
	if got := testutil.ToFloat64(trios.WithLabelValues("Seconde", "1")); got != 0 {
		t.Errorf("Expected no Seconde trio, got %v", got)
	}
}

func TestObserveRun_Error(t *testing.T) {
	before := testutil.ToFloat64(matchRuns.WithLabelValues("error"))
	ObserveRun(time.Millisecond, nil, errors.New("boom"))
	if got := testutil.ToFloat64(matchRuns.WithLabelValues("error")); got != before+1 {
		t.Errorf("Expected error count %v, got %v", before+1, got)
	}
}

func TestHandler(t *testing.T) {
	RecordImport(3, 1)
	RecordEmail("sent")

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, name := range []string{"soulmate_import_records_total", "soulmate_emails_total", "soulmate_match_duration_seconds"} {
		if !strings.Contains(body, name) {
			t.Errorf("Expected %s in metrics output", name)
		}
	}
}
