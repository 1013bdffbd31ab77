package controller

import (
	"fmt"
	"net/http"
	"testing"
)

func TestExamSubmitOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAdmin(t, router)

	var q1, q2 struct {
		ID uint `json:"id"`
	}

	w := doJSON(router, http.MethodPost, "/exam/questions",
		`{"question_text":"Q1","option_a":"A1","option_b":"B1","correct_answer":"A"}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("create question status = %d, body = %s", w.Code, w.Body.String())
	}
	if err := jsonDecode(w, &q1); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(router, http.MethodPost, "/exam/questions",
		`{"question_text":"Q2","option_a":"A2","option_b":"B2","correct_answer":"B"}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("create question status = %d", w.Code)
	}
	if err := jsonDecode(w, &q2); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// 公开端点看不到答案
	w = doJSON(router, http.MethodGet, "/exam/public/questions", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("public questions status = %d", w.Code)
	}
	var public []map[string]interface{}
	if err := jsonDecode(w, &public); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(public) != 2 {
		t.Fatalf("public questions = %d, want 2", len(public))
	}
	for _, q := range public {
		if _, ok := q["correct_answer"]; ok {
			t.Error("public question leaked correct_answer")
		}
		if _, ok := q["explanation"]; ok {
			t.Error("public question leaked explanation")
		}
	}

	body := fmt.Sprintf(`{
		"session_id": "s1",
		"answers": [
			{"question_id": %d, "selected_answer": "a"},
			{"question_id": %d, "selected_answer": "A"},
			{"question_id": 99999, "selected_answer": "A"}
		]
	}`, q1.ID, q2.ID)

	w = doJSON(router, http.MethodPost, "/exam/public/submit", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body = %s", w.Code, w.Body.String())
	}
	var result struct {
		TotalQuestions  int     `json:"total_questions"`
		CorrectAnswers  int     `json:"correct_answers"`
		ScorePercentage float64 `json:"score_percentage"`
		Passed          bool    `json:"passed"`
	}
	if err := jsonDecode(w, &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.TotalQuestions != 2 || result.CorrectAnswers != 1 {
		t.Errorf("total/correct = %d/%d, want 2/1", result.TotalQuestions, result.CorrectAnswers)
	}
	if result.ScorePercentage != 50 {
		t.Errorf("score = %f, want 50", result.ScorePercentage)
	}
	if result.Passed {
		t.Error("passed = true, want false with passing score 70")
	}

	// 成绩查询需要认证
	w = doJSON(router, http.MethodGet, "/exam/results", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("results unauthenticated status = %d, want 401", w.Code)
	}
	w = doJSON(router, http.MethodGet, "/exam/results", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("results status = %d", w.Code)
	}
	var records []map[string]interface{}
	if err := jsonDecode(w, &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want 1", len(records))
	}
}
