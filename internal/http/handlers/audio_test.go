package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lexibridge/lexibridge-backend/internal/audiopipeline"
)

type fakeOnDemand struct {
	resp audiopipeline.GenerateResponse
	err  error

	gotReq audiopipeline.GenerateRequest
}

func (f *fakeOnDemand) Generate(_ context.Context, req audiopipeline.GenerateRequest) (audiopipeline.GenerateResponse, error) {
	f.gotReq = req
	return f.resp, f.err
}

func newAudioRouter(svc audiopipeline.OnDemandService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/admin/audio/generate", NewAudioHandler(svc).Generate)
	return r
}

func TestGenerateEndpointOK(t *testing.T) {
	url := "https://storage.googleapis.com/b/auto_audio/q1/introduction.mp3"
	fake := &fakeOnDemand{
		resp: audiopipeline.GenerateResponse{
			IntroductionAudio: &url,
			Dialogs: []audiopipeline.GenerateDialogResult{
				{ID: "d1"},
			},
		},
	}
	r := newAudioRouter(fake)

	body := `{"docId":"q1","introduction":"Intro","dialogs":[{"id":"d1","originalText":"","translation":""}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/audio/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if fake.gotReq.DocID != "q1" || fake.gotReq.Introduction != "Intro" {
		t.Fatalf("payload not bound: %+v", fake.gotReq)
	}

	var resp struct {
		IntroductionAudio *string `json:"introductionAudio"`
		Dialogs           []struct {
			ID               string  `json:"id"`
			DialogAudio      *string `json:"dialogAudio"`
			TranslationAudio *string `json:"translationAudio"`
		} `json:"dialogs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.IntroductionAudio == nil || *resp.IntroductionAudio != url {
		t.Fatalf("unexpected introductionAudio: %v", resp.IntroductionAudio)
	}
	if len(resp.Dialogs) != 1 || resp.Dialogs[0].DialogAudio != nil {
		t.Fatalf("expected null dialog audio for empty text: %s", w.Body.String())
	}
}

func TestGenerateEndpointUnavailable(t *testing.T) {
	fake := &fakeOnDemand{err: audiopipeline.ErrSynthesisUnavailable}
	r := newAudioRouter(fake)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/audio/generate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"failed-precondition"`) {
		t.Fatalf("expected failed-precondition code, got %s", w.Body.String())
	}
}

func TestGenerateEndpointSynthesisFailure(t *testing.T) {
	fake := &fakeOnDemand{err: errors.New("provider quota exceeded")}
	r := newAudioRouter(fake)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/audio/generate", strings.NewReader(`{"introduction":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"internal"`) {
		t.Fatalf("expected internal code, got %s", w.Body.String())
	}
}

func TestGenerateEndpointBadJSON(t *testing.T) {
	r := newAudioRouter(&fakeOnDemand{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/audio/generate", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
