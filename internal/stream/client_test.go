package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{AccountID: "acct123", APIToken: "tok", APIBase: server.URL})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return client, server
}

func TestCreateDirectUpload(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/accounts/acct123/stream/direct_upload" {
			t.Errorf("requisição inesperada: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %s", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result":  map[string]any{"uploadURL": "https://upload.example/one-time", "uid": "vid1"},
		})
	}))

	result, err := client.CreateDirectUpload(context.Background(), DirectUploadInput{
		MaxDurationSeconds: 300,
		Meta:               map[string]string{"userId": "u1"},
	})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if result.UploadURL != "https://upload.example/one-time" || result.UID != "vid1" {
		t.Errorf("resultado inesperado: %+v", result)
	}
	if gotBody["maxDurationSeconds"] != float64(300) {
		t.Errorf("maxDurationSeconds = %v", gotBody["maxDurationSeconds"])
	}
	if gotBody["requireSignedURLs"] != false {
		t.Errorf("requireSignedURLs = %v", gotBody["requireSignedURLs"])
	}
	meta, _ := gotBody["meta"].(map[string]any)
	if meta["userId"] != "u1" {
		t.Errorf("meta = %v", gotBody["meta"])
	}
}

func TestGetVideo(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/accounts/acct123/stream/vid1" {
			t.Errorf("requisição inesperada: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"success": true,
			"result": {
				"uid": "vid1",
				"readyToStream": true,
				"thumbnail": "https://thumb",
				"duration": 12.4,
				"meta": {"userId": "u1"},
				"status": {"state": "ready"},
				"playback": {"hls": "https://hls"},
				"input": {"width": 1280, "height": 720}
			}
		}`))
	}))

	video, err := client.GetVideo(context.Background(), "vid1")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if !video.ReadyToStream || video.Meta["userId"] != "u1" || video.Playback.HLS != "https://hls" {
		t.Errorf("vídeo inesperado: %+v", video)
	}
	if video.Input.Width != 1280 || video.Input.Height != 720 {
		t.Errorf("dimensões inesperadas: %+v", video.Input)
	}
}

func TestDeleteVideo(t *testing.T) {
	var deleted string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = r.URL.Path
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.DeleteVideo(context.Background(), "vid1"); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if deleted != "/accounts/acct123/stream/vid1" {
		t.Errorf("path de exclusão = %s", deleted)
	}
}

func TestAPIErrorsAreJoined(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"errors":  []map[string]string{{"message": "token expired"}, {"message": "account blocked"}},
		})
	}))

	_, err := client.GetVideo(context.Background(), "vid1")
	if err == nil {
		t.Fatal("esperava erro")
	}
	if !strings.Contains(err.Error(), "token expired") || !strings.Contains(err.Error(), "account blocked") {
		t.Errorf("mensagens não agregadas: %v", err)
	}
}

func TestHTTPErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	if err := client.DeleteVideo(context.Background(), "vid1"); err == nil {
		t.Fatal("status >= 400 deveria virar erro")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{AccountID: "", APIToken: "tok"}); err == nil {
		t.Error("account id vazio deveria falhar")
	}
	if _, err := New(Config{AccountID: "acct", APIToken: ""}); err == nil {
		t.Error("token vazio deveria falhar")
	}
}
